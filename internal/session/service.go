package session

import (
	"context"
	"fmt"
	"log"
	"sync"
)

// Gate is the session state machine. Every transition persists through the
// injected Store before the in-memory state changes.
type Gate struct {
	store Store
	mu    sync.Mutex
	state State
}

// NewGate restores the session from the persisted logged-in flag.
func NewGate(ctx context.Context, store Store) (*Gate, error) {
	loggedIn, err := store.LoggedIn(ctx)
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	g := &Gate{store: store, state: Anonymous()}
	if loggedIn {
		g.state = Authenticated("")
	}
	return g, nil
}

// Current returns the current state.
func (g *Gate) Current() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Login authenticates against the stored credential. On failure the state
// is left unchanged and ErrInvalidCredentials is returned.
func (g *Gate) Login(ctx context.Context, username, password string) (State, string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.Authenticated() {
		return g.state, "", ErrInvalidTransition
	}

	cred, found, err := g.store.LoadCredential(ctx)
	if err != nil {
		return g.state, "", fmt.Errorf("load credential: %w", err)
	}
	if !found || cred.Username != username || !VerifyPassword(cred.Password, password) {
		log.Printf("session login rejected username=%q", username)
		return g.state, NoticeInvalidCredentials, ErrInvalidCredentials
	}

	if err := g.store.SetLoggedIn(ctx, true); err != nil {
		return g.state, "", fmt.Errorf("persist login: %w", err)
	}
	g.state = Authenticated(username)
	return g.state, welcomeBack(username), nil
}

// Signup overwrites the stored credential and authenticates.
func (g *Gate) Signup(ctx context.Context, in Signup) (State, string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.Authenticated() {
		return g.state, "", ErrInvalidTransition
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return g.state, "", fmt.Errorf("hash password: %w", err)
	}
	cred := Credential{
		Username: in.Username,
		Email:    in.Email,
		Phone:    in.Phone,
		Password: hash,
	}
	if err := g.store.SaveCredential(ctx, cred); err != nil {
		return g.state, "", fmt.Errorf("save credential: %w", err)
	}
	if err := g.store.SetLoggedIn(ctx, true); err != nil {
		return g.state, "", fmt.Errorf("persist login: %w", err)
	}
	g.state = Authenticated(in.Username)
	return g.state, welcome(in.Username), nil
}

// ChooseGuest enters guest mode. The persisted logged-in flag is always
// cleared so a stale flag cannot outrank the explicit choice after a restart.
func (g *Gate) ChooseGuest(ctx context.Context) (State, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.Authenticated() {
		return g.state, ErrInvalidTransition
	}
	if err := g.store.SetLoggedIn(ctx, false); err != nil {
		return g.state, fmt.Errorf("clear login flag: %w", err)
	}
	g.state = Guest()
	return g.state, nil
}

// Logout ends an authenticated session. Guest mode has no logout.
func (g *Gate) Logout(ctx context.Context) (State, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.state.Authenticated() {
		return g.state, ErrInvalidTransition
	}
	if err := g.store.SetLoggedIn(ctx, false); err != nil {
		return g.state, fmt.Errorf("clear login flag: %w", err)
	}
	g.state = Anonymous()
	return g.state, nil
}
