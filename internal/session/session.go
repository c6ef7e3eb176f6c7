package session

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials is returned when login does not match the stored credential.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrInvalidTransition is returned when an action is not allowed from the current state.
	ErrInvalidTransition = errors.New("invalid session transition")
)

// NoticeInvalidCredentials is shown to the user on a failed login.
const NoticeInvalidCredentials = "Invalid username or password"

// Mode is the kind of session.
type Mode string

const (
	ModeAnonymous     Mode = "anonymous"
	ModeGuest         Mode = "guest"
	ModeAuthenticated Mode = "authenticated"
)

// State is the current session. Username is only set for authenticated
// sessions and is empty after a restart restores the persisted flag.
type State struct {
	Mode     Mode   `json:"mode"`
	Username string `json:"username,omitempty"`
}

func Anonymous() State { return State{Mode: ModeAnonymous} }

func Guest() State { return State{Mode: ModeGuest} }

func Authenticated(username string) State {
	return State{Mode: ModeAuthenticated, Username: username}
}

func (s State) Authenticated() bool { return s.Mode == ModeAuthenticated }

func (s State) Guest() bool { return s.Mode == ModeGuest }

func (s State) Anonymous() bool { return s.Mode == ModeAnonymous || s.Mode == "" }

// Credential is the single signed-up user. Password holds a bcrypt hash.
type Credential struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// Signup is the user-entered signup form.
type Signup struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

func welcomeBack(username string) string {
	return fmt.Sprintf("Welcome back, %s!", username)
}

func welcome(username string) string {
	return fmt.Sprintf("Welcome, %s!", username)
}
