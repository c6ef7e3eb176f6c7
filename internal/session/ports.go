package session

import (
	"context"
)

// Store persists the credential and the logged-in flag.
type Store interface {
	LoadCredential(ctx context.Context) (cred Credential, found bool, err error)
	SaveCredential(ctx context.Context, cred Credential) error
	LoggedIn(ctx context.Context) (bool, error)
	// SetLoggedIn writes the flag when true and removes it when false.
	SetLoggedIn(ctx context.Context, loggedIn bool) error
}
