// Package store holds the key-value backends that play the role of browser
// local storage, and the typed record layer on top of them.
package store

import (
	"context"
	"fmt"
)

// Storage keys.
const (
	KeyBooks    = "books"
	KeyUserData = "userData"
	KeyLoggedIn = "loggedIn"
)

// KV is string-valued key-value storage. Get reports found=false for a
// missing key. Delete of a missing key is not an error.
type KV interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// Driver names accepted by Open.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Open returns the backend named by driver. dsn is a file path for sqlite
// and a connection string for postgres; memory ignores it.
func Open(ctx context.Context, driver, dsn string) (KV, error) {
	switch driver {
	case DriverMemory:
		return NewMemory(), nil
	case DriverSQLite, "":
		kv, err := OpenSQLite(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return kv, nil
	case DriverPostgres:
		kv, err := OpenPostgres(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return kv, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}
