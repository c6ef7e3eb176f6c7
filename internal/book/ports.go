package book

import (
	"context"
)

// Repository defines the contract for persisted book list storage.
// LoadBooks reports found=false when no list has ever been persisted.
type Repository interface {
	LoadBooks(ctx context.Context) (books []Book, found bool, err error)
	SaveBooks(ctx context.Context, books []Book) error
	ClearBooks(ctx context.Context) error
}
