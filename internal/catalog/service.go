package catalog

import (
	"context"
	"fmt"
	"log"
	"sync"

	"bookshelf/internal/book"
	"bookshelf/internal/session"
)

// Resolver decides where the book list comes from: the persisted list if
// one exists, otherwise a single remote fetch in guest mode.
type Resolver struct {
	repo   book.Repository
	books  ListWriter
	client VolumeSearcher
	cfg    Config
	mu     sync.Mutex
}

// ListWriter persists a fetched list unless one was stored meanwhile.
// book.Service implements it under the lock AddBook uses.
type ListWriter interface {
	SaveIfAbsent(ctx context.Context, books []book.Book) ([]book.Book, error)
}

func NewResolver(repo book.Repository, books ListWriter, client VolumeSearcher, cfg Config) *Resolver {
	return &Resolver{repo: repo, books: books, client: client, cfg: cfg.withDefaults()}
}

// Resolve returns the book list for the current view. Remote failures are
// logged and yield an empty list; only storage failures are returned.
func (r *Resolver) Resolve(ctx context.Context, guestMode bool) ([]book.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	books, found, err := r.repo.LoadBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("load books: %w", err)
	}
	if found {
		return books, nil
	}
	if !guestMode {
		return []book.Book{}, nil
	}

	res, err := r.client.SearchVolumes(ctx, r.cfg.SearchTerm, r.cfg.MaxResults)
	if err != nil {
		log.Printf("catalog remote fetch failed term=%q error=%v", r.cfg.SearchTerm, err)
		return []book.Book{}, nil
	}

	books = NormalizeVolumes(res.Items)
	if len(books) > r.cfg.MaxResults {
		books = books[:r.cfg.MaxResults]
	}
	stored, err := r.books.SaveIfAbsent(ctx, books)
	if err != nil {
		return nil, err
	}
	log.Printf("catalog cached remote books term=%q fetched=%d stored=%d", r.cfg.SearchTerm, len(books), len(stored))
	return stored, nil
}

// FindByTitle looks the title up in the persisted list, then falls back to
// the first remote match. Records the session may not see count as misses.
func (r *Resolver) FindByTitle(ctx context.Context, title string, state session.State) (book.Book, error) {
	stored, _, err := r.repo.LoadBooks(ctx)
	if err != nil {
		return book.Book{}, fmt.Errorf("load books: %w", err)
	}
	for _, b := range stored {
		if b.Title != title {
			continue
		}
		if !book.Visible(b, state) {
			log.Printf("catalog detail hidden title=%q", title)
			return book.Book{}, book.ErrNotFound
		}
		return b, nil
	}

	res, err := r.client.SearchVolumes(ctx, title, 0)
	if err != nil {
		log.Printf("catalog detail fetch failed title=%q error=%v", title, err)
		return book.Book{}, book.ErrNotFound
	}
	if len(res.Items) == 0 {
		log.Printf("catalog detail miss title=%q", title)
		return book.Book{}, book.ErrNotFound
	}
	b, ok := NormalizeVolume(res.Items[0])
	if !ok {
		log.Printf("catalog detail miss title=%q reason=untitled", title)
		return book.Book{}, book.ErrNotFound
	}
	return b, nil
}
