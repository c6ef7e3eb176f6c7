package book

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Service provides the add and reset operations on the persisted book list.
type Service struct {
	repo  Repository
	newID func() string
	mu    sync.Mutex
}

// NewService creates a new book service.
func NewService(repo Repository) *Service {
	return &Service{
		repo:  repo,
		newID: func() string { return uuid.New().String() },
	}
}

// AddBook prepends a record built from the draft to the persisted list.
// A blank title is rejected with ErrTitleRequired and nothing is written.
func (s *Service) AddBook(ctx context.Context, d Draft) (Book, error) {
	if d.blankTitle() {
		return Book{}, ErrTitleRequired
	}

	visibility := d.Visibility
	if visibility == "" {
		visibility = VisibilityPublic
	}
	b := Book{
		ID:          s.newID(),
		Title:       d.Title,
		Author:      d.Author,
		Image:       d.Image,
		Description: d.Description,
		Visibility:  visibility,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, _, err := s.repo.LoadBooks(ctx)
	if err != nil {
		return Book{}, fmt.Errorf("load books: %w", err)
	}

	updated := make([]Book, 0, len(current)+1)
	updated = append(updated, b)
	updated = append(updated, current...)
	if err := s.repo.SaveBooks(ctx, updated); err != nil {
		return Book{}, fmt.Errorf("save books: %w", err)
	}
	return b, nil
}

// Reset removes the persisted list.
func (s *Service) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.ClearBooks(ctx)
}

// SaveIfAbsent stores books only when no list is persisted yet, under the
// same lock as AddBook. It returns the list as it reads back from the
// store, which is the existing list when one was written first.
func (s *Service) SaveIfAbsent(ctx context.Context, books []Book) ([]Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, found, err := s.repo.LoadBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("load books: %w", err)
	}
	if !found {
		if err := s.repo.SaveBooks(ctx, books); err != nil {
			return nil, fmt.Errorf("save books: %w", err)
		}
		current, _, err = s.repo.LoadBooks(ctx)
		if err != nil {
			return nil, fmt.Errorf("reload books: %w", err)
		}
	}
	return current, nil
}
