package store

import (
	"context"
	"encoding/json"
	"fmt"

	"bookshelf/internal/book"
	"bookshelf/internal/session"
)

// Records is the typed JSON layer over a KV. It satisfies book.Repository
// and session.Store. Stored values are not validated beyond decoding, so a
// malformed value surfaces as an error from the read.
type Records struct {
	kv KV
}

var (
	_ book.Repository = (*Records)(nil)
	_ session.Store   = (*Records)(nil)
)

func NewRecords(kv KV) *Records {
	return &Records{kv: kv}
}

func (r *Records) getJSON(ctx context.Context, key string, target any) (bool, error) {
	raw, found, err := r.kv.Get(ctx, key)
	if err != nil || !found {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), target); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (r *Records) setJSON(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return r.kv.Set(ctx, key, string(raw))
}

func (r *Records) LoadBooks(ctx context.Context) ([]book.Book, bool, error) {
	var books []book.Book
	found, err := r.getJSON(ctx, KeyBooks, &books)
	if err != nil || !found {
		return nil, false, err
	}
	if books == nil {
		books = []book.Book{}
	}
	return books, true, nil
}

func (r *Records) SaveBooks(ctx context.Context, books []book.Book) error {
	if books == nil {
		books = []book.Book{}
	}
	return r.setJSON(ctx, KeyBooks, books)
}

func (r *Records) ClearBooks(ctx context.Context) error {
	return r.kv.Delete(ctx, KeyBooks)
}

func (r *Records) LoadCredential(ctx context.Context) (session.Credential, bool, error) {
	var cred session.Credential
	found, err := r.getJSON(ctx, KeyUserData, &cred)
	return cred, found, err
}

func (r *Records) SaveCredential(ctx context.Context, cred session.Credential) error {
	return r.setJSON(ctx, KeyUserData, cred)
}

func (r *Records) LoggedIn(ctx context.Context) (bool, error) {
	var loggedIn bool
	if _, err := r.getJSON(ctx, KeyLoggedIn, &loggedIn); err != nil {
		return false, err
	}
	return loggedIn, nil
}

func (r *Records) SetLoggedIn(ctx context.Context, loggedIn bool) error {
	if !loggedIn {
		return r.kv.Delete(ctx, KeyLoggedIn)
	}
	return r.setJSON(ctx, KeyLoggedIn, true)
}
