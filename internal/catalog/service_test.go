package catalog

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"bookshelf/internal/book"
	"bookshelf/internal/platform/googlebooks"
	"bookshelf/internal/session"
	"bookshelf/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newResolver(t *testing.T) (*Resolver, *store.Records, *store.Memory, *mockSearcher) {
	t.Helper()
	kv := store.NewMemory()
	repo := store.NewRecords(kv)
	searcher := &mockSearcher{}
	t.Cleanup(func() { searcher.AssertExpectations(t) })
	return NewResolver(repo, book.NewService(repo), searcher, Config{}), repo, kv, searcher
}

func TestResolver_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("stored list wins without a fetch", func(t *testing.T) {
		r, repo, _, _ := newResolver(t)
		stored := []book.Book{{Title: "Kept", Visibility: book.VisibilityPrivate}}
		require.NoError(t, repo.SaveBooks(ctx, stored))

		got, err := r.Resolve(ctx, true)
		require.NoError(t, err)
		assert.Equal(t, stored, got)
	})

	t.Run("stored empty list is not refetched", func(t *testing.T) {
		r, repo, _, _ := newResolver(t)
		require.NoError(t, repo.SaveBooks(ctx, []book.Book{}))

		got, err := r.Resolve(ctx, true)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("guest fetches and writes back", func(t *testing.T) {
		r, repo, _, searcher := newResolver(t)
		searcher.On("SearchVolumes", mock.Anything, DefaultSearchTerm, DefaultMaxResults).
			Return(&googlebooks.VolumesResponse{Items: []googlebooks.Volume{volume("A"), {ID: "untitled"}, volume("B")}}, nil).Once()

		got, err := r.Resolve(ctx, true)
		require.NoError(t, err)
		require.Len(t, got, 2)
		for _, b := range got {
			assert.Equal(t, book.VisibilityPublic, b.Visibility)
		}

		saved, found, err := repo.LoadBooks(ctx)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, got, saved)

		again, err := r.Resolve(ctx, true)
		require.NoError(t, err)
		assert.Equal(t, got, again)
	})

	t.Run("write back is capped", func(t *testing.T) {
		r, repo, _, searcher := newResolver(t)
		items := make([]googlebooks.Volume, 0, 50)
		for i := 0; i < 50; i++ {
			items = append(items, volume(fmt.Sprintf("Book %d", i)))
		}
		searcher.On("SearchVolumes", mock.Anything, DefaultSearchTerm, DefaultMaxResults).
			Return(&googlebooks.VolumesResponse{Items: items}, nil).Once()

		got, err := r.Resolve(ctx, true)
		require.NoError(t, err)
		assert.Len(t, got, DefaultMaxResults)

		saved, _, err := repo.LoadBooks(ctx)
		require.NoError(t, err)
		assert.Len(t, saved, DefaultMaxResults)
	})

	t.Run("book added during the fetch is kept", func(t *testing.T) {
		kv := store.NewMemory()
		repo := store.NewRecords(kv)
		books := book.NewService(repo)
		searcher := &mockSearcher{}
		defer searcher.AssertExpectations(t)
		r := NewResolver(repo, books, searcher, Config{})

		searcher.On("SearchVolumes", mock.Anything, DefaultSearchTerm, DefaultMaxResults).
			Run(func(args mock.Arguments) {
				_, err := books.AddBook(args.Get(0).(context.Context), book.Draft{Title: "Mine"})
				require.NoError(t, err)
			}).
			Return(&googlebooks.VolumesResponse{Items: []googlebooks.Volume{volume("Remote")}}, nil).Once()

		got, err := r.Resolve(ctx, true)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Mine", got[0].Title)

		saved, _, err := repo.LoadBooks(ctx)
		require.NoError(t, err)
		assert.Equal(t, got, saved)
	})

	t.Run("non guest sees empty list without fetch", func(t *testing.T) {
		r, repo, _, _ := newResolver(t)

		got, err := r.Resolve(ctx, false)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)

		_, found, err := repo.LoadBooks(ctx)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("remote failure yields empty list", func(t *testing.T) {
		r, repo, _, searcher := newResolver(t)
		searcher.On("SearchVolumes", mock.Anything, DefaultSearchTerm, DefaultMaxResults).
			Return(nil, errors.New("status 503")).Once()

		got, err := r.Resolve(ctx, true)
		require.NoError(t, err)
		assert.Empty(t, got)

		_, found, err := repo.LoadBooks(ctx)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("malformed stored list is an error", func(t *testing.T) {
		r, _, kv, _ := newResolver(t)
		require.NoError(t, kv.Set(ctx, store.KeyBooks, "{not json"))

		_, err := r.Resolve(ctx, true)
		assert.ErrorContains(t, err, "load books")
	})
}

func TestResolver_FindByTitle(t *testing.T) {
	ctx := context.Background()
	public := book.Book{Title: "Go in Action", Authors: []string{"B"}, Visibility: book.VisibilityPublic}
	private := book.Book{ID: "1", Title: "My Notes", Author: "Ana", Visibility: book.VisibilityPrivate}

	t.Run("stored match", func(t *testing.T) {
		r, repo, _, _ := newResolver(t)
		require.NoError(t, repo.SaveBooks(ctx, []book.Book{private, public}))

		got, err := r.FindByTitle(ctx, "Go in Action", session.Guest())
		require.NoError(t, err)
		assert.Equal(t, public, got)
	})

	t.Run("private record is visible when authenticated", func(t *testing.T) {
		r, repo, _, _ := newResolver(t)
		require.NoError(t, repo.SaveBooks(ctx, []book.Book{private}))

		got, err := r.FindByTitle(ctx, "My Notes", session.Authenticated("ana"))
		require.NoError(t, err)
		assert.Equal(t, private, got)
	})

	t.Run("private record is hidden from guests", func(t *testing.T) {
		r, repo, _, _ := newResolver(t)
		require.NoError(t, repo.SaveBooks(ctx, []book.Book{private}))

		_, err := r.FindByTitle(ctx, "My Notes", session.Guest())
		assert.ErrorIs(t, err, book.ErrNotFound)
	})

	t.Run("remote fallback is not persisted", func(t *testing.T) {
		r, repo, _, searcher := newResolver(t)
		require.NoError(t, repo.SaveBooks(ctx, []book.Book{public}))
		searcher.On("SearchVolumes", mock.Anything, "Learning Go", 0).
			Return(&googlebooks.VolumesResponse{Items: []googlebooks.Volume{volume("Learning Go", "Jon"), volume("Other")}}, nil).Once()

		got, err := r.FindByTitle(ctx, "Learning Go", session.Guest())
		require.NoError(t, err)
		assert.Equal(t, "Learning Go", got.Title)
		assert.Equal(t, []string{"Jon"}, got.Authors)

		saved, _, err := repo.LoadBooks(ctx)
		require.NoError(t, err)
		assert.Equal(t, []book.Book{public}, saved)
	})

	t.Run("remote miss", func(t *testing.T) {
		r, _, _, searcher := newResolver(t)
		searcher.On("SearchVolumes", mock.Anything, "Nothing", 0).
			Return(&googlebooks.VolumesResponse{}, nil).Once()

		_, err := r.FindByTitle(ctx, "Nothing", session.Guest())
		assert.ErrorIs(t, err, book.ErrNotFound)
	})

	t.Run("remote failure is a miss", func(t *testing.T) {
		r, _, _, searcher := newResolver(t)
		searcher.On("SearchVolumes", mock.Anything, "Down", 0).
			Return(nil, errors.New("timeout")).Once()

		_, err := r.FindByTitle(ctx, "Down", session.Authenticated("ana"))
		assert.ErrorIs(t, err, book.ErrNotFound)
	})
}
