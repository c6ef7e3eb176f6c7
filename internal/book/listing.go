package book

import (
	"strings"

	"bookshelf/internal/session"
)

// DefaultPageSize is the number of books shown per page.
const DefaultPageSize = 10

// Page is one window of a filtered book list.
type Page struct {
	Books      []Book `json:"books"`
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
	Total      int    `json:"total"`
	TotalPages int    `json:"total_pages"`
}

// Visible reports whether the record may be shown to the given session.
func Visible(b Book, state session.State) bool {
	return b.IsPublic() || state.Authenticated()
}

// Filter keeps the records whose title contains query, ignoring case,
// and that the session may see.
func Filter(records []Book, query string, state session.State) []Book {
	needle := strings.ToLower(query)
	out := make([]Book, 0, len(records))
	for _, b := range records {
		if !strings.Contains(strings.ToLower(b.Title), needle) {
			continue
		}
		if !Visible(b, state) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// Apply filters records and returns the requested one-based page.
// A page outside the filtered range is empty, not an error.
func Apply(records []Book, query string, state session.State, page, pageSize int) Page {
	filtered := Filter(records, query, state)

	p := Page{
		Books:    []Book{},
		Page:     page,
		PageSize: pageSize,
		Total:    len(filtered),
	}
	if pageSize < 1 {
		return p
	}
	p.TotalPages = (len(filtered) + pageSize - 1) / pageSize

	if page < 1 {
		return p
	}
	start := (page - 1) * pageSize
	if start >= len(filtered) {
		return p
	}
	end := min(start+pageSize, len(filtered))
	p.Books = filtered[start:end]
	return p
}
