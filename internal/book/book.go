package book

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when a book cannot be found by title.
	ErrNotFound = errors.New("book not found")
	// ErrTitleRequired is returned when a draft has a blank title.
	ErrTitleRequired = errors.New("book title is required")
)

// NoticeTitleRequired is shown to the user when a draft is rejected.
const NoticeTitleRequired = "Please enter a title for the new book."

// NoDescription is the description of records whose source carried none.
const NoDescription = "No description available"

// Visibility is the access tier of a book record.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// Book is a catalog record. Remote-sourced records carry Authors and no ID;
// user-added records carry Author and a generated ID.
type Book struct {
	ID          string     `json:"id,omitempty"`
	Title       string     `json:"title"`
	Authors     []string   `json:"authors,omitempty"`
	Author      string     `json:"author,omitempty"`
	Image       string     `json:"image,omitempty"`
	Description string     `json:"description,omitempty"`
	Visibility  Visibility `json:"visibility,omitempty"`
}

// IsPublic reports whether every session may see the record.
// Records stored without a visibility are public.
func (b Book) IsPublic() bool {
	return b.Visibility != VisibilityPrivate
}

// Draft is the user-entered form of a new book.
type Draft struct {
	Title       string     `json:"title"`
	Author      string     `json:"author"`
	Image       string     `json:"image"`
	Description string     `json:"description"`
	Visibility  Visibility `json:"visibility"`
}

// EmptyDraft returns the form defaults.
func EmptyDraft() Draft {
	return Draft{Visibility: VisibilityPublic}
}

func (d Draft) blankTitle() bool {
	return strings.TrimSpace(d.Title) == ""
}
