package catalog

import (
	"context"
	"log"
	"strings"

	"bookshelf/internal/book"
	"bookshelf/internal/platform/googlebooks"
)

// Defaults for the guest-mode remote fetch.
const (
	DefaultSearchTerm = "programming"
	DefaultMaxResults = 40
)

// VolumeSearcher is the remote catalog API.
type VolumeSearcher interface {
	SearchVolumes(ctx context.Context, query string, maxResults int) (*googlebooks.VolumesResponse, error)
}

type Config struct {
	SearchTerm string
	MaxResults int
}

func (c Config) withDefaults() Config {
	if strings.TrimSpace(c.SearchTerm) == "" {
		c.SearchTerm = DefaultSearchTerm
	}
	if c.MaxResults <= 0 {
		c.MaxResults = DefaultMaxResults
	}
	return c
}

// NormalizeVolume maps a remote volume onto a public book record.
// Volumes without a title are rejected.
func NormalizeVolume(v googlebooks.Volume) (book.Book, bool) {
	info := v.VolumeInfo
	if strings.TrimSpace(info.Title) == "" {
		return book.Book{}, false
	}

	authors := info.Authors
	if authors == nil {
		authors = []string{}
	}
	image := ""
	if info.ImageLinks != nil {
		image = info.ImageLinks.Thumbnail
	}
	description := info.Description
	if description == "" {
		description = book.NoDescription
	}

	return book.Book{
		Title:       info.Title,
		Authors:     authors,
		Image:       image,
		Description: description,
		Visibility:  book.VisibilityPublic,
	}, true
}

// NormalizeVolumes normalizes every volume, dropping and logging the ones
// that are missing a title.
func NormalizeVolumes(items []googlebooks.Volume) []book.Book {
	out := make([]book.Book, 0, len(items))
	for _, v := range items {
		b, ok := NormalizeVolume(v)
		if !ok {
			log.Printf("catalog dropped volume without title id=%q", v.ID)
			continue
		}
		out = append(out, b)
	}
	return out
}
