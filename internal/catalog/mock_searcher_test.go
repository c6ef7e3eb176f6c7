package catalog

import (
	"context"

	"bookshelf/internal/platform/googlebooks"

	"github.com/stretchr/testify/mock"
)

type mockSearcher struct {
	mock.Mock
}

func (m *mockSearcher) SearchVolumes(ctx context.Context, query string, maxResults int) (*googlebooks.VolumesResponse, error) {
	args := m.Called(ctx, query, maxResults)
	res, _ := args.Get(0).(*googlebooks.VolumesResponse)
	return res, args.Error(1)
}

func volume(title string, authors ...string) googlebooks.Volume {
	return googlebooks.Volume{
		ID: "vol-" + title,
		VolumeInfo: googlebooks.VolumeInfo{
			Title:       title,
			Authors:     authors,
			Description: "About " + title,
			ImageLinks:  &googlebooks.ImageLinks{Thumbnail: "https://img.example.com/" + title},
		},
	}
}
