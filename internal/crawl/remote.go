package crawl

import (
	"context"

	"github.com/localdrive/driveindex/internal/driveapi"
)

// RemoteLister is the subset of driveapi.Client the crawl engine needs,
// defined at the consumer so tests can supply a fake.
type RemoteLister interface {
	ListFilesPage(ctx context.Context, pageToken string, pageSize int, proj driveapi.Projection) ([]*driveapi.File, string, error)
	GetStartPageToken(ctx context.Context) (string, error)
}
