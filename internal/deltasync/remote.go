package deltasync

import (
	"context"

	"github.com/localdrive/driveindex/internal/driveapi"
)

// ChangesLister is the subset of driveapi.Client the sync engine needs,
// defined at the consumer so tests can supply a fake.
type ChangesLister interface {
	ListChangesPage(ctx context.Context, pageToken string, pageSize int) (*driveapi.ChangesPage, error)
}
