package driveindex

import (
	"context"

	"github.com/localdrive/driveindex/internal/query"
)

// GetDuplicates groups live, non-trashed, non-shortcut files sharing the
// same md5 and size, reading directly from the store (no cache layer: this
// view is cheap enough to recompute per call and callers may pass a
// min_size narrower than the configured default).
func (s *Service) GetDuplicates(ctx context.Context, limit int, minSize int64) ([]query.DuplicateGroup, error) {
	files, err := s.store.GetAllFiles(ctx, true, true)
	if err != nil {
		return nil, err
	}

	return query.DuplicateGroups(files, minSize, limit), nil
}
