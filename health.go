package driveindex

import (
	"context"

	"github.com/localdrive/driveindex/internal/health"
)

// GetHealth runs the point-in-time integrity checks over the index store.
func (s *Service) GetHealth(ctx context.Context) (*health.Result, error) {
	return health.RunAll(ctx, s.store)
}
