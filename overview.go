package driveindex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/localdrive/driveindex/internal/cache"
	"github.com/localdrive/driveindex/internal/driveapi"
)

// overviewCacheVersion gates the cached AccountOverview payload shape.
const overviewCacheVersion = 1

// GetOverview returns the remote account's storage quota and user
// identity, served from the quick_scan cache when it is still valid (see
// the two-tier validity rule in internal/cache) and refreshed from the
// remote otherwise.
func (s *Service) GetOverview(ctx context.Context) (*driveapi.AccountOverview, error) {
	var overview driveapi.AccountOverview

	meta, err := s.cache.LoadPrimary(cache.QuickScan, &overview)
	if err == nil && cache.ValidatePrimary(ctx, meta, s.quickTTL(), time.Now(), s.client) {
		return &overview, nil
	} else if err != nil && !errors.Is(err, cache.ErrCacheMiss) {
		return nil, err
	}

	fresh, err := s.client.About(ctx)
	if err != nil {
		return nil, fmt.Errorf("driveindex: fetching account overview: %w", err)
	}

	newMeta := cache.PrimaryMeta{Timestamp: time.Now(), CacheVersion: overviewCacheVersion}
	if err := s.cache.SavePrimary(cache.QuickScan, fresh, newMeta); err != nil {
		s.logger.Error("saving overview cache", "error", err)
	}

	return fresh, nil
}
