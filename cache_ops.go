package driveindex

import "context"

// ClearCache removes the payload and sidecar for a named cache
// (cache.QuickScan, cache.FullScan, or cache.FullScanAnalytics). An empty
// kind clears all three.
func (s *Service) ClearCache(kind string) error {
	return s.cache.Clear(kind)
}

// ClearIndex truncates every store table (preserving schema_version) and
// resets the analytics state, since any derived analytics cache is now
// computed from data that no longer exists.
func (s *Service) ClearIndex(ctx context.Context) error {
	if err := s.store.ClearIndex(ctx); err != nil {
		return err
	}

	s.registry.MarkAnalyticsMissing()

	return nil
}
