package driveindex

import (
	"context"
	"errors"

	"github.com/localdrive/driveindex/internal/jobs"
)

// StartCrawl begins a full crawl, short-circuiting to a no-op when force
// is false and the cached full-index snapshot is still valid. Returns the
// empty string (no error) for that short-circuit case, or the new job id
// once a crawl is actually dispatched.
func (s *Service) StartCrawl(ctx context.Context, force bool) (string, error) {
	if !force {
		if _, err := s.GetCachedSnapshot(ctx); err == nil {
			return "", nil
		}
	}

	return s.policy.SmartSync(ctx, true)
}

// StartSync begins an incremental sync, or a full crawl instead if the
// store has no continuation token — the scheduler policy decides which.
// The only error returned here comes from reading the sync state; a job's
// own failure is recorded on its job record and read via GetJobStatus.
func (s *Service) StartSync(ctx context.Context) (string, error) {
	return s.policy.SmartSync(ctx, false)
}

// GetJobStatus returns a snapshot of a scan/crawl or sync job's current
// state. Wraps jobs.ErrNotFound as ErrNotFound for an unknown id.
func (s *Service) GetJobStatus(id string) (jobs.Record, error) {
	rec, err := s.registry.GetJobStatus(id)
	if errors.Is(err, jobs.ErrNotFound) {
		return jobs.Record{}, ErrNotFound
	}

	return rec, err
}
