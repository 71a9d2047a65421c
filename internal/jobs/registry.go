package jobs

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ErrNotFound is returned by GetJobStatus for an unknown job id.
var ErrNotFound = errors.New("jobs: not found")

// defaultMaxConcurrency bounds how many scan/sync/analytics jobs run their
// work at once. The scheduler (internal/scheduler) is what actually
// prevents two writer jobs from overlapping; this cap is a backstop against
// unbounded goroutine growth, not the serialization mechanism.
const defaultMaxConcurrency = 4

// Registry holds the scan/crawl job table, the sync job table, and the
// singleton analytics state, all guarded by one mutex. Job tables are soft
// state: nothing here survives a process restart.
type Registry struct {
	mu        sync.Mutex
	scan      map[string]*Record
	sync      map[string]*Record
	analytics AnalyticsState

	pool   *errgroup.Group
	logger *slog.Logger
}

// NewRegistry creates an empty registry whose background jobs run on a pool
// bounded to maxConcurrency goroutines. maxConcurrency <= 0 uses the
// default.
func NewRegistry(maxConcurrency int, logger *slog.Logger) *Registry {
	if maxConcurrency <= 0 {
		maxConcurrency = defaultMaxConcurrency
	}

	pool := &errgroup.Group{}
	pool.SetLimit(maxConcurrency)

	return &Registry{
		scan:      make(map[string]*Record),
		sync:      make(map[string]*Record),
		analytics: AnalyticsState{Status: AnalyticsMissing},
		pool:      pool,
		logger:    logger,
	}
}

// StartScan enqueues a scan/crawl job and returns its id immediately. run
// executes on the bounded pool; it may not start right away if the pool is
// saturated, but the Record exists (Status StatusStarting) from the moment
// this call returns.
func (r *Registry) StartScan(run RunFunc) string {
	return r.start(KindScan, r.scan, run)
}

// StartSync enqueues a sync job and returns its id immediately.
func (r *Registry) StartSync(run RunFunc) string {
	return r.start(KindSync, r.sync, run)
}

func (r *Registry) start(kind Kind, table map[string]*Record, run RunFunc) string {
	id := uuid.New().String()
	rec := &Record{ID: id, Kind: kind, Status: StatusStarting, StartedAt: time.Now()}

	r.mu.Lock()
	table[id] = rec
	r.mu.Unlock()

	// Dispatch onto the bounded pool from a detached goroutine so this call
	// never blocks the caller waiting for a free slot.
	go func() {
		r.pool.Go(func() error {
			r.runJob(table, rec, run)
			return nil
		})
	}()

	return id
}

func (r *Registry) runJob(table map[string]*Record, rec *Record, run RunFunc) {
	report := func(s Snapshot) {
		r.mu.Lock()
		rec.Status = s.Stage
		rec.Progress = s
		r.mu.Unlock()
	}

	result, err := func() (res any, runErr error) {
		defer func() {
			if p := recover(); p != nil {
				runErr = fmt.Errorf("jobs: job panicked: %v", p)
			}
		}()

		return run(report)
	}()

	r.mu.Lock()
	defer r.mu.Unlock()

	rec.CompletedAt = time.Now()

	if err != nil {
		rec.Status = StatusError
		rec.Err = err.Error()

		if r.logger != nil {
			r.logger.Error("job failed", "job_id", rec.ID, "kind", rec.Kind, "error", err)
		}

		return
	}

	rec.Status = StatusComplete
	rec.Result = result
}

// GetJobStatus returns a copy of the job record for id, searching both
// tables.
func (r *Registry) GetJobStatus(id string) (Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec, ok := r.scan[id]; ok {
		return *rec, nil
	}

	if rec, ok := r.sync[id]; ok {
		return *rec, nil
	}

	return Record{}, ErrNotFound
}

// StartAnalytics starts the singleton analytics compute job if one isn't
// already running. Returns false as a no-op when status is already
// AnalyticsRunning, matching spec.md §4.9's singleton contract.
func (r *Registry) StartAnalytics(run func() (any, error)) bool {
	r.mu.Lock()
	if r.analytics.Status == AnalyticsRunning {
		r.mu.Unlock()
		return false
	}

	r.analytics = AnalyticsState{Status: AnalyticsRunning}
	r.mu.Unlock()

	go func() {
		r.pool.Go(func() error {
			r.runAnalytics(run)
			return nil
		})
	}()

	return true
}

func (r *Registry) runAnalytics(run func() (any, error)) {
	_, err := func() (res any, runErr error) {
		defer func() {
			if p := recover(); p != nil {
				runErr = fmt.Errorf("jobs: analytics panicked: %v", p)
			}
		}()

		return run()
	}()

	r.mu.Lock()
	defer r.mu.Unlock()

	if err != nil {
		r.analytics = AnalyticsState{Status: AnalyticsError, ComputedAt: time.Now(), Err: err.Error()}

		if r.logger != nil {
			r.logger.Error("analytics compute failed", "error", err)
		}

		return
	}

	r.analytics = AnalyticsState{Status: AnalyticsReady, ComputedAt: time.Now()}
}

// GetAnalyticsStatus returns a copy of the current analytics state.
func (r *Registry) GetAnalyticsStatus() AnalyticsState {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.analytics
}

// MarkAnalyticsMissing resets the analytics state to AnalyticsMissing, used
// by the scheduler when a fresh primary snapshot invalidates the derived
// cache.
func (r *Registry) MarkAnalyticsMissing() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.analytics = AnalyticsState{Status: AnalyticsMissing}
}
