// Package jobs tracks background scan/crawl, sync, and analytics work as
// explicit in-memory records instead of module-level mutable globals: a
// Registry holding two job tables plus a singleton analytics state, guarded
// by one mutex, with work dispatched onto a bounded pool of goroutines.
package jobs

import "time"

// Status is a job's place in its lifecycle. Scan/crawl and sync jobs use
// the full stage sequence; analytics uses the four-state subset.
type Status string

// Scan/crawl/sync status automaton: Starting -> Running|Fetching ->
// Processing -> Finalizing -> Complete|Error.
const (
	StatusStarting   Status = "starting"
	StatusRunning    Status = "running"
	StatusFetching   Status = "fetching"
	StatusProcessing Status = "processing"
	StatusFinalizing Status = "finalizing"
	StatusComplete   Status = "complete"
	StatusError      Status = "error"
)

// Analytics compute status.
const (
	AnalyticsMissing Status = "missing"
	AnalyticsRunning Status = "running"
	AnalyticsReady   Status = "ready"
	AnalyticsError   Status = "error"
)

// Kind distinguishes the two job tables.
type Kind string

const (
	KindScan Kind = "scan"
	KindSync Kind = "sync"
)

// Snapshot is one progress report from a running job, published at every
// stage transition and at batch-commit boundaries.
type Snapshot struct {
	Stage    Status
	Message  string
	Fraction float64 // 0-100
}

// Record is one job's current state, read under the registry's mutex by
// GetJobStatus and written by its own background goroutine.
type Record struct {
	ID          string
	Kind        Kind
	Status      Status
	Progress    Snapshot
	Result      any
	Err         string
	StartedAt   time.Time
	CompletedAt time.Time
}

// ReportFunc is how a running job publishes progress back to its Record.
type ReportFunc func(Snapshot)

// RunFunc is the work a job executes: crawl.Engine.Run, deltasync.Engine.Run,
// or an analytics compute, adapted to this common shape by the caller.
type RunFunc func(report ReportFunc) (any, error)

// AnalyticsState is the singleton record tracking derived-analytics compute
// status, independent of the scan/sync job tables.
type AnalyticsState struct {
	Status     Status
	ComputedAt time.Time
	Err        string
}
