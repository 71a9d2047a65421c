// Package crawl implements the full-enumeration crawl engine: list every
// visible remote file, upsert it and its parent edges into the index, and
// record a continuation token anchoring the incremental sync engine.
package crawl

import "time"

// Stage is one label in the crawl's progress state machine.
type Stage string

const (
	StageInitializing Stage = "initializing"
	StageFetching     Stage = "fetching"
	StageProcessing   Stage = "processing"
	StageFinalizing   Stage = "finalizing"
	StageComplete     Stage = "complete"
	StageError        Stage = "error"
)

// Progress is a snapshot of crawl state, published at every stage
// transition and at batch-commit boundaries.
type Progress struct {
	Stage          Stage
	FilesFetched   int
	FilesProcessed int
	TotalFiles     int
	TotalSize      int64
	PagesFetched   int
	Errors         int
	Message        string
	StartedAt      time.Time
	CompletedAt    time.Time
}

// ProgressFunc receives a progress snapshot, passed by value so the
// callback can retain it freely.
type ProgressFunc func(Progress)
