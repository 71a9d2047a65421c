// Package deltasync implements the incremental sync engine: page through
// the remote change feed from the last recorded continuation token, apply
// each change to the index, and advance the token only once every change in
// a page has been durably committed.
package deltasync

import "time"

// Progress is a snapshot of sync state, published at every page boundary.
type Progress struct {
	ChangesApplied int
	FilesAdded     int
	FilesUpdated   int
	FilesRemoved   int
	PagesFetched   int
	Errors         int
	Message        string
	StartedAt      time.Time
	CompletedAt    time.Time
	Failed         bool
}

// ProgressFunc receives a progress snapshot, passed by value so the
// callback can retain it freely.
type ProgressFunc func(Progress)
