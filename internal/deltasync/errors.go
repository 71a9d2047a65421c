package deltasync

import "errors"

// ErrNoContinuationToken is returned when Run is called before any crawl has
// ever recorded a start page token. The caller (scheduler) should run a full
// crawl instead.
var ErrNoContinuationToken = errors.New("deltasync: no continuation token recorded, full crawl required")

// ErrDeltaTokenExpired is returned when the remote adapter reports the
// stored continuation token is no longer valid (HTTP 410-equivalent). The
// scheduler treats this identically to ErrNoContinuationToken: force a full
// crawl.
var ErrDeltaTokenExpired = errors.New("deltasync: continuation token expired, full crawl required")
