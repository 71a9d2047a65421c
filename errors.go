// Package driveindex is the facade exposing a durable, queryable local
// index of a remote cloud file store: a two-mode crawl/sync pipeline, a
// relational store, derived analytics, a two-tier cache, and job/scheduler
// state, composed behind one Service. It is the seam a transport layer
// (HTTP, CLI, etc., all out of scope here) would wire to routes.
package driveindex

import "errors"

// Sentinel errors returned across the facade boundary, matching the
// teacher's convention of one wrapped sentinel per error category so
// callers use errors.Is rather than string matching.
var (
	// ErrNotFound is returned when a job id is unknown or a requested
	// snapshot/index has no data to serve.
	ErrNotFound = errors.New("driveindex: not found")

	// ErrValidation wraps malformed caller input, e.g. an unknown
	// analytics view name.
	ErrValidation = errors.New("driveindex: validation error")

	// ErrNotReady is returned by GetAnalyticsView when the derived
	// analytics cache is absent or stale; compute has been (re)started and
	// the caller should retry shortly.
	ErrNotReady = errors.New("driveindex: analytics not ready")
)
