package cache

import "errors"

// ErrCacheMiss is returned when a named cache has no payload on disk, or its
// payload/sidecar failed to parse and was deleted as a result.
var ErrCacheMiss = errors.New("cache: miss")
