// Package cache implements the two-tier file-backed cache: primary scan
// snapshots (quick_scan, full_scan) and the derived analytics bundle
// (full_scan_analytics). Each cache is a payload JSON file plus a metadata
// sidecar JSON file, written atomically (temp file in the same directory,
// fsync, rename) so a crash never leaves a partial payload at the final
// path.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// FilePerms restricts cache files to owner-only read/write.
const FilePerms = 0o600

// DirPerms is used when creating the cache directory.
const DirPerms = 0o700

// Named caches recognized by the coordinator.
const (
	QuickScan         = "quick_scan"
	FullScan          = "full_scan"
	FullScanAnalytics = "full_scan_analytics"
)

// Coordinator reads and writes the named caches under one directory.
type Coordinator struct {
	dir    string
	logger *slog.Logger
}

// New creates a Coordinator rooted at dir. The directory is created lazily
// on first write.
func New(dir string, logger *slog.Logger) *Coordinator {
	return &Coordinator{dir: dir, logger: logger}
}

func (c *Coordinator) payloadPath(kind string) string {
	return filepath.Join(c.dir, kind+"_cache.json")
}

func (c *Coordinator) metaPath(kind string) string {
	return filepath.Join(c.dir, kind+"_cache.meta.json")
}

// save writes payload and meta to their named-cache paths, each one
// atomically (temp file, fsync, rename): the payload first, then the
// sidecar. The pair is not replaced as one unit, so between the two renames
// a reader can observe the new payload next to the previous sidecar.
func (c *Coordinator) save(kind string, payload, meta any) error {
	if err := os.MkdirAll(c.dir, DirPerms); err != nil {
		return fmt.Errorf("cache: creating directory %s: %w", c.dir, err)
	}

	payloadData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("cache: encoding %s payload: %w", kind, err)
	}

	metaData, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("cache: encoding %s meta: %w", kind, err)
	}

	if err := atomicWrite(c.payloadPath(kind), payloadData); err != nil {
		return fmt.Errorf("cache: writing %s payload: %w", kind, err)
	}

	if err := atomicWrite(c.metaPath(kind), metaData); err != nil {
		return fmt.Errorf("cache: writing %s meta: %w", kind, err)
	}

	return nil
}

// atomicWrite stages data as a temp file next to path, fsyncs it, then
// renames it into place. Same-directory temp file guarantees same
// filesystem for rename(2).
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, ".cache-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpPath)
		}
	}()

	if err := os.Chmod(tmpPath, FilePerms); err != nil {
		tmp.Close()
		return fmt.Errorf("setting permissions: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming: %w", err)
	}

	success = true

	return nil
}

// load reads and decodes the payload and meta files for kind into the
// given pointers. A missing payload or meta file reports ErrCacheMiss.
// Unparseable JSON in either file deletes both files (the pair is treated
// as a single unit) and also reports ErrCacheMiss.
func (c *Coordinator) load(kind string, payloadOut, metaOut any) error {
	payloadData, err := os.ReadFile(c.payloadPath(kind))
	if errors.Is(err, fs.ErrNotExist) {
		return ErrCacheMiss
	} else if err != nil {
		return fmt.Errorf("cache: reading %s payload: %w", kind, err)
	}

	metaData, err := os.ReadFile(c.metaPath(kind))
	if errors.Is(err, fs.ErrNotExist) {
		return ErrCacheMiss
	} else if err != nil {
		return fmt.Errorf("cache: reading %s meta: %w", kind, err)
	}

	if err := json.Unmarshal(payloadData, payloadOut); err != nil {
		c.logCorrupt(kind, "payload", err)
		_ = c.clearOne(kind)

		return ErrCacheMiss
	}

	if err := json.Unmarshal(metaData, metaOut); err != nil {
		c.logCorrupt(kind, "meta", err)
		_ = c.clearOne(kind)

		return ErrCacheMiss
	}

	return nil
}

func (c *Coordinator) logCorrupt(kind, part string, err error) {
	if c.logger != nil {
		c.logger.Warn("cache: corrupt file deleted", "kind", kind, "part", part, "error", err)
	}
}

// SavePrimary writes a primary snapshot cache (QuickScan or FullScan).
func (c *Coordinator) SavePrimary(kind string, payload any, meta PrimaryMeta) error {
	return c.save(kind, payload, meta)
}

// LoadPrimary reads a primary snapshot cache into payloadOut, returning its
// metadata. Returns ErrCacheMiss if absent or corrupt.
func (c *Coordinator) LoadPrimary(kind string, payloadOut any) (PrimaryMeta, error) {
	var meta PrimaryMeta
	if err := c.load(kind, payloadOut, &meta); err != nil {
		return PrimaryMeta{}, err
	}

	return meta, nil
}

// SaveDerived writes the derived analytics cache.
func (c *Coordinator) SaveDerived(payload any, meta DerivedMeta) error {
	return c.save(FullScanAnalytics, payload, meta)
}

// LoadDerived reads the derived analytics cache into payloadOut, returning
// its metadata. Returns ErrCacheMiss if absent or corrupt.
func (c *Coordinator) LoadDerived(payloadOut any) (DerivedMeta, error) {
	var meta DerivedMeta
	if err := c.load(FullScanAnalytics, payloadOut, &meta); err != nil {
		return DerivedMeta{}, err
	}

	return meta, nil
}

// RemoteProbe answers whether anything has changed remotely since a given
// timestamp — the cheap alternative to a strict TTL expiry for validating
// a primary snapshot. Satisfied by *driveapi.Client.
type RemoteProbe interface {
	HasChangedSince(ctx context.Context, since time.Time) (bool, error)
}

// ValidatePrimary reports whether a primary snapshot is still usable: either
// it is younger than maxAge, or probe confirms nothing has changed remotely
// since it was written. If the probe errors (network down, auth expired),
// validity falls back to the strict age check alone rather than propagating
// the probe error to the caller.
func ValidatePrimary(ctx context.Context, meta PrimaryMeta, maxAge time.Duration, now time.Time, probe RemoteProbe) bool {
	if now.Sub(meta.Timestamp) < maxAge {
		return true
	}

	changed, err := probe.HasChangedSince(ctx, meta.Timestamp)
	if err != nil {
		return false
	}

	return !changed
}

func (c *Coordinator) clearOne(kind string) error {
	var firstErr error

	for _, p := range []string{c.payloadPath(kind), c.metaPath(kind)} {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

// Clear removes the payload and sidecar for a named cache. An empty kind
// clears all three caches.
func (c *Coordinator) Clear(kind string) error {
	kinds := []string{QuickScan, FullScan, FullScanAnalytics}
	if kind != "" {
		kinds = []string{kind}
	}

	var firstErr error

	for _, k := range kinds {
		if err := c.clearOne(k); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
