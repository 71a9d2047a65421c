package driveindex

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/localdrive/driveindex/internal/cache"
	"github.com/localdrive/driveindex/internal/config"
	"github.com/localdrive/driveindex/internal/crawl"
	"github.com/localdrive/driveindex/internal/deltasync"
	"github.com/localdrive/driveindex/internal/driveapi"
	"github.com/localdrive/driveindex/internal/index"
	"github.com/localdrive/driveindex/internal/jobs"
	"github.com/localdrive/driveindex/internal/scheduler"
)

// dirPerms matches internal/cache's directory permissions for the data and
// cache roots this service owns.
const dirPerms = 0o700

// indexDBName is the filename of the embedded store within DataDir.
const indexDBName = "drive_index.db"

// snapshotCacheVersion gates the shape of IndexSnapshot; bump it whenever
// the struct's JSON shape changes in a way that should invalidate an
// on-disk cache written by a prior version.
const snapshotCacheVersion = 1

// remoteClient is the slice of *driveapi.Client the facade calls directly
// (the rest is reached through the crawl/sync engines). Defined at the
// consumer so tests can substitute a fake instead of a real remote.
type remoteClient interface {
	About(ctx context.Context) (*driveapi.AccountOverview, error)
	HasChangedSince(ctx context.Context, since time.Time) (bool, error)
}

// Service composes every internal layer behind the operations named in
// spec.md §6. Construct one per running process via NewService.
type Service struct {
	cfg      *config.Config
	client   remoteClient
	store    *index.Store
	cache    *cache.Coordinator
	registry *jobs.Registry
	policy   *scheduler.Policy
	logger   *slog.Logger
}

// NewService wires the store, cache coordinator, job registry, scheduler
// policy, and crawl/sync engines, building the remote driveapi.Client
// itself from cfg's network settings and the given token source.
// Credential acquisition is the caller's concern: this constructor only
// ever sees a driveapi.TokenSource.
func NewService(ctx context.Context, cfg *config.Config, token driveapi.TokenSource, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(cfg.DataDir, dirPerms); err != nil {
		return nil, fmt.Errorf("driveindex: creating data dir %s: %w", cfg.DataDir, err)
	}

	if err := os.MkdirAll(cfg.CacheDir, dirPerms); err != nil {
		return nil, fmt.Errorf("driveindex: creating cache dir %s: %w", cfg.CacheDir, err)
	}

	httpClient, err := buildHTTPClient(&cfg.Network)
	if err != nil {
		return nil, err
	}

	client := driveapi.NewClient(driveapi.DefaultBaseURL, httpClient, token, logger)

	store, err := index.NewStore(ctx, filepath.Join(cfg.DataDir, indexDBName), logger)
	if err != nil {
		return nil, err
	}

	cacheCoord := cache.New(cfg.CacheDir, logger)
	registry := jobs.NewRegistry(0, logger)

	crawlEngine := crawl.NewEngine(client, store, logger, cfg.FetchPageSize, cfg.CommitBatchCrawl)
	syncEngine := deltasync.NewEngine(client, store, logger, cfg.FetchPageSize, cfg.CommitBatchSync)

	svc := &Service{
		cfg:      cfg,
		client:   client,
		store:    store,
		cache:    cacheCoord,
		registry: registry,
		logger:   logger,
	}

	svc.policy = scheduler.NewPolicy(
		store,
		registry,
		cacheCoord,
		&crawlCacheRunner{engine: crawlEngine, svc: svc},
		&syncCacheRunner{engine: syncEngine, svc: svc},
		svc.computeAnalytics,
		logger,
	)

	return svc, nil
}

// Close releases the underlying store connection.
func (s *Service) Close() error {
	return s.store.Close()
}

// buildHTTPClient applies the configured connect/data timeouts to a plain
// net/http client. No third-party HTTP client library appears anywhere in
// the reference corpus; net/http plus a dial timeout is the idiom the
// corpus itself uses (internal/driveapi already calls http.DefaultClient
// directly when none is supplied).
func buildHTTPClient(n *config.NetworkConfig) (*http.Client, error) {
	connectTimeout, err := time.ParseDuration(n.ConnectTimeout)
	if err != nil {
		return nil, fmt.Errorf("driveindex: parsing connect_timeout: %w", err)
	}

	dataTimeout, err := time.ParseDuration(n.DataTimeout)
	if err != nil {
		return nil, fmt.Errorf("driveindex: parsing data_timeout: %w", err)
	}

	dialer := &net.Dialer{Timeout: connectTimeout}

	return &http.Client{
		Timeout: dataTimeout,
		Transport: &http.Transport{
			DialContext: dialer.DialContext,
		},
	}, nil
}

func (s *Service) quickTTL() time.Duration {
	d, err := time.ParseDuration(s.cfg.PrimaryCacheTTLQuick)
	if err != nil {
		return time.Hour
	}

	return d
}

func (s *Service) fullTTL() time.Duration {
	d, err := time.ParseDuration(s.cfg.PrimaryCacheTTLFull)
	if err != nil {
		return 24 * time.Hour
	}

	return d
}
