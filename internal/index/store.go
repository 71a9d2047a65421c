package index

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite" // pure-Go SQLite driver, registers as "sqlite"
)

// journalSizeLimit caps the WAL file at 64 MiB before it is checkpointed.
const journalSizeLimit = 67108864

// Store is the durable index: one embedded SQLite database, opened in WAL
// mode, holding files, parents, sync_state, and file_errors.
type Store struct {
	db     *sql.DB
	logger *slog.Logger

	fileStmts      fileStatements
	syncStateStmts syncStateStatements
	errorStmts     errorStatements
}

type fileStatements struct {
	upsert        *sql.Stmt
	markRemoved   *sql.Stmt
	getByID       *sql.Stmt
	getAll        *sql.Stmt
	count         *sql.Stmt
	deleteParents *sql.Stmt
	insertParent  *sql.Stmt
	getParents    *sql.Stmt
	getChildren   *sql.Stmt
}

type syncStateStatements struct {
	get *sql.Stmt
	set *sql.Stmt
}

type errorStatements struct {
	log *sql.Stmt
}

// NewStore opens (creating if absent) the database at dbPath, sets pragmas,
// runs migrations, and prepares all repeated statements. Use ":memory:" for
// tests.
func NewStore(ctx context.Context, dbPath string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("opening index database", slog.String("path", dbPath))

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("index: open sqlite: %w", err)
	}

	if err := setPragmas(ctx, db, logger); err != nil {
		db.Close()
		return nil, err
	}

	if err := runMigrations(ctx, db, logger); err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{db: db, logger: logger}

	if err := s.prepareAllStatements(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("index: prepare statements: %w", err)
	}

	if err := s.seedSchemaVersion(ctx); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("index database ready", slog.String("path", dbPath))

	return s, nil
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying connection pool for callers that query the
// tables directly, such as internal/health. Crawl and sync write through
// BeginBatch instead.
func (s *Store) DB() *sql.DB {
	return s.db
}

func setPragmas(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	pragmas := []struct {
		sql  string
		desc string
	}{
		{"PRAGMA journal_mode = WAL", "WAL mode"},
		{"PRAGMA synchronous = FULL", "synchronous FULL"},
		{"PRAGMA foreign_keys = ON", "foreign keys"},
		{fmt.Sprintf("PRAGMA journal_size_limit = %d", journalSizeLimit), "journal size limit"},
	}

	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p.sql); err != nil {
			return fmt.Errorf("index: set pragma %s: %w", p.desc, err)
		}

		logger.Debug("pragma set", slog.String("pragma", p.desc))
	}

	return nil
}

// seedSchemaVersion writes SyncState[schema_version] once, on first open,
// without overwriting a value a later migration may have advanced.
func (s *Store) seedSchemaVersion(ctx context.Context) error {
	existing, err := s.GetSyncState(ctx, KeySchemaVersion)
	if err != nil {
		return fmt.Errorf("index: reading schema version: %w", err)
	}

	if existing != "" {
		return nil
	}

	return s.SetSyncState(ctx, KeySchemaVersion, "1")
}

// stmtDef maps a SQL string to the prepared statement pointer it populates.
type stmtDef struct {
	dest **sql.Stmt
	sql  string
	name string
}

func prepareAll(ctx context.Context, db *sql.DB, defs []stmtDef) error {
	for i := range defs {
		stmt, err := db.PrepareContext(ctx, defs[i].sql)
		if err != nil {
			return fmt.Errorf("prepare %s: %w", defs[i].name, err)
		}

		*defs[i].dest = stmt
	}

	return nil
}

func (s *Store) prepareAllStatements(ctx context.Context) error {
	if err := prepareAll(ctx, s.db, []stmtDef{
		{&s.fileStmts.upsert, sqlUpsertFile, "upsertFile"},
		{&s.fileStmts.markRemoved, sqlMarkRemoved, "markRemoved"},
		{&s.fileStmts.getByID, sqlGetFileByID, "getFileByID"},
		{&s.fileStmts.getAll, sqlGetAllFiles, "getAllFiles"},
		{&s.fileStmts.count, sqlFileCount, "fileCount"},
		{&s.fileStmts.deleteParents, sqlDeleteParentsByChild, "deleteParentsByChild"},
		{&s.fileStmts.insertParent, sqlInsertParent, "insertParent"},
		{&s.fileStmts.getParents, sqlGetParents, "getParents"},
		{&s.fileStmts.getChildren, sqlGetChildren, "getChildren"},
	}); err != nil {
		return err
	}

	if err := prepareAll(ctx, s.db, []stmtDef{
		{&s.syncStateStmts.get, sqlGetSyncState, "getSyncState"},
		{&s.syncStateStmts.set, sqlSetSyncState, "setSyncState"},
	}); err != nil {
		return err
	}

	return prepareAll(ctx, s.db, []stmtDef{
		{&s.errorStmts.log, sqlLogFileError, "logFileError"},
	})
}
