package index

import (
	"context"
	"fmt"
)

const sqlLogFileError = `INSERT INTO file_errors (file_id, stage, error, created_time)
	VALUES (?, ?, ?, ?)`

// LogFileError appends a diagnostic record. fileID may be nil for
// stage-level failures not tied to a single record.
func (s *Store) LogFileError(ctx context.Context, fileID *string, stage, errMsg, createdTime string) error {
	if _, err := s.errorStmts.log.ExecContext(ctx, fileID, stage, errMsg, createdTime); err != nil {
		return fmt.Errorf("%w: log file error: %s", ErrStoreError, err)
	}

	return nil
}
