package health

import (
	"context"
	"database/sql"
	"fmt"
)

const sqlStatsQuery = `
	SELECT
		(SELECT COUNT(*) FROM files WHERE removed = 0) AS total_files,
		(SELECT COUNT(*) FROM files WHERE removed = 0 AND trashed = 1) AS trashed_files,
		(SELECT COUNT(*) FROM files WHERE removed = 0 AND trashed = 0) AS active_files,
		(SELECT COUNT(*) FROM files WHERE removed = 0 AND trashed = 0
			AND mime_type = 'application/vnd.google-apps.folder') AS folders,
		(SELECT COUNT(*) FROM files WHERE removed = 0 AND trashed = 0 AND is_shortcut = 1) AS shortcuts,
		(SELECT COUNT(*) FROM files WHERE removed = 0 AND trashed = 0
			AND mime_type LIKE 'application/vnd.google-apps.%'
			AND mime_type != 'application/vnd.google-apps.folder'
			AND is_shortcut = 0) AS google_native,
		(SELECT COUNT(*) FROM files WHERE removed = 0 AND trashed = 0
			AND mime_type NOT LIKE 'application/vnd.google-apps.%') AS binary_files,
		(SELECT COALESCE(SUM(size), 0) FROM files WHERE removed = 0 AND trashed = 0) AS total_size,
		(SELECT COUNT(*) FROM files WHERE removed = 0 AND trashed = 0 AND md5 IS NOT NULL) AS with_md5,
		(SELECT COUNT(*) FROM files WHERE removed = 0 AND trashed = 0 AND owned_by_me = 1) AS owned_by_me,
		(SELECT COUNT(*) FROM parents) AS parent_edges,
		(SELECT COUNT(*) FROM files WHERE removed = 1) AS removed_files`

// GetStats computes the point-in-time count/size summary over the live
// file set, mirroring the original module's get_stats breakdown.
func GetStats(ctx context.Context, db *sql.DB) (Stats, error) {
	var s Stats

	err := db.QueryRowContext(ctx, sqlStatsQuery).Scan(
		&s.TotalFiles, &s.TrashedFiles, &s.ActiveFiles, &s.Folders, &s.Shortcuts,
		&s.GoogleNative, &s.BinaryFiles, &s.TotalSizeBytes, &s.WithMD5, &s.OwnedByMe,
		&s.ParentEdges, &s.RemovedFiles,
	)
	if err != nil {
		return s, fmt.Errorf("health: stats: %w", err)
	}

	s.Files = s.ActiveFiles - s.Folders
	s.TotalSizeGB = float64(s.TotalSizeBytes) / (1024 * 1024 * 1024)

	return s, nil
}
