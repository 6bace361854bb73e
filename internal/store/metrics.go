package store

import (
	"context"

	"filehub/internal/models"
)

// DuplicateGroup is the raw per-blob aggregate behind duplicate
// statistics. RefCount is the number of catalog records sharing the
// blob, always at least 2 here.
type DuplicateGroup struct {
	ContentHash      string
	OriginalFilename string
	SizeBytes        int64
	RefCount         int64
}

// StorageTotals computes the catalog-wide storage counters. Actual bytes
// come from the blobs table, theoretical bytes from the files table.
func (s *Store) StorageTotals(ctx context.Context) (models.SummaryMetrics, error) {
	var totals models.SummaryMetrics

	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(size_bytes), 0) FROM files",
	).Scan(&totals.TotalFiles, &totals.TheoreticalStorageBytes)
	if err != nil {
		return models.SummaryMetrics{}, err
	}

	err = s.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(size_bytes), 0) FROM blobs",
	).Scan(&totals.UniqueFiles, &totals.ActualStorageBytes)
	if err != nil {
		return models.SummaryMetrics{}, err
	}

	totals.DuplicateFiles = totals.TotalFiles - totals.UniqueFiles
	totals.StorageSavedBytes = totals.TheoreticalStorageBytes - totals.ActualStorageBytes
	return totals, nil
}

// DuplicateGroups returns blobs referenced more than once, labeled with
// the filename of their earliest record, ordered by bytes saved
// descending. A limit of 0 or less returns all groups.
func (s *Store) DuplicateGroups(ctx context.Context, limit int) ([]DuplicateGroup, error) {
	query := `
SELECT b.content_hash, b.size_bytes, b.ref_count,
  (SELECT f.original_filename FROM files f
   WHERE f.content_hash = b.content_hash
   ORDER BY f.uploaded_at ASC, f.id ASC LIMIT 1)
FROM blobs b
WHERE b.ref_count > 1
ORDER BY b.size_bytes * (b.ref_count - 1) DESC, b.content_hash ASC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []DuplicateGroup
	for rows.Next() {
		var g DuplicateGroup
		if err := rows.Scan(&g.ContentHash, &g.SizeBytes, &g.RefCount, &g.OriginalFilename); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}
