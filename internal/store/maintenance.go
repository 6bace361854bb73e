package store

import "context"

// Info summarizes the catalog for the info endpoint.
type Info struct {
	SchemaVersion int   `json:"schema_version"`
	TotalFiles    int64 `json:"total_files"`
	TotalBlobs    int64 `json:"total_blobs"`
	StorageBytes  int64 `json:"storage_bytes"`
}

// StoreInfo returns catalog counters and the schema version.
func (s *Store) StoreInfo(ctx context.Context) (*Info, error) {
	version, err := s.SchemaVersion()
	if err != nil {
		return nil, err
	}

	info := &Info{SchemaVersion: version}
	err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM files").Scan(&info.TotalFiles)
	if err != nil {
		return nil, err
	}
	err = s.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(size_bytes), 0) FROM blobs",
	).Scan(&info.TotalBlobs, &info.StorageBytes)
	if err != nil {
		return nil, err
	}
	return info, nil
}
