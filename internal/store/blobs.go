package store

import (
	"context"
	"database/sql"
	"errors"

	"filehub/internal/models"
)

// GetBlob retrieves blob metadata by content hash. Returns nil without
// error when no row exists.
func (s *Store) GetBlob(ctx context.Context, contentHash string) (*models.Blob, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT content_hash, size_bytes, blob_key, ref_count, created_at FROM blobs WHERE content_hash = ?",
		contentHash,
	)

	var blob models.Blob
	var createdAt string
	err := row.Scan(&blob.ContentHash, &blob.SizeBytes, &blob.BlobKey, &blob.RefCount, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	blob.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	return &blob, nil
}

// BlobReferenced reports whether any catalog row still references the
// content hash. Used by the sweeper to spot orphaned physical blobs.
func (s *Store) BlobReferenced(ctx context.Context, contentHash string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM blobs WHERE content_hash = ?", contentHash,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
