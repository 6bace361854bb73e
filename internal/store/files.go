package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"filehub/internal/models"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

type scanner interface {
	Scan(dest ...any) error
}

const fileColumns = "id, original_filename, file_type, size_bytes, uploaded_at, content_hash, is_duplicate"

// FileExists reports whether a file record with the given ID exists.
func (s *Store) FileExists(ctx context.Context, id string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM files WHERE id = ?", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CreateFileWithBlob inserts a file record and binds it to its blob in one
// transaction. If no blob row exists for the record's content hash one is
// created with ref_count 1 and created is true; otherwise the existing
// row's ref_count is incremented. The record's IsDuplicate flag is set
// from the outcome before the insert.
func (s *Store) CreateFileWithBlob(ctx context.Context, file *models.FileRecord, blob *models.Blob) (created bool, err error) {
	if file.ID == "" {
		id, idErr := GenerateFileID(func(candidate string) (bool, error) {
			return s.FileExists(ctx, candidate)
		})
		if idErr != nil {
			return false, idErr
		}
		file.ID = id
	}
	if file.UploadedAt.IsZero() {
		file.UploadedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var refCount int64
	err = tx.QueryRowContext(ctx,
		"SELECT ref_count FROM blobs WHERE content_hash = ?", file.ContentHash,
	).Scan(&refCount)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		created = true
		_, err = tx.ExecContext(ctx,
			"INSERT INTO blobs (content_hash, size_bytes, blob_key, ref_count, created_at) VALUES (?, ?, ?, 1, ?)",
			blob.ContentHash, blob.SizeBytes, blob.BlobKey, formatTime(file.UploadedAt),
		)
		if err != nil {
			return false, err
		}
	case err != nil:
		return false, err
	default:
		_, err = tx.ExecContext(ctx,
			"UPDATE blobs SET ref_count = ref_count + 1 WHERE content_hash = ?", file.ContentHash,
		)
		if err != nil {
			return false, err
		}
	}

	file.IsDuplicate = !created
	_, err = tx.ExecContext(ctx,
		"INSERT INTO files ("+fileColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		file.ID, file.OriginalFilename, file.FileType, file.SizeBytes,
		formatTime(file.UploadedAt), file.ContentHash, boolToInt(file.IsDuplicate),
	)
	if err != nil {
		return false, err
	}

	if err = tx.Commit(); err != nil {
		return false, err
	}
	return created, nil
}

// GetFile retrieves a file record by ID. Returns ErrNotFound if no such
// record exists.
func (s *Store) GetFile(ctx context.Context, id string) (*models.FileRecord, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+fileColumns+" FROM files WHERE id = ?", id)
	file, err := scanFile(row)
	if err != nil {
		return nil, err
	}
	if file == nil {
		return nil, fmt.Errorf("file %s: %w", id, ErrNotFound)
	}
	return file, nil
}

// DeleteFile removes a file record and releases its blob reference in one
// transaction. It returns the record's content hash and whether the
// removed reference was the last one, in which case the blob row is gone
// and the physical bytes may be reclaimed.
func (s *Store) DeleteFile(ctx context.Context, id string) (contentHash string, lastRef bool, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", false, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	err = tx.QueryRowContext(ctx, "SELECT content_hash FROM files WHERE id = ?", id).Scan(&contentHash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, fmt.Errorf("file %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return "", false, err
	}

	if _, err = tx.ExecContext(ctx, "DELETE FROM files WHERE id = ?", id); err != nil {
		return "", false, err
	}
	if _, err = tx.ExecContext(ctx,
		"UPDATE blobs SET ref_count = ref_count - 1 WHERE content_hash = ?", contentHash,
	); err != nil {
		return "", false, err
	}

	var refCount int64
	err = tx.QueryRowContext(ctx,
		"SELECT ref_count FROM blobs WHERE content_hash = ?", contentHash,
	).Scan(&refCount)
	if err != nil {
		return "", false, err
	}
	if refCount <= 0 {
		lastRef = true
		if _, err = tx.ExecContext(ctx,
			"DELETE FROM blobs WHERE content_hash = ?", contentHash,
		); err != nil {
			return "", false, err
		}
	}

	if err = tx.Commit(); err != nil {
		return "", false, err
	}
	return contentHash, lastRef, nil
}

// ListFiles returns the page of records matching the query plus the total
// match count before pagination.
func (s *Store) ListFiles(ctx context.Context, query ListQuery) ([]*models.FileRecord, int, error) {
	builder := newFilesQueryBuilder(query)

	countSQL, countArgs := builder.countQuery()
	var total int
	if err := s.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	pageSQL, pageArgs := builder.pageQuery()
	rows, err := s.db.QueryContext(ctx, pageSQL, pageArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var files []*models.FileRecord
	for rows.Next() {
		file, err := scanFile(rows)
		if err != nil {
			return nil, 0, err
		}
		files = append(files, file)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return files, total, nil
}

func scanFile(sc scanner) (*models.FileRecord, error) {
	var file models.FileRecord
	var uploadedAt string
	var isDuplicate int
	err := sc.Scan(
		&file.ID, &file.OriginalFilename, &file.FileType, &file.SizeBytes,
		&uploadedAt, &file.ContentHash, &isDuplicate,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	file.UploadedAt, err = parseTime(uploadedAt)
	if err != nil {
		return nil, fmt.Errorf("file %s: bad uploaded_at: %w", file.ID, err)
	}
	file.IsDuplicate = isDuplicate != 0
	return &file, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
