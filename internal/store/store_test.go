package store

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"filehub/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "filehub.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

// addFile inserts a record whose content hash is derived from the content
// label, so equal labels dedup against each other.
func addFile(t *testing.T, st *Store, filename, fileType, contentLabel string, size int64) *models.FileRecord {
	t.Helper()
	file := &models.FileRecord{
		OriginalFilename: filename,
		FileType:         fileType,
		SizeBytes:        size,
		ContentHash:      testHash(contentLabel),
	}
	blob := &models.Blob{
		ContentHash: file.ContentHash,
		SizeBytes:   size,
		BlobKey:     "sha256/te/st/" + file.ContentHash,
	}
	if _, err := st.CreateFileWithBlob(context.Background(), file, blob); err != nil {
		t.Fatalf("create file %s: %v", filename, err)
	}
	return file
}

func testHash(label string) string {
	padded := label + strings.Repeat("0", 64)
	return strings.ToLower(padded[:64])
}

func TestOpen_RunsMigrations(t *testing.T) {
	st := newTestStore(t)

	version, err := st.SchemaVersion()
	if err != nil {
		t.Fatalf("schema version: %v", err)
	}
	if version != len(migrations) {
		t.Fatalf("expected schema version %d, got %d", len(migrations), version)
	}
}

func TestOpen_IsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "filehub.db")

	st, err := Open(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	st, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer st.Close()

	version, err := st.SchemaVersion()
	if err != nil {
		t.Fatalf("schema version: %v", err)
	}
	if version != len(migrations) {
		t.Fatalf("expected schema version %d after reopen, got %d", len(migrations), version)
	}
}

func TestOpen_EmptyPathRejected(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatal("expected error for empty db path")
	}
}

func TestGenerateFileID(t *testing.T) {
	id, err := GenerateFileID(nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.HasPrefix(id, "fl-") {
		t.Fatalf("expected fl- prefix, got %s", id)
	}
	if len(id) != len("fl-")+idHashLength {
		t.Fatalf("unexpected id length: %s", id)
	}

	calls := 0
	id, err = GenerateFileID(func(string) (bool, error) {
		calls++
		return calls < 3, nil
	})
	if err != nil {
		t.Fatalf("generate with collisions: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 existence checks, got %d", calls)
	}
	if id == "" {
		t.Fatal("expected non-empty id")
	}
}

func TestStoreInfo(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	info, err := st.StoreInfo(ctx)
	if err != nil {
		t.Fatalf("info on empty store: %v", err)
	}
	if info.TotalFiles != 0 || info.TotalBlobs != 0 || info.StorageBytes != 0 {
		t.Fatalf("expected zero counters, got %+v", info)
	}

	addFile(t, st, "a.txt", "text/plain", "aaaa", 100)
	addFile(t, st, "b.txt", "text/plain", "aaaa", 100)
	addFile(t, st, "c.bin", "application/octet-stream", "cccc", 50)

	info, err = st.StoreInfo(ctx)
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	if info.TotalFiles != 3 {
		t.Fatalf("expected 3 files, got %d", info.TotalFiles)
	}
	if info.TotalBlobs != 2 {
		t.Fatalf("expected 2 blobs, got %d", info.TotalBlobs)
	}
	if info.StorageBytes != 150 {
		t.Fatalf("expected 150 stored bytes, got %d", info.StorageBytes)
	}
	if info.SchemaVersion != len(migrations) {
		t.Fatalf("unexpected schema version %d", info.SchemaVersion)
	}
}

func TestTimeRoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	parsed, err := parseTime(formatTime(now))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !parsed.Equal(now) {
		t.Fatalf("expected %v, got %v", now, parsed)
	}
}
