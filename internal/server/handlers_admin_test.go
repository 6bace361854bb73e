package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"filehub/internal/api"
	"filehub/internal/auth"
	"filehub/internal/blobstore"
)

func TestAdminGC_DisabledWithoutHash(t *testing.T) {
	_, handler := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/admin/gc", nil)
	req.Header.Set(adminTokenHeader, "whatever-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with no configured hash, got %d", rec.Code)
	}
}

func TestAdminGC_RejectsBadToken(t *testing.T) {
	srv, _ := newTestServer(t)
	hash, err := auth.HashToken("the-real-token")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	srv.adminTokenHash = hash
	handler := srv.routes()

	req := httptest.NewRequest(http.MethodPost, "/v1/admin/gc", nil)
	req.Header.Set(adminTokenHeader, "the-wrong-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad token, got %d", rec.Code)
	}
}

func TestAdminGC_SweepsOrphanedBlobs(t *testing.T) {
	srv, handler := newTestServer(t)
	hash, err := auth.HashToken("the-real-token")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	srv.adminTokenHash = hash
	handler = srv.routes()

	// A referenced blob that must survive the sweep.
	_, kept := doUpload(t, handler, "keep.txt", "referenced payload", nil)

	// An installed blob with no catalog row.
	ctx := context.Background()
	cas := srv.fileService.blobs.(*blobstore.LocalCAS)
	spool, err := cas.Stage(ctx, strings.NewReader("orphan payload"), -1)
	if err != nil {
		t.Fatalf("stage orphan: %v", err)
	}
	orphanDigest := spool.Digest()
	if err := spool.Install(ctx); err != nil {
		t.Fatalf("install orphan: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/admin/gc", nil)
	req.Header.Set(adminTokenHeader, "the-real-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp api.GCResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ScannedBlobs != 2 {
		t.Fatalf("expected 2 scanned blobs, got %d", resp.ScannedBlobs)
	}
	if resp.RemovedBlobs != 1 {
		t.Fatalf("expected 1 removed blob, got %d", resp.RemovedBlobs)
	}
	if resp.ReclaimedBytes != int64(len("orphan payload")) {
		t.Fatalf("unexpected reclaimed bytes %d", resp.ReclaimedBytes)
	}

	exists, err := cas.Exists(ctx, orphanDigest)
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if exists {
		t.Fatal("expected orphan bytes to be removed")
	}

	// The referenced record still downloads.
	req = httptest.NewRequest(http.MethodGet, "/v1/files/"+kept.ID+"/download", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "referenced payload" {
		t.Fatalf("expected referenced blob to survive, got %d", rec.Code)
	}
}
