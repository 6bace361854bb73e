package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"filehub/internal/api"
	"filehub/internal/blobstore"
	"filehub/internal/config"
	"filehub/internal/store"
)

func newTestServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "filehub.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	bs, err := blobstore.NewLocalCAS(t.TempDir())
	if err != nil {
		t.Fatalf("open blob store: %v", err)
	}

	cfg := config.Default()
	cfg.DBPath = "test.db"
	cfg.DataDir = "test-data"

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := New(&cfg, st, bs, logger)
	return srv, srv.routes()
}

func multipartUpload(t *testing.T, fields map[string]string, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("content", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write content: %v", err)
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("write field %s: %v", key, err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &body, writer.FormDataContentType()
}

func doUpload(t *testing.T, handler http.Handler, filename, content string, fields map[string]string) (*httptest.ResponseRecorder, api.FileResponse) {
	t.Helper()
	body, contentType := multipartUpload(t, fields, filename, content)
	req := httptest.NewRequest(http.MethodPost, "/v1/files", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var resp api.FileResponse
	if rec.Code == http.StatusCreated {
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode upload response: %v", err)
		}
	}
	return rec, resp
}

func decodeErrorBody(t *testing.T, rec *httptest.ResponseRecorder) api.ErrorResponse {
	t.Helper()
	var resp api.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	return resp
}

func TestHealth(t *testing.T) {
	_, handler := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestInfo(t *testing.T) {
	_, handler := newTestServer(t)
	doUpload(t, handler, "a.txt", "info payload", nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/info", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp api.InfoResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.TotalFiles != 1 || resp.TotalBlobs != 1 {
		t.Fatalf("unexpected info %+v", resp)
	}
	if resp.DBPath != "test.db" || resp.DataDir != "test-data" {
		t.Fatalf("unexpected paths %+v", resp)
	}
}
