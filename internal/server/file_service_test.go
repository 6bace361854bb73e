package server

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
)

func TestUpload_ConcurrentSameContent(t *testing.T) {
	srv, _ := newTestServer(t)
	ctx := context.Background()

	const workers = 8
	results := make([]bool, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			file, err := srv.fileService.Upload(ctx, UploadInput{
				Filename:     fmt.Sprintf("copy-%d.bin", i),
				DeclaredSize: -1,
				Content:      strings.NewReader("raced payload"),
			})
			if err != nil {
				errs[i] = err
				return
			}
			results[i] = file.IsDuplicate
		}(i)
	}
	wg.Wait()

	originals := 0
	for i := 0; i < workers; i++ {
		if errs[i] != nil {
			t.Fatalf("upload %d: %v", i, errs[i])
		}
		if !results[i] {
			originals++
		}
	}
	if originals != 1 {
		t.Fatalf("expected exactly one non-duplicate record, got %d", originals)
	}

	file, err := srv.fileService.Upload(ctx, UploadInput{
		Filename:     "probe.bin",
		DeclaredSize: -1,
		Content:      strings.NewReader("raced payload"),
	})
	if err != nil {
		t.Fatalf("probe upload: %v", err)
	}
	blob, err := srv.catalog.GetBlob(ctx, file.ContentHash)
	if err != nil {
		t.Fatalf("get blob: %v", err)
	}
	if blob == nil || blob.RefCount != workers+1 {
		t.Fatalf("expected ref count %d, got %+v", workers+1, blob)
	}
}

func TestDelete_ReuploadDuringDownloadKeepsContent(t *testing.T) {
	srv, _ := newTestServer(t)
	ctx := context.Background()

	first, err := srv.fileService.Upload(ctx, UploadInput{
		Filename:     "original.bin",
		DeclaredSize: -1,
		Content:      strings.NewReader("revived payload"),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	_, rc, err := srv.fileService.Download(ctx, first.ID)
	if err != nil {
		t.Fatalf("download: %v", err)
	}

	// Last reference goes away while the download is in flight, so the
	// physical removal parks behind the reader.
	if err := srv.fileService.Delete(ctx, first.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	second, err := srv.fileService.Upload(ctx, UploadInput{
		Filename:     "reborn.bin",
		DeclaredSize: -1,
		Content:      strings.NewReader("revived payload"),
	})
	if err != nil {
		t.Fatalf("re-upload: %v", err)
	}
	if second.IsDuplicate {
		t.Fatal("re-upload after last-reference delete must not be a duplicate")
	}
	if second.ContentHash != first.ContentHash {
		t.Fatalf("expected matching digests, got %s and %s", first.ContentHash, second.ContentHash)
	}

	if _, err := io.ReadAll(rc); err != nil {
		t.Fatalf("read during pending delete: %v", err)
	}
	if err := rc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// The drained reader must not take the reborn record's bytes with it.
	_, rc, err = srv.fileService.Download(ctx, second.ID)
	if err != nil {
		t.Fatalf("download of reborn record: %v", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read reborn record: %v", err)
	}
	if string(data) != "revived payload" {
		t.Fatalf("unexpected content %q", data)
	}
}
