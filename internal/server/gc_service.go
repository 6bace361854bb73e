package server

import (
	"context"
	"log/slog"
	"time"

	"filehub/internal/api"
	"filehub/internal/blobstore"
	"filehub/internal/store"
)

// GCService reclaims orphaned physical blobs: bytes present in the blob
// store with no catalog row. Orphans appear when an upload fails between
// install and commit, or when a deferred delete is interrupted by a
// crash.
type GCService struct {
	catalog   store.Catalog
	blobs     blobstore.BlobStore
	batchSize int
	logger    *slog.Logger
}

// NewGCService constructs a GCService removing at most batchSize orphans
// per sweep.
func NewGCService(catalog store.Catalog, blobs blobstore.BlobStore, batchSize int, logger *slog.Logger) *GCService {
	if batchSize <= 0 {
		batchSize = 500
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GCService{catalog: catalog, blobs: blobs, batchSize: batchSize, logger: logger}
}

// Sweep walks the physical blob store and removes unreferenced blobs.
// The fingerprint lock serializes each removal against concurrent
// uploads of the same content.
func (s *GCService) Sweep(ctx context.Context) (api.GCResponse, error) {
	var result api.GCResponse

	err := s.blobs.Walk(ctx, func(digest string, sizeBytes int64) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		result.ScannedBlobs++
		if result.RemovedBlobs >= s.batchSize {
			return nil
		}

		unlock := s.blobs.LockFingerprint(digest)
		defer unlock()

		referenced, err := s.catalog.BlobReferenced(ctx, digest)
		if err != nil {
			return err
		}
		if referenced {
			return nil
		}

		if err := s.blobs.Delete(ctx, digest); err != nil {
			s.logger.Warn("gc: remove orphan failed", "digest", digest, "error", err)
			return nil
		}
		result.RemovedBlobs++
		result.ReclaimedBytes += sizeBytes
		return nil
	})
	if err != nil {
		return result, err
	}

	s.logger.Info("gc sweep complete",
		"scanned", result.ScannedBlobs,
		"removed", result.RemovedBlobs,
		"reclaimed_bytes", result.ReclaimedBytes,
	)
	return result, nil
}

// Run sweeps on the given interval until the context is canceled.
func (s *GCService) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil {
				s.logger.Error("gc sweep failed", "error", err)
			}
		}
	}
}
