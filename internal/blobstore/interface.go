package blobstore

import (
	"context"
	"io"
)

// Spool is upload content staged to a temp file with its digest computed.
// Exactly one of Install or Discard must be called.
type Spool interface {
	Digest() string
	SizeBytes() int64
	BlobKey() string
	Install(ctx context.Context) error
	Discard()
}

// BlobStore is the physical byte-storage abstraction. Blob metadata and
// reference counts live in the catalog database; the store only moves
// bytes keyed by content digest.
type BlobStore interface {
	// Stage streams r to a spool file while hashing it. A negative
	// declaredSize skips the length check.
	Stage(ctx context.Context, r io.Reader, declaredSize int64) (Spool, error)
	Open(ctx context.Context, digest string) (io.ReadCloser, error)
	// Delete removes the physical bytes for digest. Removal is deferred
	// until in-flight readers opened via Open have closed.
	Delete(ctx context.Context, digest string) error
	Exists(ctx context.Context, digest string) (bool, error)
	// LockFingerprint serializes check-and-create and release sequences
	// for one digest. The returned function releases the lock.
	LockFingerprint(digest string) func()
	// Walk visits every stored blob. Used by the orphan sweeper.
	Walk(ctx context.Context, fn func(digest string, sizeBytes int64) error) error
}
