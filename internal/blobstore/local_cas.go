package blobstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

const casAlgorithmPrefix = "sha256"

var digestPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

// LocalCAS stores blob bytes in a local content-addressed tree sharded by
// digest prefix (sha256/ab/cd/<digest>). Uploads are staged under tmp/ and
// installed with a rename so a crash never leaves a partial blob at a
// final location.
type LocalCAS struct {
	root   string
	locks  *keyedMutex
	leases *readerLeases
}

// NewLocalCAS creates a local CAS rooted at root.
func NewLocalCAS(root string) (*LocalCAS, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, fmt.Errorf("blob store root is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Join(abs, "tmp"), 0o755); err != nil {
		return nil, err
	}
	return &LocalCAS{root: abs, locks: newKeyedMutex(), leases: newReaderLeases()}, nil
}

// LockFingerprint serializes check-and-create / release sequences for one
// digest. Byte streaming happens outside this lock.
func (c *LocalCAS) LockFingerprint(digest string) func() {
	return c.locks.Lock(digest)
}

// Stage streams r into a spool file while computing its SHA-256. When
// declaredSize is non-negative the byte count is checked against it and a
// mismatch fails with ErrLengthMismatch.
func (c *LocalCAS) Stage(ctx context.Context, r io.Reader, declaredSize int64) (Spool, error) {
	if c == nil {
		return nil, fmt.Errorf("blob store is not configured")
	}
	if r == nil {
		return nil, fmt.Errorf("reader is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp(filepath.Join(c.root, "tmp"), "stage-*")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	h := sha256.New()
	n, err := io.Copy(io.MultiWriter(tmp, h), r)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return nil, fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}
	if declaredSize >= 0 && n != declaredSize {
		_ = os.Remove(tmpPath)
		return nil, fmt.Errorf("%w: declared %d, read %d", ErrLengthMismatch, declaredSize, n)
	}

	digest := hex.EncodeToString(h.Sum(nil))
	return &localSpool{cas: c, path: tmpPath, digest: digest, size: n}, nil
}

// Open returns a reader for the blob with the given digest. The physical
// bytes are leased until the reader closes; a concurrent Delete on the
// same digest is deferred until then.
func (c *LocalCAS) Open(ctx context.Context, digest string) (io.ReadCloser, error) {
	if c == nil {
		return nil, fmt.Errorf("blob store is not configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := c.pathFromDigest(digest)
	if err != nil {
		return nil, err
	}

	release := c.leases.acquire(digest)
	f, err := os.Open(path)
	if err != nil {
		release()
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStorageRead, err)
	}
	return &leasedReader{f: f, release: release}, nil
}

// Delete removes the physical bytes for digest. When readers hold a lease
// on the digest, removal is parked and performed by the last Close.
// Missing files are ignored; the catalog row is the source of truth.
func (c *LocalCAS) Delete(ctx context.Context, digest string) error {
	if c == nil {
		return fmt.Errorf("blob store is not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := c.pathFromDigest(digest)
	if err != nil {
		return err
	}
	if c.leases.deferIfLeased(digest, path) {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}
	return nil
}

// Exists reports whether the blob bytes for digest are present.
func (c *LocalCAS) Exists(ctx context.Context, digest string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	path, err := c.pathFromDigest(digest)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Walk visits every stored blob, skipping the staging area.
func (c *LocalCAS) Walk(ctx context.Context, fn func(digest string, sizeBytes int64) error) error {
	base := filepath.Join(c.root, casAlgorithmPrefix)
	return filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil
			}
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		if !digestPattern.MatchString(name) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		return fn(name, info.Size())
	})
}

// BlobKeyFromDigest returns the sharded storage key for a digest.
func BlobKeyFromDigest(digest string) string {
	return fmt.Sprintf("%s/%s/%s/%s", casAlgorithmPrefix, digest[0:2], digest[2:4], digest)
}

func (c *LocalCAS) pathFromDigest(digest string) (string, error) {
	digest = strings.ToLower(strings.TrimSpace(digest))
	if !digestPattern.MatchString(digest) {
		return "", fmt.Errorf("invalid content digest %q", digest)
	}
	return filepath.Join(c.root, filepath.FromSlash(BlobKeyFromDigest(digest))), nil
}

type localSpool struct {
	cas    *LocalCAS
	path   string
	digest string
	size   int64
	done   bool
}

func (s *localSpool) Digest() string   { return s.digest }
func (s *localSpool) SizeBytes() int64 { return s.size }
func (s *localSpool) BlobKey() string  { return BlobKeyFromDigest(s.digest) }

// Install moves the spool file to its content-addressed location. The
// rename is atomic on one filesystem; a spool that loses the race to an
// already-installed blob is simply discarded.
func (s *localSpool) Install(ctx context.Context) error {
	if s.done {
		return fmt.Errorf("spool already consumed")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	dst, err := s.cas.pathFromDigest(s.digest)
	if err != nil {
		s.Discard()
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		s.Discard()
		return fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}

	// The digest is live again; a removal parked behind readers must
	// not fire after this install. Cancelling before the existence
	// check means any parked removal either already ran (and the rename
	// below lays down fresh bytes) or never will.
	s.cas.leases.cancelPending(s.digest)

	if _, err := os.Stat(dst); err == nil {
		s.Discard()
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		s.Discard()
		return fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}

	if err := os.Rename(s.path, dst); err != nil {
		if _, statErr := os.Stat(dst); statErr == nil {
			s.Discard()
			return nil
		}
		s.Discard()
		return fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}
	s.done = true
	return nil
}

// Discard removes the spool file without installing it.
func (s *localSpool) Discard() {
	if s.done {
		return
	}
	s.done = true
	_ = os.Remove(s.path)
}

// readerLeases tracks active readers per digest so physical deletion can
// drain before reclaiming bytes.
type readerLeases struct {
	mu      sync.Mutex
	readers map[string]int
	pending map[string]string
}

func newReaderLeases() *readerLeases {
	return &readerLeases{readers: map[string]int{}, pending: map[string]string{}}
}

func (l *readerLeases) acquire(digest string) func() {
	l.mu.Lock()
	l.readers[digest]++
	l.mu.Unlock()

	// The parked removal runs while the mutex is held so it serializes
	// with cancelPending: a digest revived by a concurrent install is
	// never removed by a draining reader.
	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			l.readers[digest]--
			drained := l.readers[digest] <= 0
			if drained {
				delete(l.readers, digest)
			}
			if pendingPath, ok := l.pending[digest]; drained && ok {
				delete(l.pending, digest)
				_ = os.Remove(pendingPath)
			}
		})
	}
}

// cancelPending drops a parked removal for digest. Called when the
// digest is re-established while readers of the old bytes are still
// draining. Returns only after any in-flight parked removal finished.
func (l *readerLeases) cancelPending(digest string) {
	l.mu.Lock()
	delete(l.pending, digest)
	l.mu.Unlock()
}

func (l *readerLeases) deferIfLeased(digest, path string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.readers[digest] > 0 {
		l.pending[digest] = path
		return true
	}
	return false
}

type leasedReader struct {
	f       *os.File
	release func()
}

func (r *leasedReader) Read(p []byte) (int, error) {
	n, err := r.f.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		return n, fmt.Errorf("%w: %v", ErrStorageRead, err)
	}
	return n, err
}

func (r *leasedReader) Close() error {
	err := r.f.Close()
	r.release()
	return err
}
