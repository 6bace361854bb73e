package server

import (
	"context"
	"fmt"
	"io"

	"filehub/internal/blobstore"
	"filehub/internal/config"
	"filehub/internal/models"
	"filehub/internal/store"
)

// FileService orchestrates upload, download, and delete workflows over
// the catalog and the blob store.
type FileService struct {
	catalog store.Catalog
	blobs   blobstore.BlobStore

	maxUploadBytes     int64
	multipartMaxMemory int64
	allowedMediaTypes  map[string]struct{}
}

// NewFileService constructs a FileService with the configured upload
// policy.
func NewFileService(catalog store.Catalog, blobs blobstore.BlobStore, uploads config.UploadConfig) *FileService {
	allowed := map[string]struct{}{}
	for _, mediaType := range uploads.AllowedMediaTypes {
		allowed[mediaType] = struct{}{}
	}
	if len(allowed) == 0 {
		allowed = nil
	}
	return &FileService{
		catalog:            catalog,
		blobs:              blobs,
		maxUploadBytes:     uploads.MaxUploadBytes,
		multipartMaxMemory: uploads.MultipartMaxMemory,
		allowedMediaTypes:  allowed,
	}
}

// UploadInput describes one incoming file. DeclaredSize below zero means
// no length declaration; empty DeclaredSHA256 means no integrity
// declaration.
type UploadInput struct {
	Filename       string
	MediaType      string
	DeclaredSHA256 string
	DeclaredSize   int64
	Content        io.Reader
}

// Upload stores one file. Content bytes are spooled and hashed exactly
// once; if the payload already exists the spool is discarded and the new
// record joins the existing blob. A failure after validation leaves
// refcounts untouched; at worst an orphaned physical blob remains for
// the sweeper.
func (s *FileService) Upload(ctx context.Context, in UploadInput) (*models.FileRecord, error) {
	filename, err := validateFilename(in.Filename)
	if err != nil {
		return nil, badRequest(err)
	}
	mediaType, err := s.resolveMediaType(in.MediaType)
	if err != nil {
		return nil, err
	}

	spool, err := s.blobs.Stage(ctx, in.Content, in.DeclaredSize)
	if err != nil {
		return nil, err
	}
	defer spool.Discard()

	if err := blobstore.MatchDeclaredDigest(spool.Digest(), in.DeclaredSHA256); err != nil {
		return nil, err
	}

	digest := spool.Digest()
	unlock := s.blobs.LockFingerprint(digest)
	defer unlock()

	existing, err := s.catalog.GetBlob(ctx, digest)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		if err := spool.Install(ctx); err != nil {
			return nil, err
		}
	} else {
		spool.Discard()
	}

	file := &models.FileRecord{
		OriginalFilename: filename,
		FileType:         mediaType,
		SizeBytes:        spool.SizeBytes(),
		ContentHash:      digest,
	}
	blob := &models.Blob{
		ContentHash: digest,
		SizeBytes:   spool.SizeBytes(),
		BlobKey:     spool.BlobKey(),
	}
	if _, err := s.catalog.CreateFileWithBlob(ctx, file, blob); err != nil {
		return nil, err
	}
	return file, nil
}

// Get returns one file record.
func (s *FileService) Get(ctx context.Context, id string) (*models.FileRecord, error) {
	return s.catalog.GetFile(ctx, id)
}

// Download returns the record and a reader over its content. The caller
// closes the reader; an in-flight reader keeps the physical bytes alive
// even if the record is deleted concurrently.
func (s *FileService) Download(ctx context.Context, id string) (*models.FileRecord, io.ReadCloser, error) {
	file, err := s.catalog.GetFile(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.blobs.Open(ctx, file.ContentHash)
	if err != nil {
		return nil, nil, err
	}
	return file, rc, nil
}

// Delete removes a record and, when the last reference is gone, the
// physical bytes. The fingerprint lock is taken before the catalog
// transaction so a concurrent upload of the same content cannot install
// bytes that this delete would then remove.
func (s *FileService) Delete(ctx context.Context, id string) error {
	file, err := s.catalog.GetFile(ctx, id)
	if err != nil {
		return err
	}

	unlock := s.blobs.LockFingerprint(file.ContentHash)
	defer unlock()

	contentHash, lastRef, err := s.catalog.DeleteFile(ctx, id)
	if err != nil {
		return err
	}
	if !lastRef {
		return nil
	}
	return s.blobs.Delete(ctx, contentHash)
}

func (s *FileService) resolveMediaType(raw string) (string, error) {
	mediaType, err := normalizeMediaType(raw)
	if err != nil {
		return "", badRequestCode(fmt.Errorf("invalid media type %q", raw), ErrCodeInvalidMediaType)
	}
	if mediaType == "" {
		mediaType = fallbackMediaType
	}
	if s.allowedMediaTypes != nil {
		if _, ok := s.allowedMediaTypes[mediaType]; !ok {
			return "", badRequestCode(fmt.Errorf("media type %q is not allowed", mediaType), ErrCodeInvalidMediaType)
		}
	}
	return mediaType, nil
}
