package store

import (
	"context"

	"filehub/internal/models"
)

// Catalog is the persistence surface the service layer depends on.
type Catalog interface {
	FileExists(ctx context.Context, id string) (bool, error)
	CreateFileWithBlob(ctx context.Context, file *models.FileRecord, blob *models.Blob) (created bool, err error)
	GetFile(ctx context.Context, id string) (*models.FileRecord, error)
	DeleteFile(ctx context.Context, id string) (contentHash string, lastRef bool, err error)
	ListFiles(ctx context.Context, query ListQuery) ([]*models.FileRecord, int, error)

	GetBlob(ctx context.Context, contentHash string) (*models.Blob, error)
	BlobReferenced(ctx context.Context, contentHash string) (bool, error)

	StorageTotals(ctx context.Context) (models.SummaryMetrics, error)
	DuplicateGroups(ctx context.Context, limit int) ([]DuplicateGroup, error)

	StoreInfo(ctx context.Context) (*Info, error)
	Close() error
}

var _ Catalog = (*Store)(nil)
