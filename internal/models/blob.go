package models

import "time"

// Blob is the unique physical storage unit for one distinct content
// payload. Identity is the SHA-256 content hash; at most one Blob exists
// per hash and its bytes are immutable once written.
type Blob struct {
	ContentHash string    `json:"content_hash"`
	SizeBytes   int64     `json:"size_bytes"`
	BlobKey     string    `json:"blob_key"`
	RefCount    int64     `json:"ref_count"`
	CreatedAt   time.Time `json:"created_at"`
}
