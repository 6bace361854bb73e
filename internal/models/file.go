package models

import "time"

// FileRecord is one logical upload. Many records may reference the same
// blob; is_duplicate is fixed at creation time and never recomputed.
type FileRecord struct {
	ID               string    `json:"id"`
	OriginalFilename string    `json:"original_filename"`
	FileType         string    `json:"file_type"`
	SizeBytes        int64     `json:"size"`
	UploadedAt       time.Time `json:"uploaded_at"`
	ContentHash      string    `json:"file_hash"`
	IsDuplicate      bool      `json:"is_duplicate"`
}
