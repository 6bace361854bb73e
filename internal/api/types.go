package api

import "time"

// ErrorResponse is a generic JSON error wrapper.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	ErrorCode int    `json:"error_code,omitempty"`
}

// FileResponse is the wire representation of a stored file record.
type FileResponse struct {
	ID               string    `json:"id"`
	OriginalFilename string    `json:"original_filename"`
	FileType         string    `json:"file_type"`
	Size             int64     `json:"size"`
	UploadedAt       time.Time `json:"uploaded_at"`
	FileHash         string    `json:"file_hash"`
	IsDuplicate      bool      `json:"is_duplicate"`
	DownloadURL      string    `json:"download_url"`
}

// ListFilesResponse is one page of file records. Count is the total
// number of matches before pagination.
type ListFilesResponse struct {
	Count       int            `json:"count"`
	TotalPages  int            `json:"total_pages"`
	CurrentPage int            `json:"current_page"`
	Results     []FileResponse `json:"results"`
}

// SummaryMetrics mirrors the raw storage counters.
type SummaryMetrics struct {
	TotalFiles              int64 `json:"total_files"`
	UniqueFiles             int64 `json:"unique_files"`
	DuplicateFiles          int64 `json:"duplicate_files"`
	ActualStorageBytes      int64 `json:"actual_storage_bytes"`
	TheoreticalStorageBytes int64 `json:"theoretical_storage_bytes"`
	StorageSavedBytes       int64 `json:"storage_saved_bytes"`
}

// EfficiencyMetrics mirrors the derived storage ratios.
type EfficiencyMetrics struct {
	DeduplicationRatio       float64 `json:"deduplication_ratio"`
	SpaceSavingsPercentage   float64 `json:"space_savings_percentage"`
	OriginalityPercentage    float64 `json:"originality_percentage"`
	AverageDuplicationFactor float64 `json:"average_duplication_factor"`
}

// DuplicateGroupStat describes one duplicated payload.
type DuplicateGroupStat struct {
	OriginalFilename      string  `json:"original_filename"`
	SizeBytes             int64   `json:"size_bytes"`
	DuplicateCount        int64   `json:"duplicate_count"`
	TotalSizeSaved        int64   `json:"total_size_saved"`
	OriginalityPercentage float64 `json:"originality_percentage"`
}

// MetricsResponse is the storage-efficiency snapshot.
type MetricsResponse struct {
	SummaryMetrics      SummaryMetrics       `json:"summary_metrics"`
	EfficiencyMetrics   EfficiencyMetrics    `json:"efficiency_metrics"`
	DuplicateStatistics []DuplicateGroupStat `json:"duplicate_statistics"`
}

// InfoResponse describes the running server.
type InfoResponse struct {
	DBPath        string `json:"db_path"`
	DataDir       string `json:"data_dir"`
	SchemaVersion int    `json:"schema_version"`
	TotalFiles    int64  `json:"total_files"`
	TotalBlobs    int64  `json:"total_blobs"`
	StorageBytes  int64  `json:"storage_bytes"`
}

// GCResponse reports one orphan sweep.
type GCResponse struct {
	ScannedBlobs   int   `json:"scanned_blobs"`
	RemovedBlobs   int   `json:"removed_blobs"`
	ReclaimedBytes int64 `json:"reclaimed_bytes"`
}
