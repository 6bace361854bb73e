package models

// SummaryMetrics holds raw file and byte counts for the whole store.
type SummaryMetrics struct {
	TotalFiles              int64 `json:"total_files"`
	UniqueFiles             int64 `json:"unique_files"`
	DuplicateFiles          int64 `json:"duplicate_files"`
	ActualStorageBytes      int64 `json:"actual_storage_bytes"`
	TheoreticalStorageBytes int64 `json:"theoretical_storage_bytes"`
	StorageSavedBytes       int64 `json:"storage_saved_bytes"`
}

// EfficiencyMetrics holds derived ratios. Every field is guarded against
// divide-by-zero; an empty store yields well-defined values.
type EfficiencyMetrics struct {
	DeduplicationRatio       float64 `json:"deduplication_ratio"`
	SpaceSavingsPercentage   float64 `json:"space_savings_percentage"`
	OriginalityPercentage    float64 `json:"originality_percentage"`
	AverageDuplicationFactor float64 `json:"average_duplication_factor"`
}

// DuplicateGroupStat describes one blob referenced by more than one record.
type DuplicateGroupStat struct {
	OriginalFilename      string  `json:"original_filename"`
	SizeBytes             int64   `json:"size_bytes"`
	DuplicateCount        int64   `json:"duplicate_count"`
	TotalSizeSaved        int64   `json:"total_size_saved"`
	OriginalityPercentage float64 `json:"originality_percentage"`
}

// StorageMetricsSnapshot is recomputed on demand and never persisted.
type StorageMetricsSnapshot struct {
	SummaryMetrics      SummaryMetrics       `json:"summary_metrics"`
	EfficiencyMetrics   EfficiencyMetrics    `json:"efficiency_metrics"`
	DuplicateStatistics []DuplicateGroupStat `json:"duplicate_statistics"`
}
