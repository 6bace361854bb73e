package server

import (
	"context"
	"math"

	"filehub/internal/models"
	"filehub/internal/store"
)

// MetricsService computes the storage-efficiency snapshot on demand.
// Nothing is persisted; every snapshot reflects the catalog at call
// time.
type MetricsService struct {
	catalog            store.Catalog
	topDuplicateGroups int
}

// NewMetricsService constructs a MetricsService reporting at most
// topDuplicateGroups duplicate groups per snapshot.
func NewMetricsService(catalog store.Catalog, topDuplicateGroups int) *MetricsService {
	if topDuplicateGroups <= 0 {
		topDuplicateGroups = 10
	}
	return &MetricsService{catalog: catalog, topDuplicateGroups: topDuplicateGroups}
}

// Snapshot assembles summary counters, derived ratios, and the top
// duplicate groups.
func (s *MetricsService) Snapshot(ctx context.Context) (*models.StorageMetricsSnapshot, error) {
	totals, err := s.catalog.StorageTotals(ctx)
	if err != nil {
		return nil, err
	}

	groups, err := s.catalog.DuplicateGroups(ctx, s.topDuplicateGroups)
	if err != nil {
		return nil, err
	}

	snapshot := &models.StorageMetricsSnapshot{
		SummaryMetrics:      totals,
		EfficiencyMetrics:   deriveEfficiency(totals),
		DuplicateStatistics: make([]models.DuplicateGroupStat, 0, len(groups)),
	}
	for _, g := range groups {
		snapshot.DuplicateStatistics = append(snapshot.DuplicateStatistics, models.DuplicateGroupStat{
			OriginalFilename:      g.OriginalFilename,
			SizeBytes:             g.SizeBytes,
			DuplicateCount:        g.RefCount - 1,
			TotalSizeSaved:        g.SizeBytes * (g.RefCount - 1),
			OriginalityPercentage: round2(100 / float64(g.RefCount)),
		})
	}
	return snapshot, nil
}

// deriveEfficiency computes ratios with explicit zero-denominator
// guards: an empty store reports a ratio of 1 and percentages of 0.
func deriveEfficiency(totals models.SummaryMetrics) models.EfficiencyMetrics {
	var eff models.EfficiencyMetrics

	if totals.ActualStorageBytes > 0 {
		eff.DeduplicationRatio = round2(float64(totals.TheoreticalStorageBytes) / float64(totals.ActualStorageBytes))
	} else {
		eff.DeduplicationRatio = 1
	}
	if totals.TheoreticalStorageBytes > 0 {
		eff.SpaceSavingsPercentage = round2(float64(totals.StorageSavedBytes) / float64(totals.TheoreticalStorageBytes) * 100)
	}
	if totals.TotalFiles > 0 {
		eff.OriginalityPercentage = round2(float64(totals.UniqueFiles) / float64(totals.TotalFiles) * 100)
	}
	if totals.UniqueFiles > 0 {
		eff.AverageDuplicationFactor = round2(float64(totals.TotalFiles) / float64(totals.UniqueFiles))
	}
	return eff
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
