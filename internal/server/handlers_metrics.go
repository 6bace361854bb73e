package server

import (
	"net/http"

	"filehub/internal/api"
	"filehub/internal/models"
)

func (s *Server) handleStorageMetrics(w http.ResponseWriter, r *http.Request) {
	if !s.acquireLimiter(s.metricsLimiter, w, r, "metrics") {
		return
	}
	defer s.releaseLimiter(s.metricsLimiter)

	snapshot, err := s.metricsService.Snapshot(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toMetricsResponse(snapshot))
}

func toMetricsResponse(snapshot *models.StorageMetricsSnapshot) api.MetricsResponse {
	resp := api.MetricsResponse{
		SummaryMetrics: api.SummaryMetrics{
			TotalFiles:              snapshot.SummaryMetrics.TotalFiles,
			UniqueFiles:             snapshot.SummaryMetrics.UniqueFiles,
			DuplicateFiles:          snapshot.SummaryMetrics.DuplicateFiles,
			ActualStorageBytes:      snapshot.SummaryMetrics.ActualStorageBytes,
			TheoreticalStorageBytes: snapshot.SummaryMetrics.TheoreticalStorageBytes,
			StorageSavedBytes:       snapshot.SummaryMetrics.StorageSavedBytes,
		},
		EfficiencyMetrics: api.EfficiencyMetrics{
			DeduplicationRatio:       snapshot.EfficiencyMetrics.DeduplicationRatio,
			SpaceSavingsPercentage:   snapshot.EfficiencyMetrics.SpaceSavingsPercentage,
			OriginalityPercentage:    snapshot.EfficiencyMetrics.OriginalityPercentage,
			AverageDuplicationFactor: snapshot.EfficiencyMetrics.AverageDuplicationFactor,
		},
		DuplicateStatistics: make([]api.DuplicateGroupStat, 0, len(snapshot.DuplicateStatistics)),
	}
	for _, stat := range snapshot.DuplicateStatistics {
		resp.DuplicateStatistics = append(resp.DuplicateStatistics, api.DuplicateGroupStat{
			OriginalFilename:      stat.OriginalFilename,
			SizeBytes:             stat.SizeBytes,
			DuplicateCount:        stat.DuplicateCount,
			TotalSizeSaved:        stat.TotalSizeSaved,
			OriginalityPercentage: stat.OriginalityPercentage,
		})
	}
	return resp
}
