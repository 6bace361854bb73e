package main

import (
	"github.com/spf13/cobra"

	"filehub/internal/api"
	"filehub/internal/config"
)

func newMetricsCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "Show storage-efficiency metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				resp, err := client.StorageMetrics(cmd.Context())
				if err != nil {
					return err
				}
				if structuredOutput() {
					return writeStructured(resp)
				}

				s := resp.SummaryMetrics
				_ = writePlain("total_files: %d\n", s.TotalFiles)
				_ = writePlain("unique_files: %d\n", s.UniqueFiles)
				_ = writePlain("duplicate_files: %d\n", s.DuplicateFiles)
				_ = writePlain("actual_storage_bytes: %d\n", s.ActualStorageBytes)
				_ = writePlain("theoretical_storage_bytes: %d\n", s.TheoreticalStorageBytes)
				_ = writePlain("storage_saved_bytes: %d\n", s.StorageSavedBytes)

				e := resp.EfficiencyMetrics
				_ = writePlain("deduplication_ratio: %.2f\n", e.DeduplicationRatio)
				_ = writePlain("space_savings: %.2f%%\n", e.SpaceSavingsPercentage)
				_ = writePlain("originality: %.2f%%\n", e.OriginalityPercentage)
				_ = writePlain("avg_duplication_factor: %.2f\n", e.AverageDuplicationFactor)

				if len(resp.DuplicateStatistics) > 0 {
					_ = writePlain("duplicate_groups:\n")
					for _, g := range resp.DuplicateStatistics {
						_ = writePlain("  %s: %d duplicates, %d bytes saved\n",
							g.OriginalFilename, g.DuplicateCount, g.TotalSizeSaved)
					}
				}
				return nil
			})
		},
	}
}
