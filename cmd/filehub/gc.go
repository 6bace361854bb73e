package main

import (
	"github.com/spf13/cobra"

	"filehub/internal/api"
	"filehub/internal/config"
)

func newGCCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "gc",
		Short: "Sweep orphaned blobs (requires FILEHUB_ADMIN_TOKEN)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				resp, err := client.AdminGC(cmd.Context())
				if err != nil {
					return err
				}
				if structuredOutput() {
					return writeStructured(resp)
				}
				return writePlain("scanned %d blobs, removed %d, reclaimed %d bytes\n",
					resp.ScannedBlobs, resp.RemovedBlobs, resp.ReclaimedBytes)
			})
		},
	}
}
