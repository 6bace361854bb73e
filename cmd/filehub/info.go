package main

import (
	"github.com/spf13/cobra"

	"filehub/internal/api"
	"filehub/internal/config"
)

func newInfoCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show store info",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				resp, err := client.GetInfo(cmd.Context())
				if err != nil {
					return err
				}

				if structuredOutput() {
					return writeStructured(resp)
				}

				_ = writePlain("db_path: %s\n", resp.DBPath)
				_ = writePlain("data_dir: %s\n", resp.DataDir)
				_ = writePlain("schema_version: %d\n", resp.SchemaVersion)
				_ = writePlain("total_files: %d\n", resp.TotalFiles)
				_ = writePlain("total_blobs: %d\n", resp.TotalBlobs)
				_ = writePlain("storage_bytes: %d\n", resp.StorageBytes)
				return nil
			})
		},
	}
}
