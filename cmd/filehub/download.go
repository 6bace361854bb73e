package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"filehub/internal/api"
	"filehub/internal/config"
)

func newDownloadCmd(cfg *config.Config) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "download <id>",
		Short: "Download file content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			return withClient(cfg, func(client *api.Client) error {
				if outPath == "-" {
					return client.DownloadFile(cmd.Context(), id, os.Stdout)
				}

				target := outPath
				if target == "" {
					record, err := client.GetFile(cmd.Context(), id)
					if err != nil {
						return err
					}
					target = filepath.Base(record.OriginalFilename)
				}

				f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
				if err != nil {
					return err
				}
				if err := client.DownloadFile(cmd.Context(), id, f); err != nil {
					f.Close()
					_ = os.Remove(target)
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}
				return writePlain("wrote %s\n", target)
			})
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "O", "", `destination path; "-" streams to stdout (defaults to the stored filename)`)
	return cmd
}
