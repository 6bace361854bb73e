package main

import (
	"github.com/spf13/cobra"

	"filehub/internal/api"
	"filehub/internal/config"
)

func newDeleteCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id> [<id>...]",
		Short: "Delete file records",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				for _, id := range args {
					if err := client.DeleteFile(cmd.Context(), id); err != nil {
						return err
					}
					if err := writePlain("deleted %s\n", id); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}
