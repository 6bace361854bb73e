package main

import (
	"github.com/spf13/cobra"

	"filehub/internal/api"
	"filehub/internal/config"
)

func newShowCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id> [<id>...]",
		Short: "Show file record details",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				for _, id := range args {
					resp, err := client.GetFile(cmd.Context(), id)
					if err != nil {
						return err
					}
					if structuredOutput() {
						if err := writeStructured(resp); err != nil {
							return err
						}
						continue
					}
					if err := writeFileDetail(resp); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}
