package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"filehub/internal/config"
)

func newRootCmd(cfg *config.Config) *cobra.Command {
	var outputName string
	var logLevel string

	cmd := &cobra.Command{
		Use:   "filehub",
		Short: "Filehub is a content-addressed, deduplicating file store",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := selectOutputFormatter(outputName); err != nil {
				return err
			}
			warning, err := configureLoggerForCLI(logLevel, cfg.LogLevel)
			if err != nil {
				return err
			}
			if warning != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), warning)
			}
			return nil
		},
	}

	cmd.Version = version
	cmd.PersistentFlags().StringVarP(&outputName, "output", "o", "text", "output format: text, json, or yaml")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, or error")

	cmd.AddCommand(
		newSrvCmd(cfg),
		newUploadCmd(cfg),
		newListCmd(cfg),
		newShowCmd(cfg),
		newDownloadCmd(cfg),
		newDeleteCmd(cfg),
		newMetricsCmd(cfg),
		newInfoCmd(cfg),
		newGCCmd(cfg),
		newConfigCmd(cfg),
		newHashTokenCmd(),
	)

	return cmd
}
