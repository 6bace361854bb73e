package main

import (
	"github.com/spf13/cobra"

	"filehub/internal/auth"
)

func newHashTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-token <token>",
		Short: "Hash an admin token for the admin_token_hash config key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := auth.HashToken(args[0])
			if err != nil {
				return err
			}
			return writePlain("%s\n", hash)
		},
	}
}
