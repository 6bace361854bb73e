package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"filehub/internal/blobstore"
	"filehub/internal/config"
	"filehub/internal/server"
	"filehub/internal/store"
)

func newSrvCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "srv",
		Short: "Run the filehub API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg == nil {
				return fmt.Errorf("config not initialized")
			}
			if cfg.DBPath == "" {
				return fmt.Errorf("db path is required")
			}
			if cfg.DataDir == "" {
				return fmt.Errorf("data dir is required")
			}

			logger := slog.Default().With("component", "server")

			addr, err := server.ListenAddr(cfg.APIURL)
			if err != nil {
				return err
			}
			if cfg.ListenAddr == "" || cfg.ListenAddr == config.DefaultListenAddr {
				cfg.ListenAddr = addr
			}

			logger.Info("opening catalog", "path", cfg.DBPath)
			st, err := store.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer st.Close()

			logger.Info("opening blob store", "root", cfg.DataDir)
			bs, err := blobstore.NewLocalCAS(cfg.DataDir)
			if err != nil {
				return err
			}

			srv := server.New(cfg, st, bs, logger)

			if interval := time.Duration(cfg.GC.IntervalSeconds) * time.Second; interval > 0 {
				ctx, cancel := context.WithCancel(cmd.Context())
				defer cancel()
				go srv.GC().Run(ctx, interval)
			}

			return srv.ListenAndServe()
		},
	}
}
