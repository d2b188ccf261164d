// Command rsserve runs the result set conversion endpoint.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/geoknoesis/structwsf/internal/config"
	"github.com/geoknoesis/structwsf/internal/logging"
	"github.com/geoknoesis/structwsf/internal/server"
	"github.com/geoknoesis/structwsf/recordstore"
)

func main() {
	var configPath string
	rootCmd := &cobra.Command{
		Use:          "rsserve",
		Short:        "Serve result set conversion over HTTP",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath)
		},
	}
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML configuration file")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	config.LoadEnv()
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log.Level, os.Stderr)
	if err != nil {
		return err
	}
	prefixes, err := cfg.Registry()
	if err != nil {
		return err
	}

	var db *recordstore.DB
	if cfg.Store.Path != "" {
		db, err = recordstore.Open(cfg.Store.Path, recordstore.WithLogger(logger))
	} else {
		logger.Warn("No store.path configured, records are kept in memory")
		db, err = recordstore.OpenInMemory(recordstore.WithLogger(logger))
	}
	if err != nil {
		return err
	}
	defer db.Close()

	srv, err := server.New(cfg.Server,
		server.WithLogger(logger),
		server.WithPrefixes(prefixes),
		server.WithTransformer(cfg.Transformer(logger)),
		server.WithRecordStore(db),
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx)
}
