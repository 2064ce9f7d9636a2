package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pders01/chronos/internal/config"
	"github.com/pders01/chronos/internal/debuglog"
	"github.com/pders01/chronos/internal/server"
	"github.com/pders01/chronos/internal/storage"
	"github.com/pders01/chronos/internal/validation"
)

var (
	serveAddr     string
	serveDB       string
	serveSeed     bool
	serveSeedFile string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a local search service backed by an embedded event store",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		level := "info"
		if logLevel != "" {
			level = logLevel
		}
		debuglog.SetupWriter(debuglog.ParseLogLevel(level), os.Stderr)

		addr := cfg.Server.Addr
		if serveAddr != "" {
			addr = serveAddr
		}
		dbPath := cfg.Server.DB
		if serveDB != "" {
			dbPath = serveDB
		}

		dbPath, err = validation.ValidateDataFile(dbPath, true)
		if err != nil {
			return fmt.Errorf("invalid database path: %w", err)
		}

		store, err := storage.NewStore(dbPath)
		if err != nil {
			return err
		}
		defer store.Close()

		if serveSeed || serveSeedFile != "" {
			n, err := server.Seed(store, serveSeedFile)
			if err != nil {
				return fmt.Errorf("seeding store: %w", err)
			}
			debuglog.Infof("Seeded %d events", n)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := server.New(store, server.WithIngestLimit(cfg.Server.IngestRate, cfg.Server.IngestBurst))
		fmt.Fprintf(cmd.OutOrStdout(), "Search service listening on %s (store %s)\n", addr, dbPath)
		return srv.Run(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides config)")
	serveCmd.Flags().StringVar(&serveDB, "db", "", "Event store path (overrides config)")
	serveCmd.Flags().BoolVar(&serveSeed, "seed", false, "Load the built-in sample events before serving")
	serveCmd.Flags().StringVar(&serveSeedFile, "seed-file", "", "Load sample events from a TOML file before serving")
}
