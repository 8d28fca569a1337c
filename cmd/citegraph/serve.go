// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/johnmark127/r-kive-sub000/internal/ingest"
	"github.com/johnmark127/r-kive-sub000/internal/server"
	"github.com/johnmark127/r-kive-sub000/internal/store"
	"github.com/johnmark127/r-kive-sub000/internal/textacq"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the citation-graph HTTP service",
	Long: `Serve runs the ingestion pipeline behind an HTTP API:

  POST /papers/ingest        run the pipeline for one submission
  GET  /papers/:id           fetch a paper record
  GET  /papers/:id/citations list the paper's outgoing citation edges
  GET  /healthz              liveness check`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8080)")
	serveCmd.Flags().String("db", "", "SQLite database path (default citegraph.db)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	// A local .env may carry CITEGRAPH_* overrides; absence is fine.
	_ = godotenv.Load()

	cfg := pipelineConfig()
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Server.Addr = addr
	}
	if db, _ := cmd.Flags().GetString("db"); db != "" {
		cfg.Store.DBPath = db
	}

	s, err := store.Open(cfg.Store)
	if err != nil {
		return err
	}
	defer s.Close()

	client := &http.Client{Timeout: cfg.Acquisition.Timeout}
	converter, err := newConverter(client, cfg.Conversion)
	if err != nil {
		return err
	}
	if converter == nil {
		fmt.Fprintln(os.Stderr, "conversion backend disabled; using heuristic scanner only")
	}

	acq := textacq.NewService(client, converter, cfg.Acquisition)
	coord := ingest.NewCoordinator(s, acq, cfg.Acquisition)
	srv := server.New(s, coord, os.Stderr)

	fmt.Fprintf(os.Stderr, "citegraph listening on %s (db %s)\n", cfg.Server.Addr, cfg.Store.DBPath)
	return srv.Router().Run(cfg.Server.Addr)
}
