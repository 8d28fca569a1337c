// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/johnmark127/r-kive-sub000/internal/ingest"
	"github.com/johnmark127/r-kive-sub000/internal/store"
	"github.com/johnmark127/r-kive-sub000/internal/textacq"
	"github.com/johnmark127/r-kive-sub000/pkg/types"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [request.yaml]",
	Short: "Run the citation pipeline for one submission",
	Long: `Ingest runs the full pipeline once: create or reuse the paper record,
acquire the document text, detect citations of stored papers, and write
the graph edges. The request is read from a YAML or JSON file, or
assembled from flags.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().String("title", "", "paper title")
	ingestCmd.Flags().String("authors", "", "paper authors")
	ingestCmd.Flags().Int("year", 0, "publication year")
	ingestCmd.Flags().String("abstract", "", "paper abstract")
	ingestCmd.Flags().String("file-url", "", "URL of the paper's PDF")
	ingestCmd.Flags().String("category", "", "paper category")
	ingestCmd.Flags().String("uploaded-by", "", "uploader identifier")
	ingestCmd.Flags().String("paper-id", "", "existing paper id to reprocess")
	ingestCmd.Flags().Bool("retry", false, "reuse the paper-id record instead of creating one")
	ingestCmd.Flags().String("db", "", "SQLite database path (default citegraph.db)")
	ingestCmd.Flags().Bool("json", false, "print the response as JSON instead of YAML")

	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	req, err := ingestRequest(cmd, args)
	if err != nil {
		return err
	}

	cfg := pipelineConfig()
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

	acq := textacq.NewService(client, converter, cfg.Acquisition)
	coord := ingest.NewCoordinator(s, acq, cfg.Acquisition)

	resp, err := coord.Ingest(context.Background(), req, os.Stderr)
	if err != nil {
		printResponse(cmd, resp)
		return err
	}
	return printResponse(cmd, resp)
}

// ingestRequest reads the request file when given, then lets flags
// override individual fields.
func ingestRequest(cmd *cobra.Command, args []string) (types.IngestRequest, error) {
	var req types.IngestRequest

	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return req, fmt.Errorf("reading request file: %w", err)
		}
		if err := yaml.Unmarshal(data, &req); err != nil {
			return req, fmt.Errorf("parsing request file: %w", err)
		}
	}

	if v, _ := cmd.Flags().GetString("title"); v != "" {
		req.Title = v
	}
	if v, _ := cmd.Flags().GetString("authors"); v != "" {
		req.Authors = v
	}
	if v, _ := cmd.Flags().GetInt("year"); v != 0 {
		req.YearPublished = v
	}
	if v, _ := cmd.Flags().GetString("abstract"); v != "" {
		req.Abstract = v
	}
	if v, _ := cmd.Flags().GetString("file-url"); v != "" {
		req.FileURL = v
	}
	if v, _ := cmd.Flags().GetString("category"); v != "" {
		req.Category = v
	}
	if v, _ := cmd.Flags().GetString("uploaded-by"); v != "" {
		req.UploadedBy = v
	}
	if v, _ := cmd.Flags().GetString("paper-id"); v != "" {
		req.PaperID = v
	}
	if v, _ := cmd.Flags().GetBool("retry"); v {
		req.Retry = true
	}
	return req, nil
}

func printResponse(cmd *cobra.Command, resp types.IngestResponse) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	out, err := yaml.Marshal(resp)
	if err != nil {
		return err
	}
	fmt.Print(string(out))
	return nil
}
