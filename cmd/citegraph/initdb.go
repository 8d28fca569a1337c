// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/johnmark127/r-kive-sub000/internal/store"
)

var initdbCmd = &cobra.Command{
	Use:   "initdb",
	Short: "Create the citation-graph database and schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := pipelineConfig()
		if db, _ := cmd.Flags().GetString("db"); db != "" {
			cfg.Store.DBPath = db
		}

		s, err := store.Open(cfg.Store)
		if err != nil {
			return err
		}
		defer s.Close()

		fmt.Printf("database ready at %s\n", cfg.Store.DBPath)
		return nil
	},
}

func init() {
	initdbCmd.Flags().String("db", "", "SQLite database path (default citegraph.db)")

	rootCmd.AddCommand(initdbCmd)
}
