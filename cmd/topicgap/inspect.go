// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Hypogenic-AI/llms-expose-science-gemini/internal/corpus"
	"github.com/Hypogenic-AI/llms-expose-science-gemini/pkg/types"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <path>",
	Short: "List the fields of a corpus file",
	Long: `Inspect prints the field or column names found in a corpus so you can pick
the --text-column for extract. For a SQLite database without --table it lists
the tables instead.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		srcType, _ := cmd.Flags().GetString("type")
		table, _ := cmd.Flags().GetString("table")

		cols, err := corpus.Columns(cmd.Context(), types.SourceConfig{
			Path:  args[0],
			Type:  types.SourceType(srcType),
			Table: table,
		})
		if err != nil {
			return err
		}
		for _, c := range cols {
			fmt.Fprintln(cmd.OutOrStdout(), c)
		}
		return nil
	},
}

func init() {
	inspectCmd.Flags().String("type", "", "corpus format: jsonl, json, csv, sqlite (default: from extension)")
	inspectCmd.Flags().String("table", "", "SQLite table to describe")

	rootCmd.AddCommand(inspectCmd)
}
