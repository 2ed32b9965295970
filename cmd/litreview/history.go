// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/litreview/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past pipeline runs",
	Long: `History lists completed runs from the local run index, newest first:
goal, generated query, per-stage counts, and where the report landed.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of runs to list")
	historyCmd.Flags().Bool("json", false, "output runs as JSON")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()

	store, err := history.Open(cfg.Output.IndexDir)
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.List(context.Background(), limit)
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Printf("%-4s  %-20s  %-40s  %-9s  %-8s  %-8s\n",
		"ID", "When", "Goal", "Retrieved", "Filtered", "Patients")
	for _, r := range runs {
		goal := r.Goal
		if len(goal) > 40 {
			goal = goal[:37] + "..."
		}
		fmt.Printf("%-4d  %-20s  %-40s  %-9d  %-8d  %-8d\n",
			r.ID, r.Timestamp.Local().Format("2006-01-02 15:04"), goal,
			r.Retrieved, r.Filtered, r.TotalPatients)
	}
	return nil
}
