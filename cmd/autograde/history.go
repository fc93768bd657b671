package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/autograde-ml/autograde/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past grading runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		runs, err := s.History(context.Background(), limit)
		if err != nil {
			return fmt.Errorf("query history: %w", err)
		}
		if len(runs) == 0 {
			fmt.Println("No grading runs recorded yet.")
			return nil
		}

		for _, r := range runs {
			fmt.Printf("%s  %d/%d", r.CreatedAt.Format("2006-01-02 15:04:05"), r.Total, r.MaxTotal)
			questions := make([]string, 0, len(r.Scores))
			for q := range r.Scores {
				questions = append(questions, q)
			}
			sort.Strings(questions)
			for _, q := range questions {
				fmt.Printf("  %s=%d", q, r.Scores[q])
			}
			fmt.Println()
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 10, "Maximum number of runs to show (0 for all)")
}
