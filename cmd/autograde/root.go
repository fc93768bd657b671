package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/autograde-ml/autograde/internal/grade"
	"github.com/autograde-ml/autograde/internal/questions"
	"github.com/autograde-ml/autograde/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "autograde",
	Short: "Autograder for the neural network project",
	Long: "Autograde runs the scored tests for the machine learning project\n" +
		"(perceptron, regression, digit classification, language identification)\n" +
		"and prints provisional grades. Each run is recorded to a local SQLite\n" +
		"database for later review with the history subcommand.",
	SilenceUsage: true,
	RunE:         runGrade,
}

func init() {
	rootCmd.Flags().StringP("question", "q", "", "Grade only the given question (e.g. q3)")
	rootCmd.Flags().Bool("mute", false, "Mute test output while tests run")
	rootCmd.Flags().String("data", "", "Directory holding the MNIST IDX files for digit classification")
	rootCmd.Flags().Bool("no-record", false, "Do not record this run to the score database")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides AUTOGRADE_DB env var)")

	rootCmd.AddCommand(historyCmd)
}

func runGrade(cmd *cobra.Command, args []string) error {
	only, _ := cmd.Flags().GetString("question")
	mute, _ := cmd.Flags().GetBool("mute")
	dataDir, _ := cmd.Flags().GetString("data")
	noRecord, _ := cmd.Flags().GetBool("no-record")

	reg := grade.NewRegistry()
	questions.Install(reg, questions.Config{DataDir: dataDir})

	if only != "" {
		found := false
		for _, q := range reg.Questions() {
			if q == only {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("unknown question %q (have %v)", only, reg.Questions())
		}
	}

	tr := grade.NewTracker(reg, os.Stdout, mute)
	grade.Run(reg, tr, grade.Options{Only: only})

	if noRecord || only != "" {
		return nil
	}

	points := make(map[string]int)
	for _, q := range tr.Questions() {
		points[q] = tr.Points(q)
	}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer s.Close()

	if _, err := s.RecordRun(context.Background(), points, reg.Maxes()); err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// resolveDBPath returns the database path using --db flag (highest
// priority), then AUTOGRADE_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
