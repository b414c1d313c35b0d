package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/magedabdelsalam/ustaz-sub000/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "ustaz",
	Short: "Adaptive AI tutoring engine",
	Long:  "Ustaz generates lesson plans and interactive exercises through an LLM pipeline with caching, throttling, repair, and adaptive mastery tracking.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func Execute() error {
	// Missing .env is fine; real env vars still apply.
	_ = godotenv.Load()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides USTAZ_DB env var)")

	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest
// priority), then USTAZ_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if p := os.Getenv("USTAZ_DB"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
