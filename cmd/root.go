package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scoutgrid/jobharvest/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "jobharvest",
	Short: "Scrape job listings from LinkedIn and Indeed",
	Long:  "Searches job boards for a set of keywords, merges and deduplicates the listings, and prints a JSON envelope to stdout for workflow-automation tools.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
