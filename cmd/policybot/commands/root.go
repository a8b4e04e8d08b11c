// Package commands implements the policybot CLI.
package commands

import (
	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/azrabano23/AI-PolicyBot-ALI2025/internal/cache"
	"github.com/azrabano23/AI-PolicyBot-ALI2025/internal/config"
	"github.com/azrabano23/AI-PolicyBot-ALI2025/internal/observability"
	"github.com/azrabano23/AI-PolicyBot-ALI2025/internal/storage"
	"github.com/azrabano23/AI-PolicyBot-ALI2025/pkg/engine"
)

var (
	cfgFile string
	verbose bool
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:   "policybot",
	Short: "Campaign knowledge base CLI for the Ali 2025 chatbot",
	Long: `policybot manages the campaign knowledge store behind the Ali 2025
chatbot: seed the built-in dataset, run searches against the staged
retrieval pipeline, and inspect store statistics.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()
		if noColor {
			color.NoColor = true
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// openEngine loads config and assembles an engine over the local store.
// The CLI always uses the in-memory cache; Redis is a server concern.
func openEngine() (*engine.Engine, *storage.Store, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}

	level := cfg.Observability.LogLevel
	if !verbose {
		level = "error"
	}
	logger := observability.NewLogger(observability.LogConfig{
		Level:       level,
		Format:      "console",
		ServiceName: "policybot-cli",
	})

	store, err := storage.Open(cfg.Database.Path, logger)
	if err != nil {
		return nil, nil, err
	}

	eng := engine.New(cfg, store, cache.NewMemoryClient(cfg.Cache.MaxEntries), logger)
	return eng, store, nil
}
