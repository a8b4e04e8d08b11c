package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/azrabano23/AI-PolicyBot-ALI2025/internal/seed"
)

var seedForce bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the built-in campaign dataset into the knowledge store",
	Long: `Load FAQs, policy positions, news articles, biography entries, and
translated content into the knowledge store. By default seeding is skipped
when the store already has items; --force reloads the dataset in place.`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().BoolVar(&seedForce, "force", false, "reload the dataset even if the store is not empty")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	eng, store, err := openEngine()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()

	if !seedForce {
		stats, err := eng.Statistics(ctx)
		if err != nil {
			return err
		}
		if stats.TotalItems > 0 {
			color.Yellow("Store already contains %d items; use --force to reload.", stats.TotalItems)
			return nil
		}
	}

	items := seed.Items()
	bar := progressbar.NewOptions(len(items),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSetDescription("Seeding knowledge store"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(os.Stderr) }),
	)

	for _, item := range items {
		if err := eng.AddOrUpdate(ctx, item); err != nil {
			return fmt.Errorf("seed item %s: %w", item.ID, err)
		}
		_ = bar.Add(1)
	}

	color.Green("Seeded %d knowledge items.", len(items))
	return nil
}
