package commands

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show knowledge store statistics",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	eng, store, err := openEngine()
	if err != nil {
		return err
	}
	defer store.Close()

	stats, err := eng.Statistics(context.Background())
	if err != nil {
		return err
	}

	color.Cyan("Knowledge store statistics")
	fmt.Printf("Total items: %d\n\n", stats.TotalItems)

	if len(stats.ByContentType) > 0 {
		color.Green("By content type:")
		for contentType, n := range stats.ByContentType {
			fmt.Printf("  %-20s %d\n", contentType, n)
		}
		fmt.Println()
	}

	if len(stats.ByLanguage) > 0 {
		color.Green("By language:")
		for lang, n := range stats.ByLanguage {
			fmt.Printf("  %-20s %d\n", lang, n)
		}
		fmt.Println()
	}

	if len(stats.TopTopics) > 0 {
		color.Green("Top topics:")
		for _, tc := range stats.TopTopics {
			fmt.Printf("  %-25s %d\n", tc.Topic, tc.Count)
		}
	}
	return nil
}
