package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	queryLanguage string
	queryLimit    int
)

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Search the knowledge store and show ranked matches",
	Long: `Run a question through the staged retrieval pipeline and print the
ranked matches with their relevance scores. The language is detected from
the question unless --language pins one.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringVarP(&queryLanguage, "language", "l", "", "query language (en, es, ar, fr); detected when empty")
	queryCmd.Flags().IntVarP(&queryLimit, "limit", "n", 5, "maximum results to show")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	eng, store, err := openEngine()
	if err != nil {
		return err
	}
	defer store.Close()

	query := strings.Join(args, " ")
	language := queryLanguage
	if language == "" {
		language = eng.DetectLanguage(query)
	}

	results, err := eng.Search(context.Background(), query, language, queryLimit)
	if err != nil {
		return err
	}

	color.Cyan("Query: %s", query)
	color.Cyan("Language: %s", language)
	fmt.Println()

	if len(results) == 0 {
		color.Yellow("No matches found.")
		return nil
	}

	for i, res := range results {
		color.Green("%d. %s (score %.3f)", i+1, res.Item.ID, res.Score)
		fmt.Printf("   Topic: %s", res.Item.Topic)
		if res.Item.Subtopic != nil {
			fmt.Printf(" / %s", *res.Item.Subtopic)
		}
		fmt.Printf("  Language: %s\n", res.Item.Language)

		content := res.Item.Content
		if len(content) > 200 {
			content = content[:200] + "..."
		}
		fmt.Printf("   %s\n", content)

		for _, src := range res.Item.Sources {
			fmt.Printf("   Source: %s (%s)\n", src.URL, src.Credibility)
		}
		fmt.Println()
	}
	return nil
}
