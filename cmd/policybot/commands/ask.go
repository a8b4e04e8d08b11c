package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var askLanguage string

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask the chatbot a question and print the generated answer",
	Long: `Run the full pipeline: retrieve facts, build the response context, and
generate an answer. Without an OPENAI_API_KEY the canned fallback answer
for the detected language is printed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askLanguage, "language", "l", "", "answer language (en, es, ar, fr); detected when empty")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	eng, store, err := openEngine()
	if err != nil {
		return err
	}
	defer store.Close()

	query := strings.Join(args, " ")

	answer, err := eng.Answer(context.Background(), query, askLanguage)
	if err != nil {
		return err
	}

	fmt.Println(answer.Response)
	fmt.Println()
	color.Cyan("Language: %s  Confidence: %.2f  Type: %s", answer.Language, answer.Confidence, answer.ResponseType)
	if len(answer.Topics) > 0 {
		color.Cyan("Topics: %v", answer.Topics)
	}
	for _, src := range answer.Sources {
		fmt.Printf("Source: %s (%s)\n", src.URL, src.Credibility)
	}
	return nil
}
