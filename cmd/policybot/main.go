package main

import (
	"fmt"
	"os"

	"github.com/azrabano23/AI-PolicyBot-ALI2025/cmd/policybot/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
