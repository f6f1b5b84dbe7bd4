// Package main provides the entry point for the interview assistant.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "interview_agent",
	Short: "AI mock interview assistant",
	Long:  "Interview Agent runs timed, resume-tailored mock interviews: six questions of increasing difficulty, AI grading with deterministic fallbacks, and a persisted session that survives restarts.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
