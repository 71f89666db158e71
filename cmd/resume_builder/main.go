// Package main provides the entry point for the resume builder API server and CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/config"
)

var rootCmd = &cobra.Command{
	Use:          "resume_builder",
	Short:        "Resume Builder HTTP API Server",
	Long:         "Resume Builder stores resume drafts per student and grades resumes with a schema-constrained Gemini call.",
	SilenceUsage: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig layers defaults, the optional config file, the environment and
// an explicitly passed API key, then validates the result.
func loadConfig(path, apiKey string) (*config.Config, error) {
	cfg := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if apiKey != "" {
		cfg.APIKey = apiKey
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
