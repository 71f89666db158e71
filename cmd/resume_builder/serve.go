package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/events"
	"github.com/jonathan/resume-builder/internal/grading"
	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/logger"
	"github.com/jonathan/resume-builder/internal/server"
	"github.com/jonathan/resume-builder/internal/store"
)

var (
	serveConfigFile string
	servePort       int
	serveAPIKey     string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the /api/resume endpoints. Without a Gemini API key the server still starts, with grading disabled.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveConfigFile, "config", "c", "", "Path to YAML or JSON config file")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config and PORT)")
	serveCmd.Flags().StringVar(&serveAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(serveConfigFile, serveAPIKey)
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Server.Port = servePort
	}
	logger.Init(cfg.Log)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	srv, err := buildServer(ctx, cfg)
	if err != nil {
		return err
	}
	return srv.Start(ctx)
}

// buildServer wires the grading service, store and publisher into a server
func buildServer(ctx context.Context, cfg *config.Config) (*server.Server, error) {
	grader, err := newGrader(ctx, cfg)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Store.Driver, err)
	}

	publisher, err := events.Open(cfg.Events)
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("failed to open event publisher: %w", err)
	}

	srv, err := server.New(server.Config{
		Port:             cfg.Server.Port,
		DefaultStudentID: cfg.Server.DefaultStudentID,
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
		Grader:           grader,
		Store:            st,
		StoreDriver:      cfg.Store.Driver,
		Publisher:        publisher,
		RateLimit:        cfg.RateLimit.Config(),
		Logger:           &logger.Logger,
	})
	if err != nil {
		_ = publisher.Close()
		_ = st.Close()
		return nil, fmt.Errorf("failed to create server: %w", err)
	}
	return srv, nil
}

// newGrader builds the grading service. A missing API key is logged and
// yields a disabled service rather than an error.
func newGrader(ctx context.Context, cfg *config.Config) (*grading.Service, error) {
	opts := grading.Options{Timeout: cfg.LLM.Timeout, Temperature: &cfg.LLM.Temperature}

	client, err := llm.NewClient(ctx, &cfg.LLM, cfg.APIKey)
	if errors.Is(err, llm.ErrMissingAPIKey) {
		log.Error().Msg("CRITICAL: GEMINI_API_KEY is missing. Grading is disabled.")
		return grading.NewService(nil, opts), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	log.Info().Str("provider", string(cfg.LLM.Provider)).Str("model", client.Model()).Msg("grading enabled")
	return grading.NewService(client, opts), nil
}
