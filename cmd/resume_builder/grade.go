package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/grading"
	"github.com/jonathan/resume-builder/internal/logger"
	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/jonathan/resume-builder/internal/types"
)

var gradeCmd = &cobra.Command{
	Use:   "grade",
	Short: "Grade a resume JSON file with Gemini",
	Long:  "Reads a ResumeDocument JSON file (or a {\"resumeData\": ...} request body), grades it with one structured Gemini call and writes the GradeResult JSON.",
	RunE:  runGrade,
}

var (
	gradeInputFile  string
	gradeOutputFile string
	gradeConfigFile string
	gradeAPIKey     string
	gradeModel      string
	gradeVerbose    bool
)

func init() {
	gradeCmd.Flags().StringVarP(&gradeInputFile, "in", "i", "", "Path to resume JSON file (required)")
	gradeCmd.Flags().StringVarP(&gradeOutputFile, "out", "o", "", "Path to output GradeResult JSON file (default: stdout)")
	gradeCmd.Flags().StringVarP(&gradeConfigFile, "config", "c", "", "Path to YAML or JSON config file")
	gradeCmd.Flags().StringVar(&gradeAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	gradeCmd.Flags().StringVar(&gradeModel, "model", "", "Gemini model name (overrides llm.model)")
	gradeCmd.Flags().BoolVarP(&gradeVerbose, "verbose", "v", false, "Print a readable summary of the resume and grade to stderr")

	if err := gradeCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(gradeCmd)
}

func runGrade(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(gradeConfigFile, gradeAPIKey)
	if err != nil {
		return err
	}
	if gradeModel != "" {
		cfg.LLM = *cfg.LLM.WithModel(gradeModel)
	}
	logger.Init(cfg.Log)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	resume, err := readResume(gradeInputFile)
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(cmd.ErrOrStderr())
	if gradeVerbose {
		printer.PrintResumeSummary(resume)
	}

	grader, err := newGrader(ctx, cfg)
	if err != nil {
		return err
	}

	result, err := grader.Grade(ctx, *resume)
	if err != nil {
		return fmt.Errorf("grading failed (%s): %s", grading.Kind(err), grading.Detail(err))
	}

	if gradeVerbose {
		printer.PrintGradeResult(result)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal grade result: %w", err)
	}
	if gradeOutputFile == "" {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return err
	}
	if err := os.WriteFile(gradeOutputFile, out, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Grade written to %s (overall %d)\n", gradeOutputFile, result.OverallScore)
	return nil
}

// readResume accepts either a bare ResumeDocument or a request body wrapping
// one. A document with every field empty is still gradable.
func readResume(path string) (*types.ResumeDocument, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read resume file: %w", err)
	}

	var req types.ResumeRequest
	if err := json.Unmarshal(content, &req); err != nil {
		return nil, fmt.Errorf("failed to unmarshal resume JSON: %w", err)
	}
	if req.ResumeData != nil {
		return req.ResumeData, nil
	}

	var doc types.ResumeDocument
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal resume JSON: %w", err)
	}
	doc.Normalize()
	return &doc, nil
}
