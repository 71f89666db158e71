// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-builder/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// barWidth is the width of a full (100) score bar
	barWidth = 20
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len([]rune(line)) > boxWidth-4 {
			line = truncate(line, boxWidth-4)
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintResumeSummary outputs the sections a resume carries before grading.
func (p *Printer) PrintResumeSummary(resume *types.ResumeDocument) {
	if resume == nil {
		return
	}

	var sb strings.Builder
	if resume.IsEmpty() {
		sb.WriteString("(empty resume)\n")
	}
	name := resume.PersonalInfo.Name
	if name == "" {
		name = "(no name)"
	}
	sb.WriteString(fmt.Sprintf("Name:        %s\n", name))
	sb.WriteString(fmt.Sprintf("Education:   %d\n", len(resume.Education)))
	bullets := 0
	for _, exp := range resume.Experience {
		bullets += len(exp.Bullets())
	}
	sb.WriteString(fmt.Sprintf("Experience:  %d (%d bullets)\n", len(resume.Experience), bullets))
	sb.WriteString(fmt.Sprintf("Projects:    %d\n", len(resume.Projects)))

	if len(resume.Skills) > 0 {
		names := make([]string, 0, len(resume.Skills))
		for _, s := range resume.Skills {
			names = append(names, s.Name)
		}
		sb.WriteString(fmt.Sprintf("Skills:      %s\n", truncate(strings.Join(names, ", "), 40)))
	}

	p.printBox("RESUME", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintGradeResult outputs scores as bars followed by the top suggestions.
func (p *Printer) PrintGradeResult(result *types.GradeResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Overall            %3d  %s\n", result.OverallScore, scoreBar(result.OverallScore)))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("ATS Compatibility  %3d  %s\n", result.CategoryScores.ATSCompatibility, scoreBar(result.CategoryScores.ATSCompatibility)))
	sb.WriteString(fmt.Sprintf("Content Quality    %3d  %s\n", result.CategoryScores.ContentQuality, scoreBar(result.CategoryScores.ContentQuality)))
	sb.WriteString(fmt.Sprintf("Formatting/Design  %3d  %s\n", result.CategoryScores.FormattingDesign, scoreBar(result.CategoryScores.FormattingDesign)))
	sb.WriteString(fmt.Sprintf("Completeness       %3d  %s\n", result.CategoryScores.Completeness, scoreBar(result.CategoryScores.Completeness)))
	sb.WriteString(fmt.Sprintf("Category average   %3d\n", result.CategoryScores.Average()))
	sb.WriteString("\n")

	counts := make([]string, 0, len(types.Priorities()))
	for _, priority := range types.Priorities() {
		counts = append(counts, fmt.Sprintf("%s %d", priority, len(result.SuggestionsByPriority(priority))))
	}
	sb.WriteString("Suggestions: " + strings.Join(counts, ", "))

	p.printBox("RESUME GRADE", sb.String())
	p.PrintSuggestions(result.Suggestions)
}

// PrintSuggestions outputs up to maxItemsToShow suggestions in model order.
func (p *Printer) PrintSuggestions(suggestions []types.Suggestion) {
	if len(suggestions) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d suggestions:\n\n", len(suggestions)))

	count := min(len(suggestions), maxItemsToShow)
	for i := 0; i < count; i++ {
		s := suggestions[i]
		sb.WriteString(fmt.Sprintf("%s %s\n", priorityMarker(s.Priority), s.Area))
		sb.WriteString(fmt.Sprintf("  %s\n", truncate(s.Text, 50)))
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(suggestions) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more suggestions", len(suggestions)-maxItemsToShow))
	}

	p.printBox("SUGGESTIONS", strings.TrimSuffix(sb.String(), "\n"))
}

func priorityMarker(priority types.Priority) string {
	switch priority {
	case types.PriorityHigh:
		return "▲ [High]"
	case types.PriorityMedium:
		return "● [Medium]"
	default:
		return "▽ [Low]"
	}
}

// scoreBar renders score (0-100) as a fixed-width bar
func scoreBar(score int) string {
	score = max(types.MinScore, min(types.MaxScore, score))
	filled := score * barWidth / types.MaxScore
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}
