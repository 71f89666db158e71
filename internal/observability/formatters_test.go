package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-builder/internal/types"
)

func TestPrintResumeSummary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	resume := types.NewResumeDocument()
	resume.PersonalInfo.Name = "Alex Johnson"
	resume.Skills = []types.Skill{{Name: "React"}, {Name: "Node.js"}}
	resume.Experience = []types.Experience{{
		Organization: "Tech Solutions Inc.",
		Description:  "- Built the admin dashboard\n- Cut page load time by 30%\n",
	}}

	p.PrintResumeSummary(&resume)
	output := buf.String()

	assert.Contains(t, output, "RESUME")
	assert.Contains(t, output, "Alex Johnson")
	assert.Contains(t, output, "React, Node.js")
	assert.Contains(t, output, "Experience:  1 (2 bullets)")
	assert.NotContains(t, output, "(empty resume)")
}

func TestPrintResumeSummary_Empty(t *testing.T) {
	var buf bytes.Buffer
	resume := types.NewResumeDocument()
	NewPrinter(&buf).PrintResumeSummary(&resume)

	output := buf.String()
	assert.Contains(t, output, "(empty resume)")
	assert.Contains(t, output, "(no name)")
	assert.Contains(t, output, "Experience:  0 (0 bullets)")
}

func TestPrintResumeSummary_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintResumeSummary(nil)
	assert.Empty(t, buf.String())
}

func TestPrintGradeResult(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	result := &types.GradeResult{
		OverallScore: 78,
		CategoryScores: types.CategoryScores{
			ATSCompatibility: 80,
			ContentQuality:   75,
			FormattingDesign: 100,
			Completeness:     0,
		},
		Suggestions: []types.Suggestion{
			{Priority: types.PriorityHigh, Area: "Experience", Text: "Quantify the impact of the dashboard work."},
			{Priority: types.PriorityLow, Area: "Projects", Text: "Link the repository."},
		},
	}

	p.PrintGradeResult(result)
	output := buf.String()

	assert.Contains(t, output, "RESUME GRADE")
	assert.Regexp(t, `Overall\s+78`, output)
	assert.Regexp(t, `Category average\s+63`, output)
	assert.Contains(t, output, "Suggestions: High 1, Medium 0, Low 1")
	assert.Contains(t, output, strings.Repeat("█", barWidth))
	assert.Contains(t, output, strings.Repeat("░", barWidth))
	assert.Contains(t, output, "SUGGESTIONS")
	assert.Contains(t, output, "▲ [High] Experience")
	assert.Contains(t, output, "▽ [Low] Projects")
}

func TestPrintGradeResult_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintGradeResult(nil)
	assert.Empty(t, buf.String())
}

func TestPrintSuggestions_Truncates(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	suggestions := make([]types.Suggestion, 7)
	for i := range suggestions {
		suggestions[i] = types.Suggestion{Priority: types.PriorityMedium, Area: "Skills", Text: strings.Repeat("x", 80)}
	}

	p.PrintSuggestions(suggestions)
	output := buf.String()

	assert.Contains(t, output, "7 suggestions")
	assert.Contains(t, output, "... and 2 more suggestions")
	assert.Contains(t, output, "...")
	assert.NotContains(t, output, strings.Repeat("x", 80))
}

func TestScoreBar(t *testing.T) {
	assert.Equal(t, strings.Repeat("░", barWidth), scoreBar(0))
	assert.Equal(t, strings.Repeat("█", barWidth), scoreBar(100))
	assert.Equal(t, strings.Repeat("█", 10)+strings.Repeat("░", 10), scoreBar(50))
	assert.Equal(t, strings.Repeat("█", barWidth), scoreBar(140))
}
