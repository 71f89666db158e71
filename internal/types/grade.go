package types

// Priority ranks a suggestion
type Priority string

// Priority values accepted in a GradeResult
const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Priorities lists the valid priorities in descending order
func Priorities() []Priority {
	return []Priority{PriorityHigh, PriorityMedium, PriorityLow}
}

// Valid reports whether p is one of the declared priorities
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Score bounds for overall and category scores (inclusive)
const (
	MinScore = 0
	MaxScore = 100
)

// GradeResult is the AI-produced assessment of a ResumeDocument.
// It is produced whole by a single grading call and never merged.
type GradeResult struct {
	OverallScore    int            `json:"overallScore"`
	CategoryScores  CategoryScores `json:"categoryScores"`
	Suggestions     []Suggestion   `json:"suggestions"`
	EnhancedContent string         `json:"enhancedContent"`
}

// CategoryScores holds the four fixed grading dimensions
type CategoryScores struct {
	ATSCompatibility int `json:"atsCompatibility"`
	ContentQuality   int `json:"contentQuality"`
	FormattingDesign int `json:"formattingDesign"`
	Completeness     int `json:"completeness"`
}

// Suggestion is one improvement item; slice order is the model's ranking
type Suggestion struct {
	Priority Priority `json:"priority"`
	Area     string   `json:"area"`
	Text     string   `json:"text"`
}

// Average returns the integer mean of the four category scores
func (c CategoryScores) Average() int {
	return (c.ATSCompatibility + c.ContentQuality + c.FormattingDesign + c.Completeness) / 4
}

// SuggestionsByPriority returns the suggestions with priority p, preserving order
func (g *GradeResult) SuggestionsByPriority(p Priority) []Suggestion {
	out := []Suggestion{}
	for _, s := range g.Suggestions {
		if s.Priority == p {
			out = append(out, s)
		}
	}
	return out
}
