package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriority_Valid(t *testing.T) {
	for _, p := range Priorities() {
		assert.True(t, p.Valid(), "%s should be valid", p)
	}
	assert.False(t, Priority("high").Valid())
	assert.False(t, Priority("Critical").Valid())
	assert.False(t, Priority("").Valid())
}

func TestGradeResult_Decode(t *testing.T) {
	input := `{
		"overallScore": 72,
		"categoryScores": {"atsCompatibility": 80, "contentQuality": 65, "formattingDesign": 75, "completeness": 70},
		"suggestions": [
			{"priority": "High", "area": "Content Quality", "text": "Quantify the intern project results."},
			{"priority": "Low", "area": "Grammar/Spelling", "text": "Use consistent tense."},
			{"priority": "High", "area": "ATS Keywords", "text": "Add cloud platform keywords."}
		],
		"enhancedContent": "Data science graduate with hands-on ML experience."
	}`

	var result GradeResult
	require.NoError(t, json.Unmarshal([]byte(input), &result))

	assert.Equal(t, 72, result.OverallScore)
	assert.Equal(t, 65, result.CategoryScores.ContentQuality)
	assert.Equal(t, 72, result.CategoryScores.Average())
	require.Len(t, result.Suggestions, 3)
	assert.Equal(t, PriorityHigh, result.Suggestions[0].Priority)

	high := result.SuggestionsByPriority(PriorityHigh)
	require.Len(t, high, 2)
	assert.Equal(t, "Content Quality", high[0].Area)
	assert.Equal(t, "ATS Keywords", high[1].Area)
	assert.Empty(t, result.SuggestionsByPriority(PriorityMedium))
}
