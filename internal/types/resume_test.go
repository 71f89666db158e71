package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResumeDocument_EmptySequences(t *testing.T) {
	doc := NewResumeDocument()

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{"education", "skills", "experience", "projects"} {
		assert.Equal(t, []any{}, raw[key], "%s should serialize as an empty array", key)
	}
	assert.True(t, doc.IsEmpty())
}

func TestResumeDocument_WireNames(t *testing.T) {
	input := `{
		"personalInfo": {"name": "Alex Johnson", "email": "alex.j@example.com", "github": "github.com/alexj-dev"},
		"education": [{"college": "State University", "degree": "M.S. Data Science", "cgpa": "3.9", "year": "2025"}],
		"skills": [{"name": "Python", "level": "Expert"}],
		"experience": [{"company": "Tech Innovators", "role": "Data Intern", "duration": "Summer 2024"}],
		"projects": [{"title": "AI Resume Grader", "github": "github.com/project/grader"}],
		"achievements": "Dean's List"
	}`

	var doc ResumeDocument
	require.NoError(t, json.Unmarshal([]byte(input), &doc))

	assert.Equal(t, "Alex Johnson", doc.PersonalInfo.Name)
	assert.Equal(t, "github.com/alexj-dev", doc.PersonalInfo.GitHub)
	assert.Equal(t, "State University", doc.Education[0].Institution)
	assert.Equal(t, "3.9", doc.Education[0].GradeMetric)
	assert.Equal(t, "Expert", doc.Skills[0].ProficiencyLevel)
	assert.Equal(t, "Tech Innovators", doc.Experience[0].Organization)
	assert.Equal(t, "github.com/project/grader", doc.Projects[0].RepositoryLink)
	assert.Equal(t, "Dean's List", doc.Achievements)
}

func TestNormalize_FillsNilSlices(t *testing.T) {
	doc := ResumeDocument{PersonalInfo: PersonalInfo{Name: "Alex"}}
	doc.Normalize()

	assert.NotNil(t, doc.Education)
	assert.NotNil(t, doc.Skills)
	assert.NotNil(t, doc.Experience)
	assert.NotNil(t, doc.Projects)
}

func TestClone_DoesNotShareSlices(t *testing.T) {
	doc := NewResumeDocument()
	require.NoError(t, doc.AddSkill("Go", "Expert"))

	clone := doc.Clone()
	clone.Skills[0].Name = "Rust"

	assert.Equal(t, "Go", doc.Skills[0].Name)
}

func TestAddSkill_RejectsDuplicates(t *testing.T) {
	doc := NewResumeDocument()

	require.NoError(t, doc.AddSkill("Python", "Expert"))
	err := doc.AddSkill("  python ", "Beginner")
	assert.ErrorIs(t, err, ErrDuplicateSkill)
	assert.Len(t, doc.Skills, 1)

	assert.ErrorIs(t, doc.AddSkill("   ", "Expert"), ErrMissingSkillName)
	assert.True(t, doc.HasSkill("PYTHON"))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		skills  []Skill
		wantErr bool
		errIs   error
	}{
		{name: "no skills", skills: nil},
		{name: "unique skills", skills: []Skill{{Name: "Go"}, {Name: "SQL"}}},
		{name: "exact duplicate", skills: []Skill{{Name: "Go"}, {Name: "Go"}}, wantErr: true},
		{name: "case-insensitive duplicate", skills: []Skill{{Name: "Go"}, {Name: "go"}}, wantErr: true, errIs: ErrDuplicateSkill},
		{name: "padded duplicate", skills: []Skill{{Name: "Go"}, {Name: " go "}}, wantErr: true, errIs: ErrDuplicateSkill},
		{name: "empty name", skills: []Skill{{Name: ""}}, wantErr: true},
		{name: "whitespace name", skills: []Skill{{Name: "   "}}, wantErr: true, errIs: ErrMissingSkillName},
		{name: "two whitespace names", skills: []Skill{{Name: " "}, {Name: "  "}}, wantErr: true, errIs: ErrMissingSkillName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := ResumeDocument{Skills: tt.skills}
			err := doc.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			if tt.errIs != nil {
				assert.ErrorIs(t, err, tt.errIs)
			}
		})
	}
}

func TestExperience_Bullets(t *testing.T) {
	exp := Experience{Description: "- Built the ingestion pipeline\n\n• Cut latency by 40%\n  * Mentored two interns  "}

	assert.Equal(t, []string{
		"Built the ingestion pipeline",
		"Cut latency by 40%",
		"Mentored two interns",
	}, exp.Bullets())

	assert.Empty(t, Experience{}.Bullets())
}
