// Package types provides type definitions for structured data used throughout the resume builder.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Skill errors returned by AddSkill and Validate
var (
	ErrDuplicateSkill   = errors.New("skill already exists")
	ErrMissingSkillName = errors.New("skill name is required")
)

var validate = validator.New()

// ResumeDocument is the canonical structured representation of a resume.
// It is a plain value: callers own their copy and share nothing with the store or grader.
type ResumeDocument struct {
	PersonalInfo     PersonalInfo `json:"personalInfo"`
	Education        []Education  `json:"education"`
	Skills           []Skill      `json:"skills" validate:"unique=Name,dive"`
	Experience       []Experience `json:"experience"`
	Projects         []Project    `json:"projects"`
	Achievements     string       `json:"achievements"`
	Extracurriculars string       `json:"extracurriculars"`
}

// PersonalInfo holds contact details and optional profile links
type PersonalInfo struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	LinkedIn  string `json:"linkedin,omitempty"`
	GitHub    string `json:"github,omitempty"`
	Portfolio string `json:"portfolio,omitempty"`
}

// Education is one education entry; slice order is display order
type Education struct {
	Institution string `json:"college"`
	Degree      string `json:"degree"`
	GradeMetric string `json:"cgpa"`
	Year        string `json:"year"`
	Coursework  string `json:"coursework"`
}

// Skill is a named skill with a free-form proficiency level
type Skill struct {
	Name             string `json:"name" validate:"required"`
	ProficiencyLevel string `json:"level"`
}

// Experience is one work experience entry.
// Description holds newline-delimited bullets.
type Experience struct {
	Organization string `json:"company"`
	Role         string `json:"role"`
	Duration     string `json:"duration"`
	Description  string `json:"description"`
}

// Project is one project entry
type Project struct {
	Title          string `json:"title"`
	Technologies   string `json:"technologies"`
	Description    string `json:"description"`
	RepositoryLink string `json:"github"`
}

// NewResumeDocument returns an empty document with all sequences initialized
func NewResumeDocument() ResumeDocument {
	return ResumeDocument{
		Education:  []Education{},
		Skills:     []Skill{},
		Experience: []Experience{},
		Projects:   []Project{},
	}
}

// Normalize replaces nil sequences with empty ones so the document never
// serializes `null` arrays.
func (d *ResumeDocument) Normalize() {
	if d.Education == nil {
		d.Education = []Education{}
	}
	if d.Skills == nil {
		d.Skills = []Skill{}
	}
	if d.Experience == nil {
		d.Experience = []Experience{}
	}
	if d.Projects == nil {
		d.Projects = []Project{}
	}
}

// Clone returns a deep copy of the document with normalized sequences
func (d ResumeDocument) Clone() ResumeDocument {
	out := d
	out.Education = append([]Education{}, d.Education...)
	out.Skills = append([]Skill{}, d.Skills...)
	out.Experience = append([]Experience{}, d.Experience...)
	out.Projects = append([]Project{}, d.Projects...)
	return out
}

// AddSkill appends a skill unless one with the same name already exists.
// Names are compared case-insensitively after trimming whitespace.
func (d *ResumeDocument) AddSkill(name, level string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrMissingSkillName
	}
	if d.HasSkill(name) {
		return ErrDuplicateSkill
	}
	d.Skills = append(d.Skills, Skill{Name: name, ProficiencyLevel: level})
	return nil
}

// HasSkill reports whether a skill with the given name is present
func (d *ResumeDocument) HasSkill(name string) bool {
	key := skillKey(name)
	for _, s := range d.Skills {
		if skillKey(s.Name) == key {
			return true
		}
	}
	return false
}

// Validate checks the rules enforced when a document is accepted for saving.
// Skills are replayed through AddSkill so blank and duplicate names fail the
// same way they do when added one at a time. Contact fields are free-form.
func (d *ResumeDocument) Validate() error {
	if err := validate.Struct(d); err != nil {
		return err
	}
	scratch := ResumeDocument{Skills: make([]Skill, 0, len(d.Skills))}
	for _, s := range d.Skills {
		if err := scratch.AddSkill(s.Name, s.ProficiencyLevel); err != nil {
			return err
		}
	}
	return nil
}

// IsEmpty reports whether the document carries no content at all
func (d *ResumeDocument) IsEmpty() bool {
	return d.PersonalInfo == (PersonalInfo{}) &&
		len(d.Education) == 0 &&
		len(d.Skills) == 0 &&
		len(d.Experience) == 0 &&
		len(d.Projects) == 0 &&
		d.Achievements == "" &&
		d.Extracurriculars == ""
}

// Bullets splits the description into trimmed, non-empty bullet lines
func (e Experience) Bullets() []string {
	lines := strings.Split(e.Description, "\n")
	bullets := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-•* ")
		if line != "" {
			bullets = append(bullets, line)
		}
	}
	return bullets
}

func skillKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
