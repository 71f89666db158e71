package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonathan/resume-builder/internal/types"
)

// DemoStudentID is the student the demo profile is stored under
const DemoStudentID = "mockUserId"

// DemoResume returns the sample profile served to the demo student
func DemoResume() types.ResumeDocument {
	return types.ResumeDocument{
		PersonalInfo: types.PersonalInfo{
			Name:      "Alex Johnson",
			Email:     "alex.j@example.com",
			Phone:     "555-500-1234",
			LinkedIn:  "linkedin.com/in/alexj",
			GitHub:    "github.com/alexj-dev",
			Portfolio: "alexj.dev",
		},
		Education: []types.Education{{
			Institution: "State University",
			Degree:      "M.S. Data Science",
			GradeMetric: "3.9",
			Year:        "2025",
			Coursework:  "Machine Learning, Cloud Computing",
		}},
		Skills: []types.Skill{
			{Name: "Python", ProficiencyLevel: "Expert"},
			{Name: "TensorFlow", ProficiencyLevel: "Expert"},
		},
		Experience: []types.Experience{{
			Organization: "Tech Innovators",
			Role:         "Data Intern",
			Duration:     "Summer 2024",
			Description:  "Assisted in data cleansing and model training.",
		}},
		Projects: []types.Project{{
			Title:          "AI Resume Grader",
			Technologies:   "React, Node, Gemini API",
			Description:    "Developed a full-stack tool for resume optimization.",
			RepositoryLink: "github.com/project/grader",
		}},
		Achievements:     "Dean's List for 4 semesters",
		Extracurriculars: "Volunteer at local coding non-profit",
	}
}

// SeedDemo saves DemoResume under DemoStudentID unless that student already
// has a resume
func SeedDemo(ctx context.Context, s Store) error {
	_, err := s.Fetch(ctx, DemoStudentID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to check demo profile: %w", err)
	}
	if _, err := s.Save(ctx, DemoStudentID, DemoResume()); err != nil {
		return fmt.Errorf("failed to seed demo profile: %w", err)
	}
	return nil
}
