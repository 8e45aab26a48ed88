package models

import "time"

// Data Transfer Objects

type RubricRequest struct {
	Type                string    `json:"type" validate:"required,max=255"`
	ResolutionNumber    string    `json:"resolution_number" validate:"max=64"`
	ResolutionYear      string    `json:"resolution_year" validate:"max=16"`
	Course              string    `json:"course" validate:"max=255"`
	Category            string    `json:"category" validate:"max=255"`
	MinScore            float64   `json:"min_score"`
	MaxScore            float64   `json:"max_score"`
	IncludeDate         bool      `json:"include_date"`
	IncludeEvaluator    bool      `json:"include_evaluator"`
	IncludeOrientor     bool      `json:"include_orientor"`
	IncludeObservations bool      `json:"include_observations"`
	ApprovalText        string    `json:"approval_text" validate:"max=2000"`
	Sections            []Section `json:"sections" validate:"dive"`
}

func (r *RubricRequest) ToRubric(id int) *Rubric {
	return &Rubric{
		ID:                  id,
		Type:                r.Type,
		ResolutionNumber:    r.ResolutionNumber,
		ResolutionYear:      r.ResolutionYear,
		Course:              r.Course,
		Category:            r.Category,
		MinScore:            r.MinScore,
		MaxScore:            r.MaxScore,
		IncludeDate:         r.IncludeDate,
		IncludeEvaluator:    r.IncludeEvaluator,
		IncludeOrientor:     r.IncludeOrientor,
		IncludeObservations: r.IncludeObservations,
		ApprovalText:        r.ApprovalText,
		Sections:            r.Sections,
	}
}

type ScoreEntry struct {
	SectionID     string  `json:"section_id" validate:"required"`
	CriterionName string  `json:"criterion_name" validate:"required"`
	Score         float64 `json:"score"`
}

type SubmitGradeRequest struct {
	RubricID      int          `json:"rubric_id" validate:"required,gt=0"`
	ProjectID     int          `json:"project_id" validate:"required,gt=0"`
	EvaluatorID   string       `json:"evaluator_id" validate:"required,max=32"`
	EvaluatorName string       `json:"evaluator_name" validate:"required,max=255"`
	Scores        []ScoreEntry `json:"scores" validate:"dive"`
}

type LinkEvaluatorRequest struct {
	EvaluatorID string `json:"evaluator_id" validate:"required,max=32"`
}

type BackupResponse struct {
	Prefix    string    `json:"prefix"`
	Objects   []string  `json:"objects"`
	CreatedAt time.Time `json:"created_at"`
}
