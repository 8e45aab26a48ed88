package models

// Grade is one evaluator's final result for one project.
type Grade struct {
	ID            int     `json:"id" db:"id"`
	ProjectID     int     `json:"project_id" db:"project_id"`
	EvaluatorID   string  `json:"evaluator_id" db:"evaluator_id"`
	EvaluatorName string  `json:"evaluator_name" db:"evaluator_name"`
	FinalGrade    float64 `json:"final_grade" db:"final_grade"`
	RubricID      int     `json:"rubric_id" db:"rubric_id"`
}

type CriterionScore struct {
	GradeID       int     `json:"grade_id" db:"grade_id"`
	ProjectID     int     `json:"project_id" db:"project_id"`
	EvaluatorID   string  `json:"evaluator_id" db:"evaluator_id"`
	SectionID     string  `json:"section_id" db:"section_id"`
	CriterionName string  `json:"criterion_name" db:"criterion_name"`
	Score         float64 `json:"score" db:"score"`
}

type GradeWithScores struct {
	Grade
	Scores []CriterionScore `json:"scores"`
}

type ProjectResult struct {
	ProjectID    int     `json:"project_id"`
	Grades       []Grade `json:"grades"`
	AverageGrade float64 `json:"average_grade"`
}
