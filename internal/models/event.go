package models

type GradeSavedEvent struct {
	EventID     string  `json:"event_id"`
	GradeID     int     `json:"grade_id"`
	ProjectID   int     `json:"project_id"`
	EvaluatorID string  `json:"evaluator_id"`
	RubricID    int     `json:"rubric_id"`
	FinalGrade  float64 `json:"final_grade"`
	Created     bool    `json:"created"`
	Timestamp   int64   `json:"timestamp"`
}

type GradeDeletedEvent struct {
	EventID     string `json:"event_id"`
	GradeID     int    `json:"grade_id"`
	ProjectID   int    `json:"project_id"`
	EvaluatorID string `json:"evaluator_id"`
	Timestamp   int64  `json:"timestamp"`
}
