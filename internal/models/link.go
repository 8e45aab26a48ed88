package models

type ProjectEvaluator struct {
	ProjectID   int    `json:"project_id" db:"project_id"`
	EvaluatorID string `json:"evaluator_id" db:"evaluator_id"`
}
