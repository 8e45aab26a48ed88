package repository

import (
	"context"

	"github.com/RubachokBoss/evaluation-service/internal/models"
)

// Lookups return (nil, nil) when nothing matches. Evaluator ids are compared after
// codec.NormalizeEvaluatorID.

type RubricRepository interface {
	List(ctx context.Context) ([]models.Rubric, error)
	GetByID(ctx context.Context, id int) (*models.Rubric, error)
	Save(ctx context.Context, rubric *models.Rubric) error
	Delete(ctx context.Context, id int) error
	NextID(ctx context.Context) (int, error)
}

type GradeRepository interface {
	List(ctx context.Context) ([]models.Grade, error)
	ListByProject(ctx context.Context, projectID int) ([]models.Grade, error)
	GetByID(ctx context.Context, id int) (*models.Grade, error)
	FindByProjectAndEvaluator(ctx context.Context, projectID int, evaluatorID string) (*models.Grade, error)
	NextID(ctx context.Context) (int, error)
	// Save inserts the grade or overwrites the record with the same id.
	Save(ctx context.Context, grade *models.Grade) error
	// ReplaceScores drops every detail row of (gradeID, projectID, evaluatorID) and
	// appends scores in the given order.
	ReplaceScores(ctx context.Context, gradeID, projectID int, evaluatorID string, scores []models.CriterionScore) error
	// SaveWithScores is Save followed by ReplaceScores for the grade's owner triple,
	// applied together or not at all.
	SaveWithScores(ctx context.Context, grade *models.Grade, scores []models.CriterionScore) error
	ListScores(ctx context.Context, gradeID, projectID int, evaluatorID string) ([]models.CriterionScore, error)
	// Delete removes the summary record and its detail rows together or not at all.
	Delete(ctx context.Context, gradeID, projectID int, evaluatorID string) error
}

type LinkRepository interface {
	List(ctx context.Context) ([]models.ProjectEvaluator, error)
	ListByProject(ctx context.Context, projectID int) ([]models.ProjectEvaluator, error)
	ListByEvaluator(ctx context.Context, evaluatorID string) ([]models.ProjectEvaluator, error)
	Exists(ctx context.Context, projectID int, evaluatorID string) (bool, error)
	Add(ctx context.Context, link *models.ProjectEvaluator) error
	Remove(ctx context.Context, projectID int, evaluatorID string) error
}
