package repository

import (
	"context"
	"database/sql"

	"github.com/RubachokBoss/evaluation-service/internal/codec"
	"github.com/RubachokBoss/evaluation-service/internal/models"
	"github.com/rs/zerolog"
)

type linkPostgresRepository struct {
	*PostgresRepository
}

func NewLinkPostgresRepository(db *sql.DB, logger zerolog.Logger) LinkRepository {
	return &linkPostgresRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *linkPostgresRepository) query(ctx context.Context, query string, args ...interface{}) ([]models.ProjectEvaluator, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []models.ProjectEvaluator
	for rows.Next() {
		var l models.ProjectEvaluator
		if err := rows.Scan(&l.ProjectID, &l.EvaluatorID); err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

func (r *linkPostgresRepository) List(ctx context.Context) ([]models.ProjectEvaluator, error) {
	return r.query(ctx, `SELECT project_id, evaluator_id FROM project_evaluators ORDER BY created_at`)
}

func (r *linkPostgresRepository) ListByProject(ctx context.Context, projectID int) ([]models.ProjectEvaluator, error) {
	return r.query(ctx,
		`SELECT project_id, evaluator_id FROM project_evaluators WHERE project_id = $1 ORDER BY created_at`,
		projectID)
}

func (r *linkPostgresRepository) ListByEvaluator(ctx context.Context, evaluatorID string) ([]models.ProjectEvaluator, error) {
	return r.query(ctx,
		`SELECT project_id, evaluator_id FROM project_evaluators WHERE evaluator_id = $1 ORDER BY created_at`,
		codec.NormalizeEvaluatorID(evaluatorID))
}

func (r *linkPostgresRepository) Exists(ctx context.Context, projectID int, evaluatorID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM project_evaluators WHERE project_id = $1 AND evaluator_id = $2)`
	var exists bool
	err := r.db.QueryRowContext(ctx, query, projectID, codec.NormalizeEvaluatorID(evaluatorID)).Scan(&exists)
	return exists, err
}

func (r *linkPostgresRepository) Add(ctx context.Context, link *models.ProjectEvaluator) error {
	query := `
		INSERT INTO project_evaluators (project_id, evaluator_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (project_id, evaluator_id) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query, link.ProjectID, codec.NormalizeEvaluatorID(link.EvaluatorID))
	return err
}

func (r *linkPostgresRepository) Remove(ctx context.Context, projectID int, evaluatorID string) error {
	query := `DELETE FROM project_evaluators WHERE project_id = $1 AND evaluator_id = $2`
	_, err := r.db.ExecContext(ctx, query, projectID, codec.NormalizeEvaluatorID(evaluatorID))
	return err
}
