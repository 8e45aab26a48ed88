package repository

import (
	"context"
	"database/sql"

	"github.com/RubachokBoss/evaluation-service/internal/codec"
	"github.com/RubachokBoss/evaluation-service/internal/models"
	"github.com/rs/zerolog"
)

type gradePostgresRepository struct {
	*PostgresRepository
}

func NewGradePostgresRepository(db *sql.DB, logger zerolog.Logger) GradeRepository {
	return &gradePostgresRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

const gradeColumns = `id, project_id, evaluator_id, evaluator_name, final_grade, rubric_id`

func scanGrades(rows *sql.Rows) ([]models.Grade, error) {
	defer rows.Close()

	var grades []models.Grade
	for rows.Next() {
		var g models.Grade
		if err := rows.Scan(
			&g.ID,
			&g.ProjectID,
			&g.EvaluatorID,
			&g.EvaluatorName,
			&g.FinalGrade,
			&g.RubricID,
		); err != nil {
			return nil, err
		}
		grades = append(grades, g)
	}
	return grades, rows.Err()
}

func (r *gradePostgresRepository) getOne(ctx context.Context, query string, args ...interface{}) (*models.Grade, error) {
	g := &models.Grade{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&g.ID,
		&g.ProjectID,
		&g.EvaluatorID,
		&g.EvaluatorName,
		&g.FinalGrade,
		&g.RubricID,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return g, err
}

func (r *gradePostgresRepository) List(ctx context.Context) ([]models.Grade, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+gradeColumns+` FROM grades ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return scanGrades(rows)
}

func (r *gradePostgresRepository) ListByProject(ctx context.Context, projectID int) ([]models.Grade, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+gradeColumns+` FROM grades WHERE project_id = $1 ORDER BY id`, projectID)
	if err != nil {
		return nil, err
	}
	return scanGrades(rows)
}

func (r *gradePostgresRepository) GetByID(ctx context.Context, id int) (*models.Grade, error) {
	return r.getOne(ctx, `SELECT `+gradeColumns+` FROM grades WHERE id = $1`, id)
}

func (r *gradePostgresRepository) FindByProjectAndEvaluator(ctx context.Context, projectID int, evaluatorID string) (*models.Grade, error) {
	return r.getOne(ctx,
		`SELECT `+gradeColumns+` FROM grades WHERE project_id = $1 AND evaluator_id = $2 ORDER BY id LIMIT 1`,
		projectID, codec.NormalizeEvaluatorID(evaluatorID))
}

func (r *gradePostgresRepository) NextID(ctx context.Context) (int, error) {
	var id int
	err := r.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(id), 0) + 1 FROM grades`).Scan(&id)
	return id, err
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func upsertGrade(ctx context.Context, db execer, grade *models.Grade) error {
	query := `
		INSERT INTO grades (id, project_id, evaluator_id, evaluator_name, final_grade, rubric_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			project_id = EXCLUDED.project_id,
			evaluator_id = EXCLUDED.evaluator_id,
			evaluator_name = EXCLUDED.evaluator_name,
			final_grade = EXCLUDED.final_grade,
			rubric_id = EXCLUDED.rubric_id
	`

	_, err := db.ExecContext(ctx, query,
		grade.ID,
		grade.ProjectID,
		codec.NormalizeEvaluatorID(grade.EvaluatorID),
		grade.EvaluatorName,
		codec.RoundAmount(grade.FinalGrade),
		grade.RubricID,
	)
	return err
}

func replaceScores(ctx context.Context, tx *sql.Tx, gradeID, projectID int, evaluatorID string, scores []models.CriterionScore) error {
	evaluatorID = codec.NormalizeEvaluatorID(evaluatorID)

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM grade_scores WHERE grade_id = $1 AND project_id = $2 AND evaluator_id = $3`,
		gradeID, projectID, evaluatorID,
	); err != nil {
		return err
	}

	query := `
		INSERT INTO grade_scores (grade_id, project_id, evaluator_id, position, section_id, criterion_name, score)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for i, s := range scores {
		if _, err := tx.ExecContext(ctx, query,
			gradeID,
			projectID,
			evaluatorID,
			i,
			s.SectionID,
			s.CriterionName,
			codec.RoundAmount(s.Score),
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *gradePostgresRepository) Save(ctx context.Context, grade *models.Grade) error {
	return upsertGrade(ctx, r.db, grade)
}

func (r *gradePostgresRepository) ReplaceScores(ctx context.Context, gradeID, projectID int, evaluatorID string, scores []models.CriterionScore) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		return replaceScores(ctx, tx, gradeID, projectID, evaluatorID, scores)
	})
}

func (r *gradePostgresRepository) SaveWithScores(ctx context.Context, grade *models.Grade, scores []models.CriterionScore) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if err := upsertGrade(ctx, tx, grade); err != nil {
			return err
		}
		return replaceScores(ctx, tx, grade.ID, grade.ProjectID, grade.EvaluatorID, scores)
	})
}

func (r *gradePostgresRepository) ListScores(ctx context.Context, gradeID, projectID int, evaluatorID string) ([]models.CriterionScore, error) {
	query := `
		SELECT grade_id, project_id, evaluator_id, section_id, criterion_name, score
		FROM grade_scores
		WHERE grade_id = $1 AND project_id = $2 AND evaluator_id = $3
		ORDER BY position
	`

	rows, err := r.db.QueryContext(ctx, query, gradeID, projectID, codec.NormalizeEvaluatorID(evaluatorID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scores []models.CriterionScore
	for rows.Next() {
		var s models.CriterionScore
		if err := rows.Scan(
			&s.GradeID,
			&s.ProjectID,
			&s.EvaluatorID,
			&s.SectionID,
			&s.CriterionName,
			&s.Score,
		); err != nil {
			return nil, err
		}
		scores = append(scores, s)
	}
	return scores, rows.Err()
}

func (r *gradePostgresRepository) Delete(ctx context.Context, gradeID, projectID int, evaluatorID string) error {
	evaluatorID = codec.NormalizeEvaluatorID(evaluatorID)

	return r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM grade_scores WHERE grade_id = $1 AND project_id = $2 AND evaluator_id = $3`,
			gradeID, projectID, evaluatorID,
		); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM grades WHERE id = $1`, gradeID)
		return err
	})
}
