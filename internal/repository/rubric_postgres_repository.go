package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/RubachokBoss/evaluation-service/internal/codec"
	"github.com/RubachokBoss/evaluation-service/internal/models"
	"github.com/rs/zerolog"
)

// rubricPostgresRepository stores each rubric as its encoded store line, so both
// backends share one rubric format.
type rubricPostgresRepository struct {
	*PostgresRepository
}

func NewRubricPostgresRepository(db *sql.DB, logger zerolog.Logger) RubricRepository {
	return &rubricPostgresRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *rubricPostgresRepository) List(ctx context.Context) ([]models.Rubric, error) {
	query := `SELECT record FROM rubrics ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rubrics []models.Rubric
	for rows.Next() {
		var record string
		if err := rows.Scan(&record); err != nil {
			return nil, err
		}
		rubric, err := codec.DecodeRubric(record)
		if err != nil {
			r.logger.Debug().Err(err).Msg("Skipping rubric row")
			continue
		}
		rubrics = append(rubrics, rubric)
	}

	return rubrics, rows.Err()
}

func (r *rubricPostgresRepository) GetByID(ctx context.Context, id int) (*models.Rubric, error) {
	query := `SELECT record FROM rubrics WHERE id = $1`

	var record string
	err := r.db.QueryRowContext(ctx, query, id).Scan(&record)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rubric, err := codec.DecodeRubric(record)
	if err != nil {
		return nil, fmt.Errorf("rubric %d: %w", id, err)
	}
	return &rubric, nil
}

func (r *rubricPostgresRepository) Save(ctx context.Context, rubric *models.Rubric) error {
	query := `
		INSERT INTO rubrics (id, record, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (id) DO UPDATE SET record = EXCLUDED.record, updated_at = NOW()
	`

	_, err := r.db.ExecContext(ctx, query, rubric.ID, codec.EncodeRubric(*rubric))
	return err
}

func (r *rubricPostgresRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM rubrics WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *rubricPostgresRepository) NextID(ctx context.Context) (int, error) {
	query := `SELECT COALESCE(MAX(id), 0) + 1 FROM rubrics`
	var id int
	err := r.db.QueryRowContext(ctx, query).Scan(&id)
	return id, err
}
