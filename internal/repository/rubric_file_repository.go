package repository

import (
	"context"

	"github.com/RubachokBoss/evaluation-service/internal/codec"
	"github.com/RubachokBoss/evaluation-service/internal/models"
)

type rubricFileRepository struct {
	store *FileStore
	file  flatFile
}

func NewRubricFileRepository(store *FileStore, fileName string) RubricRepository {
	return &rubricFileRepository{
		store: store,
		file:  store.register(fileName),
	}
}

// decode skips malformed lines; they stay untouched in the file.
func (r *rubricFileRepository) decode(line string) (models.Rubric, bool) {
	rubric, err := codec.DecodeRubric(line)
	if err != nil {
		r.store.logger.Debug().Err(err).Str("file", r.file.path).Msg("Skipping rubric line")
		return models.Rubric{}, false
	}
	return rubric, true
}

func (r *rubricFileRepository) List(ctx context.Context) ([]models.Rubric, error) {
	lines, err := r.file.readLines()
	if err != nil {
		return nil, err
	}

	rubrics := make([]models.Rubric, 0, len(lines))
	for _, line := range lines {
		if rubric, ok := r.decode(line); ok {
			rubrics = append(rubrics, rubric)
		}
	}
	return rubrics, nil
}

// GetByID scans the whole store; there is no index.
func (r *rubricFileRepository) GetByID(ctx context.Context, id int) (*models.Rubric, error) {
	lines, err := r.file.readLines()
	if err != nil {
		return nil, err
	}

	for _, line := range lines {
		rubric, ok := r.decode(line)
		if ok && rubric.ID == id {
			return &rubric, nil
		}
	}
	return nil, nil
}

func (r *rubricFileRepository) Save(ctx context.Context, rubric *models.Rubric) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	lines, err := r.file.readLines()
	if err != nil {
		return err
	}

	encoded := codec.EncodeRubric(*rubric)
	out := make([]string, 0, len(lines)+1)
	replaced := false
	for _, line := range lines {
		existing, ok := r.decode(line)
		if ok && existing.ID == rubric.ID {
			if !replaced {
				out = append(out, encoded)
				replaced = true
			}
			continue
		}
		out = append(out, line)
	}
	if !replaced {
		out = append(out, encoded)
	}

	return r.file.rewrite(out)
}

func (r *rubricFileRepository) Delete(ctx context.Context, id int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	lines, err := r.file.readLines()
	if err != nil {
		return err
	}

	out := make([]string, 0, len(lines))
	for _, line := range lines {
		existing, ok := r.decode(line)
		if ok && existing.ID == id {
			continue
		}
		out = append(out, line)
	}

	return r.file.rewrite(out)
}

func (r *rubricFileRepository) NextID(ctx context.Context) (int, error) {
	rubrics, err := r.List(ctx)
	if err != nil {
		return 0, err
	}

	maxID := 0
	for _, rubric := range rubrics {
		if rubric.ID > maxID {
			maxID = rubric.ID
		}
	}
	return maxID + 1, nil
}
