package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/RubachokBoss/evaluation-service/internal/grading"
	"github.com/RubachokBoss/evaluation-service/internal/models"
	"github.com/RubachokBoss/evaluation-service/internal/repository"
	"github.com/rs/zerolog"
)

type RubricService interface {
	CreateRubric(ctx context.Context, req *models.RubricRequest) (*models.Rubric, error)
	GetRubric(ctx context.Context, id int) (*models.Rubric, error)
	ListRubrics(ctx context.Context) ([]models.Rubric, error)
	UpdateRubric(ctx context.Context, id int, req *models.RubricRequest) (*models.Rubric, error)
	DeleteRubric(ctx context.Context, id int) error
	GradingForm(ctx context.Context, id int) (*grading.Form, error)
}

type rubricService struct {
	rubricRepo repository.RubricRepository
	gradeRepo  repository.GradeRepository
	logger     zerolog.Logger

	mu sync.Mutex
}

func NewRubricService(rubricRepo repository.RubricRepository, gradeRepo repository.GradeRepository, logger zerolog.Logger) RubricService {
	return &rubricService{
		rubricRepo: rubricRepo,
		gradeRepo:  gradeRepo,
		logger:     logger,
	}
}

// applyWeightDefaults gives unweighted criteria the default weight so that the
// stored record always carries a usable value.
func applyWeightDefaults(r *models.Rubric) {
	for i := range r.Sections {
		for j := range r.Sections[i].Criteria {
			c := &r.Sections[i].Criteria[j]
			if !c.HasWeight && c.Weight == 0 {
				c.Weight = models.DefaultCriterionWeight
			}
		}
	}
}

func (s *rubricService) CreateRubric(ctx context.Context, req *models.RubricRequest) (*models.Rubric, error) {
	if err := grading.CheckKeys(*req.ToRubric(0)); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.rubricRepo.NextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate rubric id: %w", err)
	}

	rubric := req.ToRubric(id)
	applyWeightDefaults(rubric)

	if err := s.rubricRepo.Save(ctx, rubric); err != nil {
		return nil, fmt.Errorf("failed to save rubric: %w", err)
	}

	s.logger.Info().
		Int("rubric_id", rubric.ID).
		Int("sections", len(rubric.Sections)).
		Msg("Rubric created")

	return rubric, nil
}

func (s *rubricService) GetRubric(ctx context.Context, id int) (*models.Rubric, error) {
	rubric, err := s.rubricRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get rubric: %w", err)
	}
	if rubric == nil {
		return nil, ErrRubricNotFound
	}

	return rubric, nil
}

func (s *rubricService) ListRubrics(ctx context.Context) ([]models.Rubric, error) {
	rubrics, err := s.rubricRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rubrics: %w", err)
	}

	return rubrics, nil
}

func (s *rubricService) UpdateRubric(ctx context.Context, id int, req *models.RubricRequest) (*models.Rubric, error) {
	if err := grading.CheckKeys(*req.ToRubric(id)); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.GetRubric(ctx, id); err != nil {
		return nil, err
	}

	rubric := req.ToRubric(id)
	applyWeightDefaults(rubric)

	if err := s.rubricRepo.Save(ctx, rubric); err != nil {
		return nil, fmt.Errorf("failed to save rubric: %w", err)
	}

	s.logger.Info().Int("rubric_id", id).Msg("Rubric updated")

	return rubric, nil
}

func (s *rubricService) DeleteRubric(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.GetRubric(ctx, id); err != nil {
		return err
	}

	grades, err := s.gradeRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to check rubric usage: %w", err)
	}
	for _, g := range grades {
		if g.RubricID == id {
			return ErrRubricInUse
		}
	}

	if err := s.rubricRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete rubric: %w", err)
	}

	s.logger.Info().Int("rubric_id", id).Msg("Rubric deleted")

	return nil
}

func (s *rubricService) GradingForm(ctx context.Context, id int) (*grading.Form, error) {
	rubric, err := s.GetRubric(ctx, id)
	if err != nil {
		return nil, err
	}

	form := grading.BuildForm(*rubric)
	return &form, nil
}
