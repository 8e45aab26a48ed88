package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/RubachokBoss/evaluation-service/internal/codec"
	"github.com/RubachokBoss/evaluation-service/internal/models"
	"github.com/RubachokBoss/evaluation-service/internal/repository"
	"github.com/rs/zerolog"
)

const DefaultMaxEvaluatorsPerProject = 3

type LinkService interface {
	LinkEvaluator(ctx context.Context, projectID int, evaluatorID string) (*models.ProjectEvaluator, error)
	UnlinkEvaluator(ctx context.Context, projectID int, evaluatorID string) error
	GetEvaluatorsByProject(ctx context.Context, projectID int) ([]models.ProjectEvaluator, error)
	GetProjectsByEvaluator(ctx context.Context, evaluatorID string) ([]models.ProjectEvaluator, error)
}

type linkService struct {
	linkRepo      repository.LinkRepository
	gradeRepo     repository.GradeRepository
	maxEvaluators int
	logger        zerolog.Logger

	mu sync.Mutex
}

func NewLinkService(linkRepo repository.LinkRepository, gradeRepo repository.GradeRepository, maxEvaluators int, logger zerolog.Logger) LinkService {
	if maxEvaluators <= 0 {
		maxEvaluators = DefaultMaxEvaluatorsPerProject
	}
	return &linkService{
		linkRepo:      linkRepo,
		gradeRepo:     gradeRepo,
		maxEvaluators: maxEvaluators,
		logger:        logger,
	}
}

func (s *linkService) LinkEvaluator(ctx context.Context, projectID int, evaluatorID string) (*models.ProjectEvaluator, error) {
	evaluatorID = codec.NormalizeEvaluatorID(evaluatorID)
	if evaluatorID == "" {
		return nil, ErrInvalidEvaluatorID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	links, err := s.linkRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get project evaluators: %w", err)
	}

	link := &models.ProjectEvaluator{ProjectID: projectID, EvaluatorID: evaluatorID}
	for _, l := range links {
		if l.EvaluatorID == evaluatorID {
			return link, nil
		}
	}
	if len(links) >= s.maxEvaluators {
		return nil, ErrTooManyEvaluators
	}

	if err := s.linkRepo.Add(ctx, link); err != nil {
		return nil, fmt.Errorf("failed to link evaluator: %w", err)
	}

	s.logger.Info().
		Int("project_id", projectID).
		Str("evaluator_id", evaluatorID).
		Msg("Evaluator linked to project")

	return link, nil
}

// UnlinkEvaluator refuses to drop a link that already has a grade behind it.
func (s *linkService) UnlinkEvaluator(ctx context.Context, projectID int, evaluatorID string) error {
	evaluatorID = codec.NormalizeEvaluatorID(evaluatorID)

	s.mu.Lock()
	defer s.mu.Unlock()

	exists, err := s.linkRepo.Exists(ctx, projectID, evaluatorID)
	if err != nil {
		return fmt.Errorf("failed to check evaluator link: %w", err)
	}
	if !exists {
		return ErrLinkNotFound
	}

	grade, err := s.gradeRepo.FindByProjectAndEvaluator(ctx, projectID, evaluatorID)
	if err != nil {
		return fmt.Errorf("failed to check existing grade: %w", err)
	}
	if grade != nil {
		return ErrLinkHasGrade
	}

	if err := s.linkRepo.Remove(ctx, projectID, evaluatorID); err != nil {
		return fmt.Errorf("failed to unlink evaluator: %w", err)
	}

	s.logger.Info().
		Int("project_id", projectID).
		Str("evaluator_id", evaluatorID).
		Msg("Evaluator unlinked from project")

	return nil
}

func (s *linkService) GetEvaluatorsByProject(ctx context.Context, projectID int) ([]models.ProjectEvaluator, error) {
	links, err := s.linkRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get project evaluators: %w", err)
	}
	if links == nil {
		links = []models.ProjectEvaluator{}
	}
	return links, nil
}

func (s *linkService) GetProjectsByEvaluator(ctx context.Context, evaluatorID string) ([]models.ProjectEvaluator, error) {
	links, err := s.linkRepo.ListByEvaluator(ctx, evaluatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get evaluator projects: %w", err)
	}
	if links == nil {
		links = []models.ProjectEvaluator{}
	}
	return links, nil
}
