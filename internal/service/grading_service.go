package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/RubachokBoss/evaluation-service/internal/codec"
	"github.com/RubachokBoss/evaluation-service/internal/grading"
	"github.com/RubachokBoss/evaluation-service/internal/models"
	"github.com/RubachokBoss/evaluation-service/internal/repository"
	"github.com/RubachokBoss/evaluation-service/internal/service/integration"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type GradingService interface {
	SubmitGrade(ctx context.Context, req *models.SubmitGradeRequest) (*models.GradeWithScores, error)
	GetGrade(ctx context.Context, id int) (*models.GradeWithScores, error)
	GetGradesByProject(ctx context.Context, projectID int) ([]models.Grade, error)
	GetProjectResult(ctx context.Context, projectID int) (*models.ProjectResult, error)
	DeleteGrade(ctx context.Context, id int) error
}

type gradingService struct {
	rubricRepo repository.RubricRepository
	gradeRepo  repository.GradeRepository
	linkRepo   repository.LinkRepository
	publisher  integration.EventPublisher
	logger     zerolog.Logger

	// ledger updates run one at a time: id allocation and the two ledgers must agree
	mu sync.Mutex
}

func NewGradingService(
	rubricRepo repository.RubricRepository,
	gradeRepo repository.GradeRepository,
	linkRepo repository.LinkRepository,
	publisher integration.EventPublisher,
	logger zerolog.Logger,
) GradingService {
	if publisher == nil {
		publisher = integration.NopPublisher{}
	}
	return &gradingService{
		rubricRepo: rubricRepo,
		gradeRepo:  gradeRepo,
		linkRepo:   linkRepo,
		publisher:  publisher,
		logger:     logger,
	}
}

func (s *gradingService) SubmitGrade(ctx context.Context, req *models.SubmitGradeRequest) (*models.GradeWithScores, error) {
	evaluatorID := codec.NormalizeEvaluatorID(req.EvaluatorID)
	if evaluatorID == "" {
		return nil, ErrInvalidEvaluatorID
	}

	rubric, err := s.rubricRepo.GetByID(ctx, req.RubricID)
	if err != nil {
		return nil, fmt.Errorf("failed to load rubric: %w", err)
	}
	if rubric == nil {
		return nil, ErrRubricNotFound
	}

	linked, err := s.linkRepo.Exists(ctx, req.ProjectID, evaluatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to check evaluator link: %w", err)
	}
	if !linked {
		return nil, ErrEvaluatorNotLinked
	}

	form := grading.BuildForm(*rubric)
	scored, rows, err := form.Score(req.Scores)
	if err != nil {
		return nil, err
	}
	final := grading.FinalGrade(scored)

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.gradeRepo.FindByProjectAndEvaluator(ctx, req.ProjectID, evaluatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up existing grade: %w", err)
	}

	created := existing == nil
	var gradeID int
	if created {
		gradeID, err = s.gradeRepo.NextID(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to allocate grade id: %w", err)
		}
	} else {
		gradeID = existing.ID
	}

	grade := models.Grade{
		ID:            gradeID,
		ProjectID:     req.ProjectID,
		EvaluatorID:   evaluatorID,
		EvaluatorName: req.EvaluatorName,
		FinalGrade:    final,
		RubricID:      rubric.ID,
	}

	if err := s.gradeRepo.SaveWithScores(ctx, &grade, rows); err != nil {
		return nil, fmt.Errorf("failed to save grade: %w", err)
	}

	for i := range rows {
		rows[i].GradeID = gradeID
		rows[i].ProjectID = req.ProjectID
		rows[i].EvaluatorID = evaluatorID
		rows[i].Score = codec.RoundAmount(rows[i].Score)
	}
	grade.FinalGrade = codec.RoundAmount(final)

	s.logger.Info().
		Int("grade_id", gradeID).
		Int("project_id", req.ProjectID).
		Str("evaluator_id", evaluatorID).
		Float64("final_grade", grade.FinalGrade).
		Bool("created", created).
		Msg("Grade saved")

	event := &models.GradeSavedEvent{
		EventID:     uuid.New().String(),
		GradeID:     gradeID,
		ProjectID:   req.ProjectID,
		EvaluatorID: evaluatorID,
		RubricID:    rubric.ID,
		FinalGrade:  grade.FinalGrade,
		Created:     created,
		Timestamp:   time.Now().Unix(),
	}
	if err := s.publisher.PublishGradeSaved(ctx, event); err != nil {
		s.logger.Warn().Err(err).Int("grade_id", gradeID).Msg("Failed to publish grade saved event")
	}

	return &models.GradeWithScores{Grade: grade, Scores: rows}, nil
}

func (s *gradingService) GetGrade(ctx context.Context, id int) (*models.GradeWithScores, error) {
	grade, err := s.gradeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get grade: %w", err)
	}
	if grade == nil {
		return nil, ErrGradeNotFound
	}

	scores, err := s.gradeRepo.ListScores(ctx, grade.ID, grade.ProjectID, grade.EvaluatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get criterion scores: %w", err)
	}
	if scores == nil {
		scores = []models.CriterionScore{}
	}

	return &models.GradeWithScores{Grade: *grade, Scores: scores}, nil
}

func (s *gradingService) GetGradesByProject(ctx context.Context, projectID int) ([]models.Grade, error) {
	grades, err := s.gradeRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get project grades: %w", err)
	}
	if grades == nil {
		grades = []models.Grade{}
	}

	return grades, nil
}

func (s *gradingService) GetProjectResult(ctx context.Context, projectID int) (*models.ProjectResult, error) {
	grades, err := s.GetGradesByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	return &models.ProjectResult{
		ProjectID:    projectID,
		Grades:       grades,
		AverageGrade: codec.RoundAmount(grading.Average(grades)),
	}, nil
}

func (s *gradingService) DeleteGrade(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	grade, err := s.gradeRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get grade: %w", err)
	}
	if grade == nil {
		return ErrGradeNotFound
	}

	if err := s.gradeRepo.Delete(ctx, grade.ID, grade.ProjectID, grade.EvaluatorID); err != nil {
		return fmt.Errorf("failed to delete grade: %w", err)
	}

	s.logger.Info().
		Int("grade_id", grade.ID).
		Int("project_id", grade.ProjectID).
		Msg("Grade deleted")

	event := &models.GradeDeletedEvent{
		EventID:     uuid.New().String(),
		GradeID:     grade.ID,
		ProjectID:   grade.ProjectID,
		EvaluatorID: grade.EvaluatorID,
		Timestamp:   time.Now().Unix(),
	}
	if err := s.publisher.PublishGradeDeleted(ctx, event); err != nil {
		s.logger.Warn().Err(err).Int("grade_id", grade.ID).Msg("Failed to publish grade deleted event")
	}

	return nil
}
