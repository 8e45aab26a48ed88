package repository

import (
	"context"
	"fmt"

	"github.com/RubachokBoss/evaluation-service/internal/codec"
	"github.com/RubachokBoss/evaluation-service/internal/models"
)

// gradeFileRepository keeps the summary ledger (one line per grade) and the detail
// ledger (one line per scored criterion) in two files.
type gradeFileRepository struct {
	store   *FileStore
	summary flatFile
	detail  flatFile
}

func NewGradeFileRepository(store *FileStore, summaryFile, detailFile string) GradeRepository {
	return &gradeFileRepository{
		store:   store,
		summary: store.register(summaryFile),
		detail:  store.register(detailFile),
	}
}

func sameOwner(s models.CriterionScore, gradeID, projectID int, evaluatorID string) bool {
	return s.GradeID == gradeID &&
		s.ProjectID == projectID &&
		codec.NormalizeEvaluatorID(s.EvaluatorID) == codec.NormalizeEvaluatorID(evaluatorID)
}

func (r *gradeFileRepository) grades() ([]models.Grade, error) {
	lines, err := r.summary.readLines()
	if err != nil {
		return nil, err
	}

	grades := make([]models.Grade, 0, len(lines))
	for _, line := range lines {
		g, err := codec.DecodeGrade(line)
		if err != nil {
			r.store.logger.Debug().Err(err).Str("file", r.summary.path).Msg("Skipping grade line")
			continue
		}
		grades = append(grades, g)
	}
	return grades, nil
}

func (r *gradeFileRepository) List(ctx context.Context) ([]models.Grade, error) {
	return r.grades()
}

func (r *gradeFileRepository) ListByProject(ctx context.Context, projectID int) ([]models.Grade, error) {
	grades, err := r.grades()
	if err != nil {
		return nil, err
	}

	var out []models.Grade
	for _, g := range grades {
		if g.ProjectID == projectID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *gradeFileRepository) GetByID(ctx context.Context, id int) (*models.Grade, error) {
	grades, err := r.grades()
	if err != nil {
		return nil, err
	}

	for _, g := range grades {
		if g.ID == id {
			return &g, nil
		}
	}
	return nil, nil
}

func (r *gradeFileRepository) FindByProjectAndEvaluator(ctx context.Context, projectID int, evaluatorID string) (*models.Grade, error) {
	grades, err := r.grades()
	if err != nil {
		return nil, err
	}

	evaluatorID = codec.NormalizeEvaluatorID(evaluatorID)
	for _, g := range grades {
		if g.ProjectID == projectID && g.EvaluatorID == evaluatorID {
			return &g, nil
		}
	}
	return nil, nil
}

func (r *gradeFileRepository) NextID(ctx context.Context) (int, error) {
	grades, err := r.grades()
	if err != nil {
		return 0, err
	}

	maxID := 0
	for _, g := range grades {
		if g.ID > maxID {
			maxID = g.ID
		}
	}
	return maxID + 1, nil
}

// upsertLine replaces the line holding grade.ID with encoded. replaced is false when
// no line held it; out is then lines unchanged.
func upsertLine(lines []string, grade *models.Grade) (out []string, replaced bool) {
	encoded := codec.EncodeGrade(*grade)
	out = make([]string, 0, len(lines)+1)
	for _, line := range lines {
		existing, err := codec.DecodeGrade(line)
		if err == nil && existing.ID == grade.ID {
			if !replaced {
				out = append(out, encoded)
				replaced = true
			}
			continue
		}
		out = append(out, line)
	}
	return out, replaced
}

// Save overwrites the line holding grade.ID, or appends a new line when there is none.
func (r *gradeFileRepository) Save(ctx context.Context, grade *models.Grade) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	lines, err := r.summary.readLines()
	if err != nil {
		return err
	}

	out, replaced := upsertLine(lines, grade)
	if !replaced {
		return r.summary.appendLine(codec.EncodeGrade(*grade))
	}
	return r.summary.rewrite(out)
}

func (r *gradeFileRepository) withScores(lines []string, gradeID, projectID int, evaluatorID string, scores []models.CriterionScore) []string {
	out := r.withoutScores(lines, gradeID, projectID, evaluatorID)
	for _, s := range scores {
		s.GradeID = gradeID
		s.ProjectID = projectID
		s.EvaluatorID = evaluatorID
		out = append(out, codec.EncodeScore(s))
	}
	return out
}

func (r *gradeFileRepository) ReplaceScores(ctx context.Context, gradeID, projectID int, evaluatorID string, scores []models.CriterionScore) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	lines, err := r.detail.readLines()
	if err != nil {
		return err
	}

	return r.detail.rewrite(r.withScores(lines, gradeID, projectID, evaluatorID, scores))
}

func (r *gradeFileRepository) SaveWithScores(ctx context.Context, grade *models.Grade, scores []models.CriterionScore) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	summaryLines, err := r.summary.readLines()
	if err != nil {
		return err
	}
	detailLines, err := r.detail.readLines()
	if err != nil {
		return err
	}

	summaryOut, replaced := upsertLine(summaryLines, grade)
	if !replaced {
		summaryOut = append(summaryOut, codec.EncodeGrade(*grade))
	}
	detailOut := r.withScores(detailLines, grade.ID, grade.ProjectID, grade.EvaluatorID, scores)

	if err := r.commitBoth(summaryLines, summaryOut, detailOut); err != nil {
		return fmt.Errorf("failed to save grade %d: %w", grade.ID, err)
	}
	return nil
}

func (r *gradeFileRepository) ListScores(ctx context.Context, gradeID, projectID int, evaluatorID string) ([]models.CriterionScore, error) {
	lines, err := r.detail.readLines()
	if err != nil {
		return nil, err
	}

	var scores []models.CriterionScore
	for _, line := range lines {
		s, err := codec.DecodeScore(line)
		if err != nil {
			r.store.logger.Debug().Err(err).Str("file", r.detail.path).Msg("Skipping score line")
			continue
		}
		if sameOwner(s, gradeID, projectID, evaluatorID) {
			scores = append(scores, s)
		}
	}
	return scores, nil
}

// Delete removes the summary line and the detail rows through commitBoth.
func (r *gradeFileRepository) Delete(ctx context.Context, gradeID, projectID int, evaluatorID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	summaryLines, err := r.summary.readLines()
	if err != nil {
		return err
	}
	detailLines, err := r.detail.readLines()
	if err != nil {
		return err
	}

	summaryOut := make([]string, 0, len(summaryLines))
	for _, line := range summaryLines {
		g, err := codec.DecodeGrade(line)
		if err == nil && g.ID == gradeID {
			continue
		}
		summaryOut = append(summaryOut, line)
	}
	detailOut := r.withoutScores(detailLines, gradeID, projectID, evaluatorID)

	if err := r.commitBoth(summaryLines, summaryOut, detailOut); err != nil {
		return fmt.Errorf("failed to delete grade %d: %w", gradeID, err)
	}
	return nil
}

// commitBoth stages both ledgers before renaming either. When the detail rename fails
// after the summary one, the summary is rewritten with previous.
func (r *gradeFileRepository) commitBoth(previous, summaryOut, detailOut []string) error {
	stagedSummary, err := r.summary.stage(summaryOut)
	if err != nil {
		return err
	}
	stagedDetail, err := r.detail.stage(detailOut)
	if err != nil {
		r.store.fs.Remove(stagedSummary)
		return err
	}

	if err := r.summary.commit(stagedSummary); err != nil {
		r.store.fs.Remove(stagedDetail)
		return err
	}
	if err := r.detail.commit(stagedDetail); err != nil {
		if restoreErr := r.summary.rewrite(previous); restoreErr != nil {
			r.store.logger.Error().Err(restoreErr).
				Str("file", r.summary.path).
				Msg("Failed to restore grade summary after detail rewrite failure")
		}
		return err
	}
	return nil
}

func (r *gradeFileRepository) withoutScores(lines []string, gradeID, projectID int, evaluatorID string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		s, err := codec.DecodeScore(line)
		if err == nil && sameOwner(s, gradeID, projectID, evaluatorID) {
			continue
		}
		out = append(out, line)
	}
	return out
}
