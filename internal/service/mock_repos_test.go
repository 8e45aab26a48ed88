package service

import (
	"context"
	"errors"
	"sort"

	"github.com/RubachokBoss/evaluation-service/internal/codec"
	"github.com/RubachokBoss/evaluation-service/internal/models"
)

// ── Mock RubricRepository ──

type mockRubricRepo struct {
	rubrics map[int]models.Rubric
}

func newMockRubricRepo() *mockRubricRepo {
	return &mockRubricRepo{rubrics: make(map[int]models.Rubric)}
}

func (m *mockRubricRepo) List(_ context.Context) ([]models.Rubric, error) {
	var out []models.Rubric
	for _, r := range m.rubrics {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockRubricRepo) GetByID(_ context.Context, id int) (*models.Rubric, error) {
	if r, ok := m.rubrics[id]; ok {
		return &r, nil
	}
	return nil, nil
}

func (m *mockRubricRepo) Save(_ context.Context, rubric *models.Rubric) error {
	m.rubrics[rubric.ID] = *rubric
	return nil
}

func (m *mockRubricRepo) Delete(_ context.Context, id int) error {
	delete(m.rubrics, id)
	return nil
}

func (m *mockRubricRepo) NextID(_ context.Context) (int, error) {
	maxID := 0
	for id := range m.rubrics {
		if id > maxID {
			maxID = id
		}
	}
	return maxID + 1, nil
}

// ── Mock GradeRepository ──

type scoreOwner struct {
	gradeID     int
	projectID   int
	evaluatorID string
}

type mockGradeRepo struct {
	grades  map[int]models.Grade
	scores  map[scoreOwner][]models.CriterionScore
	saveErr error
}

func newMockGradeRepo() *mockGradeRepo {
	return &mockGradeRepo{
		grades: make(map[int]models.Grade),
		scores: make(map[scoreOwner][]models.CriterionScore),
	}
}

func owner(gradeID, projectID int, evaluatorID string) scoreOwner {
	return scoreOwner{gradeID: gradeID, projectID: projectID, evaluatorID: codec.NormalizeEvaluatorID(evaluatorID)}
}

func (m *mockGradeRepo) List(_ context.Context) ([]models.Grade, error) {
	var out []models.Grade
	for _, g := range m.grades {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockGradeRepo) ListByProject(ctx context.Context, projectID int) ([]models.Grade, error) {
	all, _ := m.List(ctx)
	var out []models.Grade
	for _, g := range all {
		if g.ProjectID == projectID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (m *mockGradeRepo) GetByID(_ context.Context, id int) (*models.Grade, error) {
	if g, ok := m.grades[id]; ok {
		return &g, nil
	}
	return nil, nil
}

func (m *mockGradeRepo) FindByProjectAndEvaluator(_ context.Context, projectID int, evaluatorID string) (*models.Grade, error) {
	evaluatorID = codec.NormalizeEvaluatorID(evaluatorID)
	for _, g := range m.grades {
		if g.ProjectID == projectID && codec.NormalizeEvaluatorID(g.EvaluatorID) == evaluatorID {
			return &g, nil
		}
	}
	return nil, nil
}

func (m *mockGradeRepo) NextID(_ context.Context) (int, error) {
	maxID := 0
	for id := range m.grades {
		if id > maxID {
			maxID = id
		}
	}
	return maxID + 1, nil
}

func (m *mockGradeRepo) Save(_ context.Context, grade *models.Grade) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.grades[grade.ID] = *grade
	return nil
}

func (m *mockGradeRepo) ReplaceScores(_ context.Context, gradeID, projectID int, evaluatorID string, scores []models.CriterionScore) error {
	rows := make([]models.CriterionScore, 0, len(scores))
	for _, s := range scores {
		s.GradeID = gradeID
		s.ProjectID = projectID
		s.EvaluatorID = codec.NormalizeEvaluatorID(evaluatorID)
		s.Score = codec.RoundAmount(s.Score)
		rows = append(rows, s)
	}
	m.scores[owner(gradeID, projectID, evaluatorID)] = rows
	return nil
}

func (m *mockGradeRepo) SaveWithScores(ctx context.Context, grade *models.Grade, scores []models.CriterionScore) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	if err := m.Save(ctx, grade); err != nil {
		return err
	}
	return m.ReplaceScores(ctx, grade.ID, grade.ProjectID, grade.EvaluatorID, scores)
}

func (m *mockGradeRepo) ListScores(_ context.Context, gradeID, projectID int, evaluatorID string) ([]models.CriterionScore, error) {
	return m.scores[owner(gradeID, projectID, evaluatorID)], nil
}

func (m *mockGradeRepo) Delete(_ context.Context, gradeID, projectID int, evaluatorID string) error {
	delete(m.grades, gradeID)
	delete(m.scores, owner(gradeID, projectID, evaluatorID))
	return nil
}

// ── Mock LinkRepository ──

type mockLinkRepo struct {
	links []models.ProjectEvaluator
}

func newMockLinkRepo() *mockLinkRepo {
	return &mockLinkRepo{}
}

func (m *mockLinkRepo) List(_ context.Context) ([]models.ProjectEvaluator, error) {
	return append([]models.ProjectEvaluator(nil), m.links...), nil
}

func (m *mockLinkRepo) ListByProject(_ context.Context, projectID int) ([]models.ProjectEvaluator, error) {
	var out []models.ProjectEvaluator
	for _, l := range m.links {
		if l.ProjectID == projectID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *mockLinkRepo) ListByEvaluator(_ context.Context, evaluatorID string) ([]models.ProjectEvaluator, error) {
	evaluatorID = codec.NormalizeEvaluatorID(evaluatorID)
	var out []models.ProjectEvaluator
	for _, l := range m.links {
		if l.EvaluatorID == evaluatorID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *mockLinkRepo) Exists(_ context.Context, projectID int, evaluatorID string) (bool, error) {
	evaluatorID = codec.NormalizeEvaluatorID(evaluatorID)
	for _, l := range m.links {
		if l.ProjectID == projectID && l.EvaluatorID == evaluatorID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockLinkRepo) Add(ctx context.Context, link *models.ProjectEvaluator) error {
	if ok, _ := m.Exists(ctx, link.ProjectID, link.EvaluatorID); ok {
		return nil
	}
	m.links = append(m.links, models.ProjectEvaluator{
		ProjectID:   link.ProjectID,
		EvaluatorID: codec.NormalizeEvaluatorID(link.EvaluatorID),
	})
	return nil
}

func (m *mockLinkRepo) Remove(_ context.Context, projectID int, evaluatorID string) error {
	evaluatorID = codec.NormalizeEvaluatorID(evaluatorID)
	out := m.links[:0]
	for _, l := range m.links {
		if l.ProjectID == projectID && l.EvaluatorID == evaluatorID {
			continue
		}
		out = append(out, l)
	}
	m.links = out
	return nil
}

// ── Mock EventPublisher ──

type mockPublisher struct {
	saved   []models.GradeSavedEvent
	deleted []models.GradeDeletedEvent
	err     error
}

func (m *mockPublisher) PublishGradeSaved(_ context.Context, event *models.GradeSavedEvent) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, *event)
	return nil
}

func (m *mockPublisher) PublishGradeDeleted(_ context.Context, event *models.GradeDeletedEvent) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, *event)
	return nil
}

func (m *mockPublisher) Close() error { return nil }

// ── Mock backup collaborators ──

type mockSnapshotSource struct {
	files map[string][]byte
	err   error
}

func (m *mockSnapshotSource) Snapshot() (map[string][]byte, error) {
	return m.files, m.err
}

type mockBackupStorage struct {
	objects map[string][]byte
}

func (m *mockBackupStorage) Upload(_ context.Context, key string, data []byte) error {
	if m.objects == nil {
		m.objects = make(map[string][]byte)
	}
	m.objects[key] = data
	return nil
}

var errStoreDown = errors.New("store unavailable")
