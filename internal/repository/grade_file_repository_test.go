package repository

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/RubachokBoss/evaluation-service/internal/models"
	"github.com/rs/zerolog"
)

const (
	summaryFile = "notas.txt"
	detailFile  = "notas_detalhadas.txt"
)

func scoresOf(values ...float64) []models.CriterionScore {
	names := []string{"Clareza", "Coesão", "Domínio"}
	out := make([]models.CriterionScore, 0, len(values))
	for i, v := range values {
		out = append(out, models.CriterionScore{SectionID: "A", CriterionName: names[i], Score: v})
	}
	return out
}

func TestGradeFileRepository_UpsertIsIdempotent(t *testing.T) {
	store, fs := newTestStore(t)
	repo := NewGradeFileRepository(store, summaryFile, detailFile)
	ctx := context.Background()

	g := &models.Grade{ID: 1, ProjectID: 10, EvaluatorID: "123.456.789-00", EvaluatorName: "Ana", FinalGrade: 7, RubricID: 2}
	if err := repo.Save(ctx, g); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := repo.ReplaceScores(ctx, 1, 10, g.EvaluatorID, scoresOf(7, 7)); err != nil {
		t.Fatalf("ReplaceScores: %v", err)
	}

	g.FinalGrade = 9
	if err := repo.Save(ctx, g); err != nil {
		t.Fatalf("Save again: %v", err)
	}
	if err := repo.ReplaceScores(ctx, 1, 10, "12345678900", scoresOf(9, 9)); err != nil {
		t.Fatalf("ReplaceScores again: %v", err)
	}

	grades, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(grades) != 1 || grades[0].FinalGrade != 9 {
		t.Fatalf("want exactly one summary row with 9, got %+v", grades)
	}

	scores, err := repo.ListScores(ctx, 1, 10, "123.456.789-00")
	if err != nil {
		t.Fatalf("ListScores: %v", err)
	}
	if len(scores) != 2 {
		t.Fatalf("want 2 detail rows, got %d", len(scores))
	}
	for _, s := range scores {
		if s.Score != 9 {
			t.Errorf("stale score left behind: %+v", s)
		}
	}

	if got := readStoreFile(t, fs, summaryFile); got != "1;10;12345678900;Ana;9.00;2\n" {
		t.Errorf("unexpected summary ledger %q", got)
	}
	wantDetail := "1;10;12345678900;A;Clareza;9.00\n1;10;12345678900;A;Coesão;9.00\n"
	if got := readStoreFile(t, fs, detailFile); got != wantDetail {
		t.Errorf("unexpected detail ledger %q", got)
	}
}

func TestGradeFileRepository_ReplaceScoresLeavesOtherOwners(t *testing.T) {
	store, _ := newTestStore(t)
	repo := NewGradeFileRepository(store, summaryFile, detailFile)
	ctx := context.Background()

	if err := repo.ReplaceScores(ctx, 1, 10, "111", scoresOf(5)); err != nil {
		t.Fatalf("ReplaceScores: %v", err)
	}
	if err := repo.ReplaceScores(ctx, 2, 10, "222", scoresOf(6)); err != nil {
		t.Fatalf("ReplaceScores: %v", err)
	}
	if err := repo.ReplaceScores(ctx, 1, 10, "111", scoresOf(8, 8, 8)); err != nil {
		t.Fatalf("ReplaceScores: %v", err)
	}

	other, _ := repo.ListScores(ctx, 2, 10, "222")
	if len(other) != 1 || other[0].Score != 6 {
		t.Fatalf("unrelated rows changed: %+v", other)
	}
	mine, _ := repo.ListScores(ctx, 1, 10, "111")
	if len(mine) != 3 {
		t.Fatalf("want 3 rows, got %+v", mine)
	}
}

func TestGradeFileRepository_FindByProjectAndEvaluatorNormalizes(t *testing.T) {
	store, fs := newTestStore(t)
	writeStoreFile(t, fs, summaryFile, "3;10;123.456.789-00;Ana;8.00;1\nbroken;line\n")
	repo := NewGradeFileRepository(store, summaryFile, detailFile)
	ctx := context.Background()

	g, err := repo.FindByProjectAndEvaluator(ctx, 10, "12345678900")
	if err != nil {
		t.Fatalf("FindByProjectAndEvaluator: %v", err)
	}
	if g == nil || g.ID != 3 {
		t.Fatalf("expected grade 3, got %+v", g)
	}

	g, _ = repo.FindByProjectAndEvaluator(ctx, 11, "12345678900")
	if g != nil {
		t.Fatalf("expected no grade for another project, got %+v", g)
	}
}

func TestGradeFileRepository_NextIDAndListByProject(t *testing.T) {
	store, _ := newTestStore(t)
	repo := NewGradeFileRepository(store, summaryFile, detailFile)
	ctx := context.Background()

	if id, _ := repo.NextID(ctx); id != 1 {
		t.Fatalf("NextID on empty ledger = %d", id)
	}

	for _, g := range []models.Grade{
		{ID: 1, ProjectID: 10, EvaluatorID: "111"},
		{ID: 7, ProjectID: 20, EvaluatorID: "111"},
		{ID: 3, ProjectID: 10, EvaluatorID: "222"},
	} {
		g := g
		if err := repo.Save(ctx, &g); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	if id, _ := repo.NextID(ctx); id != 8 {
		t.Fatalf("NextID = %d, want 8", id)
	}

	byProject, err := repo.ListByProject(ctx, 10)
	if err != nil {
		t.Fatalf("ListByProject: %v", err)
	}
	if len(byProject) != 2 || byProject[0].ID != 1 || byProject[1].ID != 3 {
		t.Fatalf("unexpected project grades %+v", byProject)
	}
}

func TestGradeFileRepository_DeleteRemovesSummaryAndDetail(t *testing.T) {
	store, _ := newTestStore(t)
	repo := NewGradeFileRepository(store, summaryFile, detailFile)
	ctx := context.Background()

	for _, g := range []models.Grade{
		{ID: 1, ProjectID: 10, EvaluatorID: "111"},
		{ID: 2, ProjectID: 10, EvaluatorID: "222"},
	} {
		g := g
		if err := repo.Save(ctx, &g); err != nil {
			t.Fatalf("Save: %v", err)
		}
		if err := repo.ReplaceScores(ctx, g.ID, g.ProjectID, g.EvaluatorID, scoresOf(5, 6)); err != nil {
			t.Fatalf("ReplaceScores: %v", err)
		}
	}

	if err := repo.Delete(ctx, 1, 10, "1.1.1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if g, _ := repo.GetByID(ctx, 1); g != nil {
		t.Fatalf("summary row survived: %+v", g)
	}
	if s, _ := repo.ListScores(ctx, 1, 10, "111"); len(s) != 0 {
		t.Fatalf("detail rows survived: %+v", s)
	}
	if g, _ := repo.GetByID(ctx, 2); g == nil {
		t.Fatal("grade 2 removed")
	}
	if s, _ := repo.ListScores(ctx, 2, 10, "222"); len(s) != 2 {
		t.Fatalf("grade 2 detail rows changed: %+v", s)
	}
}

func TestGradeFileRepository_DeleteRestoresSummaryOnDetailFailure(t *testing.T) {
	base, fs := newTestStore(t)
	failing := &renameFailFs{Fs: fs, target: filepath.Join(testDataDir, detailFile)}
	ctx := context.Background()

	seed := NewGradeFileRepository(base, summaryFile, detailFile)
	g := &models.Grade{ID: 1, ProjectID: 10, EvaluatorID: "111", FinalGrade: 6}
	if err := seed.Save(ctx, g); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := seed.ReplaceScores(ctx, 1, 10, "111", scoresOf(6)); err != nil {
		t.Fatalf("ReplaceScores: %v", err)
	}

	repo := NewGradeFileRepository(NewFileStore(failing, testDataDir, zerolog.Nop()), summaryFile, detailFile)
	err := repo.Delete(ctx, 1, 10, "111")
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("expected rename failure, got %v", err)
	}

	if g, _ := repo.GetByID(ctx, 1); g == nil {
		t.Fatal("summary row lost after failed delete")
	}
	if s, _ := repo.ListScores(ctx, 1, 10, "111"); len(s) != 1 {
		t.Fatalf("detail rows changed after failed delete: %+v", s)
	}
}

func TestGradeFileRepository_SaveWithScoresUpdatesBothLedgers(t *testing.T) {
	store, _ := newTestStore(t)
	repo := NewGradeFileRepository(store, summaryFile, detailFile)
	ctx := context.Background()

	g := &models.Grade{ID: 1, ProjectID: 10, EvaluatorID: "111", EvaluatorName: "Ana", FinalGrade: 4, RubricID: 1}
	if err := repo.SaveWithScores(ctx, g, scoresOf(4, 4)); err != nil {
		t.Fatalf("SaveWithScores: %v", err)
	}

	g.FinalGrade = 9
	if err := repo.SaveWithScores(ctx, g, scoresOf(9)); err != nil {
		t.Fatalf("SaveWithScores again: %v", err)
	}

	grades, _ := repo.List(ctx)
	if len(grades) != 1 || grades[0].FinalGrade != 9 {
		t.Fatalf("want one summary row with 9, got %+v", grades)
	}
	scores, _ := repo.ListScores(ctx, 1, 10, "111")
	if len(scores) != 1 || scores[0].Score != 9 {
		t.Fatalf("detail rows not replaced: %+v", scores)
	}
}

func TestGradeFileRepository_SaveWithScoresRestoresSummaryOnDetailFailure(t *testing.T) {
	base, fs := newTestStore(t)
	failing := &renameFailFs{Fs: fs, target: filepath.Join(testDataDir, detailFile)}
	ctx := context.Background()

	seed := NewGradeFileRepository(base, summaryFile, detailFile)
	g := &models.Grade{ID: 1, ProjectID: 10, EvaluatorID: "111", EvaluatorName: "A", FinalGrade: 4, RubricID: 1}
	if err := seed.SaveWithScores(ctx, g, scoresOf(4)); err != nil {
		t.Fatalf("SaveWithScores: %v", err)
	}
	before := readStoreFile(t, fs, summaryFile)

	repo := NewGradeFileRepository(NewFileStore(failing, testDataDir, zerolog.Nop()), summaryFile, detailFile)
	resubmitted := *g
	resubmitted.FinalGrade = 9
	err := repo.SaveWithScores(ctx, &resubmitted, scoresOf(9))
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("expected rename failure, got %v", err)
	}

	if after := readStoreFile(t, fs, summaryFile); after != before {
		t.Fatalf("summary changed after failed save: %q -> %q", before, after)
	}
	stored, _ := repo.GetByID(ctx, 1)
	if stored == nil || stored.FinalGrade != 4 {
		t.Fatalf("expected previous final grade 4, got %+v", stored)
	}
	if s, _ := repo.ListScores(ctx, 1, 10, "111"); len(s) != 1 || s[0].Score != 4 {
		t.Fatalf("detail rows changed after failed save: %+v", s)
	}
}

func TestGradeFileRepository_SaveWithScoresFirstGradeFailureLeavesNoSummary(t *testing.T) {
	_, fs := newTestStore(t)
	failing := &renameFailFs{Fs: fs, target: filepath.Join(testDataDir, detailFile)}
	repo := NewGradeFileRepository(NewFileStore(failing, testDataDir, zerolog.Nop()), summaryFile, detailFile)
	ctx := context.Background()

	g := &models.Grade{ID: 1, ProjectID: 10, EvaluatorID: "111", FinalGrade: 5}
	if err := repo.SaveWithScores(ctx, g, scoresOf(5)); err == nil {
		t.Fatal("expected rename failure")
	}

	if grades, _ := repo.List(ctx); len(grades) != 0 {
		t.Fatalf("summary row left behind: %+v", grades)
	}
}
