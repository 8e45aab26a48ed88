package repository

import (
	"context"
	"testing"

	"github.com/RubachokBoss/evaluation-service/internal/models"
)

const linkFile = "vinculos.txt"

func TestLinkFileRepository_AddIsIdempotent(t *testing.T) {
	store, fs := newTestStore(t)
	repo := NewLinkFileRepository(store, linkFile)
	ctx := context.Background()

	for _, id := range []string{"123.456.789-00", "12345678900"} {
		if err := repo.Add(ctx, &models.ProjectEvaluator{ProjectID: 1, EvaluatorID: id}); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	if got := readStoreFile(t, fs, linkFile); got != "1;12345678900\n" {
		t.Fatalf("unexpected link store %q", got)
	}

	ok, err := repo.Exists(ctx, 1, "123.456.789-00")
	if err != nil || !ok {
		t.Fatalf("Exists = %v, %v", ok, err)
	}
}

func TestLinkFileRepository_ListAndRemove(t *testing.T) {
	store, fs := newTestStore(t)
	writeStoreFile(t, fs, linkFile, "1;111\n1;222\n2;111\nx\n")
	repo := NewLinkFileRepository(store, linkFile)
	ctx := context.Background()

	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("want 3 links, got %d", len(all))
	}

	byProject, _ := repo.ListByProject(ctx, 1)
	if len(byProject) != 2 {
		t.Fatalf("want 2 links for project 1, got %+v", byProject)
	}
	byEvaluator, _ := repo.ListByEvaluator(ctx, "1-1-1")
	if len(byEvaluator) != 2 {
		t.Fatalf("want 2 links for evaluator 111, got %+v", byEvaluator)
	}

	if err := repo.Remove(ctx, 1, "111"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if ok, _ := repo.Exists(ctx, 1, "111"); ok {
		t.Fatal("link still present after Remove")
	}
	if ok, _ := repo.Exists(ctx, 2, "111"); !ok {
		t.Fatal("unrelated link removed")
	}
}
