package repository

import (
	"context"

	"github.com/RubachokBoss/evaluation-service/internal/codec"
	"github.com/RubachokBoss/evaluation-service/internal/models"
)

type linkFileRepository struct {
	store *FileStore
	file  flatFile
}

func NewLinkFileRepository(store *FileStore, fileName string) LinkRepository {
	return &linkFileRepository{
		store: store,
		file:  store.register(fileName),
	}
}

func (r *linkFileRepository) links() ([]models.ProjectEvaluator, error) {
	lines, err := r.file.readLines()
	if err != nil {
		return nil, err
	}

	links := make([]models.ProjectEvaluator, 0, len(lines))
	for _, line := range lines {
		l, err := codec.DecodeLink(line)
		if err != nil {
			r.store.logger.Debug().Err(err).Str("file", r.file.path).Msg("Skipping link line")
			continue
		}
		links = append(links, l)
	}
	return links, nil
}

func (r *linkFileRepository) List(ctx context.Context) ([]models.ProjectEvaluator, error) {
	return r.links()
}

func (r *linkFileRepository) ListByProject(ctx context.Context, projectID int) ([]models.ProjectEvaluator, error) {
	links, err := r.links()
	if err != nil {
		return nil, err
	}

	var out []models.ProjectEvaluator
	for _, l := range links {
		if l.ProjectID == projectID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *linkFileRepository) ListByEvaluator(ctx context.Context, evaluatorID string) ([]models.ProjectEvaluator, error) {
	links, err := r.links()
	if err != nil {
		return nil, err
	}

	evaluatorID = codec.NormalizeEvaluatorID(evaluatorID)
	var out []models.ProjectEvaluator
	for _, l := range links {
		if l.EvaluatorID == evaluatorID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *linkFileRepository) Exists(ctx context.Context, projectID int, evaluatorID string) (bool, error) {
	links, err := r.links()
	if err != nil {
		return false, err
	}

	evaluatorID = codec.NormalizeEvaluatorID(evaluatorID)
	for _, l := range links {
		if l.ProjectID == projectID && l.EvaluatorID == evaluatorID {
			return true, nil
		}
	}
	return false, nil
}

// Add appends the link unless it is already stored.
func (r *linkFileRepository) Add(ctx context.Context, link *models.ProjectEvaluator) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	exists, err := r.Exists(ctx, link.ProjectID, link.EvaluatorID)
	if err != nil || exists {
		return err
	}

	return r.file.appendLine(codec.EncodeLink(*link))
}

func (r *linkFileRepository) Remove(ctx context.Context, projectID int, evaluatorID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	lines, err := r.file.readLines()
	if err != nil {
		return err
	}

	evaluatorID = codec.NormalizeEvaluatorID(evaluatorID)
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		l, err := codec.DecodeLink(line)
		if err == nil && l.ProjectID == projectID && l.EvaluatorID == evaluatorID {
			continue
		}
		out = append(out, line)
	}

	return r.file.rewrite(out)
}
