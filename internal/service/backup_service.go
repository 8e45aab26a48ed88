package service

import (
	"context"
	"fmt"
	"path"
	"sort"
	"time"

	"github.com/RubachokBoss/evaluation-service/internal/models"
	"github.com/RubachokBoss/evaluation-service/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SnapshotSource yields the raw content of each store file, keyed by file name.
type SnapshotSource interface {
	Snapshot() (map[string][]byte, error)
}

type BackupService interface {
	CreateBackup(ctx context.Context) (*models.BackupResponse, error)
}

type backupService struct {
	source  SnapshotSource
	storage repository.BackupStorage
	prefix  string
	logger  zerolog.Logger
	now     func() time.Time
}

// NewBackupService returns a service whose CreateBackup fails with ErrBackupDisabled
// when source or storage is nil.
func NewBackupService(source SnapshotSource, storage repository.BackupStorage, prefix string, logger zerolog.Logger) BackupService {
	return &backupService{
		source:  source,
		storage: storage,
		prefix:  prefix,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *backupService) CreateBackup(ctx context.Context) (*models.BackupResponse, error) {
	if s.source == nil || s.storage == nil {
		return nil, ErrBackupDisabled
	}

	files, err := s.source.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot stores: %w", err)
	}

	createdAt := s.now().UTC()
	prefix := path.Join(s.prefix, createdAt.Format("20060102T150405Z")+"-"+uuid.New().String())

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	objects := make([]string, 0, len(names))
	for _, name := range names {
		key := path.Join(prefix, name)
		if err := s.storage.Upload(ctx, key, files[name]); err != nil {
			return nil, fmt.Errorf("failed to upload %s: %w", name, err)
		}
		objects = append(objects, key)
	}

	s.logger.Info().
		Str("prefix", prefix).
		Int("objects", len(objects)).
		Msg("Store backup created")

	return &models.BackupResponse{
		Prefix:    prefix,
		Objects:   objects,
		CreatedAt: createdAt,
	}, nil
}
