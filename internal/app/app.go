package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/RubachokBoss/evaluation-service/internal/config"
	"github.com/RubachokBoss/evaluation-service/internal/database"
	"github.com/RubachokBoss/evaluation-service/internal/delivery/httpd"
	"github.com/RubachokBoss/evaluation-service/internal/middleware"
	"github.com/RubachokBoss/evaluation-service/internal/repository"
	"github.com/RubachokBoss/evaluation-service/internal/service"
	"github.com/RubachokBoss/evaluation-service/internal/service/integration"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

type App struct {
	server    *http.Server
	logger    zerolog.Logger
	config    *config.Config
	db        *sql.DB
	publisher integration.EventPublisher
}

type repositories struct {
	rubrics repository.RubricRepository
	grades  repository.GradeRepository
	links   repository.LinkRepository
	store   httpd.Pinger
	// только файловое хранилище умеет делать снимки
	snapshot service.SnapshotSource
}

func New(cfg *config.Config, log zerolog.Logger) (*App, error) {
	return newApp(cfg, log, afero.NewOsFs())
}

func newApp(cfg *config.Config, log zerolog.Logger, fs afero.Fs) (*App, error) {
	var db *sql.DB
	var repos repositories

	// Создаем репозитории
	switch cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		var err error
		db, err = database.NewPostgres(cfg.Database)
		if err != nil {
			return nil, err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		log.Info().Msg("Database connection established")

		repos = repositories{
			rubrics: repository.NewRubricPostgresRepository(db, log),
			grades:  repository.NewGradePostgresRepository(db, log),
			links:   repository.NewLinkPostgresRepository(db, log),
			store:   repository.NewPostgresRepository(db, log),
		}
	default:
		store := repository.NewFileStore(fs, cfg.Storage.DataDir, log)
		repos = repositories{
			rubrics:  repository.NewRubricFileRepository(store, cfg.Storage.RubricFile),
			grades:   repository.NewGradeFileRepository(store, cfg.Storage.GradeFile, cfg.Storage.GradeDetailFile),
			links:    repository.NewLinkFileRepository(store, cfg.Storage.LinkFile),
			store:    store,
			snapshot: store,
		}
		log.Info().Str("data_dir", cfg.Storage.DataDir).Msg("Using flat-file storage")
	}

	// Создаем интеграционные клиенты
	var publisher integration.EventPublisher = integration.NopPublisher{}
	if cfg.RabbitMQ.Enabled {
		client, err := integration.NewRabbitMQClient(
			cfg.RabbitMQ.URL,
			cfg.RabbitMQ.Exchange,
			cfg.RabbitMQ.QueueName,
			log,
		)
		if err != nil {
			// Продолжаем без RabbitMQ, оценки сохраняются и без событий
			log.Error().Err(err).Msg("Failed to create RabbitMQ client")
		} else {
			publisher = client
		}
	}

	var backupStorage repository.BackupStorage
	if cfg.MinIO.Enabled {
		minioRepo, err := repository.NewMinIORepository(
			cfg.MinIO.Endpoint,
			cfg.MinIO.AccessKey,
			cfg.MinIO.SecretKey,
			cfg.MinIO.Bucket,
			cfg.MinIO.Region,
			cfg.MinIO.UseSSL,
			log,
		)
		if err != nil {
			log.Error().Err(err).Msg("Failed to create MinIO client, backups disabled")
		} else {
			backupStorage = minioRepo
		}
	}

	// Создаем сервисы
	rubricService := service.NewRubricService(repos.rubrics, repos.grades, log)
	gradingService := service.NewGradingService(repos.rubrics, repos.grades, repos.links, publisher, log)
	linkService := service.NewLinkService(repos.links, repos.grades, cfg.Grading.MaxEvaluatorsPerProject, log)
	backupService := service.NewBackupService(repos.snapshot, backupStorage, cfg.MinIO.Prefix, log)

	// Создаем обработчики
	handler := httpd.NewHandler(
		rubricService,
		gradingService,
		linkService,
		backupService,
		repos.store,
		cfg.Storage.Driver,
		log,
	)

	// Создаем роутер
	router := chi.NewRouter()

	// Настраиваем middleware
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.Recovery(log))
	if cfg.Server.RequestTimeout > 0 {
		router.Use(middleware.Timeout(cfg.Server.RequestTimeout))
	}

	// Настраиваем CORS
	router.Use(middleware.NewCORS(
		cfg.CORS.AllowedOrigins,
		cfg.CORS.AllowedMethods,
		cfg.CORS.AllowedHeaders,
		cfg.CORS.ExposedHeaders,
		cfg.CORS.AllowCredentials,
		cfg.CORS.MaxAge,
	))

	// Регистрируем маршруты
	handler.RegisterRoutes(router)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &App{
		server:    server,
		logger:    log,
		config:    cfg,
		db:        db,
		publisher: publisher,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info().Msgf("Starting evaluation service on %s", a.config.Server.Address)
	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info().Msg("Shutting down evaluation service...")

	// Останавливаем сервер, чтобы текущие запросы успели записать файлы
	err := a.server.Shutdown(ctx)

	if err := a.publisher.Close(); err != nil {
		a.logger.Error().Err(err).Msg("Failed to close RabbitMQ connection")
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close database connection")
		}
	}

	return err
}
