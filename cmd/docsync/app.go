package main

import (
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"docsync/internal/config"
	"docsync/internal/destination/notion"
	"docsync/internal/imagesync"
	"docsync/internal/logging"
	"docsync/internal/objectstore"
	"docsync/internal/publisher"
	"docsync/internal/service"
	"docsync/internal/source/feishu"
	"docsync/internal/storage/postgres"
)

// app holds the wired components shared by every subcommand.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *sqlx.DB

	store     objectstore.Store
	images    *postgres.ImageMappingStore
	tasks     *service.TaskService
	sync      *service.SyncService
	publisher *publisher.RabbitMQ
}

func newApp(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger := logging.New(cfg.Log)

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	logger.Info("connected to database")

	a := &app{cfg: cfg, logger: logger, db: db}

	taskStore := postgres.NewTaskStore(db)
	configStore := postgres.NewConfigStore(db)
	txManager := postgres.NewTransactionManager(db)
	a.images = postgres.NewImageMappingStore(db)

	source := feishu.New(feishu.Config{
		AppID:           cfg.Feishu.AppID,
		AppSecret:       cfg.Feishu.AppSecret,
		BaseURL:         cfg.Feishu.BaseURL,
		Timeout:         cfg.Feishu.Timeout,
		DownloadTimeout: cfg.Feishu.DownloadTimeout,
		FolderCacheTTL:  cfg.Feishu.FolderCacheTTL,
		PageInterval:    cfg.Feishu.PageInterval,
		MaxRetries:      cfg.Feishu.Retry.MaxAttempts,
		InitialBackoff:  cfg.Feishu.Retry.InitialBackoff,
	}, logger)

	destination := notion.New(notion.Config{
		Token:             cfg.Notion.Token,
		BaseURL:           cfg.Notion.BaseURL,
		Version:           cfg.Notion.Version,
		Timeout:           cfg.Notion.Timeout,
		RequestsPerSecond: cfg.Notion.RequestsPerSecond,
		SchemaCacheTTL:    cfg.Notion.SchemaCacheTTL,
		MaxRetries:        cfg.Notion.Retry.MaxAttempts,
		InitialBackoff:    cfg.Notion.Retry.InitialBackoff,
	}, logger)

	// Without a store every image becomes a placeholder.
	var imageStore imagesync.Store
	if store, err := objectstore.New(cfg.Storage, logger); err != nil {
		logger.Warn("object storage unavailable, images will use placeholders", "error", err)
	} else {
		a.store = store
		imageStore = store
	}

	pipeline := imagesync.New(source, imageStore, a.images, imagesync.Config{
		Compress:       cfg.Images.Compress,
		Quality:        cfg.Images.Quality,
		MaxWidth:       cfg.Images.MaxWidth,
		Concurrency:    cfg.Images.Concurrency,
		PlaceholderURL: cfg.Images.PlaceholderURL,
	}, logger)

	var events service.Publisher
	if cfg.RabbitMQ.Enabled {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("connect to rabbitmq: %w", err)
		}
		a.publisher = rabbitMQ
		events = rabbitMQ
	}

	a.tasks = service.NewTaskService(taskStore, configStore, source, txManager, logger, cfg.Sync)
	a.sync = service.NewSyncService(
		source,
		destination,
		pipeline,
		taskStore,
		configStore,
		events,
		logger,
		cfg.Sync,
		cfg.Notion.DatabaseID,
	)

	return a, nil
}

func (a *app) Close() {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Warn("close rabbitmq", "error", err)
		}
	}
	if err := a.db.Close(); err != nil {
		a.logger.Warn("close database", "error", err)
	}
}
