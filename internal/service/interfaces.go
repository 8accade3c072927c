package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"docsync/internal/destination/notion"
	"docsync/internal/domain"
)

type TaskStore interface {
	Create(ctx context.Context, task *domain.SyncTask) (bool, error)
	GetByID(ctx context.Context, id int64) (*domain.SyncTask, error)
	FindActive(ctx context.Context, platform domain.Platform, sourceID string) (*domain.SyncTask, error)
	FindLatestSuccess(ctx context.Context, platform domain.Platform, sourceID string) (*domain.SyncTask, error)
	Claim(ctx context.Context, id int64) error
	MarkSuccess(ctx context.Context, id int64, targetID, title string, syncedAt time.Time) error
	MarkFailed(ctx context.Context, id int64, message string, failedAt time.Time) error
	SetTargetID(ctx context.Context, id int64, targetID string) error
	Requeue(ctx context.Context, id int64, from domain.TaskStatus) error
	RetryFailed(ctx context.Context, ids []int64) ([]int64, error)
	RequeueStale(ctx context.Context, olderThan time.Duration) ([]int64, error)
	ListPending(ctx context.Context, limit int) ([]domain.SyncTask, error)
	List(ctx context.Context, filter domain.TaskFilter) ([]domain.SyncTask, error)
	Stats(ctx context.Context) (*domain.TaskStats, error)
}

type ConfigStore interface {
	IsAutoSyncEnabled(ctx context.Context, platform domain.Platform, documentID string) (bool, error)
	GetCategory(ctx context.Context, platform domain.Platform, documentID string) (string, error)
	List(ctx context.Context) ([]domain.SyncConfig, error)
	Upsert(ctx context.Context, cfg *domain.SyncConfig) error
}

type Source interface {
	ParseDocument(ctx context.Context, id string) (*domain.ParsedDocument, error)
	ListFolder(ctx context.Context, folderID string, maxDepth int, useCache bool) ([]domain.DocRef, error)
}

type Destination interface {
	FindPageByTitle(ctx context.Context, databaseID, title string) (*notion.Page, error)
	CreateDatabasePage(ctx context.Context, databaseID string, props notion.Properties, blocks []notion.Block) (*notion.Page, error)
	AppendBlocks(ctx context.Context, pageID string, blocks []notion.Block) error
	UpdatePageFromSource(ctx context.Context, pageID, title string, blocks []notion.Block) (*notion.WriteReport, error)
	PageProperties(ctx context.Context, databaseID string, attrs notion.PageAttributes) notion.Properties
	GetPage(ctx context.Context, pageID string) (*notion.Page, error)
}

type ImageResolver interface {
	Resolve(ctx context.Context, images []domain.ImageBlock) map[string]domain.ResolvedImage
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Publisher interface {
	Publish(ctx context.Context, event domain.TaskEvent) error
	Close() error
}
