package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"docsync/internal/config"
	"docsync/internal/convert"
	"docsync/internal/destination/notion"
	"docsync/internal/domain"
)

const (
	fixturePrefix     = "test_"
	markFailedTimeout = 10 * time.Second
	untitledDocument  = "Untitled document"
)

type SyncService struct {
	source      Source
	destination Destination
	images      ImageResolver
	tasks       TaskStore
	configs     ConfigStore
	publisher   Publisher
	logger      *slog.Logger
	config      config.SyncConfig
	databaseID  string
	now         func() time.Time
}

func NewSyncService(
	source Source,
	destination Destination,
	images ImageResolver,
	tasks TaskStore,
	configs ConfigStore,
	publisher Publisher,
	logger *slog.Logger,
	cfg config.SyncConfig,
	databaseID string,
) *SyncService {
	return &SyncService{
		source:      source,
		destination: destination,
		images:      images,
		tasks:       tasks,
		configs:     configs,
		publisher:   publisher,
		logger:      logger.With("component", "sync"),
		config:      cfg,
		databaseID:  databaseID,
		now:         time.Now,
	}
}

// ProcessPending runs up to BatchSize pending tasks, oldest first. Tasks
// lost to a concurrent worker count as skipped.
func (s *SyncService) ProcessPending(ctx context.Context) (*domain.TickStats, error) {
	startTime := time.Now()

	s.requeueStale(ctx)

	tasks, err := s.tasks.ListPending(ctx, s.config.BatchSize)
	if err != nil {
		return nil, fmt.Errorf("list pending tasks: %w", err)
	}

	stats := &domain.TickStats{Picked: len(tasks)}
	if len(tasks) == 0 {
		stats.Duration = time.Since(startTime)
		return stats, nil
	}

	s.logger.Info("processing pending tasks", "count", len(tasks))

	for _, task := range tasks {
		if ctx.Err() != nil {
			break
		}

		_, err := s.ProcessTask(ctx, task.ID)
		switch {
		case errors.Is(err, domain.ErrTaskNotClaimable):
			stats.Skipped++
		case err != nil:
			stats.Failed++
		default:
			stats.Succeeded++
		}
	}

	stats.Duration = time.Since(startTime)

	s.logger.Info("pending tasks processed",
		"picked", stats.Picked,
		"succeeded", stats.Succeeded,
		"failed", stats.Failed,
		"skipped", stats.Skipped,
		"duration", stats.Duration,
	)

	return stats, nil
}

// requeueStale returns tasks orphaned in processing, e.g. by a crash between
// claim and mark, to the queue.
func (s *SyncService) requeueStale(ctx context.Context) {
	if s.config.StaleAfter <= 0 {
		return
	}
	ids, err := s.tasks.RequeueStale(ctx, s.config.StaleAfter)
	if err != nil {
		s.logger.Warn("failed to requeue stale tasks", "error", err)
		return
	}
	if len(ids) > 0 {
		s.logger.Warn("requeued stale tasks", "ids", ids, "stale_after", s.config.StaleAfter)
	}
}

// ProcessTask claims a pending task and syncs it. A task that is not pending
// yields ErrTaskNotClaimable and is left untouched.
func (s *SyncService) ProcessTask(ctx context.Context, id int64) (*domain.SyncResult, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}

	if err := s.tasks.Claim(ctx, id); err != nil {
		s.logger.Debug("task not claimed", "task_id", id, "error", err)
		return nil, err
	}

	logger := s.logger.With("task_id", task.ID, "record_number", task.RecordNumber, "source_id", task.SourceID)
	logger.Info("task claimed", "direction", task.Direction())

	result, err := s.run(ctx, task, logger)
	if err != nil {
		s.markFailed(ctx, task, err, logger)
		return nil, err
	}

	if err := s.tasks.MarkSuccess(ctx, task.ID, result.TargetID, result.Title, s.now()); err != nil {
		err = fmt.Errorf("mark task success: %w", err)
		s.markFailed(ctx, task, err, logger)
		return nil, err
	}

	logger.Info("task succeeded",
		"action", result.Action,
		"target_id", result.TargetID,
		"blocks", result.BlocksWritten,
		"chunks_failed", result.ChunksFailed,
		"images", result.Images,
		"placeholders", result.Placeholders,
	)

	s.publish(ctx, domain.TaskEvent{
		TaskID:       task.ID,
		RecordNumber: task.RecordNumber,
		Status:       domain.StatusSuccess,
		Action:       result.Action,
		SourceID:     task.SourceID,
		TargetID:     result.TargetID,
		Title:        result.Title,
		Timestamp:    s.now(),
	}, logger)

	return result, nil
}

func (s *SyncService) run(ctx context.Context, task *domain.SyncTask, logger *slog.Logger) (*domain.SyncResult, error) {
	switch {
	case task.SourcePlatform == domain.PlatformFeishu && task.TargetPlatform == domain.PlatformNotion:
		return s.syncToDestination(ctx, task, logger)
	case task.SourcePlatform == domain.PlatformNotion && task.TargetPlatform == domain.PlatformFeishu:
		return s.recordReverse(ctx, task)
	default:
		return nil, fmt.Errorf("%w: unsupported direction %s", domain.ErrValidation, task.Direction())
	}
}

func (s *SyncService) syncToDestination(ctx context.Context, task *domain.SyncTask, logger *slog.Logger) (*domain.SyncResult, error) {
	if s.databaseID == "" {
		return nil, fmt.Errorf("%w: destination database id", domain.ErrConfigMissing)
	}

	doc, err := s.parse(ctx, task.SourceID)
	if err != nil {
		return nil, fmt.Errorf("parse source document: %w", err)
	}
	if doc.Degraded {
		logger.Warn("document content unavailable, syncing metadata only")
	}

	images := s.images.Resolve(ctx, doc.Images)
	blocks := convert.Document(doc, images)

	title := strings.TrimSpace(doc.Title)
	if title == "" {
		title = untitledDocument
	}

	result := &domain.SyncResult{
		TaskID:   task.ID,
		Title:    title,
		Images:   len(images),
		Degraded: doc.Degraded,
	}
	for _, img := range images {
		if img.Placeholder {
			result.Placeholders++
		}
	}

	if task.TargetID != "" {
		report, err := s.destination.UpdatePageFromSource(ctx, task.TargetID, title, blocks)
		if err == nil {
			result.Action = domain.ActionUpdate
			result.TargetID = task.TargetID
			applyReport(result, report)
			return result, nil
		}
		logger.Warn("update of recorded target failed, searching by title", "target_id", task.TargetID, "error", err)
	}

	existing, err := s.destination.FindPageByTitle(ctx, s.databaseID, title)
	if err != nil {
		logger.Warn("title search failed, creating a new page", "error", err)
	}
	if existing != nil {
		report, err := s.destination.UpdatePageFromSource(ctx, existing.ID, title, blocks)
		if err != nil {
			return nil, fmt.Errorf("update existing page: %w", err)
		}
		if err := s.tasks.SetTargetID(ctx, task.ID, existing.ID); err != nil {
			logger.Warn("failed to backfill target id", "target_id", existing.ID, "error", err)
		}
		result.Action = domain.ActionUpdateExisting
		result.TargetID = existing.ID
		applyReport(result, report)
		return result, nil
	}

	return s.create(ctx, task, title, blocks, result, logger)
}

func (s *SyncService) create(
	ctx context.Context,
	task *domain.SyncTask,
	title string,
	blocks []notion.Block,
	result *domain.SyncResult,
	logger *slog.Logger,
) (*domain.SyncResult, error) {
	props := s.destination.PageProperties(ctx, s.databaseID, notion.PageAttributes{
		Title:    title,
		Type:     s.config.PageType,
		Status:   s.config.PageStatus,
		Category: s.category(ctx, task, logger),
		Date:     s.now(),
	})

	chunks := notion.Chunk(blocks, notion.MaxBlocksPerRequest)
	var first []notion.Block
	if len(chunks) > 0 {
		first = chunks[0]
	}

	page, err := s.destination.CreateDatabasePage(ctx, s.databaseID, props, first)
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	result.Action = domain.ActionCreate
	result.TargetID = page.ID
	result.BlocksWritten = len(first)

	for i := 1; i < len(chunks); i++ {
		if err := s.destination.AppendBlocks(ctx, page.ID, chunks[i]); err != nil {
			result.ChunksFailed++
			logger.Warn("append chunk failed, skipping",
				"page_id", page.ID,
				"chunk", i,
				"blocks", len(chunks[i]),
				"error", err,
			)
			continue
		}
		result.BlocksWritten += len(chunks[i])
	}

	return result, nil
}

// recordReverse handles notion to feishu tasks. Writing into the source
// platform is not supported; the page is only verified and the task recorded.
func (s *SyncService) recordReverse(ctx context.Context, task *domain.SyncTask) (*domain.SyncResult, error) {
	page, err := s.destination.GetPage(ctx, task.SourceID)
	if err != nil {
		return nil, fmt.Errorf("get source page: %w", err)
	}

	return &domain.SyncResult{
		TaskID:   task.ID,
		Action:   domain.ActionRecorded,
		TargetID: task.TargetID,
		Title:    page.Title,
		Note:     "reverse sync recorded only; no content written",
	}, nil
}

func (s *SyncService) parse(ctx context.Context, id string) (*domain.ParsedDocument, error) {
	if strings.HasPrefix(id, fixturePrefix) && s.config.AllowTestFixtures {
		return fixtureDocument(id), nil
	}
	return s.source.ParseDocument(ctx, id)
}

func (s *SyncService) category(ctx context.Context, task *domain.SyncTask, logger *slog.Logger) string {
	category, err := s.configs.GetCategory(ctx, task.SourcePlatform, task.SourceID)
	if err != nil {
		logger.Warn("failed to read category, using default", "error", err)
	}
	if category == "" {
		return s.config.DefaultCategory
	}
	return category
}

// markFailed records err on the task even when ctx is already cancelled.
// A failure to record is logged only.
func (s *SyncService) markFailed(ctx context.Context, task *domain.SyncTask, cause error, logger *slog.Logger) {
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), markFailedTimeout)
	defer cancel()

	logger.Error("task failed", "code", domain.ErrorCode(cause), "error", cause)

	if err := s.tasks.MarkFailed(writeCtx, task.ID, cause.Error(), s.now()); err != nil {
		logger.Error("failed to record task failure", "error", err)
	}

	s.publish(writeCtx, domain.TaskEvent{
		TaskID:       task.ID,
		RecordNumber: task.RecordNumber,
		Status:       domain.StatusFailed,
		SourceID:     task.SourceID,
		TargetID:     task.TargetID,
		Error:        cause.Error(),
		Timestamp:    s.now(),
	}, logger)
}

func (s *SyncService) publish(ctx context.Context, event domain.TaskEvent, logger *slog.Logger) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.Warn("failed to publish task event", "status", event.Status, "error", err)
	}
}

func applyReport(result *domain.SyncResult, report *notion.WriteReport) {
	if report == nil {
		return
	}
	result.BlocksWritten = report.BlocksWritten
	result.ChunksFailed = report.ChunksFailed
}

func fixtureDocument(id string) *domain.ParsedDocument {
	return &domain.ParsedDocument{
		ID:    id,
		Title: "Fixture " + id,
		Blocks: []domain.Block{
			domain.HeadingBlock{ID: id + "_h1", Level: 1, Text: "Fixture " + id},
			domain.TextBlock{ID: id + "_p1", Text: "This page was produced from canned test content."},
			domain.CodeBlock{ID: id + "_c1", Text: "print(1)", LanguageID: 1},
		},
	}
}
