package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"docsync/internal/config"
	"docsync/internal/docref"
	"docsync/internal/domain"
)

type EnqueueOutcome string

const (
	OutcomeCreated  EnqueueOutcome = "created"
	OutcomeExisting EnqueueOutcome = "existing"
	OutcomeReused   EnqueueOutcome = "reused"
)

type CreateTasksRequest struct {
	SourcePlatform domain.Platform    `json:"source_platform"`
	TargetPlatform domain.Platform    `json:"target_platform"`
	ContentType    domain.ContentType `json:"content_type"`
	Documents      []string           `json:"documents"`
	ForceResync    bool               `json:"force_resync"`
}

type EnqueueRequest struct {
	SourcePlatform domain.Platform
	TargetPlatform domain.Platform
	SourceID       string
	ContentType    domain.ContentType
	ForceResync    bool
}

type EnqueueResult struct {
	Input   string           `json:"input,omitempty"`
	Outcome EnqueueOutcome   `json:"outcome"`
	Task    *domain.SyncTask `json:"task"`
}

type CreateTasksResponse struct {
	Results  []EnqueueResult `json:"results"`
	Created  int             `json:"created"`
	Existing int             `json:"existing"`
	Reused   int             `json:"reused"`
}

type ScanRequest struct {
	Folder      string `json:"folder"`
	MaxDepth    int    `json:"max_depth"`
	UseCache    bool   `json:"use_cache"`
	Enqueue     bool   `json:"enqueue"`
	ForceResync bool   `json:"force_resync"`
}

type ScanResult struct {
	FolderID  string          `json:"folder_id"`
	Documents []domain.DocRef `json:"documents"`
	Enqueued  []EnqueueResult `json:"enqueued,omitempty"`
}

type TaskService struct {
	tasks     TaskStore
	configs   ConfigStore
	source    Source
	txManager TransactionManager
	logger    *slog.Logger
	config    config.SyncConfig
	now       func() time.Time
}

func NewTaskService(
	tasks TaskStore,
	configs ConfigStore,
	source Source,
	txManager TransactionManager,
	logger *slog.Logger,
	cfg config.SyncConfig,
) *TaskService {
	return &TaskService{
		tasks:     tasks,
		configs:   configs,
		source:    source,
		txManager: txManager,
		logger:    logger.With("component", "tasks"),
		config:    cfg,
		now:       time.Now,
	}
}

// CreateTasks validates every reference before enqueuing any of them.
func (s *TaskService) CreateTasks(ctx context.Context, req CreateTasksRequest) (*CreateTasksResponse, error) {
	if req.SourcePlatform == "" {
		req.SourcePlatform = domain.PlatformFeishu
	}
	if req.TargetPlatform == "" {
		req.TargetPlatform = domain.PlatformNotion
	}

	if len(req.Documents) == 0 {
		return nil, fmt.Errorf("%w: no documents given", domain.ErrValidation)
	}
	if len(req.Documents) > s.config.MaxBatchCreate {
		return nil, fmt.Errorf("%w: %d documents exceeds the limit of %d", domain.ErrValidation, len(req.Documents), s.config.MaxBatchCreate)
	}
	if !req.SourcePlatform.Valid() || !req.TargetPlatform.Valid() {
		return nil, fmt.Errorf("%w: invalid platform pair %q to %q", domain.ErrValidation, req.SourcePlatform, req.TargetPlatform)
	}
	if req.SourcePlatform == req.TargetPlatform {
		return nil, fmt.Errorf("%w: source and target platform are both %q", domain.ErrValidation, req.SourcePlatform)
	}
	if req.ContentType != "" && !req.ContentType.Valid() {
		return nil, fmt.Errorf("%w: invalid content type %q", domain.ErrValidation, req.ContentType)
	}

	refs := make([]docref.Ref, 0, len(req.Documents))
	for _, raw := range req.Documents {
		ref, err := docref.Parse(raw, req.SourcePlatform)
		if err != nil {
			return nil, err
		}
		if ref.Platform != req.SourcePlatform {
			return nil, fmt.Errorf("%w: %q is a %s reference, expected %s", domain.ErrValidation, raw, ref.Platform, req.SourcePlatform)
		}
		if ref.Kind == "folder" || ref.Kind == "drive/folder" {
			return nil, fmt.Errorf("%w: %q is a folder; use a folder scan", domain.ErrValidation, raw)
		}
		refs = append(refs, ref)
	}

	resp := &CreateTasksResponse{Results: make([]EnqueueResult, 0, len(refs))}
	for _, ref := range refs {
		contentType := req.ContentType
		if contentType == "" {
			contentType = contentTypeForKind(ref.Kind)
		}

		result, err := s.Enqueue(ctx, EnqueueRequest{
			SourcePlatform: req.SourcePlatform,
			TargetPlatform: req.TargetPlatform,
			SourceID:       ref.ID,
			ContentType:    contentType,
			ForceResync:    req.ForceResync,
		})
		if err != nil {
			return nil, fmt.Errorf("enqueue %s: %w", ref.ID, err)
		}
		result.Input = ref.Raw

		switch result.Outcome {
		case OutcomeCreated:
			resp.Created++
		case OutcomeExisting:
			resp.Existing++
		case OutcomeReused:
			resp.Reused++
		}
		resp.Results = append(resp.Results, *result)
	}

	s.logger.Info("tasks enqueued",
		"created", resp.Created,
		"existing", resp.Existing,
		"reused", resp.Reused,
	)

	return resp, nil
}

// Enqueue returns the in-flight task for the document if there is one,
// otherwise requeues the last successful task that has a target, otherwise
// inserts a new task.
func (s *TaskService) Enqueue(ctx context.Context, req EnqueueRequest) (*EnqueueResult, error) {
	if req.ContentType == "" {
		req.ContentType = domain.ContentDocument
	}

	var result *EnqueueResult
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		active, err := s.tasks.FindActive(txCtx, req.SourcePlatform, req.SourceID)
		if err != nil {
			return err
		}
		if active != nil {
			result = &EnqueueResult{Outcome: OutcomeExisting, Task: active}
			return nil
		}

		if !req.ForceResync {
			done, err := s.tasks.FindLatestSuccess(txCtx, req.SourcePlatform, req.SourceID)
			if err != nil {
				return err
			}
			if done != nil && done.TargetID != "" && done.TargetPlatform == req.TargetPlatform {
				if err := s.tasks.Requeue(txCtx, done.ID, domain.StatusSuccess); err != nil {
					return fmt.Errorf("requeue task %d: %w", done.ID, err)
				}
				done.Status = domain.StatusPending
				result = &EnqueueResult{Outcome: OutcomeReused, Task: done}
				return nil
			}
		}

		task := &domain.SyncTask{
			RecordNumber:   newRecordNumber(s.now()),
			SourcePlatform: req.SourcePlatform,
			TargetPlatform: req.TargetPlatform,
			SourceID:       req.SourceID,
			ContentType:    req.ContentType,
			Status:         domain.StatusPending,
		}
		created, err := s.tasks.Create(txCtx, task)
		if err != nil {
			return err
		}
		if created {
			result = &EnqueueResult{Outcome: OutcomeCreated, Task: task}
			return nil
		}

		active, err = s.tasks.FindActive(txCtx, req.SourcePlatform, req.SourceID)
		if err != nil {
			return err
		}
		if active == nil {
			return fmt.Errorf("%w: task for %s was neither inserted nor found", domain.ErrStorage, req.SourceID)
		}
		result = &EnqueueResult{Outcome: OutcomeExisting, Task: active}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("enqueued document",
		"source_id", req.SourceID,
		"outcome", result.Outcome,
		"task_id", result.Task.ID,
	)
	return result, nil
}

// HandleDocumentEvent enqueues a change notification for documents that have
// auto-sync enabled. It returns nil when the document is not configured.
func (s *TaskService) HandleDocumentEvent(ctx context.Context, platform domain.Platform, documentID string, contentType domain.ContentType) (*EnqueueResult, error) {
	enabled, err := s.configs.IsAutoSyncEnabled(ctx, platform, documentID)
	if err != nil {
		return nil, fmt.Errorf("check auto sync: %w", err)
	}
	if !enabled {
		s.logger.Info("auto sync disabled, ignoring event", "platform", platform, "document_id", documentID)
		return nil, nil
	}

	return s.Enqueue(ctx, EnqueueRequest{
		SourcePlatform: platform,
		TargetPlatform: otherPlatform(platform),
		SourceID:       documentID,
		ContentType:    contentType,
	})
}

func (s *TaskService) RetryTask(ctx context.Context, id int64) (*domain.SyncTask, error) {
	if err := s.tasks.Requeue(ctx, id, domain.StatusFailed); err != nil {
		return nil, fmt.Errorf("retry task: %w", err)
	}
	return s.tasks.GetByID(ctx, id)
}

// RetryFailed requeues the given failed tasks, or every failed task when ids
// is empty.
func (s *TaskService) RetryFailed(ctx context.Context, ids []int64) ([]int64, error) {
	retried, err := s.tasks.RetryFailed(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("retry failed tasks: %w", err)
	}
	s.logger.Info("failed tasks requeued", "requested", len(ids), "requeued", len(retried))
	return retried, nil
}

// ScanFolder lists a source folder and optionally enqueues what it finds.
func (s *TaskService) ScanFolder(ctx context.Context, req ScanRequest) (*ScanResult, error) {
	ref, err := docref.Parse(req.Folder, domain.PlatformFeishu)
	if err != nil {
		return nil, err
	}
	if ref.Platform != domain.PlatformFeishu {
		return nil, fmt.Errorf("%w: folder scans are only supported for %s", domain.ErrValidation, domain.PlatformFeishu)
	}

	depth := req.MaxDepth
	if depth <= 0 || depth > s.config.FolderMaxDepth {
		depth = s.config.FolderMaxDepth
	}

	docs, err := s.source.ListFolder(ctx, ref.ID, depth, req.UseCache)
	if err != nil {
		return nil, fmt.Errorf("list folder: %w", err)
	}

	result := &ScanResult{FolderID: ref.ID, Documents: docs}
	if !req.Enqueue {
		return result, nil
	}

	for _, doc := range docs {
		enqueued, err := s.Enqueue(ctx, EnqueueRequest{
			SourcePlatform: domain.PlatformFeishu,
			TargetPlatform: domain.PlatformNotion,
			SourceID:       doc.Token,
			ContentType:    doc.ContentType(),
			ForceResync:    req.ForceResync,
		})
		if err != nil {
			return result, fmt.Errorf("enqueue %s: %w", doc.Token, err)
		}
		enqueued.Input = doc.Name
		result.Enqueued = append(result.Enqueued, *enqueued)
	}

	s.logger.Info("folder scanned", "folder_id", ref.ID, "documents", len(docs), "enqueued", len(result.Enqueued))
	return result, nil
}

func (s *TaskService) GetTask(ctx context.Context, id int64) (*domain.SyncTask, error) {
	return s.tasks.GetByID(ctx, id)
}

func (s *TaskService) ListTasks(ctx context.Context, filter domain.TaskFilter) ([]domain.SyncTask, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: invalid status %q", domain.ErrValidation, filter.Status)
	}
	return s.tasks.List(ctx, filter)
}

func (s *TaskService) Stats(ctx context.Context) (*domain.TaskStats, error) {
	return s.tasks.Stats(ctx)
}

func (s *TaskService) ListConfigs(ctx context.Context) ([]domain.SyncConfig, error) {
	return s.configs.List(ctx)
}

func (s *TaskService) UpsertConfig(ctx context.Context, cfg *domain.SyncConfig) error {
	if !cfg.Platform.Valid() {
		return fmt.Errorf("%w: invalid platform %q", domain.ErrValidation, cfg.Platform)
	}
	if cfg.DocumentID == "" || len(cfg.DocumentID) > docref.MaxIDLength {
		return fmt.Errorf("%w: invalid document id", domain.ErrValidation)
	}
	if cfg.SyncDirection == "" {
		cfg.SyncDirection = domain.DirectionFeishuToNotion
	}
	if cfg.SyncDirection != domain.DirectionFeishuToNotion && cfg.SyncDirection != domain.DirectionBidirectional {
		return fmt.Errorf("%w: invalid sync direction %q", domain.ErrValidation, cfg.SyncDirection)
	}
	return s.configs.Upsert(ctx, cfg)
}

func newRecordNumber(now time.Time) string {
	return fmt.Sprintf("%d_%s", now.UnixMilli(), uuid.NewString()[:8])
}

func contentTypeForKind(kind string) domain.ContentType {
	if kind == "base" {
		return domain.ContentDatabase
	}
	return domain.ContentDocument
}

func otherPlatform(p domain.Platform) domain.Platform {
	if p == domain.PlatformNotion {
		return domain.PlatformFeishu
	}
	return domain.PlatformNotion
}
