package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"docsync/internal/domain"
)

const uniqueViolation = "23505"

const taskColumns = `
	id, record_number, source_platform, target_platform, source_id,
	COALESCE(target_id, '') AS target_id, content_type,
	COALESCE(document_title, '') AS document_title, sync_status,
	COALESCE(error_message, '') AS error_message,
	created_at, updated_at, last_sync_time`

type TaskStore struct {
	db *sqlx.DB
}

func NewTaskStore(db *sqlx.DB) *TaskStore {
	return &TaskStore{db: db}
}

// Create inserts a pending task unless an active task already exists for the
// same source document. created is false when the insert was skipped.
func (s *TaskStore) Create(ctx context.Context, task *domain.SyncTask) (bool, error) {
	query := `
		INSERT INTO sync_tasks (
			record_number, source_platform, target_platform, source_id,
			target_id, content_type, sync_status
		) VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, 'pending')
		ON CONFLICT (source_platform, source_id) WHERE sync_status IN ('pending', 'processing')
		DO NOTHING
		RETURNING id, created_at, updated_at`

	err := GetExecutor(ctx, s.db).QueryRowxContext(ctx, query,
		task.RecordNumber,
		task.SourcePlatform,
		task.TargetPlatform,
		task.SourceID,
		task.TargetID,
		task.ContentType,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("insert sync task: %w", err)
	}

	task.Status = domain.StatusPending
	return true, nil
}

func (s *TaskStore) GetByID(ctx context.Context, id int64) (*domain.SyncTask, error) {
	var task domain.SyncTask
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &task,
		`SELECT `+taskColumns+` FROM sync_tasks WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", domain.ErrTaskNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get sync task: %w", err)
	}
	return &task, nil
}

// FindActive returns the pending or processing task for a source document,
// or nil when there is none.
func (s *TaskStore) FindActive(ctx context.Context, platform domain.Platform, sourceID string) (*domain.SyncTask, error) {
	return s.findOne(ctx, `
		SELECT `+taskColumns+` FROM sync_tasks
		WHERE source_platform = $1 AND source_id = $2
			AND sync_status IN ('pending', 'processing')
		LIMIT 1`, platform, sourceID)
}

// FindLatestSuccess returns the newest successful task that recorded a
// target, or nil.
func (s *TaskStore) FindLatestSuccess(ctx context.Context, platform domain.Platform, sourceID string) (*domain.SyncTask, error) {
	return s.findOne(ctx, `
		SELECT `+taskColumns+` FROM sync_tasks
		WHERE source_platform = $1 AND source_id = $2
			AND sync_status = 'success' AND target_id IS NOT NULL
		ORDER BY COALESCE(last_sync_time, updated_at) DESC
		LIMIT 1`, platform, sourceID)
}

func (s *TaskStore) findOne(ctx context.Context, query string, args ...any) (*domain.SyncTask, error) {
	var task domain.SyncTask
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &task, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find sync task: %w", err)
	}
	return &task, nil
}

// Claim moves a pending task to processing. Exactly one concurrent caller
// wins; the others get ErrTaskNotClaimable.
func (s *TaskStore) Claim(ctx context.Context, id int64) error {
	res, err := GetExecutor(ctx, s.db).ExecContext(ctx, `
		UPDATE sync_tasks
		SET sync_status = 'processing', updated_at = NOW()
		WHERE id = $1 AND sync_status = 'pending'`, id)
	if err != nil {
		return fmt.Errorf("claim sync task: %w", err)
	}
	return expectOneRow(res, id, domain.ErrTaskNotClaimable)
}

func (s *TaskStore) MarkSuccess(ctx context.Context, id int64, targetID, title string, syncedAt time.Time) error {
	res, err := GetExecutor(ctx, s.db).ExecContext(ctx, `
		UPDATE sync_tasks
		SET sync_status = 'success',
			target_id = NULLIF($2, ''),
			document_title = NULLIF($3, ''),
			error_message = NULL,
			last_sync_time = $4,
			updated_at = NOW()
		WHERE id = $1`, id, targetID, title, syncedAt)
	if err != nil {
		return fmt.Errorf("mark sync task success: %w", err)
	}
	return expectOneRow(res, id, domain.ErrTaskNotFound)
}

func (s *TaskStore) MarkFailed(ctx context.Context, id int64, message string, failedAt time.Time) error {
	res, err := GetExecutor(ctx, s.db).ExecContext(ctx, `
		UPDATE sync_tasks
		SET sync_status = 'failed',
			error_message = $2,
			last_sync_time = $3,
			updated_at = NOW()
		WHERE id = $1`, id, message, failedAt)
	if err != nil {
		return fmt.Errorf("mark sync task failed: %w", err)
	}
	return expectOneRow(res, id, domain.ErrTaskNotFound)
}

// RequeueStale moves tasks stuck in processing for longer than olderThan
// back to pending and returns their ids.
func (s *TaskStore) RequeueStale(ctx context.Context, olderThan time.Duration) ([]int64, error) {
	var ids []int64
	err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &ids, `
		UPDATE sync_tasks
		SET sync_status = 'pending', updated_at = NOW()
		WHERE sync_status = 'processing'
			AND updated_at < NOW() - $1 * INTERVAL '1 millisecond'
		RETURNING id`, olderThan.Milliseconds())
	if err != nil {
		return nil, fmt.Errorf("requeue stale sync tasks: %w", err)
	}
	return ids, nil
}

func (s *TaskStore) SetTargetID(ctx context.Context, id int64, targetID string) error {
	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, `
		UPDATE sync_tasks SET target_id = $2, updated_at = NOW() WHERE id = $1`, id, targetID)
	if err != nil {
		return fmt.Errorf("set sync task target: %w", err)
	}
	return nil
}

// Requeue moves a task in status from back to pending and clears its error.
func (s *TaskStore) Requeue(ctx context.Context, id int64, from domain.TaskStatus) error {
	res, err := GetExecutor(ctx, s.db).ExecContext(ctx, `
		UPDATE sync_tasks
		SET sync_status = 'pending', error_message = NULL, updated_at = NOW()
		WHERE id = $1 AND sync_status = $2`, id, from)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("%w: task %d", domain.ErrActiveTaskExists, id)
		}
		return fmt.Errorf("requeue sync task: %w", err)
	}
	return expectOneRow(res, id, domain.ErrTaskNotClaimable)
}

// RetryFailed requeues failed tasks and returns their ids. An empty ids
// list means every failed task. Per source document only the newest failed
// task is requeued, and none is requeued while another task is active.
func (s *TaskStore) RetryFailed(ctx context.Context, ids []int64) ([]int64, error) {
	if ids == nil {
		ids = []int64{}
	}

	query := `
		UPDATE sync_tasks
		SET sync_status = 'pending', error_message = NULL, updated_at = NOW()
		WHERE id IN (
			SELECT DISTINCT ON (source_platform, source_id) id
			FROM sync_tasks
			WHERE sync_status = 'failed'
				AND (cardinality($1::bigint[]) = 0 OR id = ANY($1))
			ORDER BY source_platform, source_id, created_at DESC
		)
		AND NOT EXISTS (
			SELECT 1 FROM sync_tasks active
			WHERE active.source_platform = sync_tasks.source_platform
				AND active.source_id = sync_tasks.source_id
				AND active.sync_status IN ('pending', 'processing')
		)
		RETURNING id`

	var retried []int64
	if err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &retried, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("retry failed sync tasks: %w", err)
	}
	return retried, nil
}

// ListPending returns up to limit pending tasks, oldest first.
func (s *TaskStore) ListPending(ctx context.Context, limit int) ([]domain.SyncTask, error) {
	var tasks []domain.SyncTask
	err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &tasks, `
		SELECT `+taskColumns+` FROM sync_tasks
		WHERE sync_status = 'pending'
		ORDER BY created_at, id
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending sync tasks: %w", err)
	}
	return tasks, nil
}

func (s *TaskStore) List(ctx context.Context, filter domain.TaskFilter) ([]domain.SyncTask, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var tasks []domain.SyncTask
	err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &tasks, `
		SELECT `+taskColumns+` FROM sync_tasks
		WHERE ($1 = '' OR sync_status = $1)
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`, string(filter.Status), limit, max(filter.Offset, 0))
	if err != nil {
		return nil, fmt.Errorf("list sync tasks: %w", err)
	}
	return tasks, nil
}

func (s *TaskStore) Stats(ctx context.Context) (*domain.TaskStats, error) {
	var rows []struct {
		Status domain.TaskStatus `db:"sync_status"`
		Count  int64             `db:"count"`
	}
	exec := GetExecutor(ctx, s.db)
	if err := sqlx.SelectContext(ctx, exec, &rows,
		`SELECT sync_status, COUNT(*) AS count FROM sync_tasks GROUP BY sync_status`); err != nil {
		return nil, fmt.Errorf("count sync tasks: %w", err)
	}

	stats := &domain.TaskStats{ByStatus: map[domain.TaskStatus]int64{
		domain.StatusPending:    0,
		domain.StatusProcessing: 0,
		domain.StatusSuccess:    0,
		domain.StatusFailed:     0,
	}}
	for _, r := range rows {
		stats.ByStatus[r.Status] = r.Count
		stats.Total += r.Count
	}

	var last sql.NullTime
	if err := sqlx.GetContext(ctx, exec, &last, `SELECT MAX(last_sync_time) FROM sync_tasks`); err != nil {
		return nil, fmt.Errorf("get last sync time: %w", err)
	}
	if last.Valid {
		stats.LastSyncAt = &last.Time
	}
	return stats, nil
}

func expectOneRow(res sql.Result, id int64, notMatched error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: task %d", notMatched, id)
	}
	return nil
}
