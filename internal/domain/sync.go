package domain

import "time"

// TickStats holds statistics about one pass of the background processor.
type TickStats struct {
	Picked    int
	Succeeded int
	Failed    int
	Skipped   int
	Duration  time.Duration
}

type SyncAction string

const (
	ActionCreate         SyncAction = "create"
	ActionUpdate         SyncAction = "update"
	ActionUpdateExisting SyncAction = "update_existing"
	ActionRecorded       SyncAction = "recorded"
)

// SyncResult describes what a single task run wrote to the destination.
type SyncResult struct {
	TaskID        int64
	Action        SyncAction
	TargetID      string
	Title         string
	BlocksWritten int
	ChunksFailed  int
	Images        int
	Placeholders  int
	Degraded      bool
	Note          string
}

// TaskEvent is emitted after a task reaches a terminal status.
type TaskEvent struct {
	TaskID       int64      `json:"task_id"`
	RecordNumber string     `json:"record_number"`
	Status       TaskStatus `json:"status"`
	Action       SyncAction `json:"action,omitempty"`
	SourceID     string     `json:"source_id"`
	TargetID     string     `json:"target_id,omitempty"`
	Title        string     `json:"title,omitempty"`
	Error        string     `json:"error,omitempty"`
	Timestamp    time.Time  `json:"timestamp"`
}
