package domain

import (
	"fmt"
	"time"
)

type Platform string

const (
	PlatformFeishu Platform = "feishu"
	PlatformNotion Platform = "notion"
)

func (p Platform) Valid() bool {
	return p == PlatformFeishu || p == PlatformNotion
}

type ContentType string

const (
	ContentDocument ContentType = "document"
	ContentDatabase ContentType = "database"
)

func (c ContentType) Valid() bool {
	return c == ContentDocument || c == ContentDatabase
}

type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusProcessing TaskStatus = "processing"
	StatusSuccess    TaskStatus = "success"
	StatusFailed     TaskStatus = "failed"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusSuccess, StatusFailed:
		return true
	}
	return false
}

// SyncTask is one persisted unit of work moving a document between platforms.
// Nullable columns are read with COALESCE so empty strings mean "unset".
type SyncTask struct {
	ID             int64       `db:"id" json:"id"`
	RecordNumber   string      `db:"record_number" json:"record_number"`
	SourcePlatform Platform    `db:"source_platform" json:"source_platform"`
	TargetPlatform Platform    `db:"target_platform" json:"target_platform"`
	SourceID       string      `db:"source_id" json:"source_id"`
	TargetID       string      `db:"target_id" json:"target_id,omitempty"`
	ContentType    ContentType `db:"content_type" json:"content_type"`
	DocumentTitle  string      `db:"document_title" json:"document_title,omitempty"`
	Status         TaskStatus  `db:"sync_status" json:"sync_status"`
	ErrorMessage   string      `db:"error_message" json:"error_message,omitempty"`
	CreatedAt      time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time   `db:"updated_at" json:"updated_at"`
	LastSyncTime   *time.Time  `db:"last_sync_time" json:"last_sync_time,omitempty"`
}

// Direction reports the platform pair as "source_to_target".
func (t *SyncTask) Direction() string {
	return fmt.Sprintf("%s_to_%s", t.SourcePlatform, t.TargetPlatform)
}

// TaskFilter narrows task listings. Zero values mean "no filter".
type TaskFilter struct {
	Status TaskStatus
	Limit  int
	Offset int
}

// TaskStats counts tasks per status.
type TaskStats struct {
	Total      int64                `json:"total"`
	ByStatus   map[TaskStatus]int64 `json:"by_status"`
	LastSyncAt *time.Time           `json:"last_sync_at,omitempty"`
}

// SyncConfig is the per-document sync policy.
type SyncConfig struct {
	ID             int64     `db:"id" json:"id"`
	Platform       Platform  `db:"platform" json:"platform"`
	DocumentID     string    `db:"document_id" json:"document_id"`
	IsSyncEnabled  bool      `db:"is_sync_enabled" json:"is_sync_enabled"`
	AutoSync       bool      `db:"auto_sync" json:"auto_sync"`
	SyncDirection  string    `db:"sync_direction" json:"sync_direction"`
	NotionCategory string    `db:"notion_category" json:"notion_category,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

const (
	DirectionFeishuToNotion = "feishu_to_notion"
	DirectionBidirectional  = "bidirectional"
)
