package domain

import "time"

// ImageMapping is the content-addressed record of an uploaded image.
type ImageMapping struct {
	ID             int64     `db:"id" json:"id"`
	OriginalURL    string    `db:"original_url" json:"original_url"`
	DestinationURL string    `db:"destination_url" json:"destination_url"`
	FileHash       string    `db:"file_hash" json:"file_hash"`
	StorageKey     string    `db:"storage_key" json:"storage_key"`
	ContentType    string    `db:"content_type" json:"content_type"`
	SizeBytes      int64     `db:"size_bytes" json:"size_bytes"`
	AccessCount    int64     `db:"access_count" json:"access_count"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

type ImageStats struct {
	Total       int64 `db:"total" json:"total"`
	TotalBytes  int64 `db:"total_bytes" json:"total_bytes"`
	TotalAccess int64 `db:"total_access" json:"total_access"`
}

// ResolvedImage is the outcome of the image pipeline for one file token.
type ResolvedImage struct {
	URL         string
	Caption     string
	Placeholder bool
}

// SourceImageURL is the stable reference stored as ImageMapping.OriginalURL.
func SourceImageURL(token string) string {
	return "source://" + token
}
