package dtos

import (
	"time"

	"github.com/google/uuid"
)

// Import job statuses.
const (
	JobStatusPending    = "pending"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

// ImportError records why a single row of a bulk import was rejected.
type ImportError struct {
	Index   int    `json:"index"`
	Subject string `json:"subject,omitempty"`
	Error   string `json:"error"`
}

// ImportJob tracks the progress of an asynchronous media-asset import.
type ImportJob struct {
	ID          uuid.UUID     `json:"id"`
	Status      string        `json:"status"`
	Progress    int           `json:"progress"` // 0-100
	Total       int           `json:"total"`
	Processed   int           `json:"processed"`
	Created     int           `json:"created"`
	Failed      int           `json:"failed"`
	Errors      []ImportError `json:"errors"`
	StartedAt   time.Time     `json:"started_at"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
}

// AssetImportRequest is the body of POST /media-assets/import.
type AssetImportRequest struct {
	Assets []AssetImportRow `json:"assets" binding:"required"`
}

// AssetImportRow is one asset in a bulk import payload. CategoryID stays a
// string so a malformed id fails the row, not the whole request.
type AssetImportRow struct {
	CategoryID   string `json:"category_id"`
	Genre        string `json:"genre"`
	Item         string `json:"item"`
	Subject      string `json:"subject"`
	Duration     string `json:"duration"`
	CreationDate string `json:"creation_date"`
}
