// Package documents implements the contract document domain.
// It provides types, data access, and business logic for uploading contract
// files to blob storage, registering their metadata, and tracking their
// analysis status.
package documents

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Document statuses.
const (
	StatusPending  = "pending"
	StatusAnalyzed = "analyzed"
	StatusFailed   = "failed"
)

// Statuses lists every valid document status.
var Statuses = []string{StatusPending, StatusAnalyzed, StatusFailed}

// ValidStatus reports whether s is a known document status.
func ValidStatus(s string) bool {
	return slices.Contains(Statuses, s)
}

// Document represents an uploaded contract with its metadata, blob storage
// reference, and the headline figures of its latest analysis, if any.
type Document struct {
	ID             uuid.UUID  `json:"id"`
	Filename       string     `json:"filename"`
	ContentType    string     `json:"content_type"`
	SizeBytes      int64      `json:"size_bytes"`
	PageCount      *int       `json:"page_count"`
	StorageKey     string     `json:"storage_key"`
	Status         string     `json:"status"`
	UploadedAt     time.Time  `json:"uploaded_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	RiskPercentage *float64   `json:"risk_percentage"`
	AnalyzedAt     *time.Time `json:"analyzed_at"`
}

// CreateCommand carries the data needed to upload and register a new document.
// Data holds the raw file bytes. PageCount is set for PDFs and stored as NULL otherwise.
type CreateCommand struct {
	Data        []byte
	Filename    string
	ContentType string
	PageCount   *int
}
