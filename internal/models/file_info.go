package models

import "time"

// FileInfo represents metadata about a selected design file. Content is never kept.
type FileInfo struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Size        int64     `json:"size"`
	ContentType string    `json:"contentType,omitempty"`
	UploadedAt  time.Time `json:"uploadedAt"`
	Status      string    `json:"status"` // "selected", "extracted", "error"
}
