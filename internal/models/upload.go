package models

import "time"

// UploadStatus represents the state of the upload simulation.
type UploadStatus string

const (
	UploadStatusIdle       UploadStatus = "idle"
	UploadStatusUploading  UploadStatus = "uploading"
	UploadStatusProcessing UploadStatus = "processing"
	UploadStatusSuccess    UploadStatus = "success"
	UploadStatusError      UploadStatus = "error"
)

// Settled reports whether no automatic transition follows this status.
func (s UploadStatus) Settled() bool {
	return s == UploadStatusIdle || s == UploadStatusSuccess || s == UploadStatusError
}

// UploadSession is the single in-flight or completed upload attempt.
type UploadSession struct {
	ID          string       `json:"id,omitempty"`
	Status      UploadStatus `json:"status"`
	Progress    int          `json:"progress"` // 0-100
	FileName    string       `json:"fileName"`
	ContentType string       `json:"contentType,omitempty"`
	Error       string       `json:"error,omitempty"`
	StartedAt   *time.Time   `json:"startedAt,omitempty"`
	CompletedAt *time.Time   `json:"completedAt,omitempty"`
}

// NewIdleSession returns the zero session.
func NewIdleSession() UploadSession {
	return UploadSession{Status: UploadStatusIdle}
}
