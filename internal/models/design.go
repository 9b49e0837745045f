package models

import "time"

// AnnotationType is the kind of mark placed on a design file.
type AnnotationType string

const (
	AnnotationComment     AnnotationType = "comment"
	AnnotationMeasurement AnnotationType = "measurement"
	AnnotationMarkup      AnnotationType = "markup"
)

// Point is a pixel position on a design image.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Size is the pixel size of a design image.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Annotation is a note pinned to a design file.
type Annotation struct {
	ID        string         `json:"id"`
	Type      AnnotationType `json:"type"`
	Position  Point          `json:"position"`
	Content   string         `json:"content"`
	Author    string         `json:"author"`
	CreatedAt time.Time      `json:"createdAt"`
}

// DesignFile is a drawing attached to a project.
type DesignFile struct {
	ID           string       `json:"id"`
	FileName     string       `json:"filename"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	FileURL      string       `json:"fileUrl"`
	ThumbnailURL string       `json:"thumbnailUrl"`
	UploadedAt   time.Time    `json:"uploadedAt"`
	ModifiedAt   time.Time    `json:"modifiedAt"`
	Version      string       `json:"version"`
	Annotations  []Annotation `json:"annotations"`
	Size         Size         `json:"size"`
	FileSize     string       `json:"fileSize"`
}
