// Package design serves design drawings and the annotations pinned to them.
package design

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/fieldquote/backend/internal/models"
)

//go:embed data.json
var seed []byte

// Zoom bounds of the design viewer, in percent.
const (
	MinZoom     = 25
	MaxZoom     = 200
	ZoomStep    = 25
	DefaultZoom = 100
)

// DefaultRecent is the Recent limit used when none is given.
const DefaultRecent = 5

// Gallery holds design files. It is safe for concurrent use.
type Gallery struct {
	mu    sync.RWMutex
	files []models.DesignFile
}

// Default returns the built-in gallery.
func Default() *Gallery {
	var files []models.DesignFile
	if err := json.Unmarshal(seed, &files); err != nil {
		panic(fmt.Sprintf("design: decoding seed data: %v", err))
	}
	return &Gallery{files: files}
}

// List returns the files whose filename or title contains search.
func (g *Gallery) List(search string) []models.DesignFile {
	search = strings.ToLower(strings.TrimSpace(search))

	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]models.DesignFile, 0, len(g.files))
	for _, f := range g.files {
		if search != "" &&
			!strings.Contains(strings.ToLower(f.FileName), search) &&
			!strings.Contains(strings.ToLower(f.Title), search) {
			continue
		}
		out = append(out, clone(f))
	}
	return out
}

// Get returns a file by id.
func (g *Gallery) Get(id string) (models.DesignFile, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	for _, f := range g.files {
		if f.ID == id {
			return clone(f), nil
		}
	}
	return models.DesignFile{}, fmt.Errorf("design %s: %w", id, models.ErrNotFound)
}

// Recent returns up to limit files, most recently modified first. A limit
// <= 0 uses DefaultRecent.
func (g *Gallery) Recent(limit int) []models.DesignFile {
	if limit <= 0 {
		limit = DefaultRecent
	}

	out := g.List("")
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ModifiedAt.After(out[j].ModifiedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// AddAnnotation validates a and pins it to the file with id. ID and
// CreatedAt are assigned here.
func (g *Gallery) AddAnnotation(id string, a models.Annotation) (models.Annotation, error) {
	switch a.Type {
	case models.AnnotationComment, models.AnnotationMeasurement, models.AnnotationMarkup:
	default:
		return models.Annotation{}, fmt.Errorf("unknown annotation type %q: %w", a.Type, models.ErrNotValid)
	}
	a.Content = strings.TrimSpace(a.Content)
	if a.Content == "" {
		return models.Annotation{}, fmt.Errorf("annotation content is required: %w", models.ErrNotValid)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	for i := range g.files {
		f := &g.files[i]
		if f.ID != id {
			continue
		}
		if a.Position.X < 0 || a.Position.Y < 0 || a.Position.X > f.Size.Width || a.Position.Y > f.Size.Height {
			return models.Annotation{}, fmt.Errorf("position %d,%d is outside %dx%d: %w",
				a.Position.X, a.Position.Y, f.Size.Width, f.Size.Height, models.ErrNotValid)
		}

		a.ID = "ann-" + strings.ToLower(ulid.Make().String())
		a.CreatedAt = time.Now()
		if a.Author == "" {
			a.Author = "Anonymous"
		}
		f.Annotations = append(f.Annotations, a)
		f.ModifiedAt = a.CreatedAt
		return a, nil
	}
	return models.Annotation{}, fmt.Errorf("design %s: %w", id, models.ErrNotFound)
}

// ClampZoom snaps level to the nearest step within the viewer bounds.
func ClampZoom(level int) int {
	level = (level + ZoomStep/2) / ZoomStep * ZoomStep
	if level < MinZoom {
		return MinZoom
	}
	if level > MaxZoom {
		return MaxZoom
	}
	return level
}

// ZoomIn returns the next zoom level up.
func ZoomIn(level int) int { return ClampZoom(level + ZoomStep) }

// ZoomOut returns the next zoom level down.
func ZoomOut(level int) int { return ClampZoom(level - ZoomStep) }

func clone(f models.DesignFile) models.DesignFile {
	f.Annotations = append(make([]models.Annotation, 0, len(f.Annotations)), f.Annotations...)
	return f
}
