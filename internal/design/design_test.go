package design

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldquote/backend/internal/models"
)

func TestList(t *testing.T) {
	g := Default()

	assert.Len(t, g.List(""), 5)

	got := g.List("ngmr-12345")
	require.Len(t, got, 3)
	assert.Equal(t, "design-1", got[0].ID)

	got = g.List("ELECTRICAL")
	require.Len(t, got, 1)
	assert.Equal(t, "design-2", got[0].ID)

	assert.Empty(t, g.List("roof"))
}

func TestGet(t *testing.T) {
	g := Default()

	f, err := g.Get("design-4")
	require.NoError(t, err)
	assert.Equal(t, "Cable Routing Diagram", f.Title)
	require.Len(t, f.Annotations, 1)
	assert.Equal(t, models.AnnotationMeasurement, f.Annotations[0].Type)

	_, err = g.Get("design-9")
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestRecent(t *testing.T) {
	g := Default()

	ids := func(files []models.DesignFile) []string {
		out := make([]string, len(files))
		for i, f := range files {
			out[i] = f.ID
		}
		return out
	}

	assert.Equal(t, []string{"design-1", "design-5", "design-4", "design-2", "design-3"}, ids(g.Recent(0)))
	assert.Equal(t, []string{"design-1", "design-5"}, ids(g.Recent(2)))
	assert.Len(t, g.Recent(50), 5)
}

func TestAddAnnotation(t *testing.T) {
	g := Default()

	a, err := g.AddAnnotation("design-3", models.Annotation{
		Type:     models.AnnotationMarkup,
		Position: models.Point{X: 10, Y: 20},
		Content:  "  Trench here  ",
	})
	require.NoError(t, err)
	assert.Regexp(t, `^ann-[0-9a-z]{26}$`, a.ID)
	assert.Equal(t, "Trench here", a.Content)
	assert.Equal(t, "Anonymous", a.Author)
	assert.False(t, a.CreatedAt.IsZero())

	f, err := g.Get("design-3")
	require.NoError(t, err)
	require.Len(t, f.Annotations, 1)
	assert.Equal(t, a.ID, f.Annotations[0].ID)

	// Touching a file moves it to the top of Recent.
	assert.Equal(t, "design-3", g.Recent(1)[0].ID)
}

func TestAddAnnotationValidation(t *testing.T) {
	tests := map[string]struct {
		id      string
		a       models.Annotation
		wantErr error
	}{
		"unknown type": {
			id:      "design-1",
			a:       models.Annotation{Type: "sticker", Content: "x"},
			wantErr: models.ErrNotValid,
		},
		"empty content": {
			id:      "design-1",
			a:       models.Annotation{Type: models.AnnotationComment, Content: "   "},
			wantErr: models.ErrNotValid,
		},
		"outside image": {
			id:      "design-1",
			a:       models.Annotation{Type: models.AnnotationComment, Content: "x", Position: models.Point{X: 1201, Y: 10}},
			wantErr: models.ErrNotValid,
		},
		"negative position": {
			id:      "design-1",
			a:       models.Annotation{Type: models.AnnotationComment, Content: "x", Position: models.Point{X: 10, Y: -1}},
			wantErr: models.ErrNotValid,
		},
		"missing file": {
			id:      "design-404",
			a:       models.Annotation{Type: models.AnnotationComment, Content: "x"},
			wantErr: models.ErrNotFound,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			g := Default()

			_, err := g.AddAnnotation(tt.id, tt.a)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)

			f, err := g.Get("design-1")
			require.NoError(t, err)
			assert.Len(t, f.Annotations, 2)
		})
	}
}

func TestZoom(t *testing.T) {
	tests := map[string]struct {
		got, want int
	}{
		"default":        {ClampZoom(DefaultZoom), 100},
		"snap down":      {ClampZoom(110), 100},
		"snap up":        {ClampZoom(113), 125},
		"floor":          {ClampZoom(0), 25},
		"ceiling":        {ClampZoom(500), 200},
		"in":             {ZoomIn(100), 125},
		"in at max":      {ZoomIn(200), 200},
		"out":            {ZoomOut(100), 75},
		"out at minimum": {ZoomOut(25), 25},
	}

	for name, tt := range tests {
		assert.Equal(t, tt.want, tt.got, name)
	}
}
