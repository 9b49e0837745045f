package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldquote/backend/internal/models"
	"github.com/fieldquote/backend/internal/upload"
)

func items() []models.QuoteItem {
	return []models.QuoteItem{
		models.QuoteItem{ID: "item-1", Name: "Place/Splice", Quantity: 12, Type: models.ItemTypeA32, UnitCost: decimal.NewFromInt(540), Category: models.CategoryGPON}.WithTotal(),
		models.QuoteItem{ID: "item-4", Name: "Civil design", Quantity: 1, Type: models.ItemTypeA32, UnitCost: decimal.NewFromInt(1500), Category: models.CategoryCivil}.WithTotal(),
	}
}

func session(status models.UploadStatus, progress int) StateMsg {
	return StateMsg{Session: models.UploadSession{ID: "s1", Status: status, Progress: progress, FileName: "NGMR-12345_A2.pdf"}}
}

func TestUploadModel_Update(t *testing.T) {
	tests := []struct {
		name     string
		msg      tea.Msg
		wantQuit bool
		wantView []string
	}{
		{
			name:     "uploading shows progress",
			msg:      session(models.UploadStatusUploading, 45),
			wantView: []string{"NGMR-12345_A2.pdf", "Uploading 45%", "q: quit"},
		},
		{
			name:     "processing shows spinner text",
			msg:      session(models.UploadStatusProcessing, 100),
			wantView: []string{"Processing design file..."},
		},
		{
			name: "success renders table and quits",
			msg: func() tea.Msg {
				m := session(models.UploadStatusSuccess, 100)
				m.Items = items()
				return m
			}(),
			wantQuit: true,
			wantView: []string{"Extracted 2 items", "Place/Splice", "6480.00", "7980.00"},
		},
		{
			name: "error quits",
			msg: func() tea.Msg {
				m := session(models.UploadStatusError, 35)
				m.Session.Error = "extraction failed: unreadable"
				return m
			}(),
			wantQuit: true,
			wantView: []string{"Error: extraction failed: unreadable"},
		},
		{
			name:     "q quits",
			msg:      tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")},
			wantQuit: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewUploadModel(make(chan upload.State))

			next, cmd := m.Update(tt.msg)
			got := next.(UploadModel)

			if tt.wantQuit {
				require.NotNil(t, cmd)
				assert.IsType(t, tea.QuitMsg{}, cmd())
			}

			view := got.View()
			for _, want := range tt.wantView {
				assert.Contains(t, view, want)
			}
		})
	}
}

func TestUploadModel_WindowSize(t *testing.T) {
	m := NewUploadModel(make(chan upload.State))

	next, cmd := m.Update(tea.WindowSizeMsg{Width: 200, Height: 40})
	assert.Nil(t, cmd)
	assert.Equal(t, maxProgressWidth, next.(UploadModel).progress.Width)

	next, _ = m.Update(tea.WindowSizeMsg{Width: 30, Height: 40})
	assert.Equal(t, 26, next.(UploadModel).progress.Width)
}

func TestUploadModel_FollowsChannel(t *testing.T) {
	states := make(chan upload.State, 1)
	m := NewUploadModel(states)

	states <- upload.State{Session: models.UploadSession{Status: models.UploadStatusUploading, Progress: 10}}
	msg := waitForState(states)()
	require.IsType(t, StateMsg{}, msg)

	next, cmd := m.Update(msg)
	assert.NotNil(t, cmd, "keeps listening while uploading")
	assert.Equal(t, 10, next.(UploadModel).State().Session.Progress)

	close(states)
	assert.IsType(t, closedMsg{}, waitForState(states)())
}

func TestRenderItems(t *testing.T) {
	out := RenderItems(items())
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	assert.Contains(t, lines[0], "Item")
	assert.Contains(t, out, "Place/Splice")
	assert.Contains(t, out, "540.00")
	assert.Contains(t, lines[len(lines)-1], "7980.00")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
