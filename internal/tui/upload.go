// Package tui renders an upload session in the terminal.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fieldquote/backend/internal/models"
	"github.com/fieldquote/backend/internal/upload"
)

const maxProgressWidth = 60

// StateMsg carries a pipeline snapshot into the program.
type StateMsg upload.State

// closedMsg signals the snapshot channel was closed.
type closedMsg struct{}

// UploadModel follows one upload session until it settles.
type UploadModel struct {
	states <-chan upload.State
	state  upload.State

	spinner  spinner.Model
	progress progress.Model

	done     bool
	quitting bool
	width    int
}

// NewUploadModel returns a model fed by states, usually a pipeline subscription.
func NewUploadModel(states <-chan upload.State) UploadModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	p := progress.New(progress.WithDefaultGradient())
	p.Width = 40

	return UploadModel{
		states:   states,
		state:    upload.State{Session: models.NewIdleSession()},
		spinner:  s,
		progress: p,
	}
}

// Init implements tea.Model.
func (m UploadModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForState(m.states))
}

func waitForState(states <-chan upload.State) tea.Cmd {
	return func() tea.Msg {
		st, ok := <-states
		if !ok {
			return closedMsg{}
		}
		return StateMsg(st)
	}
}

// Update implements tea.Model.
func (m UploadModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = min(max(msg.Width-4, 10), maxProgressWidth)
		return m, nil

	case StateMsg:
		m.state = upload.State(msg)
		switch m.state.Session.Status {
		case models.UploadStatusSuccess, models.UploadStatusError:
			m.done = true
			return m, tea.Quit
		}
		return m, waitForState(m.states)

	case closedMsg:
		m.done = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m UploadModel) View() string {
	var b strings.Builder
	sess := m.state.Session

	b.WriteString(titleStyle.Render("FieldQuote"))
	if sess.FileName != "" {
		b.WriteString(" " + fileStyle.Render(sess.FileName))
	}
	b.WriteString("\n\n")

	switch sess.Status {
	case models.UploadStatusIdle:
		b.WriteString("Waiting for a file...\n")
	case models.UploadStatusUploading:
		b.WriteString(m.progress.ViewAs(float64(sess.Progress) / 100))
		fmt.Fprintf(&b, "\nUploading %d%%\n", sess.Progress)
	case models.UploadStatusProcessing:
		fmt.Fprintf(&b, "%s Processing design file...\n", m.spinner.View())
	case models.UploadStatusSuccess:
		fmt.Fprintf(&b, "%s\n\n", successStyle.Render(fmt.Sprintf("Extracted %d items", len(m.state.Items))))
		b.WriteString(renderTable(m.state.Items))
	case models.UploadStatusError:
		b.WriteString(errorStyle.Render("Error: "+sess.Error) + "\n")
	}

	if !m.done && !m.quitting {
		b.WriteString("\n" + helpStyle.Render("q: quit") + "\n")
	}
	return b.String()
}

// State returns the last snapshot received.
func (m UploadModel) State() upload.State { return m.state }

// Quit reports whether the user left before the session settled.
func (m UploadModel) Quit() bool { return m.quitting }

func renderTable(items []models.QuoteItem) string {
	lines := strings.Split(strings.TrimRight(RenderItems(items), "\n"), "\n")
	for i, l := range lines {
		switch {
		case i == 0:
			lines[i] = headerStyle.Render(l)
		case i == len(lines)-1:
			lines[i] = totalStyle.Render(l)
		}
	}
	return strings.Join(lines, "\n") + "\n"
}
