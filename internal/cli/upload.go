package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/fieldquote/backend/internal/models"
	"github.com/fieldquote/backend/internal/tui"
	"github.com/fieldquote/backend/internal/upload"
)

func newUploadCommand(app *AppContext) *cobra.Command {
	plain := false

	cmd := &cobra.Command{
		Use:   "upload <file.pdf>",
		Short: "Extract quote items from a design PDF",
		Long: "upload runs the extraction pipeline on a local design file and prints the " +
			"extracted items with category subtotals. The file content is not read.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpload(cmd.Context(), app, args[0], plain)
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "Print progress lines instead of the interactive view")
	return cmd
}

func runUpload(ctx context.Context, app *AppContext, path string, plain bool) error {
	cfg, err := loadConfig(app)
	if err != nil {
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		return withExitCode(ExitInvalidUsage, err)
	}
	if info.IsDir() {
		return withExitCode(ExitInvalidUsage, fmt.Errorf("%s is a directory", path))
	}

	p, err := newPipeline(cfg, newLogger(app, cfg))
	if err != nil {
		return err
	}
	defer p.Close()

	states, unsubscribe := p.Subscribe()
	defer unsubscribe()

	if _, err := p.SelectFile(upload.FileHandle{Name: filepath.Base(path), Size: info.Size()}); err != nil {
		if errors.Is(err, upload.ErrUnsupportedFileType) {
			return withExitCode(ExitInvalidUsage, errors.New("please upload a PDF file"))
		}
		return err
	}

	var final upload.State
	switch {
	case app.Opts.JSON:
		final, err = p.Wait(ctx)
		if err == nil {
			err = writeJSON(app.IO.Out, final)
		}
	case plain || !isTerminal(app.IO.Out):
		final, err = followPlain(ctx, app.IO.Out, states)
	default:
		final, err = followInteractive(ctx, app, states)
	}
	if err != nil {
		return err
	}

	if final.Session.Status == models.UploadStatusError {
		return withExitCode(ExitFailure, errors.New(final.Session.Error))
	}
	return nil
}

// followPlain prints one line per status or progress change, then the items.
func followPlain(ctx context.Context, out io.Writer, states <-chan upload.State) (upload.State, error) {
	var last models.UploadSession

	for {
		select {
		case <-ctx.Done():
			return upload.State{}, ctx.Err()
		case st, ok := <-states:
			if !ok {
				return upload.State{}, upload.ErrClosed
			}
			sess := st.Session
			if sess.Status == models.UploadStatusIdle {
				continue
			}
			if sess.Status == last.Status && sess.Progress == last.Progress {
				continue
			}
			last = sess

			switch sess.Status {
			case models.UploadStatusUploading:
				fmt.Fprintf(out, "uploading %s %3d%%\n", sess.FileName, sess.Progress)
			case models.UploadStatusProcessing:
				fmt.Fprintf(out, "processing %s\n", sess.FileName)
			case models.UploadStatusSuccess:
				fmt.Fprintf(out, "extracted %d items\n\n%s", len(st.Items), tui.RenderItems(st.Items))
				return st, nil
			case models.UploadStatusError:
				return st, nil
			}
		}
	}
}

func followInteractive(ctx context.Context, app *AppContext, states <-chan upload.State) (upload.State, error) {
	prog := tea.NewProgram(
		tui.NewUploadModel(states),
		tea.WithContext(ctx),
		tea.WithInput(app.IO.In),
		tea.WithOutput(app.IO.Out),
	)

	m, err := prog.Run()
	if err != nil {
		return upload.State{}, err
	}

	model := m.(tui.UploadModel)
	if model.Quit() {
		return upload.State{}, errors.New("aborted")
	}
	return model.State(), nil
}
