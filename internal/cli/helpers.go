package cli

import (
	"encoding/json"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/fieldquote/backend/internal/catalog"
	"github.com/fieldquote/backend/internal/config"
	"github.com/fieldquote/backend/internal/log"
	loglogrus "github.com/fieldquote/backend/internal/log/logrus"
	"github.com/fieldquote/backend/internal/upload"
)

func newLogger(app *AppContext, cfg *config.AppConfig) log.Logger {
	return loglogrus.New(app.IO.ErrOut, cfg.Advanced.LogLevel, cfg.Advanced.LogFormat)
}

func loadCatalog(cfg *config.AppConfig) (*catalog.Catalog, error) {
	if cfg.Pipeline.CatalogPath == "" {
		return catalog.Default(), nil
	}
	return catalog.LoadFile(cfg.Pipeline.CatalogPath)
}

func newPipeline(cfg *config.AppConfig, logger log.Logger) (*upload.Pipeline, error) {
	cat, err := loadCatalog(cfg)
	if err != nil {
		return nil, err
	}
	return upload.New(upload.Config{
		TickInterval:    cfg.Pipeline.TickInterval(),
		ProgressStep:    cfg.Pipeline.ProgressStep,
		ProcessingDelay: cfg.Pipeline.ProcessingDelay(),
		Extractor:       cat,
		Logger:          logger,
	})
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
