// Package logrus adapts a logrus entry to the internal logger interface.
package logrus

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/fieldquote/backend/internal/log"
)

type logger struct {
	*logrus.Entry
}

// NewLogrus returns a new log.Logger backed by a logrus entry.
func NewLogrus(l *logrus.Entry) log.Logger {
	return logger{Entry: l}
}

func (l logger) WithValues(kv log.Kv) log.Logger {
	newLogger := l.Entry.WithFields(kv)
	return NewLogrus(newLogger)
}

func (l logger) WithCtxValues(ctx context.Context) log.Logger {
	return l.WithValues(log.ValuesFromCtx(ctx))
}

// New builds the application logger writing to out from the configured level
// and format. Unknown levels fall back to info.
func New(out io.Writer, level, format string) log.Logger {
	l := logrus.New()
	if out != nil {
		l.SetOutput(out)
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)

	switch format {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return NewLogrus(logrus.NewEntry(l))
}
