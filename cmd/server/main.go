package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/oklog/run"

	"github.com/fieldquote/backend/internal/api"
	"github.com/fieldquote/backend/internal/budget"
	"github.com/fieldquote/backend/internal/catalog"
	"github.com/fieldquote/backend/internal/changeorder"
	"github.com/fieldquote/backend/internal/config"
	"github.com/fieldquote/backend/internal/dashboard"
	"github.com/fieldquote/backend/internal/design"
	"github.com/fieldquote/backend/internal/log"
	loglogrus "github.com/fieldquote/backend/internal/log/logrus"
	"github.com/fieldquote/backend/internal/notify"
	"github.com/fieldquote/backend/internal/quote"
	"github.com/fieldquote/backend/internal/storage"
	"github.com/fieldquote/backend/internal/upload"
)

// Version info (set during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

const configFileName = "fieldquote.config.xml"

func main() {
	configPath := flag.String("config", "", "Path to the XML config file (default: next to the executable)")
	flag.Parse()

	if err := serve(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func serve(configPath string) error {
	if configPath == "" {
		exePath, err := os.Executable()
		if err != nil {
			return fmt.Errorf("failed to get executable path: %w", err)
		}
		configPath = filepath.Join(filepath.Dir(exePath), configFileName)
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := loglogrus.New(os.Stderr, cfg.Advanced.LogLevel, cfg.Advanced.LogFormat).
		WithValues(log.Kv{"version": Version})

	cat := catalog.Default()
	if cfg.Pipeline.CatalogPath != "" {
		if cat, err = catalog.LoadFile(cfg.Pipeline.CatalogPath); err != nil {
			return fmt.Errorf("failed to load catalog: %w", err)
		}
	}

	pipeline, err := upload.New(upload.Config{
		TickInterval:     cfg.Pipeline.TickInterval(),
		ProgressStep:     cfg.Pipeline.ProgressStep,
		ProcessingDelay:  cfg.Pipeline.ProcessingDelay(),
		Extractor:        cat,
		Logger:           logger,
		SubscriberBuffer: 64,
	})
	if err != nil {
		return fmt.Errorf("could not create pipeline: %w", err)
	}
	defer pipeline.Close()

	quotes, err := quote.NewRegistry(quote.RegistryConfig{
		MaxQuotes: cfg.Quotes.MaxQuotes,
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("could not create quote registry: %w", err)
	}

	budgets := budget.Default()
	deps := &api.Dependencies{
		Pipeline:     pipeline,
		Store:        storage.NewMemoryStore(),
		Quotes:       quotes,
		ChangeOrders: changeorder.Default(),
		Budgets:      budgets,
		Designs:      design.Default(),
		Inbox:        notify.New(time.Now()),
		Dashboard:    dashboard.New(time.Now()),
		Project: api.ProjectDefaults{
			Code:     cfg.Project.Code,
			Location: cfg.Project.Location,
			Units:    cfg.Project.Units,
		},
		Logger:  logger,
		Version: Version,
	}

	// The ledger is optional; the budget endpoints still answer without it.
	ledger, err := budget.NewLedger(context.Background(), budgets.All(), logger)
	if err != nil {
		logger.Warningf("budget ledger disabled: %v", err)
	} else {
		defer ledger.Close()
		deps.Ledger = ledger
	}

	h := api.NewHandlers(deps)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	api.SetupMiddleware(e, api.MiddlewareConfig{
		Logger:         logger,
		RequestLogging: cfg.Advanced.EnableRequestLogging,
		EnableCORS:     cfg.Server.EnableCORS,
		AllowOrigins:   splitOrigins(cfg.Server.AllowOrigins),
		BodyLimit:      cfg.Server.BodyLimit,
		ExposeDetails:  strings.EqualFold(cfg.Advanced.LogLevel, "debug"),
	})
	api.RegisterRoutes(e, h)

	readTimeout, writeTimeout, idleTimeout := cfg.Server.Timeouts()
	s := &http.Server{
		Addr:         cfg.GetServerAddr(),
		Handler:      e,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	var g run.Group

	// HTTP server.
	{
		g.Add(
			func() error {
				logger.Infof("listening on http://%s (config %s)", s.Addr, configPath)
				if err := s.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			},
			func(_ error) {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := s.Shutdown(ctx); err != nil {
					logger.Errorf("could not shut down server: %v", err)
				}
			},
		)
	}

	// File status tracker.
	{
		ctx, cancel := context.WithCancel(context.Background())
		g.Add(
			func() error {
				return h.Tracker.Run(ctx)
			},
			func(_ error) {
				cancel()
			},
		)
	}

	// Aged quote cleanup.
	if interval := cfg.Quotes.CleanupInterval(); interval > 0 {
		ctx, cancel := context.WithCancel(context.Background())
		g.Add(
			func() error {
				ticker := time.NewTicker(interval)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return nil
					case <-ticker.C:
						quotes.CleanupOld(cfg.Quotes.Retention())
					}
				}
			},
			func(_ error) {
				cancel()
			},
		)
	}

	g.Add(run.SignalHandler(context.Background(), os.Interrupt, syscall.SIGTERM))

	err = g.Run()
	var sigErr run.SignalError
	if errors.As(err, &sigErr) {
		logger.Infof("received %s, shutting down", sigErr.Signal)
		return nil
	}
	return err
}

func splitOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
