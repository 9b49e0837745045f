// routes.go - Route registration helpers
package api

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/fieldquote/backend/internal/budget"
	"github.com/fieldquote/backend/internal/changeorder"
	"github.com/fieldquote/backend/internal/dashboard"
	"github.com/fieldquote/backend/internal/design"
	"github.com/fieldquote/backend/internal/log"
	"github.com/fieldquote/backend/internal/notify"
	"github.com/fieldquote/backend/internal/quote"
	"github.com/fieldquote/backend/internal/storage"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	Pipeline     Pipeline
	Store        storage.Store
	Quotes       *quote.Registry
	ChangeOrders *changeorder.Book
	Budgets      *budget.Book
	// Ledger is optional.
	Ledger    Ledger
	Designs   *design.Gallery
	Inbox     *notify.Inbox
	Dashboard *dashboard.Board
	Project   ProjectDefaults
	Logger    log.Logger
	Version   string
}

// Handlers holds all handler instances
type Handlers struct {
	Health        HealthHandler
	Upload        UploadHandler
	Files         FileHandler
	Quotes        QuoteHandler
	ChangeOrders  ChangeOrderHandler
	Budget        BudgetHandler
	Designs       DesignHandler
	Notifications NotificationHandler
	Dashboard     DashboardHandler
	WebSocket     *WebSocketHandler
	Tracker       *FileTracker
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	tracker := NewFileTracker(deps.Pipeline, deps.Store, deps.Logger)

	return &Handlers{
		Health:        NewHealthHandler(deps.Version, deps.Pipeline),
		Upload:        NewUploadHandler(deps.Pipeline, tracker),
		Files:         NewFileHandler(deps.Store),
		Quotes:        NewQuoteHandler(deps.Pipeline, deps.Quotes, deps.Store, deps.Project),
		ChangeOrders:  NewChangeOrderHandler(deps.ChangeOrders),
		Budget:        NewBudgetHandler(deps.Budgets, deps.Ledger),
		Designs:       NewDesignHandler(deps.Designs),
		Notifications: NewNotificationHandler(deps.Inbox),
		Dashboard:     NewDashboardHandler(deps.Dashboard),
		WebSocket:     NewWebSocketHandler(deps.Pipeline, tracker, deps.Logger),
		Tracker:       tracker,
	}
}

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, handlers *Handlers) {
	apiGroup := e.Group("/api")

	apiGroup.GET("/health", handlers.Health.HandleHealth)

	// Upload session
	apiGroup.GET("/upload", handlers.Upload.HandleGetUpload)
	apiGroup.POST("/upload", handlers.Upload.HandleSelectFile)
	apiGroup.DELETE("/upload", handlers.Upload.HandleResetUpload)
	apiGroup.GET("/upload/progress", handlers.Upload.HandleUploadProgressStream)
	apiGroup.GET("/ws/upload", handlers.WebSocket.HandleWebSocket)

	// Quote items
	apiGroup.GET("/quote/items", handlers.Upload.HandleGetItems)
	apiGroup.GET("/quote/items/msgpack", handlers.Upload.HandleGetItemsMsgpack)
	apiGroup.POST("/quote/items", handlers.Upload.HandleAddItem)
	apiGroup.PATCH("/quote/items/:id", handlers.Upload.HandleUpdateItem)
	apiGroup.DELETE("/quote/items/:id", handlers.Upload.HandleRemoveItem)
	apiGroup.GET("/quote/summary", handlers.Upload.HandleGetSummary)

	// Quote registry
	apiGroup.POST("/quotes", handlers.Quotes.HandleSubmitQuote)
	apiGroup.GET("/quotes", handlers.Quotes.HandleListQuotes)
	apiGroup.GET("/quotes/:id", handlers.Quotes.HandleGetQuote)
	apiGroup.PUT("/quotes/:id/status", handlers.Quotes.HandleSetQuoteStatus)

	// Selected files
	apiGroup.GET("/files/recent", handlers.Files.HandleGetRecentFiles)
	apiGroup.GET("/files/:id", handlers.Files.HandleGetFile)
	apiGroup.DELETE("/files/:id", handlers.Files.HandleDeleteFile)

	// Change orders
	apiGroup.GET("/change-orders", handlers.ChangeOrders.HandleListChangeOrders)
	apiGroup.GET("/change-orders/vendors", handlers.ChangeOrders.HandleGetChangeOrderVendors)
	apiGroup.GET("/change-orders/project", handlers.ChangeOrders.HandleGetChangeOrderProject)
	apiGroup.GET("/change-orders/:id", handlers.ChangeOrders.HandleGetChangeOrder)

	// Budgets
	apiGroup.GET("/budget/:code", handlers.Budget.HandleGetBudget)
	apiGroup.GET("/budget/:code/ledger", handlers.Budget.HandleGetBudgetLedger)

	// Designs
	apiGroup.GET("/designs", handlers.Designs.HandleListDesigns)
	apiGroup.GET("/designs/recent", handlers.Designs.HandleRecentDesigns)
	apiGroup.GET("/designs/:id", handlers.Designs.HandleGetDesign)
	apiGroup.POST("/designs/:id/annotations", handlers.Designs.HandleAddAnnotation)

	// Notifications
	apiGroup.GET("/notifications", handlers.Notifications.HandleListNotifications)
	apiGroup.GET("/notifications/counts", handlers.Notifications.HandleNotificationCounts)
	apiGroup.POST("/notifications/read-all", handlers.Notifications.HandleMarkAllRead)
	apiGroup.POST("/notifications/:id/read", handlers.Notifications.HandleMarkRead)

	// Dashboard
	apiGroup.GET("/dashboard", handlers.Dashboard.HandleGetDashboard)
	apiGroup.GET("/dashboard/charts", handlers.Dashboard.HandleGetCharts)
}

// MiddlewareConfig configures SetupMiddleware.
type MiddlewareConfig struct {
	Logger         log.Logger
	RequestLogging bool
	EnableCORS     bool
	AllowOrigins   []string
	BodyLimit      string
	ExposeDetails  bool
}

// SetupMiddleware configures common middleware
func SetupMiddleware(e *echo.Echo, cfg MiddlewareConfig) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Noop
	}
	logger = logger.WithValues(log.Kv{"svc": "http"})

	e.HTTPErrorHandler = ErrorHandler(logger, cfg.ExposeDetails)

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			if !cfg.RequestLogging {
				return true
			}
			path := c.Request().URL.Path
			return strings.HasSuffix(path, "/progress") || path == "/api/health"
		},
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			l := logger.WithValues(log.Kv{
				"method":  v.Method,
				"uri":     v.URI,
				"status":  v.Status,
				"latency": v.Latency.String(),
			})
			if v.Error != nil {
				l.Warningf("request failed: %v", v.Error)
				return nil
			}
			l.Debugf("request handled")
			return nil
		},
	}))

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 * 1024,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Errorf("panic serving %s: %v\n%s", c.Request().URL.Path, err, stack)
			return err
		},
	}))

	if cfg.BodyLimit != "" {
		e.Use(middleware.BodyLimit(cfg.BodyLimit))
	}

	if cfg.EnableCORS {
		origins := cfg.AllowOrigins
		if len(origins) == 0 {
			origins = []string{"*"}
		}
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{AllowOrigins: origins}))
	}
}
