package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/fieldquote/backend/internal/budget"
	"github.com/fieldquote/backend/internal/catalog"
	"github.com/fieldquote/backend/internal/changeorder"
	"github.com/fieldquote/backend/internal/dashboard"
	"github.com/fieldquote/backend/internal/design"
	"github.com/fieldquote/backend/internal/notify"
	"github.com/fieldquote/backend/internal/quote"
	"github.com/fieldquote/backend/internal/testutil"
	"github.com/fieldquote/backend/internal/upload"
)

type testServer struct {
	e        *echo.Echo
	h        *Handlers
	pipeline *upload.Pipeline
	store    *testutil.MockStorage
	quotes   *quote.Registry
}

func newTestServer(t *testing.T, ext catalog.Extractor) *testServer {
	t.Helper()

	p := testutil.NewPipeline(t, testutil.FastPipelineConfig(ext))
	store := testutil.NewMockStorage()
	registry, err := quote.NewRegistry(quote.RegistryConfig{})
	require.NoError(t, err)

	deps := &Dependencies{
		Pipeline:     p,
		Store:        store,
		Quotes:       registry,
		ChangeOrders: changeorder.Default(),
		Budgets:      budget.Default(),
		Designs:      design.Default(),
		Inbox:        notify.New(time.Now()),
		Dashboard:    dashboard.New(time.Now()),
		Project:      ProjectDefaults{Code: "NGMR-12345", Location: "Kuala Lumpur", Units: 10},
		Version:      "test",
	}

	e := echo.New()
	SetupMiddleware(e, MiddlewareConfig{})
	h := NewHandlers(deps)
	RegisterRoutes(e, h)

	return &testServer{e: e, h: h, pipeline: p, store: store, quotes: registry}
}

// withLedger swaps in a budget handler backed by an in-memory ledger.
func (s *testServer) withLedger(t *testing.T) {
	t.Helper()

	l, err := budget.NewLedger(context.Background(), budget.Default().All(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })

	s.h.Budget = NewBudgetHandler(budget.Default(), l)
	s.e = echo.New()
	SetupMiddleware(s.e, MiddlewareConfig{})
	RegisterRoutes(s.e, s.h)
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

// selectAndSettle selects name and waits for extraction to finish.
func (s *testServer) selectAndSettle(t *testing.T, name string) upload.State {
	t.Helper()

	rec := s.do(t, http.MethodPost, "/api/upload", map[string]any{"name": name, "size": 1024})
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	return testutil.WaitSettled(t, s.pipeline)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func assertAPIError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()

	require.Equal(t, status, rec.Code, rec.Body.String())
	apiErr := decode[APIError](t, rec)
	require.Equal(t, code, apiErr.Code)
}
