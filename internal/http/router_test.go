package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/tbourn/go-report-bot/internal/catalog"
	"github.com/tbourn/go-report-bot/internal/config"
	"github.com/tbourn/go-report-bot/internal/session"
	"github.com/tbourn/go-report-bot/internal/store"
)

type fakeOpsStore struct{}

func (fakeOpsStore) GetRange(context.Context, string, string) ([][]string, error) {
	return [][]string{{"Станок"}}, nil
}
func (fakeOpsStore) InsertRow(context.Context, string, []string, int) error { return nil }
func (fakeOpsStore) AppendRow(context.Context, string, []string) error      { return nil }
func (fakeOpsStore) UpdateCells(context.Context, string, []store.CellUpdate) error {
	return nil
}
func (fakeOpsStore) FindRowsByColumnValue(context.Context, string, string, int) ([]int, error) {
	return nil, nil
}
func (fakeOpsStore) RowCount(context.Context, string) (int, error) { return 0, nil }

func newOpsEngine(t *testing.T) (*gin.Engine, Deps) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	deps := Deps{
		Catalog:   catalog.New(fakeOpsStore{}, config.SheetsConfig{}, time.Minute, zerolog.Nop()),
		Registry:  session.NewPromptRegistry(),
		Sessions:  session.NewStore(),
		StartedAt: time.Now(),
	}
	r := gin.New()
	RegisterRoutes(r, deps, config.Config{OTEL: config.OTELConfig{ServiceName: "test"}})
	return r, deps
}

func TestHealthz(t *testing.T) {
	r, _ := newOpsEngine(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("GET /healthz -> %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"ok"`) {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	r, _ := newOpsEngine(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("GET /metrics -> %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "go_goroutines") {
		t.Fatal("expected Prometheus exposition output")
	}
}

func TestStatusReportsState(t *testing.T) {
	r, deps := newOpsEngine(t)
	if err := deps.Catalog.Refresh(context.Background(), true, catalog.TableModels); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	deps.Registry.Register(1, session.Prompt{MessageID: 10, ChatID: 1})
	deps.Sessions.Begin(1, "Станок", "раскрой")
	deps.Sessions.Begin(2, "Станок", "сварка")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("GET /status -> %d", w.Code)
	}
	var body struct {
		Uptime         string            `json:"uptime"`
		CatalogLoads   map[string]string `json:"catalog_loads"`
		ActivePrompts  int               `json:"active_prompts"`
		ActiveSessions int               `json:"active_sessions"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json body: %v", err)
	}
	if body.ActivePrompts != 1 || body.ActiveSessions != 2 {
		t.Fatalf("counts = %d/%d", body.ActivePrompts, body.ActiveSessions)
	}
	if body.CatalogLoads["models"] == "never" || body.CatalogLoads["models"] == "" {
		t.Fatalf("models load = %q", body.CatalogLoads["models"])
	}
	if body.CatalogLoads["goals"] != "never" {
		t.Fatalf("goals load = %q", body.CatalogLoads["goals"])
	}
}

func TestUnknownRoute(t *testing.T) {
	r, _ := newOpsEngine(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("GET /nope -> %d", w.Code)
	}
}
