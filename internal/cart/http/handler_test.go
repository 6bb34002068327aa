package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/seyifunmi/clinicshop/internal/cart/app"
	"github.com/seyifunmi/clinicshop/internal/cart/infra/sessionstore"
	"github.com/seyifunmi/clinicshop/internal/session"
)

// memorySessions is an in-memory session.Store so the full
// middleware -> handler -> service -> store path runs without Redis.
type memorySessions struct {
	mu      sync.Mutex
	data    map[string]map[string]string
	flashes map[string][]session.FlashMessage
}

func newMemorySessions() *memorySessions {
	return &memorySessions{
		data:    map[string]map[string]string{},
		flashes: map[string][]session.FlashMessage{},
	}
}

func (m *memorySessions) Get(ctx context.Context, sid, field string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[sid][field]
	return v, ok, nil
}

func (m *memorySessions) Set(ctx context.Context, sid, field, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data[sid] == nil {
		m.data[sid] = map[string]string{}
	}
	m.data[sid][field] = value
	return nil
}

func (m *memorySessions) Delete(ctx context.Context, sid string, fields ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range fields {
		delete(m.data[sid], f)
	}
	return nil
}

func (m *memorySessions) Flash(ctx context.Context, sid, level, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flashes[sid] = append(m.flashes[sid], session.FlashMessage{Level: level, Message: message})
	return nil
}

func (m *memorySessions) Flashes(ctx context.Context, sid string) ([]session.FlashMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.flashes[sid]
	delete(m.flashes, sid)
	return out, nil
}

type fakeDrugs struct {
	drugs map[string]app.Drug
}

func (f *fakeDrugs) Get(ctx context.Context, id string) (app.Drug, error) {
	d, ok := f.drugs[id]
	if !ok {
		return app.Drug{}, app.ErrDrugNotFound
	}
	return d, nil
}

func (f *fakeDrugs) ListByIDs(ctx context.Context, ids []string) ([]app.Drug, error) {
	out := make([]app.Drug, 0, len(ids))
	for _, id := range ids {
		if d, ok := f.drugs[id]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	sessions := newMemorySessions()
	drugs := &fakeDrugs{drugs: map[string]app.Drug{
		"d1": {ID: "d1", Name: "Paracetamol", Price: decimal.RequireFromString("500.00"), Stock: 10},
	}}
	svc := app.NewService(sessionstore.New(sessions), drugs)

	r := gin.New()
	r.Use(session.Middleware(3600))
	NewHandler(svc, sessions, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(r)
	return r
}

func postForm(t *testing.T, r *gin.Engine, path, cookie string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCartRoundTrip(t *testing.T) {
	r := newTestRouter()

	w := postForm(t, r, "/cart/add/d1", "", url.Values{"quantity": {"2"}})
	if w.Code != http.StatusFound {
		t.Fatalf("expected redirect after add, got %d: %s", w.Code, w.Body.String())
	}
	cookie := w.Header().Get("Set-Cookie")
	if !strings.Contains(cookie, "clinic_session=") {
		t.Fatalf("expected session cookie, got %q", cookie)
	}

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set("Cookie", cookie)
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req)
	if w2.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w2.Code, w2.Body.String())
	}

	var body struct {
		Items []struct {
			Name      string `json:"name"`
			Quantity  int    `json:"quantity"`
			LineTotal string `json:"line_total"`
		} `json:"items"`
		Total string `json:"total"`
		Units int    `json:"units"`
	}
	if err := json.Unmarshal(w2.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if len(body.Items) != 1 || body.Items[0].Quantity != 2 || body.Items[0].LineTotal != "1000.00" {
		t.Fatalf("unexpected items: %+v", body.Items)
	}
	if body.Total != "1000.00" || body.Units != 2 {
		t.Fatalf("unexpected totals: total=%s units=%d", body.Total, body.Units)
	}
}

func TestCartAddUnknownDrugIs404(t *testing.T) {
	r := newTestRouter()
	w := postForm(t, r, "/cart/add/nope", "", url.Values{})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestCartAddBeyondStockRedirectsWithFlash(t *testing.T) {
	r := newTestRouter()
	w := postForm(t, r, "/cart/add/d1", "", url.Values{"quantity": {"11"}})
	if w.Code != http.StatusFound {
		t.Fatalf("expected redirect, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/drugs" {
		t.Fatalf("expected redirect to /drugs, got %q", loc)
	}
}
