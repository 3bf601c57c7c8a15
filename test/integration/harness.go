// Package integration provides a reusable test harness for end-to-end
// testing of the console server. It starts a full HTTP server wired to a
// mock catalog backend and an in-memory session store.
package integration

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mercadito/console/internal/backend"
	"github.com/mercadito/console/internal/config"
	"github.com/mercadito/console/internal/controller"
	"github.com/mercadito/console/internal/session"
	"github.com/mercadito/console/internal/transport"
)

// TestHarness encapsulates a fully wired console instance with a mock
// catalog backend.
type TestHarness struct {
	t      *testing.T
	server *httptest.Server
	client *http.Client

	Catalog  *MockCatalog
	Sessions *session.Manager
	Store    *session.MemoryStore
}

// NewHarness starts a console server against a fresh mock catalog. The
// returned harness's HTTP client carries cookies across requests, so a
// single Login call authenticates the rest of the test.
func NewHarness(t *testing.T) *TestHarness {
	t.Helper()

	catalog := NewMockCatalog(t)

	cfg := config.Defaults()
	cfg.Backend.BaseURL = catalog.URL()
	cfg.Backend.Timeout = 5 * time.Second

	client := backend.New(cfg.Backend, nil)
	store := session.NewMemoryStore()
	sessions := session.NewManager(client, store, cfg.Session.TTL, nil)

	categories := controller.NewCategories(client.Categories(), nil)
	products := controller.NewProducts(client.Products(), categories, nil)

	router := transport.NewRouter(transport.Dependencies{
		Config:     cfg,
		Sessions:   sessions,
		Emails:     client,
		Categories: categories,
		Products:   products,
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}

	return &TestHarness{
		t:        t,
		server:   server,
		client:   &http.Client{Jar: jar},
		Catalog:  catalog,
		Sessions: sessions,
		Store:    store,
	}
}

// BaseURL returns the console server's base URL.
func (h *TestHarness) BaseURL() string { return h.server.URL }

// Login authenticates and stores the session cookie in the harness client.
func (h *TestHarness) Login(email, password string) *http.Response {
	return h.POST("/ui/login", map[string]string{"email": email, "password": password})
}

// MustLogin authenticates with the mock's accepted password and fails the
// test on any non-200 answer.
func (h *TestHarness) MustLogin() {
	h.t.Helper()
	resp := h.Login("ana@example.com", "correct-horse")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		h.t.Fatalf("login status = %d", resp.StatusCode)
	}
}

// GET performs a GET request with the harness's cookie jar.
func (h *TestHarness) GET(path string) *http.Response {
	return h.doRequest(http.MethodGet, path, nil)
}

// POST performs a POST request with a JSON body.
func (h *TestHarness) POST(path string, body any) *http.Response {
	return h.doRequest(http.MethodPost, path, body)
}

func (h *TestHarness) doRequest(method, path string, body any) *http.Response {
	h.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			h.t.Fatalf("marshal request body: %v", err)
		}
		reader = strings.NewReader(string(raw))
	}

	req, err := http.NewRequest(method, h.server.URL+path, reader)
	if err != nil {
		h.t.Fatalf("build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := h.client.Do(req)
	if err != nil {
		h.t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

// ParseJSON decodes the response body into target and closes it.
func (h *TestHarness) ParseJSON(resp *http.Response, target any) {
	h.t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		h.t.Fatalf("decode response: %v", err)
	}
}

// AssertStatus fails the test if the response status differs.
func (h *TestHarness) AssertStatus(resp *http.Response, expected int) {
	h.t.Helper()
	if resp.StatusCode != expected {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		h.t.Fatalf("status = %d, want %d; body: %s", resp.StatusCode, expected, body)
	}
}

// drain closes a response the test does not inspect.
func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
