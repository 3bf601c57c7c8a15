package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mercadito/console/internal/config"
	"github.com/mercadito/console/model"
)

// recordedRequest captures a request received by the fake catalog API.
type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Body   map[string]any
}

type fakeCatalog struct {
	server   *httptest.Server
	requests []recordedRequest
	status   int
	respBody string
}

func newFakeCatalog(t *testing.T) *fakeCatalog {
	t.Helper()
	f := &fakeCatalog{status: http.StatusOK, respBody: `{}`}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		raw, _ := io.ReadAll(r.Body)
		if len(raw) > 0 {
			_ = json.Unmarshal(raw, &body)
		}
		f.requests = append(f.requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Body:   body,
		})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.status)
		_, _ = w.Write([]byte(f.respBody))
	}))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeCatalog) client() *Client {
	return New(config.BackendConfig{BaseURL: f.server.URL}, nil)
}

func TestClient_Login(t *testing.T) {
	f := newFakeCatalog(t)
	f.respBody = `{"token":"aaa.bbb.ccc","fullName":"Ana Admin"}`

	creds, err := f.client().Login(context.Background(), "ana@example.com", "secret")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if creds.Token != "aaa.bbb.ccc" || creds.FullName != "Ana Admin" {
		t.Errorf("creds = %+v", creds)
	}

	req := f.requests[0]
	if req.Method != http.MethodPost || req.Path != "/login" {
		t.Errorf("request = %s %s", req.Method, req.Path)
	}
	if req.Body["email"] != "ana@example.com" || req.Body["password"] != "secret" {
		t.Errorf("body = %v", req.Body)
	}
}

func TestClient_Login_missingToken(t *testing.T) {
	f := newFakeCatalog(t)
	f.respBody = `{"fullName":"Ana Admin"}`

	_, err := f.client().Login(context.Background(), "ana@example.com", "secret")
	if ee := model.AsEnvelope(err); ee == nil || ee.Code != model.ErrMalformedResponse {
		t.Errorf("error = %v, want MALFORMED_RESPONSE", err)
	}
}

func TestClient_CheckEmail(t *testing.T) {
	f := newFakeCatalog(t)
	f.respBody = `{"exists":true}`

	exists, err := f.client().CheckEmail(context.Background(), "ana@example.com")
	if err != nil {
		t.Fatalf("CheckEmail error: %v", err)
	}
	if !exists {
		t.Error("exists = false, want true")
	}

	req := f.requests[0]
	if req.Path != "/users/check-email" || req.Query != "email=ana%40example.com" {
		t.Errorf("request = %s?%s", req.Path, req.Query)
	}
}

func TestClient_backendErrorCarriesServerMessage(t *testing.T) {
	f := newFakeCatalog(t)
	f.status = http.StatusConflict
	f.respBody = `{"message":"name already in use"}`

	err := f.client().Categories().Create(context.Background(), model.CategoryDraft{
		Name: "Shoes", Description: "Footwear",
	})
	ee := model.AsEnvelope(err)
	if ee == nil || ee.Code != model.ErrBackendError {
		t.Fatalf("error = %v, want BACKEND_ERROR", err)
	}
	if ee.Message != "name already in use" {
		t.Errorf("message = %q", ee.Message)
	}
}

func TestClient_transportError(t *testing.T) {
	f := newFakeCatalog(t)
	f.server.Close() // connection refused from here on

	_, err := f.client().Categories().List(context.Background())
	ee := model.AsEnvelope(err)
	if ee == nil || ee.Code != model.ErrBackendUnavailable {
		t.Errorf("error = %v, want BACKEND_UNAVAILABLE", err)
	}
}

func TestCategoryStore_CRUDPaths(t *testing.T) {
	f := newFakeCatalog(t)
	f.respBody = `[]`
	s := f.client().Categories()
	ctx := context.Background()

	if _, err := s.List(ctx); err != nil {
		t.Fatalf("List error: %v", err)
	}
	f.respBody = `{}`
	if err := s.Create(ctx, model.CategoryDraft{Name: "Shoes", Description: "Footwear"}); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if err := s.Update(ctx, "7", model.CategoryDraft{ID: "7", Name: "Shoes", Description: "Footwear"}); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if err := s.Delete(ctx, "7"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}

	want := []struct {
		method, path string
	}{
		{http.MethodGet, "/categories"},
		{http.MethodPost, "/categories"},
		{http.MethodPut, "/categories/7"},
		{http.MethodDelete, "/categories/7"},
	}
	if len(f.requests) != len(want) {
		t.Fatalf("requests = %d, want %d", len(f.requests), len(want))
	}
	for i, w := range want {
		got := f.requests[i]
		if got.Method != w.method || got.Path != w.path {
			t.Errorf("request %d = %s %s, want %s %s", i, got.Method, got.Path, w.method, w.path)
		}
	}
}

func TestProductStore_payloadTypes(t *testing.T) {
	f := newFakeCatalog(t)
	s := f.client().Products()

	err := s.Create(context.Background(), model.ProductDraft{
		Name:        "Ball",
		Description: "A ball",
		Price:       "9.99",
		Stock:       "3",
		CategoryID:  "2",
		ImageURL:    "https://cdn/x.png",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	body := f.requests[0].Body
	if body["price"] != "9.99" {
		// decimal marshals as a JSON number string; both forms decode to 9.99
		if n, ok := body["price"].(float64); !ok || n != 9.99 {
			t.Errorf("price = %v (%T)", body["price"], body["price"])
		}
	}
	if n, ok := body["stock"].(float64); !ok || n != 3 {
		t.Errorf("stock = %v (%T)", body["stock"], body["stock"])
	}
	if body["categoryId"] != "2" {
		t.Errorf("categoryId = %v", body["categoryId"])
	}
}

func TestProductStore_unparsableDraftRejected(t *testing.T) {
	f := newFakeCatalog(t)
	s := f.client().Products()

	err := s.Create(context.Background(), model.ProductDraft{
		Name: "Ball", Description: "A ball", Price: "cheap", Stock: "3",
		CategoryID: "2", ImageURL: "https://cdn/x.png",
	})
	ee := model.AsEnvelope(err)
	if ee == nil || ee.Code != model.ErrBadRequest {
		t.Errorf("error = %v, want BAD_REQUEST", err)
	}
	if len(f.requests) != 0 {
		t.Errorf("request was made for an unparsable draft")
	}
}
