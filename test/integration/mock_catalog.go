package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ListShape selects the envelope the mock uses for list responses. The
// real catalog API has shipped all three over time.
type ListShape int

const (
	ShapeBareArray ListShape = iota
	ShapeDataEnvelope
	ShapePluralEnvelope
	ShapeMalformed
)

// RecordedRequest captures one request received by the mock catalog.
type RecordedRequest struct {
	Method     string
	Path       string
	Body       map[string]any
	ReceivedAt time.Time
}

// MockCatalog simulates the catalog API: login, email lookup, and CRUD for
// categories and products. It records every request for assertion and can
// switch list envelopes or fail on demand.
type MockCatalog struct {
	t      *testing.T
	server *httptest.Server

	mu         sync.Mutex
	nextID     int
	categories []map[string]any
	products   []map[string]any
	received   []*RecordedRequest

	listShape    ListShape
	failLists    int // remaining list calls to fail with 500
	password     string
	knownEmails  map[string]bool
	tokenExpired bool
}

// NewMockCatalog starts a mock catalog server. The default login password
// is "correct-horse"; known emails can be added with KnowEmail.
func NewMockCatalog(t *testing.T) *MockCatalog {
	t.Helper()

	mc := &MockCatalog{
		t:           t,
		nextID:      100,
		password:    "correct-horse",
		knownEmails: map[string]bool{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /login", mc.handleLogin)
	mux.HandleFunc("GET /users/check-email", mc.handleCheckEmail)
	mux.HandleFunc("GET /categories", mc.handleList("categories", &mc.categories))
	mux.HandleFunc("POST /categories", mc.handleCreate(&mc.categories))
	mux.HandleFunc("PUT /categories/{id}", mc.handleUpdate(&mc.categories))
	mux.HandleFunc("DELETE /categories/{id}", mc.handleDelete(&mc.categories))
	mux.HandleFunc("GET /products", mc.handleList("products", &mc.products))
	mux.HandleFunc("POST /products", mc.handleCreate(&mc.products))
	mux.HandleFunc("PUT /products/{id}", mc.handleUpdate(&mc.products))
	mux.HandleFunc("DELETE /products/{id}", mc.handleDelete(&mc.products))

	mc.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mc.record(r)
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(mc.server.Close)

	return mc
}

// URL returns the mock catalog's base URL.
func (mc *MockCatalog) URL() string { return mc.server.URL }

// SeedCategory adds a category and returns its id.
func (mc *MockCatalog) SeedCategory(name, description string) string {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	id := mc.allocID()
	mc.categories = append(mc.categories, map[string]any{
		"id": id, "name": name, "description": description,
	})
	return id
}

// SeedProduct adds a product and returns its id.
func (mc *MockCatalog) SeedProduct(name, categoryID string, price float64, stock int) string {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	id := mc.allocID()
	mc.products = append(mc.products, map[string]any{
		"id": id, "name": name, "description": name + " description",
		"price": price, "stock": stock, "categoryId": categoryID,
		"imageUrl": "https://img.test/" + id + ".png",
	})
	return id
}

// SetListShape switches the envelope used for list responses.
func (mc *MockCatalog) SetListShape(shape ListShape) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.listShape = shape
}

// FailNextLists makes the next n list calls answer 500.
func (mc *MockCatalog) FailNextLists(n int) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.failLists = n
}

// KnowEmail registers an email for the check-email endpoint.
func (mc *MockCatalog) KnowEmail(email string) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.knownEmails[email] = true
}

// IssueExpiredTokens makes subsequent logins hand out already-expired
// tokens.
func (mc *MockCatalog) IssueExpiredTokens() {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.tokenExpired = true
}

// Received returns all recorded requests matching method and path prefix.
func (mc *MockCatalog) Received(method, pathPrefix string) []*RecordedRequest {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	var out []*RecordedRequest
	for _, r := range mc.received {
		if r.Method == method && len(r.Path) >= len(pathPrefix) && r.Path[:len(pathPrefix)] == pathPrefix {
			out = append(out, r)
		}
	}
	return out
}

// CategoryCount returns the number of categories the mock holds.
func (mc *MockCatalog) CategoryCount() int {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return len(mc.categories)
}

// --- handlers ---

func (mc *MockCatalog) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	json.NewDecoder(r.Body).Decode(&req)

	mc.mu.Lock()
	password := mc.password
	expired := mc.tokenExpired
	mc.mu.Unlock()

	if req.Password != password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "invalid credentials"})
		return
	}

	exp := time.Now().Add(time.Hour)
	if expired {
		exp = time.Now().Add(-time.Hour)
	}
	claims := jwt.MapClaims{"sub": req.Email, "exp": exp.Unix()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("mock-secret"))
	if err != nil {
		mc.t.Fatalf("mock: sign token: %v", err)
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"token":    token,
		"fullName": "Ana Torres",
	})
}

func (mc *MockCatalog) handleCheckEmail(w http.ResponseWriter, r *http.Request) {
	mc.mu.Lock()
	exists := mc.knownEmails[r.URL.Query().Get("email")]
	mc.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]bool{"exists": exists})
}

func (mc *MockCatalog) handleList(plural string, items *[]map[string]any) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		mc.mu.Lock()
		defer mc.mu.Unlock()

		if mc.failLists > 0 {
			mc.failLists--
			writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "catalog exploded"})
			return
		}

		snapshot := make([]map[string]any, len(*items))
		copy(snapshot, *items)

		switch mc.listShape {
		case ShapeBareArray:
			writeJSON(w, http.StatusOK, snapshot)
		case ShapeDataEnvelope:
			writeJSON(w, http.StatusOK, map[string]any{"data": snapshot})
		case ShapePluralEnvelope:
			writeJSON(w, http.StatusOK, map[string]any{plural: snapshot})
		case ShapeMalformed:
			writeJSON(w, http.StatusOK, map[string]any{"unexpected": "shape"})
		}
	}
}

func (mc *MockCatalog) handleCreate(items *[]map[string]any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(r)
		mc.mu.Lock()
		defer mc.mu.Unlock()
		body["id"] = mc.allocID()
		*items = append(*items, body)
		writeJSON(w, http.StatusCreated, body)
	}
}

func (mc *MockCatalog) handleUpdate(items *[]map[string]any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		body := decodeBody(r)
		mc.mu.Lock()
		defer mc.mu.Unlock()
		for i, item := range *items {
			if fmt.Sprint(item["id"]) == id {
				body["id"] = id
				(*items)[i] = body
				writeJSON(w, http.StatusOK, body)
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "not found"})
	}
}

func (mc *MockCatalog) handleDelete(items *[]map[string]any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		mc.mu.Lock()
		defer mc.mu.Unlock()
		for i, item := range *items {
			if fmt.Sprint(item["id"]) == id {
				*items = append((*items)[:i], (*items)[i+1:]...)
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "not found"})
	}
}

// --- helpers ---

func (mc *MockCatalog) allocID() string {
	mc.nextID++
	return strconv.Itoa(mc.nextID)
}

func (mc *MockCatalog) record(r *http.Request) {
	rec := &RecordedRequest{
		Method:     r.Method,
		Path:       r.URL.Path,
		ReceivedAt: time.Now(),
	}
	if r.Body != nil {
		raw, _ := io.ReadAll(r.Body)
		r.Body.Close()
		if len(raw) > 0 {
			var body map[string]any
			if json.Unmarshal(raw, &body) == nil {
				rec.Body = body
			}
			r.Body = io.NopCloser(bytes.NewReader(raw))
		}
	}
	mc.mu.Lock()
	mc.received = append(mc.received, rec)
	mc.mu.Unlock()
}

func decodeBody(r *http.Request) map[string]any {
	body := map[string]any{}
	json.NewDecoder(r.Body).Decode(&body)
	return body
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
