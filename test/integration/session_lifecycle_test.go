package integration

import (
	"net/http"
	"testing"
)

func TestLoginLogoutLifecycle(t *testing.T) {
	h := NewHarness(t)
	h.Catalog.SeedCategory("Drinks", "Cold and hot")

	// Wrong password is turned away by the backend.
	resp := h.Login("ana@example.com", "wrong")
	h.AssertStatus(resp, http.StatusUnauthorized)

	// Successful login returns the display name and sets the cookie.
	resp = h.Login("ana@example.com", "correct-horse")
	var loginBody struct {
		FullName string `json:"fullName"`
	}
	h.ParseJSON(resp, &loginBody)
	if loginBody.FullName != "Ana Torres" {
		t.Fatalf("fullName = %q", loginBody.FullName)
	}

	// Session probe reflects the live session.
	var probe struct {
		Authenticated bool   `json:"authenticated"`
		FullName      string `json:"fullName"`
	}
	h.ParseJSON(h.GET("/ui/session"), &probe)
	if !probe.Authenticated || probe.FullName != "Ana Torres" {
		t.Fatalf("probe = %+v", probe)
	}

	// Guarded routes now work.
	resp = h.GET("/ui/categories")
	h.AssertStatus(resp, http.StatusOK)
	drain(resp)

	// Logout invalidates both the cookie and the stored credentials.
	resp = h.POST("/ui/logout", nil)
	h.AssertStatus(resp, http.StatusNoContent)
	drain(resp)

	resp = h.GET("/ui/categories")
	h.AssertStatus(resp, http.StatusUnauthorized)
	drain(resp)

	h.ParseJSON(h.GET("/ui/session"), &probe)
	if probe.Authenticated {
		t.Fatal("probe should be unauthenticated after logout")
	}
}

func TestExpiredTokenSessionRejected(t *testing.T) {
	h := NewHarness(t)
	h.Catalog.IssueExpiredTokens()

	// The backend happily issues the token; the console accepts the login.
	resp := h.Login("ana@example.com", "correct-horse")
	h.AssertStatus(resp, http.StatusOK)
	drain(resp)

	// But the guard inspects exp on every request and turns it away.
	resp = h.GET("/ui/categories")
	h.AssertStatus(resp, http.StatusUnauthorized)
	drain(resp)
}

func TestGuardedRouteWithoutCookie(t *testing.T) {
	h := NewHarness(t)

	resp := h.GET("/ui/products")
	h.AssertStatus(resp, http.StatusUnauthorized)
	drain(resp)
}

func TestCheckEmailProxy(t *testing.T) {
	h := NewHarness(t)
	h.Catalog.KnowEmail("ana@example.com")

	var body struct {
		Exists bool `json:"exists"`
	}
	h.ParseJSON(h.GET("/ui/check-email?email=ana%40example.com"), &body)
	if !body.Exists {
		t.Fatal("expected known email")
	}

	h.ParseJSON(h.GET("/ui/check-email?email=nobody%40example.com"), &body)
	if body.Exists {
		t.Fatal("expected unknown email")
	}
}

func TestHealthAndReady(t *testing.T) {
	h := NewHarness(t)

	resp := h.GET("/ui/health")
	h.AssertStatus(resp, http.StatusOK)
	drain(resp)
}
