package session

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mercadito/console/model"
)

type fakeAuth struct {
	creds model.Credentials
	err   error
	calls int
}

func (f *fakeAuth) Login(context.Context, string, string) (model.Credentials, error) {
	f.calls++
	return f.creds, f.err
}

func liveCredentials(t *testing.T) model.Credentials {
	t.Helper()
	return model.Credentials{
		Token:    signedToken(t, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}),
		FullName: "Ana Torres",
	}
}

func TestManagerLoginOpensSession(t *testing.T) {
	auth := &fakeAuth{creds: liveCredentials(t)}
	m := NewManager(auth, NewMemoryStore(), time.Hour, nil)

	sid, fullName, err := m.Login(context.Background(), "ana@example.com", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if sid == "" {
		t.Fatal("expected a session id")
	}
	if fullName != "Ana Torres" {
		t.Fatalf("fullName = %q", fullName)
	}

	creds, ok := m.Valid(context.Background(), sid)
	if !ok {
		t.Fatal("fresh session should be valid")
	}
	if creds.FullName != "Ana Torres" {
		t.Fatalf("creds = %+v", creds)
	}
}

func TestManagerLoginFailurePropagates(t *testing.T) {
	auth := &fakeAuth{err: model.NewUnauthorizedError("invalid credentials")}
	m := NewManager(auth, NewMemoryStore(), time.Hour, nil)

	_, _, err := m.Login(context.Background(), "ana@example.com", "wrong")
	if ee := model.AsEnvelope(err); ee.Code != model.ErrUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestManagerLogoutInvalidatesSession(t *testing.T) {
	auth := &fakeAuth{creds: liveCredentials(t)}
	m := NewManager(auth, NewMemoryStore(), time.Hour, nil)

	sid, _, err := m.Login(context.Background(), "ana@example.com", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := m.Logout(context.Background(), sid); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, ok := m.Valid(context.Background(), sid); ok {
		t.Fatal("session should be invalid after logout")
	}
}

func TestManagerLogoutUnknownSessionSucceeds(t *testing.T) {
	m := NewManager(&fakeAuth{}, NewMemoryStore(), time.Hour, nil)
	if err := m.Logout(context.Background(), "never-issued"); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if err := m.Logout(context.Background(), ""); err != nil {
		t.Fatalf("Logout empty: %v", err)
	}
}

func TestManagerValidRejectsPartialCredentials(t *testing.T) {
	store := NewMemoryStore()
	m := NewManager(&fakeAuth{}, store, time.Hour, nil)
	ctx := context.Background()

	token := liveCredentials(t).Token

	cases := []struct {
		name  string
		creds model.Credentials
	}{
		{"missing full name", model.Credentials{Token: token}},
		{"missing token", model.Credentials{FullName: "Ana Torres"}},
		{"expired token", model.Credentials{
			Token:    signedToken(t, jwt.MapClaims{"exp": time.Now().Add(-time.Hour).Unix()}),
			FullName: "Ana Torres",
		}},
		{"malformed token", model.Credentials{Token: "abc", FullName: "Ana Torres"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := store.Save(ctx, "sid", tc.creds, time.Hour); err != nil {
				t.Fatalf("Save: %v", err)
			}
			if _, ok := m.Valid(ctx, "sid"); ok {
				t.Fatal("session should be invalid")
			}
		})
	}
}

func TestManagerValidEmptySessionID(t *testing.T) {
	m := NewManager(&fakeAuth{}, NewMemoryStore(), time.Hour, nil)
	if _, ok := m.Valid(context.Background(), ""); ok {
		t.Fatal("empty session id must be invalid")
	}
}
