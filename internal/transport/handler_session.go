package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/mercadito/console/internal/config"
	"github.com/mercadito/console/internal/session"
	"github.com/mercadito/console/model"
)

// EmailChecker reports whether an account exists for an email address.
// Satisfied by the backend client.
type EmailChecker interface {
	CheckEmail(ctx context.Context, email string) (bool, error)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	FullName string `json:"fullName"`
}

type sessionResponse struct {
	Authenticated bool   `json:"authenticated"`
	FullName      string `json:"fullName,omitempty"`
}

type checkEmailResponse struct {
	Exists bool `json:"exists"`
}

func handleLogin(sessions *session.Manager, cfg config.SessionConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, model.NewBadRequestError("invalid JSON body"))
			return
		}
		req.Email = strings.TrimSpace(req.Email)
		if req.Email == "" || req.Password == "" {
			WriteError(w, model.NewBadRequestError("email and password are required"))
			return
		}

		sid, fullName, err := sessions.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			WriteError(w, err)
			return
		}

		http.SetCookie(w, sessionCookie(cfg, sid, int(cfg.TTL.Seconds())))
		WriteJSON(w, http.StatusOK, loginResponse{FullName: fullName})
	}
}

func handleLogout(sessions *session.Manager, cfg config.SessionConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid := sessionIDFromRequest(r, cfg.CookieName)
		if err := sessions.Logout(r.Context(), sid); err != nil {
			WriteError(w, err)
			return
		}

		// Expire the cookie regardless of whether the session existed.
		http.SetCookie(w, sessionCookie(cfg, "", -1))
		w.WriteHeader(http.StatusNoContent)
	}
}

// handleSession reports whether the caller's session is live. It never
// returns an error status so the login page can poll it.
func handleSession(sessions *session.Manager, cfg config.SessionConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid := sessionIDFromRequest(r, cfg.CookieName)
		creds, ok := sessions.Valid(r.Context(), sid)
		if !ok {
			WriteJSON(w, http.StatusOK, sessionResponse{Authenticated: false})
			return
		}
		WriteJSON(w, http.StatusOK, sessionResponse{Authenticated: true, FullName: creds.FullName})
	}
}

func handleCheckEmail(checker EmailChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := strings.TrimSpace(r.URL.Query().Get("email"))
		if email == "" {
			WriteError(w, model.NewBadRequestError("email query parameter is required"))
			return
		}

		exists, err := checker.CheckEmail(r.Context(), email)
		if err != nil {
			WriteError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, checkEmailResponse{Exists: exists})
	}
}

func sessionCookie(cfg config.SessionConfig, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     cfg.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}
