// Package backend is the HTTP client for the external catalog API: entity
// list/create/update/delete, login, and the email-existence check. All
// failures are converted to *model.ErrorEnvelope values here so callers
// never see raw transport errors.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mercadito/console/internal/config"
	"github.com/mercadito/console/model"
)

const maxResponseBytes = 10 << 20

// Client talks to the catalog API. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// New creates a backend client. A zero cfg.Timeout means requests have no
// client-side deadline; failures then surface only through the backend's
// own response or a transport-level error.
func New(cfg config.BackendConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxConnsPerHost:     50,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		logger: logger,
	}
}

// HealthCheck reports whether the catalog API is reachable. Any HTTP
// response counts as healthy; only transport-level failures are errors.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))
	return nil
}

// Categories returns the store for category operations.
func (c *Client) Categories() *CategoryStore { return &CategoryStore{client: c} }

// Products returns the store for product operations.
func (c *Client) Products() *ProductStore { return &ProductStore{client: c} }

// Login exchanges credentials for a bearer token and display name.
func (c *Client) Login(ctx context.Context, email, password string) (model.Credentials, error) {
	payload := map[string]string{"email": email, "password": password}
	body, err := c.do(ctx, http.MethodPost, "/login", nil, payload)
	if err != nil {
		return model.Credentials{}, err
	}

	var creds model.Credentials
	if jsonErr := json.Unmarshal(body, &creds); jsonErr != nil || creds.Token == "" {
		return model.Credentials{}, model.NewMalformedResponseError(
			"the login response did not contain a token",
		)
	}
	return creds, nil
}

// CheckEmail reports whether an account exists for the given email address.
func (c *Client) CheckEmail(ctx context.Context, email string) (bool, error) {
	query := url.Values{"email": {email}}
	body, err := c.do(ctx, http.MethodGet, "/users/check-email", query, nil)
	if err != nil {
		return false, err
	}

	var resp struct {
		Exists bool `json:"exists"`
	}
	if jsonErr := json.Unmarshal(body, &resp); jsonErr != nil {
		return false, model.NewMalformedResponseError(
			"the check-email response was not in an expected format",
		)
	}
	return resp.Exists, nil
}

// do performs a single request. There is no retry: every retry in this
// system is a fresh, explicit user action.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload any) ([]byte, error) {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("backend: marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("backend: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("backend request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		if isConnectionError(err) || ctx.Err() != nil {
			return nil, model.NewBackendUnavailableError()
		}
		return nil, model.NewBackendUnavailableError()
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, model.NewBackendUnavailableError()
	}

	c.logger.Debug("backend request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, model.NewBackendError(resp.StatusCode, serverMessage(body))
	}
	return body, nil
}

// serverMessage pulls a human-readable message out of an error response
// body, if the backend provided one.
func serverMessage(body []byte) string {
	var parsed struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ""
	}
	if parsed.Message != "" {
		return parsed.Message
	}
	return parsed.Error
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	if errors.As(err, &netErr) {
		return true
	}
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}
