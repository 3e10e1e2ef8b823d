// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/jeranaias/clinic-tui/internal/model"
)

// Configuration constants for the clinic API.
const (
	// DefaultBaseURL is the development backend.
	DefaultBaseURL = "https://localhost:7000/api"

	// DefaultTimeout is the default timeout for API requests.
	DefaultTimeout = 30 * time.Second

	// DefaultRateLimit is the sustained request rate per second.
	DefaultRateLimit = 10

	// DefaultBurst is the number of requests allowed at once.
	DefaultBurst = 20

	// MaxResponseSize is the maximum allowed response body size.
	// SECURITY: Response size limit prevents memory exhaustion.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB limit
)

// Error variables for common API failures.
var (
	// ErrUnauthorized is returned for any 401. The token store has already
	// been cleared and the auth-expired signal raised.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNoToken is returned when a login response carries no token.
	ErrNoToken = errors.New("login response did not include a token")

	// ErrResponseTooLarge is returned when a body exceeds MaxResponseSize.
	ErrResponseTooLarge = errors.New("response too large")
)

// Error is a non-2xx, non-401 response.
type Error struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("API error (HTTP %d): %s", e.Status, e.Message)
}

// Credentials is the token store as seen by the client.
type Credentials interface {
	SetToken(token, email string, role model.Role, validity time.Duration) error
	Token() (string, bool)
	Clear() error
}

// Raiser is notified when the backend rejects the credential.
type Raiser interface {
	Raise()
}

// Client talks to the clinic backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	creds      Credentials
	expired    Raiser
	limiter    *rate.Limiter
	validity   time.Duration
	log        *zap.Logger
}

// New creates a Client. expired may be nil.
func New(baseURL string, creds Credentials, expired Raiser) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: otelhttp.NewTransport(newTransport(false)),
		},
		creds:   creds,
		expired: expired,
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultBurst),
		log:     zap.NewNop(),
	}
}

func newTransport(insecure bool) *http.Transport {
	return &http.Transport{
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
			// Development backends run with self-signed certificates
			InsecureSkipVerify: insecure,
		},
	}
}

// WithTimeout sets the request timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	if timeout > 0 {
		c.httpClient.Timeout = timeout
	}
	return c
}

// WithRateLimit sets the outbound rate limit.
func (c *Client) WithRateLimit(perSecond float64, burst int) *Client {
	if perSecond > 0 && burst > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
	return c
}

// WithInsecureTLS disables certificate verification.
func (c *Client) WithInsecureTLS(insecure bool) *Client {
	c.httpClient.Transport = otelhttp.NewTransport(newTransport(insecure))
	return c
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	if hc != nil {
		c.httpClient = hc
	}
	return c
}

// WithValidity sets the validity window stored on login.
func (c *Client) WithValidity(d time.Duration) *Client {
	c.validity = d
	return c
}

// WithLogger sets the logger.
func (c *Client) WithLogger(log *zap.Logger) *Client {
	if log != nil {
		c.log = log
	}
	return c
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

// do sends a JSON request and decodes a JSON response into out (if non-nil).
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, ok := c.creds.Token(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("API request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	// Headers and bodies are never logged, they carry credentials and PHI
	c.log.Debug("API response",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if len(data) > MaxResponseSize {
		return ErrResponseTooLarge
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.handleUnauthorized(method, path)
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Error{Status: resp.StatusCode, Message: errorMessage(resp.StatusCode, data)}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) handleUnauthorized(method, path string) {
	c.log.Info("SESSION_REJECTED", zap.String("method", method), zap.String("path", path))
	if err := c.creds.Clear(); err != nil {
		c.log.Warn("failed to clear token store", zap.Error(err))
	}
	if c.expired != nil {
		c.expired.Raise()
	}
}

// errorMessage extracts a readable message from an error body. The backend
// answers with {"message"}, ASP.NET problem details, or plain text.
func errorMessage(status int, data []byte) string {
	var body struct {
		Message string              `json:"message"`
		Title   string              `json:"title"`
		Errors  map[string][]string `json:"errors"`
	}
	if json.Unmarshal(data, &body) == nil {
		if body.Message != "" {
			return body.Message
		}
		for _, msgs := range body.Errors {
			if len(msgs) > 0 {
				return msgs[0]
			}
		}
		if body.Title != "" {
			return body.Title
		}
	}
	if text := strings.TrimSpace(string(data)); text != "" && !strings.HasPrefix(text, "{") {
		if len(text) > 200 {
			text = text[:200]
		}
		return text
	}
	return http.StatusText(status)
}
