package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mergington/signup/internal/client/models"
	"github.com/mergington/signup/internal/common"
	"github.com/mergington/signup/internal/logging"
)

// maxBodySize caps how much of a response body is read.
const maxBodySize = 1 << 20

type HTTPClient struct {
	baseURL   string
	http      *http.Client
	log       logging.Logger
	requestID func() string
}

type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.http = hc }
}

// WithTimeout bounds every request. Zero leaves the transport default.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) {
		if d > 0 {
			hc := *c.http
			hc.Timeout = d
			c.http = &hc
		}
	}
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.log = l }
}

// NewHTTPClient returns a client for the API rooted at baseURL, e.g.
// "http://127.0.0.1:8000".
func NewHTTPClient(baseURL string, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("parse server url: unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse server url: missing host in %q", baseURL)
	}

	c := &HTTPClient{
		baseURL:   strings.TrimRight(u.String(), "/"),
		http:      &http.Client{},
		log:       logging.Nop{},
		requestID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *HTTPClient) ListActivities(ctx context.Context) (models.ActivityList, error) {
	var list models.ActivityList
	if err := c.do(ctx, http.MethodGet, "/activities", "", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *HTTPClient) Signup(ctx context.Context, token, activity, email string) (string, error) {
	var res models.ResultResponse
	if err := c.do(ctx, http.MethodPost, activityPath(activity, "signup", email), token, nil, &res); err != nil {
		return "", err
	}
	return res.Message, nil
}

func (c *HTTPClient) Unregister(ctx context.Context, token, activity, email string) (string, error) {
	var res models.ResultResponse
	if err := c.do(ctx, http.MethodDelete, activityPath(activity, "unregister", email), token, nil, &res); err != nil {
		return "", err
	}
	return res.Message, nil
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (models.LoginResponse, error) {
	var res models.LoginResponse
	body := models.LoginRequest{Username: username, Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", body, &res); err != nil {
		return models.LoginResponse{}, err
	}
	if res.Token == "" {
		return models.LoginResponse{}, fmt.Errorf("%w: login response without token", ErrDecode)
	}
	return res, nil
}

func (c *HTTPClient) Logout(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", token, nil, nil)
}

// activityPath builds /activities/{name}/{action}?email=..., escaping the
// name as a single path segment.
func activityPath(activity, action, email string) string {
	q := url.Values{"email": {email}}
	return "/activities/" + url.PathEscape(activity) + "/" + action + "?" + q.Encode()
}

// do sends one request. body, when non-nil, is sent as JSON; out, when
// non-nil, receives the decoded 2xx response.
func (c *HTTPClient) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	id := c.requestID()
	req.Header.Set(common.RequestIDHeaderName, id)

	log := c.log.With("method", method, "path", req.URL.Path, "request_id", id)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		log.Debug(ctx, "request failed", "err", err)
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("%w: read body: %w", ErrUnavailable, err)
	}
	log.Debug(ctx, "request done", "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var res struct {
			Detail json.RawMessage `json:"detail"`
		}
		if err := json.Unmarshal(data, &res); err != nil {
			return fmt.Errorf("%w: status %d: %w", ErrDecode, resp.StatusCode, err)
		}
		// Validation failures carry a list here; only a string is shown.
		var detail string
		_ = json.Unmarshal(res.Detail, &detail)
		return &APIError{StatusCode: resp.StatusCode, Detail: detail}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return nil
}
