package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/bnema/tracker-accounts-cli/internal/domain"
)

const (
	maxResponseBytes      = 4 << 20
	defaultRequestTimeout = 30 * time.Second
)

var errNotFound = errors.New("resource not found")

// Client talks to the tracker REST API and its Hub. One Client serves every account;
// credentials arrive per call through domain.APIHandle.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
	userAgent  string
	deviceID   string
	logger     *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.timeout = timeout }
}

func WithUserAgent(userAgent string) Option {
	return func(c *Client) { c.userAgent = userAgent }
}

// WithDeviceID sets the id used when subscribing this installation to push delivery.
func WithDeviceID(deviceID string) Option {
	return func(c *Client) { c.deviceID = deviceID }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		timeout:    defaultRequestTimeout,
		userAgent:  "tracker-accounts-cli",
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) getJSON(ctx context.Context, endpoint string, headers map[string]string, out any) error {
	return c.do(ctx, http.MethodGet, endpoint, headers, nil, out)
}

func (c *Client) postJSON(ctx context.Context, endpoint string, headers map[string]string, body any, out any) error {
	return c.do(ctx, http.MethodPost, endpoint, headers, body, out)
}

func (c *Client) do(ctx context.Context, method, endpoint string, headers map[string]string, body any, out any) error {
	requestCtx := ctx
	if _, hasDeadline := ctx.Deadline(); !hasDeadline && c.timeout > 0 {
		var cancel context.CancelFunc
		requestCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(requestCtx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %s %s: %w", domain.ErrNetwork, method, endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("backend request",
		slog.String("method", method),
		slog.String("url", endpoint),
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(started)),
	)

	if err := statusError(resp); err != nil {
		return fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s response: %w", domain.ErrNetwork, endpoint, err)
	}
	return nil
}

type apiError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func statusError(resp *http.Response) error {
	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}

	var payload apiError
	_ = json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload)
	detail := fmt.Sprintf("status %d", resp.StatusCode)
	if payload.Error != "" {
		detail += ": " + payload.Error
		if payload.ErrorDescription != "" {
			detail += ": " + payload.ErrorDescription
		}
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", domain.ErrAuth, detail)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", errNotFound, detail)
	case http.StatusNotImplemented:
		return fmt.Errorf("%w: %s", domain.ErrUnsupported, detail)
	}
	return fmt.Errorf("%w: %s", domain.ErrNetwork, detail)
}
