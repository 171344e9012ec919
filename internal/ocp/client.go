// Package ocp implements a client for the OceanBase Cloud Platform (OCP)
// REST API using access-key request signing.
package ocp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// originHeader identifies requests from this server to OCP.
	originHeader = "x-ocp-origin"
	originValue  = "mcp-server"

	defaultTimeout = 30 * time.Second

	// maxErrorBody bounds how much of an error response is kept for messages.
	maxErrorBody = 2048
)

// Client is an authenticated OCP API client. Every request is signed
// individually, so a Client is safe for concurrent use.
//
// Retrying transports must not be layered underneath: the signed Date header
// goes stale on replay, so each attempt needs a fresh signature.
type Client struct {
	httpClient *http.Client
	baseURL    string
	signer     *Signer
	logger     *slog.Logger
	now        func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithClock overrides the time source used for Date headers.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// NewClient creates a client for the OCP deployment at rawURL. The URL may
// be a bare authority like "127.0.0.1:8080" or carry an explicit scheme.
func NewClient(rawURL, accessKeyID, accessKeySecret string, opts ...Option) (*Client, error) {
	if rawURL == "" {
		return nil, &ConfigurationError{Field: "url"}
	}
	if !strings.Contains(rawURL, "://") {
		rawURL = "http://" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing OCP URL: %w", err)
	}
	if u.Host == "" {
		return nil, &ConfigurationError{Field: "url"}
	}

	signer, err := NewSigner(u.Host, accessKeyID, accessKeySecret)
	if err != nil {
		return nil, err
	}

	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    u.Scheme + "://" + u.Host,
		signer:     signer,
		logger:     slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Get performs a signed GET request and returns the response body.
func (c *Client) Get(ctx context.Context, path string, params map[string]string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, path, params, nil)
}

// Post performs a signed POST request with an optional JSON body.
func (c *Client) Post(ctx context.Context, path string, body any, params map[string]string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, path, params, body)
}

// Put performs a signed PUT request with an optional JSON body.
func (c *Client) Put(ctx context.Context, path string, body any, params map[string]string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPut, path, params, body)
}

// Delete performs a signed DELETE request.
func (c *Client) Delete(ctx context.Context, path string, params map[string]string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodDelete, path, params, nil)
}

// GetBinary performs a signed GET request and returns the raw response
// bytes. Used for report downloads.
func (c *Client) GetBinary(ctx context.Context, path string, params map[string]string) ([]byte, error) {
	raw, err := c.do(ctx, http.MethodGet, path, params, nil)
	if err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *Client) do(ctx context.Context, method, path string, params map[string]string, body any) ([]byte, error) {
	var payload []byte
	headers := map[string]string{originHeader: originValue}
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		headers["Content-Type"] = "application/json"
	}

	date := c.now().UTC().Format(http.TimeFormat)
	sig := SignRequest{
		Method:  method,
		Path:    path,
		Params:  params,
		Headers: headers,
		Body:    payload,
		Date:    date,
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		q := url.Values{}
		for k, v := range params {
			q.Set(k, v)
		}
		reqURL += "?" + q.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("Date", date)
	req.Header.Set("Authorization", c.signer.Authorization(sig))

	c.logger.Debug("ocp request", "method", method, "path", path, "params", len(params))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling OCP API: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading OCP response: %w", err)
	}

	c.logger.Debug("ocp response", "method", method, "path", path, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := string(data)
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody]
		}
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Method:     method,
			Path:       path,
			Body:       msg,
		}
	}
	return data, nil
}
