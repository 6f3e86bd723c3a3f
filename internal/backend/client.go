// Package backend is the typed client for the external tourism API. Every
// response is decoded into an explicit envelope and rejected unless it
// reports success.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultTimeout = 10 * time.Second

var (
	ErrUnavailable  = errors.New("backend unavailable")
	ErrUnsuccessful = errors.New("backend reported failure")
	ErrBadResponse  = errors.New("backend response malformed")
)

// maxBody bounds how much of a response is read.
const maxBody = 8 << 20

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// NewWithHTTPClient lets callers supply their own transport.
func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
	}
}

type envelope interface {
	succeeded() bool
	failure() string
}

type status struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (s status) succeeded() bool { return s.Success }

func (s status) failure() string {
	if s.Message != "" {
		return s.Message
	}
	return s.Error
}

func (c *Client) get(ctx context.Context, op, path string, q url.Values, out envelope) error {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")

	return c.do(op, req, out)
}

func (c *Client) post(ctx context.Context, op, path string, headers map[string]string, body any, out envelope) error {
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		if v != "" {
			req.Header.Set(k, v)
		}
	}

	return c.do(op, req, out)
}

func (c *Client) do(op string, req *http.Request, out envelope) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%s: %w: status %d", op, ErrUnavailable, resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return fmt.Errorf("%s: %w: status %d", op, ErrUnsuccessful, resp.StatusCode)
		}
		return fmt.Errorf("%s: %w: %v", op, ErrBadResponse, err)
	}

	if !out.succeeded() || resp.StatusCode >= http.StatusBadRequest {
		msg := out.failure()
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return fmt.Errorf("%s: %w: %s", op, ErrUnsuccessful, msg)
	}

	return nil
}
