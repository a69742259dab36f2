// Package apiclient is the HTTP client of the connaissance-client API used by
// the terminal application.
package apiclient

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

	"github.com/sqli-workshop/connaissance-client/internal/core/domain"
)

const (
	DefaultTimeout = 10 * time.Second
	basePath       = "/v1/connaissance-clients"
)

type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*Client)

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) ListClients(ctx context.Context) ([]*domain.Client, error) {
	var out []*domain.Client
	if err := c.do(ctx, http.MethodGet, basePath, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	var out domain.Client
	if err := c.do(ctx, http.MethodGet, clientPath(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateClient(ctx context.Context, d domain.ClientDraft) (*domain.Client, error) {
	var out domain.Client
	if err := c.do(ctx, http.MethodPost, basePath, d.Normalize(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateClient(ctx context.Context, id string, d domain.ClientDraft) (*domain.Client, error) {
	var out domain.Client
	if err := c.do(ctx, http.MethodPut, clientPath(id), d.Normalize(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ChangeAdresse(ctx context.Context, id string, d domain.AdresseDraft) (*domain.Client, error) {
	var out domain.Client
	if err := c.do(ctx, http.MethodPut, clientPath(id)+"/adresse", d.Normalize(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ChangeSituation(ctx context.Context, id string, d domain.SituationDraft) (*domain.Client, error) {
	var out domain.Client
	if err := c.do(ctx, http.MethodPut, clientPath(id)+"/situation", d, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteClient(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, clientPath(id), nil, nil)
}

func clientPath(id string) string {
	return basePath + "/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	op := method + " " + path

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s: %w", op, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", op, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{}
	if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil {
		apiErr = &APIError{}
	}
	apiErr.Status = resp.StatusCode
	if apiErr.Message == "" && apiErr.Err == "" {
		apiErr.Err = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
