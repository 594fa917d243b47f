package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bufbuild/httplb"
	"github.com/google/uuid"
)

// TokenSource supplies the current bearer token for outgoing requests. An
// empty string means no Authorization header is attached.
type TokenSource interface {
	Token() string
}

// Options configures a Client.
type Options struct {
	// BaseURL is the fixed origin every relative path is resolved against,
	// e.g. "https://shop.example.com/api".
	BaseURL string
	// Timeout bounds each request. Zero leaves the underlying client's
	// default in place.
	Timeout time.Duration
}

// Client is the shared HTTP layer under every resource client: it resolves
// relative paths against the base URL, attaches the bearer token and encodes
// request bodies. Non-2xx responses come back as *Error. No retries.
type Client struct {
	base   string
	http   *httplb.Client
	tokens TokenSource
	logger *log.Logger
}

// New validates the base URL and builds a Client. tokens may be nil for
// unauthenticated use.
func New(opts Options, tokens TokenSource, logger *log.Logger) (*Client, error) {
	u, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: unsupported scheme %q", opts.BaseURL, u.Scheme)
	}

	var lbOpts []httplb.ClientOption
	if opts.Timeout > 0 {
		lbOpts = append(lbOpts, httplb.WithDefaultTimeout(opts.Timeout))
	}

	return &Client{
		base:   strings.TrimRight(u.String(), "/"),
		http:   httplb.NewClient(lbOpts...),
		tokens: tokens,
		logger: logger,
	}, nil
}

// Close releases the underlying connection pools.
func (c *Client) Close() error {
	return c.http.Close()
}

// Get performs a GET and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Do performs a request with an optional JSON body. out may be nil, a
// *json.RawMessage, or any JSON-decodable value.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	contentType := ""
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(encoded)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, reader, contentType, out)
}

// Upload performs a request with a multipart form-data body, used by the
// file-bearing write endpoints (category, banner and product images).
func (c *Client) Upload(ctx context.Context, method, path string, form *Form, out any) error {
	body, contentType, err := form.encode()
	if err != nil {
		return fmt.Errorf("encode %s %s form: %w", method, path, err)
	}
	return c.do(ctx, method, path, body, contentType, out)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	u := c.base + "/" + strings.TrimPrefix(path, "/")
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read response: %w", method, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Status: resp.StatusCode, Body: data}
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if raw, ok := out.(*json.RawMessage); ok {
		*raw = data
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}
