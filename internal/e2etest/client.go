package e2etest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Client is a cookie-aware HTTP client for talking to a test server.
type Client struct {
	baseURL    string
	fqdn       string
	origin     string
	httpClient *http.Client
}

// NewClient creates a client for the server at baseURL. The cookie jar keeps
// the session across requests.
func NewClient(baseURL, fqdn, origin string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("new cookie jar: %w", err)
	}
	return &Client{
		baseURL: baseURL,
		fqdn:    fqdn,
		origin:  origin,
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: 30 * time.Second,
		},
	}, nil
}

// WaitForReady polls path until the server responds with 200 OK.
func (c *Client) WaitForReady(ctx context.Context, path string) error {
	for {
		resp, err := c.Get(ctx, path)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("server not ready: %w", ctx.Err())
		case <-time.After(10 * time.Millisecond):
		}
	}
}

// Get issues a GET request. The caller closes the response body.
func (c *Client) Get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	return resp, nil
}

// GetDoc issues a GET request and parses the response body as HTML.
func (c *Client) GetDoc(ctx context.Context, path string) (*goquery.Document, error) {
	resp, err := c.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return doc, nil
}

// PostJSON issues a POST request with a JSON body. A nil body sends an empty
// request. The caller closes the response body.
func (c *Client) PostJSON(ctx context.Context, path string, body any) (*http.Response, error) {
	return c.sendJSON(ctx, http.MethodPost, path, body)
}

// PutJSON issues a PUT request with a JSON body. The caller closes the
// response body.
func (c *Client) PutJSON(ctx context.Context, path string, body any) (*http.Response, error) {
	return c.sendJSON(ctx, http.MethodPut, path, body)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader = strings.NewReader("")
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	return resp, nil
}

// DecodeJSON decodes the response body into v and closes it.
func DecodeJSON(resp *http.Response, v any) error {
	defer func() { _ = resp.Body.Close() }()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Login attaches an email identity to the client's session.
func (c *Client) Login(ctx context.Context, email string) error {
	resp, err := c.PostJSON(ctx, "/api/login", map[string]string{"email": email})
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("login failed with status %d", resp.StatusCode)
	}
	return nil
}

// Logout drops the client's session identity.
func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.PostJSON(ctx, "/api/logout", nil)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("logout failed with status %d", resp.StatusCode)
	}
	return nil
}
