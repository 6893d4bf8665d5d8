// Package restapi implements the XML REST calls used to enumerate sites:
// sign-in, paginated site listing and sign-out.
package restapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// AuthHeader carries the session token on authenticated requests.
const AuthHeader = "X-Tableau-Auth"

// Client issues requests against one API root, e.g.
// https://tableau.example.com/api/3.19.
type Client struct {
	apiURL string
	http   *http.Client
	log    *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client, typically built by NewHTTPClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// New returns a Client for apiURL. Without options it uses
// http.DefaultClient and a no-op logger.
func New(apiURL string, opts ...Option) *Client {
	c := &Client{
		apiURL: strings.TrimRight(apiURL, "/"),
		http:   http.DefaultClient,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIURL returns the API root the client talks to.
func (c *Client) APIURL() string {
	return c.apiURL
}

// APIURL joins a server base URL and an API version.
func APIURL(server, version string) string {
	return fmt.Sprintf("%s/api/%s", strings.TrimRight(server, "/"), version)
}

// do sends one request and returns the status and the full body.
func (c *Client) do(ctx context.Context, method, url, token string, body []byte) (int, []byte, error) {
	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, rdr)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/xml")
	}
	if token != "" {
		req.Header.Set(AuthHeader, token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	c.log.Debug("api call",
		zap.String("method", method),
		zap.String("url", url),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(data)),
	)
	return resp.StatusCode, data, nil
}
