// Package monitor fetches XML statistics documents from a remote
// monitoring endpoint and hands back their structured form.
package monitor

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
	"golang.org/x/net/html"

	"github.com/dgallion1/statflat/internal/record"
	"github.com/dgallion1/statflat/internal/structurer"
)

// StatsPath is the statistics resource on the monitoring endpoint.
const StatsPath = "/rest/v1/monitor/stats"

// Options configures a Client.
type Options struct {
	BaseURL     string // e.g. https://appliance:9443
	Username    string
	Password    string
	InsecureTLS bool          // skip certificate validation (self-signed appliances)
	Timeout     time.Duration // per-request timeout
	Selector    string        // optional XPath narrowing the subtree to structure
}

// Client retrieves statistics documents over HTTPS with basic credentials.
type Client struct {
	baseURL    string
	username   string
	password   string
	selector   *xpath.Expr
	httpClient *http.Client
}

// NewClient validates the options (including the XPath selector, if any)
// and returns a ready client.
func NewClient(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("monitor base URL is required")
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if opts.InsecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	c := &Client{
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		username: opts.Username,
		password: opts.Password,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
	if opts.Selector != "" {
		expr, err := xpath.Compile(opts.Selector)
		if err != nil {
			return nil, fmt.Errorf("invalid selector %q: %w", opts.Selector, err)
		}
		c.selector = expr
	}
	return c, nil
}

// StatusError is a non-2xx response from the monitoring endpoint.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("monitor returned status %d: %s", e.Code, e.Body)
}

// Fetch retrieves one statistics document and returns its structured form.
// The document element itself is unwrapped: its children become the
// top-level fields. No retries; a failed fetch yields no partial result.
func (c *Client) Fetch(ctx context.Context) (*record.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+StatsPath, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Accept", "application/xml")
	req.Header.Set("Content-Type", "application/xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch stats: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read stats body: %w", err)
	}

	// Some appliances answer the stats URL with an HTML status page.
	if ct := resp.Header.Get("Content-Type"); strings.Contains(ct, "html") {
		doc, err := html.Parse(bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("parse html stats: %w", err)
		}
		return structurer.StructureHTML(doc, false), nil
	}

	doc, err := xmlquery.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse xml stats: %w", err)
	}

	target := doc
	if c.selector != nil {
		sel := xmlquery.QuerySelector(doc, c.selector)
		if sel == nil {
			return nil, fmt.Errorf("selector matched no nodes")
		}
		target = sel
	}
	return structurer.Structure(target, false), nil
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
