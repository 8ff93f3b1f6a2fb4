package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/proxy"

	"github.com/nao1215/vncfetch/internal/model"
)

// API paths below the base URL.
const (
	searchPath     = "/api/v1/search"
	screenshotPath = "/api/v1/screenshot/"
)

// Defaults used when no option overrides them.
const (
	defaultTimeout     = 60 * time.Second
	defaultUserAgent   = "vncfetch"
	defaultMaxBodySize = 32 * 1024 * 1024
)

// Client talks to one VNC resolver deployment.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	userAgent   string
	maxBodySize int64
	logger      *slog.Logger

	timeout      time.Duration
	proxyAddress string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithMaxBodySize caps how many bytes of a response body are read.
func WithMaxBodySize(n int64) Option {
	return func(c *Client) {
		c.maxBodySize = n
	}
}

// WithSOCKS5Proxy routes every request through a SOCKS5 proxy at addr.
func WithSOCKS5Proxy(addr string) Option {
	return func(c *Client) {
		c.proxyAddress = addr
	}
}

// WithHTTPClient replaces the underlying HTTP client. Timeout and proxy
// options are ignored when this is used.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a Client for the resolver at baseURL.
// It does not contact the server.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", baseURL)
	}

	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		userAgent:   defaultUserAgent,
		maxBodySize: defaultMaxBodySize,
		timeout:     defaultTimeout,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		transport, err := newTransport(c.proxyAddress)
		if err != nil {
			return nil, err
		}
		c.httpClient = &http.Client{
			Timeout:   c.timeout,
			Transport: transport,
		}
	}

	return c, nil
}

// newTransport returns an HTTP transport, dialing through a SOCKS5 proxy
// when proxyAddress is set.
func newTransport(proxyAddress string) (*http.Transport, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone() //nolint:forcetypeassert // DefaultTransport is always *http.Transport
	if proxyAddress == "" {
		return transport, nil
	}

	if _, _, err := net.SplitHostPort(proxyAddress); err != nil {
		return nil, ErrInvalidProxyAddress
	}

	dialer, err := proxy.SOCKS5("tcp", proxyAddress, nil, proxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
	}
	ctxDialer, ok := dialer.(proxy.ContextDialer)
	if !ok {
		return nil, errors.New("SOCKS5 dialer does not support contexts")
	}

	transport.Proxy = nil
	transport.DialContext = ctxDialer.DialContext
	return transport, nil
}

// BaseURL returns the resolver root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SearchURL returns the search endpoint URL for countryCode.
func (c *Client) SearchURL(countryCode string) string {
	q := url.Values{}
	q.Set("country", countryCode)
	q.Set("full", "true")
	return c.baseURL + searchPath + "?" + q.Encode()
}

// ScreenshotURL returns the screenshot URL of the record with the given id.
func (c *Client) ScreenshotURL(id string) string {
	return c.baseURL + screenshotPath + url.PathEscape(id)
}

// Search fetches every result for countryCode and adds the imagelink field
// to each record. The code is sent as given.
func (c *Client) Search(ctx context.Context, countryCode string) (*model.ResultSet, error) {
	if countryCode == "" {
		return nil, ErrEmptyCountry
	}

	endpoint := c.SearchURL(countryCode)
	c.logger.Debug("searching", "country", countryCode, "url", endpoint)

	body, err := c.get(ctx, endpoint, "application/json")
	if err != nil {
		return nil, err
	}

	rs := model.NewResultSet(countryCode)
	if err := json.Unmarshal(body, rs); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParse, endpoint, err)
	}
	rs.Country = countryCode

	for i, rec := range rs.Results {
		if !rec.HasID() {
			c.logger.Warn("result without id; image link is incomplete", "index", i)
		}
		rec.Set(model.FieldImageLink, model.String(c.ScreenshotURL(rec.ID())))
	}

	c.logger.Debug("search completed", "country", countryCode, "results", rs.Count())
	return rs, nil
}

// Screenshot downloads the image at imageURL.
func (c *Client) Screenshot(ctx context.Context, imageURL string) ([]byte, error) {
	c.logger.Debug("downloading screenshot", "url", imageURL)
	return c.get(ctx, imageURL, "image/*")
}

// get performs a GET request and returns the body of a 2xx response.
func (c *Client) get(ctx context.Context, endpoint, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", accept)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096)) //nolint:errcheck
		return nil, &StatusError{
			URL:        endpoint,
			StatusCode: resp.StatusCode,
			Status:     statusText(resp),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrNetwork, endpoint, err)
	}
	if int64(len(body)) > c.maxBodySize {
		return nil, fmt.Errorf("%w: %s: response larger than %d bytes", ErrNetwork, endpoint, c.maxBodySize)
	}
	return body, nil
}

// statusText returns resp.Status, falling back to the numeric code.
func statusText(resp *http.Response) string {
	if resp.Status != "" {
		return resp.Status
	}
	return strconv.Itoa(resp.StatusCode)
}
