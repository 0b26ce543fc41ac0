package datacanvas

import (
	"context"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the DataCanvas API base URL.
	DefaultBaseURL = "http://localhost:3001"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// EndpointDevices lists the devices of a project.
	EndpointDevices = "/api/access-keys/external/devices"

	// EndpointData lists datatable records grouped by device.
	EndpointData = "/api/access-keys/external/data"
)

// Config holds the access keys and connection settings of a Client.
type Config struct {
	// ClientKey is the access key client id (access_key_client). Required.
	ClientKey string
	// SecretKey is the access key secret (access_key_secret). Required.
	SecretKey string
	// ProjectID scopes every request to one project. Must be positive.
	ProjectID int
	// BaseURL overrides DefaultBaseURL. Must be an absolute https URL; plain
	// http is accepted for loopback hosts or with WithInsecureHTTP.
	BaseURL string
	// Timeout bounds each request. Zero means DefaultTimeout.
	Timeout time.Duration
}

// Client is a DataCanvas API client. It holds no mutable state after
// construction and is safe for concurrent use.
type Client struct {
	// Devices lists the devices registered in the project.
	Devices *DevicesService
	// Data retrieves datatable records.
	Data *DataService

	cfg        Config
	defaults   DataDefaults
	httpClient *http.Client
	logger     *zap.Logger
	metrics    *Metrics
	limiter    *rate.Limiter
	userAgent  string
	origin     string
	insecure   bool
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client. If its Timeout is zero the
// configured timeout is applied to a copy; the given client is not modified.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithOrigin sets the Origin header on every request. Servers that restrict
// access keys to allowed domains check it; browsers set it automatically,
// server-side callers must set it themselves.
func WithOrigin(origin string) Option {
	return func(c *Client) {
		c.origin = origin
	}
}

// WithInsecureHTTP allows a plain http base URL on a non-loopback host. The
// secret key is then sent unencrypted.
func WithInsecureHTTP() Option {
	return func(c *Client) {
		c.insecure = true
	}
}

// NewClient creates a new DataCanvas API client.
// It validates cfg and opts eagerly and never touches the network.
// All failures are KindConfiguration errors.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	resolved, err := resolveConfig(cfg)
	if err != nil {
		return nil, err
	}

	c := &Client{
		cfg:       resolved,
		defaults:  DefaultDataDefaults(),
		logger:    zap.NewNop(),
		userAgent: userAgent(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.defaults.validate(); err != nil {
		return nil, err
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if !c.insecure && !secureBaseURL(resolved.BaseURL) {
		return nil, configurationErrorf("base URL %q must use https unless the host is loopback", resolved.BaseURL)
	}
	if c.origin != "" {
		u, err := url.Parse(c.origin)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, configurationErrorf("origin %q must have a scheme and host", c.origin)
		}
	}

	switch {
	case c.httpClient == nil:
		c.httpClient = &http.Client{
			Timeout:   resolved.Timeout,
			Transport: newTransport(),
		}
	case c.httpClient.Timeout == 0:
		hc := *c.httpClient
		hc.Timeout = resolved.Timeout
		c.httpClient = &hc
	}

	exec := &executor{
		baseURL: resolved.BaseURL,
		creds: credentials{
			clientKey: resolved.ClientKey,
			secretKey: resolved.SecretKey,
			projectID: resolved.ProjectID,
		},
		httpClient: c.httpClient,
		logger:     c.logger,
		metrics:    c.metrics,
		limiter:    c.limiter,
		userAgent:  c.userAgent,
		origin:     c.origin,
	}

	c.Devices = &DevicesService{exec: exec}
	c.Data = &DataService{exec: exec, defaults: c.defaults}

	return c, nil
}

// resolveConfig validates cfg and fills in defaults.
func resolveConfig(cfg Config) (Config, error) {
	cfg.ClientKey = strings.TrimSpace(cfg.ClientKey)
	cfg.SecretKey = strings.TrimSpace(cfg.SecretKey)

	if cfg.ClientKey == "" {
		return Config{}, configurationErrorf("client key (access_key_client) is required")
	}
	if cfg.SecretKey == "" {
		return Config{}, configurationErrorf("secret key (access_key_secret) is required")
	}
	if cfg.ProjectID <= 0 {
		return Config{}, configurationErrorf("project id must be a positive integer, got %d", cfg.ProjectID)
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || !u.IsAbs() || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return Config{}, configurationErrorf("base URL %q must be an absolute http or https URL", cfg.BaseURL)
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	switch {
	case cfg.Timeout == 0:
		cfg.Timeout = DefaultTimeout
	case cfg.Timeout < 0:
		return Config{}, configurationErrorf("timeout must be positive, got %s", cfg.Timeout)
	}

	return cfg, nil
}

// secureBaseURL reports whether raw uses https or targets a loopback host.
// raw has already passed resolveConfig.
func secureBaseURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme == "https" {
		return true
	}
	host := u.Hostname()
	if strings.EqualFold(host, "localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func newTransport() *http.Transport {
	return &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}
}

// BaseURL returns the resolved API base URL.
func (c *Client) BaseURL() string {
	return c.cfg.BaseURL
}

// ProjectID returns the project the client is scoped to.
func (c *Client) ProjectID() int {
	return c.cfg.ProjectID
}

// Timeout returns the per-request timeout in effect. A client passed with
// WithHTTPClient keeps its own non-zero Timeout, which then wins over Config.
func (c *Client) Timeout() time.Duration {
	return c.httpClient.Timeout
}

// DataDefaults returns the defaults applied to data queries.
func (c *Client) DataDefaults() DataDefaults {
	return c.defaults
}

// ListDevices returns all devices of the project.
// It is shorthand for c.Devices.List.
func (c *Client) ListDevices(ctx context.Context) (*DeviceListResult, error) {
	return c.Devices.List(ctx)
}

// ListData returns one page of datatable records.
// It is shorthand for c.Data.List.
func (c *Client) ListData(ctx context.Context, q DataQuery) (*DataListResult, error) {
	return c.Data.List(ctx, q)
}
