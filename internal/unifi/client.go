// Package unifi is a minimal client for the UniFi controller management API.
//
// A Client is one login session: build it, call Login once, then issue
// Sites and SiteDevices calls. Clients are not reused across searches so no
// cookie or TLS policy carries over.
package unifi

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout bounds every request issued by a Client.
	DefaultTimeout = 15 * time.Second

	maxResponseBytes = 64 << 20

	rcOK    = "ok"
	rcError = "error"
)

var (
	errInvalidServerURL = errors.New("server URL must be an absolute http or https URL")
	errInvalidProxyURL  = errors.New("proxy URL must be an absolute URL")
	errNoCertificates   = errors.New("no PEM certificates found")
	errMissingEnvelope  = errors.New("response is missing the meta/data envelope")
	errUnknownResult    = errors.New("unknown meta.rc value")
)

// Options configures a Client.
type Options struct {
	// Timeout bounds each request. Zero means DefaultTimeout.
	Timeout time.Duration
	// AcceptInvalidCerts disables TLS certificate verification.
	AcceptInvalidCerts bool
	// ProxyURL routes requests through an explicit proxy. Empty means the
	// environment's proxy settings.
	ProxyURL string
	// CAFile adds a PEM bundle to the system roots.
	CAFile string
	// RequestsPerSecond throttles calls to the controller. Zero disables it.
	RequestsPerSecond float64
	UserAgent         string
	Logger            *zap.SugaredLogger
}

// Client is an authenticated session against one controller.
type Client struct {
	http      *http.Client
	serverURL string
	limiter   *rate.Limiter
	userAgent string
	logger    *zap.SugaredLogger
	loggedIn  bool
}

type respMeta struct {
	RC  string `json:"rc"`
	Msg string `json:"msg,omitempty"`
}

type envelope struct {
	Meta *respMeta          `json:"meta"`
	Data *[]json.RawMessage `json:"data"`
}

// New builds an unauthenticated Client for serverURL.
func New(serverURL string, opts Options) (*Client, error) {
	base, err := normalizeServerURL(serverURL)
	if err != nil {
		return nil, clientError(err)
	}

	tlsConfig := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: opts.AcceptInvalidCerts, //nolint:gosec // G402: controllers commonly use self-signed certificates
	}

	if opts.CAFile != "" {
		pool, err := loadCertPool(opts.CAFile)
		if err != nil {
			return nil, clientError(err)
		}

		tlsConfig.RootCAs = pool
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = tlsConfig

	if opts.ProxyURL != "" {
		proxy, err := url.Parse(opts.ProxyURL)
		if err != nil {
			return nil, clientError(fmt.Errorf("%w: %w", errInvalidProxyURL, err))
		}

		if proxy.Scheme == "" || proxy.Host == "" {
			return nil, clientError(fmt.Errorf("%w: %q", errInvalidProxyURL, opts.ProxyURL))
		}

		transport.Proxy = http.ProxyURL(proxy)
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, clientError(err)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	return &Client{
		http: &http.Client{
			Timeout:   timeout,
			Transport: transport,
			Jar:       jar,
		},
		serverURL: base,
		limiter:   limiter,
		userAgent: opts.UserAgent,
		logger:    logger,
	}, nil
}

func normalizeServerURL(raw string) (string, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(raw), "/")

	u, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errInvalidServerURL, err)
	}

	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: %q", errInvalidServerURL, raw)
	}

	return trimmed, nil
}

func loadCertPool(path string) (*x509.CertPool, error) {
	pem, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA file: %w", err)
	}

	pool, err := x509.SystemCertPool()
	if err != nil || pool == nil {
		pool = x509.NewCertPool()
	}

	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("%w in %s", errNoCertificates, path)
	}

	return pool, nil
}

// ServerURL returns the normalized controller base URL.
func (c *Client) ServerURL() string { return c.serverURL }

// IsLoggedIn reports whether Login has succeeded.
func (c *Client) IsLoggedIn() bool { return c.loggedIn }

// Login authenticates the session. Both secrets and the encoded request body
// are wiped before Login returns, whatever the outcome.
func (c *Client) Login(ctx context.Context, username, password Secret) error {
	defer username.Wipe()
	defer password.Wipe()

	loginURL := c.serverURL + "/api/login"

	body := encodeLogin(username, password)
	defer clear(body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, loginURL, bytes.NewReader(body))
	if err != nil {
		return transportError(loginURL, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Referer", "/login")

	resp, err := c.do(ctx, req)

	// The request has been dispatched; drop the plaintext now.
	clear(body)
	username.Wipe()
	password.Wipe()

	if err != nil {
		return transportError(loginURL, err)
	}
	defer closeBody(resp)

	// The controller answers bad credentials with 400.
	if resp.StatusCode == http.StatusBadRequest {
		c.logger.Debugw("Controller rejected credentials", "url", loginURL)
		return &APIError{Kind: KindLoginAuthentication, URL: loginURL, StatusCode: resp.StatusCode, Err: ErrLoginAuthentication}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(loginURL, resp.StatusCode)
	}

	c.loggedIn = true
	c.logger.Debugw("Logged in to controller", "server", c.serverURL)

	return nil
}

// Sites lists every site visible to the logged-in user, in controller order.
func (c *Client) Sites(ctx context.Context) ([]Site, error) {
	c.mustBeLoggedIn("Sites")

	sitesURL := c.serverURL + "/api/self/sites"

	records, err := c.getEnvelope(ctx, sitesURL)
	if err != nil {
		return nil, err
	}

	sites := make([]Site, 0, len(records))

	for i, raw := range records {
		site, err := decodeSite(raw)
		if err != nil {
			return nil, jsonError(sitesURL, fmt.Errorf("site %d: %w", i, err))
		}

		sites = append(sites, site)
	}

	return sites, nil
}

// SiteDevices lists the devices of one site via stat/device-basic. Records
// that cannot be decoded, or carry an invalid MAC, are skipped.
func (c *Client) SiteDevices(ctx context.Context, siteCode string) ([]Device, error) {
	c.mustBeLoggedIn("SiteDevices")

	devicesURL := fmt.Sprintf("%s/api/s/%s/stat/device-basic", c.serverURL, url.PathEscape(siteCode))

	records, err := c.getEnvelope(ctx, devicesURL)
	if err != nil {
		return nil, err
	}

	devices := make([]Device, 0, len(records))

	for i, raw := range records {
		device, err := decodeDevice(raw)
		if err != nil {
			c.logger.Warnw("Skipping malformed device record",
				"url", devicesURL,
				"index", i,
				"error", err,
			)

			continue
		}

		devices = append(devices, device)
	}

	return devices, nil
}

func (c *Client) mustBeLoggedIn(op string) {
	if !c.loggedIn {
		panic("unifi: " + op + " called before a successful Login")
	}
}

func (c *Client) do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	return c.http.Do(req)
}

// getEnvelope issues a GET and returns the records of a {meta, data} envelope.
func (c *Client) getEnvelope(ctx context.Context, reqURL string) ([]json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, transportError(reqURL, err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.do(ctx, req)
	if err != nil {
		return nil, transportError(reqURL, err)
	}
	defer closeBody(resp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(reqURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, transportError(reqURL, err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, jsonError(reqURL, err)
	}

	if env.Meta == nil || env.Data == nil {
		return nil, jsonError(reqURL, errMissingEnvelope)
	}

	switch env.Meta.RC {
	case rcOK:
	case rcError:
		c.logger.Warnw("Controller reported an error result",
			"url", reqURL,
			"msg", env.Meta.Msg,
		)
	default:
		return nil, jsonError(reqURL, fmt.Errorf("%w: %q", errUnknownResult, env.Meta.RC))
	}

	return *env.Data, nil
}

func closeBody(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	_ = resp.Body.Close()
}
