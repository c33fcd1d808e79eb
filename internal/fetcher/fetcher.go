// Package fetcher resolves URLs into cleaned, bounded plain text for prompt
// grounding. Every failure mode is reported as a typed Result, never as an
// error: a report must still be generatable when every source fails to fetch.
package fetcher

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nextmind/nextmind-backend/internal/conf"
	"github.com/nextmind/nextmind-backend/internal/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/net/proxy"
)

const (
	// MaxContentLength bounds the extracted blob to keep prompts small.
	MaxContentLength = 10000

	// DefaultTimeout aborts a single attempt.
	DefaultTimeout = 15 * time.Second

	// DefaultMaxRetries bounds transient-failure retries per fetch.
	DefaultMaxRetries = 3

	// retryBaseDelay is the first backoff step; it doubles per attempt.
	retryBaseDelay = time.Second

	// maxBodySize caps how much of a response we read.
	maxBodySize = 2 << 20
)

// userAgents is a pool of realistic browser identities, picked at random per
// request to reduce trivial bot-blocking.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
}

// Fetcher fetches and extracts page content.
type Fetcher struct {
	cfg        *conf.FetcherConfig
	logger     *logger.Logger
	httpClient *http.Client
}

// New creates a Fetcher. Proxy (HTTP or SOCKS5, credentials in the URL) and
// relaxed TLS are honored when configured.
func New(cfg *conf.FetcherConfig, log *logger.Logger) (*Fetcher, error) {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	if cfg.InsecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	if cfg.ProxyURL != "" {
		if err := configureProxy(transport, cfg.ProxyURL); err != nil {
			return nil, err
		}
	}

	return &Fetcher{
		cfg:    cfg,
		logger: log,
		// Per-attempt deadlines come from the request context, not the client.
		httpClient: &http.Client{Transport: transport},
	}, nil
}

// configureProxy wires an HTTP or SOCKS5 proxy into the transport.
func configureProxy(transport *http.Transport, proxyURL string) error {
	parsed, err := url.Parse(proxyURL)
	if err != nil {
		return fmt.Errorf("invalid proxy url: %w", err)
	}

	switch parsed.Scheme {
	case "http", "https":
		transport.Proxy = http.ProxyURL(parsed)
	case "socks5":
		var auth *proxy.Auth
		if parsed.User != nil {
			password, _ := parsed.User.Password()
			auth = &proxy.Auth{User: parsed.User.Username(), Password: password}
		}
		dialer, err := proxy.SOCKS5("tcp", parsed.Host, auth, proxy.Direct)
		if err != nil {
			return fmt.Errorf("failed to create socks5 dialer: %w", err)
		}
		transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
			if cd, ok := dialer.(proxy.ContextDialer); ok {
				return cd.DialContext(ctx, network, addr)
			}
			return dialer.Dial(network, addr)
		}
	default:
		return fmt.Errorf("unsupported proxy scheme: %s", parsed.Scheme)
	}

	return nil
}

// timeout returns the per-attempt deadline.
func (f *Fetcher) timeout() time.Duration {
	if f.cfg.Timeout > 0 {
		return f.cfg.Timeout
	}
	return DefaultTimeout
}

// maxRetries returns the transient-failure retry bound.
func (f *Fetcher) maxRetries() int {
	if f.cfg.MaxRetries > 0 {
		return f.cfg.MaxRetries
	}
	return DefaultMaxRetries
}

// Fetch resolves a URL into a Result. It never returns an error: transient
// failures are retried with exponential backoff, and whatever remains is
// encoded in the Result status.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) *Result {
	var last *Result

	for attempt := 0; attempt <= f.maxRetries(); attempt++ {
		if attempt > 0 {
			delay := retryBaseDelay << uint(attempt-1)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return last
			}
		}

		last = f.fetchOnce(ctx, rawURL)
		if !last.transient() {
			return last
		}

		f.logger.Debug("retrying fetch",
			zap.String("url", rawURL),
			zap.Int("attempt", attempt+1),
		)
	}

	return last
}

// FetchContent is the prompt-boundary convenience wrapper: it always returns
// a string, rendering failures as bracketed sentinels.
func (f *Fetcher) FetchContent(ctx context.Context, rawURL string) string {
	return f.Fetch(ctx, rawURL).PromptText(rawURL)
}

// fetchOnce performs a single attempt with its own deadline. A timeout on
// this fetch never cancels sibling fetches: the deadline is derived, not
// shared.
func (f *Fetcher) fetchOnce(ctx context.Context, rawURL string) *Result {
	attemptCtx, cancel := context.WithTimeout(ctx, f.timeout())
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return &Result{Status: StatusNetworkError, Err: err}
	}
	f.setHeaders(req)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || attemptCtx.Err() != nil {
			return &Result{Status: StatusTimeout, Err: err, Timeout: f.timeout()}
		}
		return &Result{Status: StatusNetworkError, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden {
		return &Result{Status: StatusForbidden, StatusCode: resp.StatusCode}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Result{
			Status:     StatusHTTPError,
			StatusCode: resp.StatusCode,
			StatusText: http.StatusText(resp.StatusCode),
		}
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "text/html") && !strings.Contains(contentType, "application/xhtml+xml") {
		return &Result{Status: StatusNotHTML, ContentType: contentType}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || attemptCtx.Err() != nil {
			return &Result{Status: StatusTimeout, Err: err, Timeout: f.timeout()}
		}
		return &Result{Status: StatusNetworkError, Err: err}
	}

	page, err := Extract(string(body))
	if err != nil {
		return &Result{Status: StatusNetworkError, Err: err}
	}

	return &Result{Status: StatusOK, Text: page.Blob()}
}

// setHeaders dresses the request as a regular browser visit arriving from a
// search engine.
func (f *Fetcher) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", userAgents[rand.Intn(len(userAgents))])
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", acceptLanguage(f.cfg.Locale))
	req.Header.Set("Referer", "https://www.google.com/")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
}

func acceptLanguage(locale string) string {
	if locale == "id" {
		return "id-ID,id;q=0.9,en;q=0.8"
	}
	return "en-US,en;q=0.5"
}
