package fetcher

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"golang.org/x/net/html/charset"

	"github.com/rcostache/pricescout/internal/config"
	"github.com/rcostache/pricescout/internal/types"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// HTTPSession renders pages with plain requests. It cannot execute
// JavaScript, so it only suits pages that render server-side.
type HTTPSession struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
	logger    *slog.Logger
}

// NewHTTPSession creates an HTTP session with a shared cookie jar.
func NewHTTPSession(cfg *config.Config, logger *slog.Logger) (*HTTPSession, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		// We handle decompression ourselves (including brotli).
		DisableCompression: true,
	}

	ua := cfg.Fetcher.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}

	return &HTTPSession{
		client: &http.Client{
			Transport: transport,
			Jar:       jar,
			Timeout:   cfg.Fetcher.RenderTimeout,
		},
		timeout:   cfg.Fetcher.RenderTimeout,
		userAgent: ua,
		logger:    logger.With("component", "http_session"),
	}, nil
}

// Render implements Session.
func (hs *HTTPSession) Render(ctx context.Context, url string) (*types.RenderedPage, error) {
	start := time.Now()

	reqCtx, cancel := context.WithTimeout(ctx, hs.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &types.FetchError{URL: url, Err: fmt.Errorf("%w: %v", types.ErrInvalidURL, err)}
	}
	req.Header.Set("User-Agent", hs.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")
	req.Header.Set("Accept-Language", "ro-RO,ro;q=0.9,en;q=0.8")

	resp, err := hs.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &types.FetchError{URL: url, Err: types.ErrTimeout}
		}
		return nil, &types.FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &types.FetchError{URL: url, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	body, err := decodeBody(resp)
	if err != nil {
		return nil, &types.FetchError{URL: url, Err: err}
	}

	markup := string(body)
	bodyText := types.TextFromHTML(markup)
	if bodyText == "" {
		return nil, &types.FetchError{URL: url, Err: types.ErrEmptyPage}
	}

	duration := time.Since(start)
	hs.logger.Debug("page fetched",
		"url", url,
		"status", resp.StatusCode,
		"size", len(body),
		"duration", duration,
	)

	return &types.RenderedPage{
		URL:           resp.Request.URL.String(),
		HTML:          markup,
		BodyText:      bodyText,
		FetchDuration: duration,
		FetchedAt:     time.Now(),
	}, nil
}

// Close releases idle connections.
func (hs *HTTPSession) Close() error {
	hs.client.CloseIdleConnections()
	return nil
}

// Type returns the session type identifier.
func (hs *HTTPSession) Type() string { return "http" }

// decodeBody decompresses the response body and converts it to UTF-8
// based on the declared charset.
func decodeBody(resp *http.Response) ([]byte, error) {
	var reader io.Reader = resp.Body

	switch strings.ToLower(resp.Header.Get("Content-Encoding")) {
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	case "deflate":
		fl := flate.NewReader(resp.Body)
		defer fl.Close()
		reader = fl
	case "br":
		reader = brotli.NewReader(resp.Body)
	}

	utf8Reader, err := charset.NewReader(reader, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("charset reader: %w", err)
	}

	return io.ReadAll(utf8Reader)
}
