package fetcher

import (
	"compress/gzip"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcostache/pricescout/internal/config"
	"github.com/rcostache/pricescout/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

const productHTML = `<html><body>
<h1>Apple iPhone 15 128GB</h1>
<p>de la 3.499,00 lei in 14 oferte</p>
</body></html>`

func httpTestConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Fetcher.Type = "http"
	cfg.Fetcher.RenderTimeout = 5 * time.Second
	return cfg
}

func newSession(t *testing.T, cfg *config.Config) *HTTPSession {
	t.Helper()
	hs, err := NewHTTPSession(cfg, testLogger)
	require.NoError(t, err)
	t.Cleanup(func() { hs.Close() })
	return hs
}

func TestHTTPRenderPlainBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		assert.Contains(t, r.Header.Get("Accept-Encoding"), "br")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(productHTML))
	}))
	defer srv.Close()

	hs := newSession(t, httpTestConfig())
	page, err := hs.Render(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Equal(t, srv.URL, page.URL)
	assert.Contains(t, page.BodyText, "3.499,00 lei")
	assert.Equal(t, "Apple iPhone 15 128GB", page.Heading())
	assert.False(t, page.FetchedAt.IsZero())
}

func TestHTTPRenderGzipBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		gz.Write([]byte(productHTML))
		gz.Close()
	}))
	defer srv.Close()

	hs := newSession(t, httpTestConfig())
	page, err := hs.Render(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Contains(t, page.BodyText, "14 oferte")
}

func TestHTTPRenderBrotliBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Content-Encoding", "br")
		br := brotli.NewWriter(w)
		br.Write([]byte(productHTML))
		br.Close()
	}))
	defer srv.Close()

	hs := newSession(t, httpTestConfig())
	page, err := hs.Render(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Contains(t, page.BodyText, "3.499,00 lei")
}

func TestHTTPRenderFollowsRedirect(t *testing.T) {
	var srvURL string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			http.Redirect(w, r, srvURL+"/final", http.StatusFound)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(productHTML))
	}))
	defer srv.Close()
	srvURL = srv.URL

	hs := newSession(t, httpTestConfig())
	page, err := hs.Render(context.Background(), srv.URL+"/")

	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/final", page.URL)
}

func TestHTTPRenderBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not here", http.StatusNotFound)
	}))
	defer srv.Close()

	hs := newSession(t, httpTestConfig())
	_, err := hs.Render(context.Background(), srv.URL)

	var fe *types.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, srv.URL, fe.URL)
}

func TestHTTPRenderEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html><body><script>only()</script></body></html>"))
	}))
	defer srv.Close()

	hs := newSession(t, httpTestConfig())
	_, err := hs.Render(context.Background(), srv.URL)

	assert.True(t, errors.Is(err, types.ErrEmptyPage))
}

func TestHTTPRenderTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	cfg := httpTestConfig()
	cfg.Fetcher.RenderTimeout = 100 * time.Millisecond

	hs := newSession(t, cfg)
	_, err := hs.Render(context.Background(), srv.URL)

	assert.True(t, errors.Is(err, types.ErrTimeout))
}

func TestHTTPRenderInvalidURL(t *testing.T) {
	hs := newSession(t, httpTestConfig())
	_, err := hs.Render(context.Background(), "http://bad url with spaces")

	assert.True(t, errors.Is(err, types.ErrInvalidURL))
}

func TestNewSelectsSessionType(t *testing.T) {
	cfg := httpTestConfig()
	s, err := New(cfg, testLogger)
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, "http", s.Type())

	cfg.Fetcher.Type = "telnet"
	_, err = New(cfg, testLogger)
	assert.Error(t, err)
}
