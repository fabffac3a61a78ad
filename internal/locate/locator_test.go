package locate

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcostache/pricescout/internal/config"
	"github.com/rcostache/pricescout/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func newTestLocator() *Locator {
	cfg := config.DefaultConfig()
	return New(&cfg.Site, testLogger)
}

func TestLocateProductMarkerWinsOverDomainOnly(t *testing.T) {
	l := newTestLocator()

	// The whole list is scanned for tier-1 candidates before falling
	// back, so the detail page wins even when it comes later.
	url, err := l.Locate([]string{
		"https://compari.ro/cat-xyz",
		"https://compari.ro/test-phone-p123",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://compari.ro/test-phone-p123", url)
}

func TestLocateFirstMatchInOrderWithinTier(t *testing.T) {
	l := newTestLocator()

	url, err := l.Locate([]string{
		"https://example.com/other",
		"https://compari.ro/first-phone-p1",
		"https://compari.ro/second-phone-p2",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://compari.ro/first-phone-p1", url)
}

func TestLocateDomainOnlyFallback(t *testing.T) {
	l := newTestLocator()

	url, err := l.Locate([]string{
		"https://example.com/other",
		"https://compari.ro/telefoane",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://compari.ro/telefoane", url)
}

func TestLocateNotFound(t *testing.T) {
	l := newTestLocator()

	for _, links := range [][]string{
		nil,
		{},
		{"https://example.com/a", "https://example.org/b"},
	} {
		_, err := l.Locate(links)
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrNotFound))
	}
}

func TestLocateConfigurableMarkers(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Site.Domain = "example.shop"
	cfg.Site.ProductMarker = "/product/"
	l := New(&cfg.Site, testLogger)

	url, err := l.Locate([]string{
		"https://example.shop/category/phones",
		"https://example.shop/product/phone-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://example.shop/product/phone-1", url)
}
