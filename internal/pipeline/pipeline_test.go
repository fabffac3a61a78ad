package pipeline

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcostache/pricescout/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func sampleRecord() *types.ProductRecord {
	return &types.ProductRecord{
		Query:    "iphone 15",
		Name:     "Apple iPhone 15 128GB",
		MinPrice: 3499.00,
		MaxPrice: 4099.90,
		Offers:   14,
		URL:      "https://compari.ro/telefon/apple-iphone-15-p123.html",
		Currency: "RON",
	}
}

type dropMiddleware struct{}

func (dropMiddleware) Name() string { return "drop" }
func (dropMiddleware) Process(*types.ProductRecord) (*types.ProductRecord, error) {
	return nil, nil
}

type failMiddleware struct{ err error }

func (failMiddleware) Name() string { return "fail" }
func (m failMiddleware) Process(*types.ProductRecord) (*types.ProductRecord, error) {
	return nil, m.err
}

type renameMiddleware struct{ name string }

func (renameMiddleware) Name() string { return "rename" }
func (m renameMiddleware) Process(r *types.ProductRecord) (*types.ProductRecord, error) {
	r.Name = m.name
	return r, nil
}

func TestEmptyPipelinePassesThrough(t *testing.T) {
	p := New(testLogger)
	in := sampleRecord()

	out, err := p.Process(in)

	require.NoError(t, err)
	assert.Same(t, in, out)
	assert.Equal(t, 0, p.Len())
}

func TestMiddlewareRunsInOrder(t *testing.T) {
	p := New(testLogger)
	p.Use(renameMiddleware{name: "first"})
	p.Use(renameMiddleware{name: "second"})
	require.Equal(t, 2, p.Len())

	out, err := p.Process(sampleRecord())

	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, "second", out.Name)
}

func TestDropStopsTheChain(t *testing.T) {
	p := New(testLogger)
	p.Use(dropMiddleware{})
	p.Use(renameMiddleware{name: "never"})

	out, err := p.Process(sampleRecord())

	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestFailureWrapsStageName(t *testing.T) {
	cause := fmt.Errorf("boom")
	p := New(testLogger)
	p.Use(failMiddleware{err: cause})

	out, err := p.Process(sampleRecord())

	assert.Nil(t, out)
	var pe *types.PipelineError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "fail", pe.Stage)
	assert.True(t, errors.Is(err, cause))
}

func TestTrimMiddleware(t *testing.T) {
	r := sampleRecord()
	r.Name = "  Apple iPhone 15 128GB \n"
	r.Query = " iphone 15 "
	r.URL = " https://compari.ro/p \t"

	out, err := TrimMiddleware{}.Process(r)

	require.NoError(t, err)
	assert.Equal(t, "Apple iPhone 15 128GB", out.Name)
	assert.Equal(t, "iphone 15", out.Query)
	assert.Equal(t, "https://compari.ro/p", out.URL)
}

func TestValidateMiddleware(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*types.ProductRecord)
		wantOK bool
	}{
		{"valid record", func(*types.ProductRecord) {}, true},
		{"min equals max", func(r *types.ProductRecord) { r.MinPrice, r.MaxPrice = 100, 100 }, true},
		{"zero offers", func(r *types.ProductRecord) { r.Offers = 0 }, true},
		{"empty query", func(r *types.ProductRecord) { r.Query = "" }, false},
		{"empty url", func(r *types.ProductRecord) { r.URL = "" }, false},
		{"negative min", func(r *types.ProductRecord) { r.MinPrice = -1 }, false},
		{"min above max", func(r *types.ProductRecord) { r.MinPrice, r.MaxPrice = 200, 100 }, false},
		{"negative offers", func(r *types.ProductRecord) { r.Offers = -3 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := sampleRecord()
			tt.mutate(r)

			out, err := ValidateMiddleware{}.Process(r)

			if tt.wantOK {
				require.NoError(t, err)
				assert.Same(t, r, out)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestCurrencyMiddleware(t *testing.T) {
	m := CurrencyMiddleware{Default: "RON"}

	r := sampleRecord()
	r.Currency = ""
	out, err := m.Process(r)
	require.NoError(t, err)
	assert.Equal(t, "RON", out.Currency)

	r = sampleRecord()
	r.Currency = "EUR"
	out, err = m.Process(r)
	require.NoError(t, err)
	assert.Equal(t, "EUR", out.Currency)
}
