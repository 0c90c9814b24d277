package cryptoya

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"quotedash/internal/httpx"
)

func newTestProvider(t *testing.T, payload string) *Provider {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(payload))
	}))
	t.Cleanup(srv.Close)
	return New(Config{URL: srv.URL}, httpx.New(5*time.Second))
}

func TestFetch_SingleKnownExchange(t *testing.T) {
	p := newTestProvider(t, `{"binance":{"ask":1010,"bid":1000,"time":1717000000}}`)
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return fixed }

	quotes, err := p.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	q := quotes[0]
	require.Equal(t, "binance", q.InstrumentCode)
	require.Equal(t, "USDT", q.CurrencyCode)
	require.Equal(t, "Binance", q.DisplayName)
	require.Equal(t, 1000.0, q.BuyPrice)
	require.Equal(t, 1010.0, q.SellPrice)
	require.Equal(t, fixed, q.UpdatedAt)
}

func TestFetch_UnknownExchangesSkipped(t *testing.T) {
	p := newTestProvider(t, `{
		"binance":{"ask":1010,"bid":1000},
		"shadyexchange":{"ask":900,"bid":890},
		"ripio":{"ask":1020,"bid":1005}
	}`)

	quotes, err := p.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, quotes, 2)
	// Allow-list order, not payload order.
	require.Equal(t, "binance", quotes[0].InstrumentCode)
	require.Equal(t, "ripio", quotes[1].InstrumentCode)
}

func TestFetch_MissingLegsSkipped(t *testing.T) {
	p := newTestProvider(t, `{"binance":{"ask":1010},"belo":{"bid":995,"ask":1012}}`)

	quotes, err := p.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	require.Equal(t, "belo", quotes[0].InstrumentCode)
}

func TestFetch_TransportFailureIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)
	p := New(Config{URL: srv.URL}, httpx.New(5*time.Second))

	quotes, err := p.Fetch(context.Background())
	require.Error(t, err)
	require.Nil(t, quotes)
}

func TestFetch_MalformedBodyIsError(t *testing.T) {
	p := newTestProvider(t, `not json at all`)

	_, err := p.Fetch(context.Background())
	require.Error(t, err)
}
