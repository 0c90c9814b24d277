package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"quotedash/internal/arbitrage"
	"quotedash/internal/band"
	"quotedash/internal/quote"
	"quotedash/internal/settings"
)

type stubRates struct {
	byCategory map[quote.Category][]quote.Quote
}

func (s *stubRates) FetchQuotes(_ context.Context, category quote.Category) []quote.Quote {
	return s.byCategory[category]
}

type stubSummarizer struct {
	text string
	err  error
}

func (s *stubSummarizer) Summarize(context.Context, []quote.Quote) (string, error) {
	return s.text, s.err
}

func q(code string, buy, sell float64) quote.Quote {
	return quote.Quote{InstrumentCode: code, CurrencyCode: "USD", DisplayName: code, BuyPrice: buy, SellPrice: sell}
}

func newTestApp(t *testing.T) *application {
	t.Helper()
	return &application{
		rates: &stubRates{byCategory: map[quote.Category][]quote.Quote{
			quote.CategoryFXRetail: {
				q("oficial", 1000, 1020),
				q("blue", 1180, 1220),
				q("bolsa", 1150, 1190),
			},
			quote.CategoryPolicyBand: {
				q("mayorista", 995, 1005),
			},
		}},
		arbitrageCfg: arbitrage.DefaultConfig(),
		bandCfg:      band.DefaultConfig(),
		settings:     settings.NewMemStore(),
		log:          zap.NewNop(),
		fallbackText: "El servicio de análisis de mercado no está disponible momentáneamente.",
	}
}

func doRequest(app *application, method, target string, body string) *httptest.ResponseRecorder {
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/quotes", app.handleQuotes)
	mux.HandleFunc("/api/arbitrage", app.handleArbitrage)
	mux.HandleFunc("/api/band", app.handleBand)
	mux.HandleFunc("/api/analysis", app.handleAnalysis)
	mux.HandleFunc("/api/settings", app.handleSettings)
	mux.ServeHTTP(w, r)
	return w
}

func TestHandleQuotes_OrdersPerView(t *testing.T) {
	app := newTestApp(t)

	w := doRequest(app, http.MethodGet, "/api/quotes?view=fx-retail", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp quotesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Quotes, 3)
	assert.Equal(t, "blue", resp.Quotes[0].InstrumentCode)
	assert.Equal(t, "oficial", resp.Quotes[1].InstrumentCode)
	assert.Equal(t, "bolsa", resp.Quotes[2].InstrumentCode)
}

func TestHandleQuotes_BadView(t *testing.T) {
	app := newTestApp(t)

	w := doRequest(app, http.MethodGet, "/api/quotes", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(app, http.MethodGet, "/api/quotes?view=stonks", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleQuotes_EmptyBoardIsStillOK(t *testing.T) {
	app := newTestApp(t)
	app.rates = &stubRates{byCategory: map[quote.Category][]quote.Quote{}}

	w := doRequest(app, http.MethodGet, "/api/quotes?view=crypto-p2p", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"quotes":[]`)
}

func TestHandleArbitrage_UsesStoredSettings(t *testing.T) {
	app := newTestApp(t)

	w := doRequest(app, http.MethodGet, "/api/arbitrage", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp arbitrageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Available)
	assert.Equal(t, settings.DefaultThreshold, resp.ThresholdUsed)
	assert.True(t, resp.AlertsEnabled)
	assert.Len(t, resp.Strategies, 4)
}

func TestHandleArbitrage_QueryOverrides(t *testing.T) {
	app := newTestApp(t)

	w := doRequest(app, http.MethodGet, "/api/arbitrage?threshold=9.5&enabled=false", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp arbitrageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 9.5, resp.ThresholdUsed)
	assert.False(t, resp.AlertsEnabled)

	w = doRequest(app, http.MethodGet, "/api/arbitrage?threshold=-1", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(app, http.MethodGet, "/api/arbitrage?enabled=sometimes", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleArbitrage_UnavailableWithoutRequiredQuotes(t *testing.T) {
	app := newTestApp(t)
	app.rates = &stubRates{byCategory: map[quote.Category][]quote.Quote{
		quote.CategoryFXRetail: {q("blue", 1180, 1220)},
	}}

	w := doRequest(app, http.MethodGet, "/api/arbitrage", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp arbitrageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Available)
	assert.Empty(t, resp.Strategies)
}

func TestHandleBand(t *testing.T) {
	app := newTestApp(t)

	w := doRequest(app, http.MethodGet, "/api/band", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp bandResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Available)
	require.NotNil(t, resp.Band)
	assert.InDelta(t, 753.75, resp.Band.LowerBound, 0.001)
	assert.InDelta(t, 1055.25, resp.Band.UpperBound, 0.001)
}

func TestHandleBand_NoReference(t *testing.T) {
	app := newTestApp(t)
	app.rates = &stubRates{byCategory: map[quote.Category][]quote.Quote{}}

	w := doRequest(app, http.MethodGet, "/api/band", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp bandResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Available)
	assert.Nil(t, resp.Band)
}

func TestHandleAnalysis(t *testing.T) {
	app := newTestApp(t)
	app.summarizer = &stubSummarizer{text: "Mercado calmo."}

	w := doRequest(app, http.MethodGet, "/api/analysis", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp analysisResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Mercado calmo.", resp.Text)
	assert.False(t, resp.Degraded)
}

func TestHandleAnalysis_FallbackOnErrorOrDisabled(t *testing.T) {
	app := newTestApp(t)
	app.summarizer = &stubSummarizer{err: errors.New("upstream down")}

	w := doRequest(app, http.MethodGet, "/api/analysis", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp analysisResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, app.fallbackText, resp.Text)
	assert.True(t, resp.Degraded)

	// Disabled analysis behaves the same way.
	app.summarizer = nil
	w = doRequest(app, http.MethodGet, "/api/analysis", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, app.fallbackText, resp.Text)
	assert.True(t, resp.Degraded)
}

func TestHandleSettings_GetAndPut(t *testing.T) {
	app := newTestApp(t)

	w := doRequest(app, http.MethodGet, "/api/settings", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp settingsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, settings.DefaultThreshold, resp.Threshold)
	assert.True(t, resp.AlertsEnabled)

	w = doRequest(app, http.MethodPut, "/api/settings", `{"threshold": 2.5, "alerts_enabled": false}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2.5, resp.Threshold)
	assert.False(t, resp.AlertsEnabled)

	// Persisted for subsequent reads.
	assert.Equal(t, 2.5, app.settings.Threshold())
}

func TestHandleSettings_Rejections(t *testing.T) {
	app := newTestApp(t)

	w := doRequest(app, http.MethodPut, "/api/settings", `{"threshold": -2}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(app, http.MethodPut, "/api/settings", `{"bogus": 1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(app, http.MethodPut, "/api/settings", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(app, http.MethodDelete, "/api/settings", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
