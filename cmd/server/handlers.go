package main

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"quotedash/internal/arbitrage"
	"quotedash/internal/band"
	"quotedash/internal/metrics"
	"quotedash/internal/quote"
	"quotedash/internal/rates"
	"quotedash/internal/settings"
)

// quoteService is what the handlers need from the orchestrator.
type quoteService interface {
	FetchQuotes(ctx context.Context, category quote.Category) []quote.Quote
}

// summarizer is the AI market-flash collaborator.
type summarizer interface {
	Summarize(ctx context.Context, quotes []quote.Quote) (string, error)
}

type application struct {
	rates        quoteService
	arbitrageCfg arbitrage.Config
	bandCfg      band.Config
	settings     settings.Repository
	summarizer   summarizer // nil when analysis is disabled
	log          *zap.Logger
	fallbackText string
}

type quotesResponse struct {
	View      string        `json:"view"`
	Quotes    []quote.Quote `json:"quotes"`
	FetchedAt time.Time     `json:"fetched_at"`
}

func (app *application) handleQuotes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	view := r.URL.Query().Get("view")
	if view == "" {
		http.Error(w, "missing view query param", http.StatusBadRequest)
		return
	}
	category, err := quote.ParseCategory(view)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	quotes := rates.Order(category, app.rates.FetchQuotes(r.Context(), category))
	if quotes == nil {
		quotes = []quote.Quote{}
	}
	writeJSON(w, quotesResponse{View: view, Quotes: quotes, FetchedAt: time.Now().UTC()})
}

type arbitrageResponse struct {
	Available     bool                 `json:"available"`
	ThresholdUsed float64              `json:"threshold_percent"`
	AlertsEnabled bool                 `json:"alerts_enabled"`
	Strategies    []arbitrage.Strategy `json:"strategies"`
}

func (app *application) handleArbitrage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	threshold := app.settings.Threshold()
	enabled := app.settings.AlertsEnabled()
	if v := r.URL.Query().Get("threshold"); v != "" {
		x, err := strconv.ParseFloat(v, 64)
		if err != nil || x < 0 {
			http.Error(w, "invalid threshold", http.StatusBadRequest)
			return
		}
		threshold = x
	}
	if v := r.URL.Query().Get("enabled"); v != "" {
		x, err := strconv.ParseBool(v)
		if err != nil {
			http.Error(w, "invalid enabled flag", http.StatusBadRequest)
			return
		}
		enabled = x
	}

	quotes := app.rates.FetchQuotes(r.Context(), quote.CategoryFXRetail)
	strategies := arbitrage.Compute(app.arbitrageCfg, quotes, threshold, enabled)
	resp := arbitrageResponse{
		Available:     len(strategies) > 0,
		ThresholdUsed: threshold,
		AlertsEnabled: enabled,
		Strategies:    strategies,
	}
	if resp.Strategies == nil {
		resp.Strategies = []arbitrage.Strategy{}
	}
	writeJSON(w, resp)
}

type bandResponse struct {
	Available bool        `json:"available"`
	Band      *band.Model `json:"band,omitempty"`
}

func (app *application) handleBand(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	quotes := app.rates.FetchQuotes(r.Context(), quote.CategoryPolicyBand)
	ref, ok := band.Reference(quotes)
	if !ok {
		writeJSON(w, bandResponse{Available: false})
		return
	}
	model := band.Compute(app.bandCfg, ref)
	writeJSON(w, bandResponse{Available: true, Band: &model})
}

type analysisResponse struct {
	Text     string `json:"text"`
	Degraded bool   `json:"degraded"`
}

func (app *application) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if app.summarizer == nil {
		writeJSON(w, analysisResponse{Text: app.fallbackText, Degraded: true})
		return
	}
	quotes := app.rates.FetchQuotes(r.Context(), quote.CategoryFXRetail)
	text, err := app.summarizer.Summarize(r.Context(), quotes)
	if err != nil {
		app.log.Warn("market analysis failed", zap.Error(err))
		metrics.AnalysisErrors.Inc()
		writeJSON(w, analysisResponse{Text: app.fallbackText, Degraded: true})
		return
	}
	writeJSON(w, analysisResponse{Text: text})
}

type settingsPayload struct {
	Threshold     *float64 `json:"threshold"`
	AlertsEnabled *bool    `json:"alerts_enabled"`
}

type settingsResponse struct {
	Threshold     float64 `json:"threshold"`
	AlertsEnabled bool    `json:"alerts_enabled"`
}

func (app *application) handleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, settingsResponse{Threshold: app.settings.Threshold(), AlertsEnabled: app.settings.AlertsEnabled()})
	case http.MethodPut:
		var p settingsPayload
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&p); err != nil {
			http.Error(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
		if p.Threshold != nil {
			if err := app.settings.SetThreshold(*p.Threshold); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
		}
		if p.AlertsEnabled != nil {
			if err := app.settings.SetAlertsEnabled(*p.AlertsEnabled); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
		}
		writeJSON(w, settingsResponse{Threshold: app.settings.Threshold(), AlertsEnabled: app.settings.AlertsEnabled()})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.WriteHeader(http.StatusOK)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
