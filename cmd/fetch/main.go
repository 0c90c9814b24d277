package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"quotedash/internal/arbitrage"
	"quotedash/internal/band"
	"quotedash/internal/config"
	"quotedash/internal/httpx"
	"quotedash/internal/logger"
	"quotedash/internal/provider/cryptoya"
	"quotedash/internal/provider/dolarapi"
	"quotedash/internal/quote"
	"quotedash/internal/rates"
	"quotedash/internal/settings"
)

// One-shot fetch: pull a view category, print the ordered quotes and the
// derived panels as JSON.
func main() {
	_ = godotenv.Load()

	var view string
	var configPath string
	var timeout int
	flag.StringVar(&view, "view", "fx-retail", "view category: fx-retail|bank-retail|crypto-p2p|policy-band")
	flag.StringVar(&configPath, "config", os.Getenv("CONFIG_FILE"), "path to config.json (optional)")
	flag.IntVar(&timeout, "timeout", 0, "request timeout seconds (overrides config)")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if timeout > 0 {
		cfg.Server.RequestTimeoutSec = timeout
	}
	category, err := quote.ParseCategory(view)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := logger.New()
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	hc := httpx.New(time.Duration(cfg.Server.RequestTimeoutSec) * time.Second)
	client := dolarapi.NewClient(
		dolarapi.WithBaseURL(cfg.DolarAPI.BaseURL),
		dolarapi.WithHTTPClient(hc.HTTP),
	)
	svc := rates.NewService(rates.Sources{
		FXRetail:        dolarapi.NewSource("dolarapi-fx", client, "dolares", "USD"),
		BankRetail:      dolarapi.NewSource("dolarapi-banks", client, "cotizaciones", "USD"),
		PolicyBand:      dolarapi.NewSource("dolarapi-band", client, "dolares", "USD"),
		CryptoExchanges: cryptoya.New(cryptoya.Config{URL: cfg.CryptoYa.URL, Exchanges: cfg.CryptoYa.Exchanges}, hc),
		CryptoBenchmark: dolarapi.NewBenchmark(client),
	}, log)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.RequestTimeoutSec+5)*time.Second)
	defer cancel()

	quotes := rates.Order(category, svc.FetchQuotes(ctx, category))

	out := struct {
		View       string               `json:"view"`
		Quotes     []quote.Quote        `json:"quotes"`
		Strategies []arbitrage.Strategy `json:"strategies,omitempty"`
		Band       *band.Model          `json:"band,omitempty"`
	}{View: view, Quotes: quotes}

	if category == quote.CategoryFXRetail {
		store := settings.NewFileStore(cfg.Settings.Path)
		out.Strategies = arbitrage.Compute(arbitrage.Config{
			ProfitableFloorPercent: cfg.Arbitrage.ProfitableFloorPercent,
			NeutralFloorPercent:    cfg.Arbitrage.NeutralFloorPercent,
			NotionalUnits:          cfg.Arbitrage.NotionalUnits,
		}, quotes, store.Threshold(), store.AlertsEnabled())
	}
	if category == quote.CategoryPolicyBand {
		if ref, ok := band.Reference(quotes); ok {
			m := band.Compute(band.Config{
				LowerFactor: cfg.Band.LowerFactor,
				UpperFactor: cfg.Band.UpperFactor,
				ZoneWidths:  cfg.Band.ZoneWidths,
			}, ref)
			out.Band = &m
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	_ = enc.Encode(out)
}
