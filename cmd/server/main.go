package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"quotedash/internal/analysis"
	"quotedash/internal/arbitrage"
	"quotedash/internal/band"
	"quotedash/internal/config"
	"quotedash/internal/httpx"
	"quotedash/internal/logger"
	"quotedash/internal/provider"
	"quotedash/internal/provider/cryptoya"
	"quotedash/internal/provider/dolarapi"
	"quotedash/internal/provider/ratelimit"
	"quotedash/internal/rates"
	"quotedash/internal/settings"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		panic(err)
	}
	log, err := logger.New()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if cfg.Analysis.Enabled && cfg.Analysis.APIKey == "" {
		log.Warn("analysis.enabled=true but ANALYSIS_API_KEY not set")
	}

	timeout := time.Duration(cfg.Server.RequestTimeoutSec) * time.Second
	httpClient := httpx.New(timeout)

	svc := rates.NewService(buildSources(cfg, httpClient), log)
	store := settings.NewFileStore(cfg.Settings.Path)

	app := &application{
		rates: svc,
		arbitrageCfg: arbitrage.Config{
			ProfitableFloorPercent: cfg.Arbitrage.ProfitableFloorPercent,
			NeutralFloorPercent:    cfg.Arbitrage.NeutralFloorPercent,
			NotionalUnits:          cfg.Arbitrage.NotionalUnits,
		},
		bandCfg: band.Config{
			LowerFactor: cfg.Band.LowerFactor,
			UpperFactor: cfg.Band.UpperFactor,
			ZoneWidths:  cfg.Band.ZoneWidths,
		},
		settings:     store,
		log:          log,
		fallbackText: analysis.FallbackText,
	}
	if cfg.Analysis.Enabled {
		app.summarizer = analysis.New(analysis.Config{
			BaseURL: cfg.Analysis.BaseURL,
			APIKey:  cfg.Analysis.APIKey,
			Model:   cfg.Analysis.Model,
			Timeout: time.Duration(cfg.Analysis.TimeoutSec) * time.Second,
		})
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/api/quotes", app.handleQuotes)
	mux.HandleFunc("/api/arbitrage", app.handleArbitrage)
	mux.HandleFunc("/api/band", app.handleBand)
	mux.HandleFunc("/api/analysis", app.handleAnalysis)
	mux.HandleFunc("/api/settings", app.handleSettings)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           withJSONHeaders(withGzip(recoverPanic(limitBody(mux)))),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server", zap.Error(err))
		}
	}()

	// graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

// buildSources wires the per-category fetchers. The three standard slots
// share one DolarAPI client; politeness limiting is config-gated per
// upstream, off by default.
func buildSources(cfg config.Config, hc *httpx.Client) rates.Sources {
	client := dolarapi.NewClient(
		dolarapi.WithBaseURL(cfg.DolarAPI.BaseURL),
		dolarapi.WithHTTPClient(hc.HTTP),
	)

	wrapDolar := func(f provider.Fetcher) provider.Fetcher {
		return wrapLimits(f, cfg.DolarAPI.MaxRequestsPerMinute, cfg.DolarAPI.Burst, cfg.DolarAPI.MinRequestIntervalSec)
	}
	crypto := cryptoya.New(cryptoya.Config{
		URL:       cfg.CryptoYa.URL,
		Exchanges: cfg.CryptoYa.Exchanges,
	}, hc)

	return rates.Sources{
		FXRetail:        wrapDolar(dolarapi.NewSource("dolarapi-fx", client, "dolares", "USD")),
		BankRetail:      wrapDolar(dolarapi.NewSource("dolarapi-banks", client, "cotizaciones", "USD")),
		PolicyBand:      wrapDolar(dolarapi.NewSource("dolarapi-band", client, "dolares", "USD")),
		CryptoExchanges: wrapLimits(crypto, cfg.CryptoYa.MaxRequestsPerMinute, cfg.CryptoYa.Burst, cfg.CryptoYa.MinRequestIntervalSec),
		CryptoBenchmark: wrapDolar(dolarapi.NewBenchmark(client)),
	}
}

// Prefer a token bucket with burst when RPM is set, otherwise min-interval.
func wrapLimits(f provider.Fetcher, rpm, burst, minIntervalSec int) provider.Fetcher {
	if rpm > 0 {
		if burst <= 0 {
			burst = 1
		}
		return &ratelimit.TokenBucketFetcher{P: f, TB: ratelimit.NewTokenBucket(float64(rpm)/60.0, burst)}
	}
	if minIntervalSec > 0 {
		return &ratelimit.MinInterval{P: f, Interval: time.Duration(minIntervalSec) * time.Second}
	}
	return f
}
