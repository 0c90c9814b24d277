package cryptoya

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"quotedash/internal/httpx"
	"quotedash/internal/quote"
)

// Config controls the CryptoYa aggregator adapter.
type Config struct {
	Name string
	URL  string
	// Exchanges is the allow-list of exchange ids, iterated in order.
	// Ids absent from the payload are silently skipped.
	Exchanges []string
}

// DefaultExchanges is the fixed allow-list of known exchange ids.
func DefaultExchanges() []string {
	return []string{"lemoncash", "binance", "belo", "buenbit", "fiwind", "ripio", "satoshitango", "bitso"}
}

// displayNames maps exchange ids to their human labels.
var displayNames = map[string]string{
	"lemoncash":    "Lemon Cash",
	"binance":      "Binance",
	"belo":         "Belo",
	"buenbit":      "Buenbit",
	"fiwind":       "Fiwind",
	"ripio":        "Ripio",
	"satoshitango": "SatoshiTango",
	"bitso":        "Bitso",
}

// Provider fetches USDT/ARS quotes from the CryptoYa aggregator. The payload
// is one JSON object keyed by exchange id, each value carrying bid/ask legs.
type Provider struct {
	cfg    Config
	client *httpx.Client
	now    func() time.Time
}

func New(cfg Config, hc *httpx.Client) *Provider {
	if cfg.Name == "" {
		cfg.Name = "CryptoYa"
	}
	if cfg.URL == "" {
		cfg.URL = "https://criptoya.com/api/usdt/ars"
	}
	if len(cfg.Exchanges) == 0 {
		cfg.Exchanges = DefaultExchanges()
	}
	return &Provider{cfg: cfg, client: hc, now: time.Now}
}

func (p *Provider) Name() string { return p.cfg.Name }

type book struct {
	Bid *float64 `json:"bid"`
	Ask *float64 `json:"ask"`
}

func (p *Provider) Fetch(ctx context.Context) ([]quote.Quote, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.URL, http.NoBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := p.client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", p.cfg.URL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("GET %s -> %d", p.cfg.URL, resp.StatusCode)
	}

	var payload map[string]book
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	// Upstream reports no freshness; stamp with fetch time.
	fetchedAt := p.now().UTC()

	out := make([]quote.Quote, 0, len(p.cfg.Exchanges))
	for _, exchange := range p.cfg.Exchanges {
		b, ok := payload[exchange]
		if !ok || b.Bid == nil || b.Ask == nil {
			continue
		}
		q := quote.Quote{
			InstrumentCode: exchange,
			CurrencyCode:   "USDT",
			DisplayName:    displayName(exchange),
			BuyPrice:       *b.Bid,
			SellPrice:      *b.Ask,
			UpdatedAt:      fetchedAt,
		}
		if q.Validate() != nil {
			continue
		}
		out = append(out, q)
	}
	return out, nil
}

func displayName(exchange string) string {
	if name, ok := displayNames[exchange]; ok {
		return name
	}
	return exchange
}
