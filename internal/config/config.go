package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

type Server struct {
	Port              string `json:"port"`
	RequestTimeoutSec int    `json:"request_timeout_sec"`
}

type DolarAPI struct {
	BaseURL               string `json:"base_url"`
	MaxRequestsPerMinute  int    `json:"max_requests_per_minute"`
	MinRequestIntervalSec int    `json:"min_request_interval_sec"`
	Burst                 int    `json:"burst"`
}

type CryptoYa struct {
	URL                   string   `json:"url"`
	Exchanges             []string `json:"exchanges"`
	MaxRequestsPerMinute  int      `json:"max_requests_per_minute"`
	MinRequestIntervalSec int      `json:"min_request_interval_sec"`
	Burst                 int      `json:"burst"`
}

type Analysis struct {
	Enabled    bool   `json:"enabled"`
	BaseURL    string `json:"base_url"`
	APIKey     string `json:"api_key"`
	Model      string `json:"model"`
	TimeoutSec int    `json:"timeout_sec"`
}

// Arbitrage holds the strategy classification constants. The floors are
// presentation-driven simplifications, kept overridable rather than baked in.
type Arbitrage struct {
	ProfitableFloorPercent float64 `json:"profitable_floor_percent"`
	NeutralFloorPercent    float64 `json:"neutral_floor_percent"`
	NotionalUnits          float64 `json:"notional_units"`
}

// Band holds the policy-corridor constants. The corridor is illustrative,
// not sourced from a live policy feed.
type Band struct {
	LowerFactor float64   `json:"lower_factor"`
	UpperFactor float64   `json:"upper_factor"`
	ZoneWidths  []float64 `json:"zone_widths"`
}

type Settings struct {
	Path string `json:"path"`
}

type Config struct {
	Server    Server    `json:"server"`
	DolarAPI  DolarAPI  `json:"dolarapi"`
	CryptoYa  CryptoYa  `json:"cryptoya"`
	Analysis  Analysis  `json:"analysis"`
	Arbitrage Arbitrage `json:"arbitrage"`
	Band      Band      `json:"band"`
	Settings  Settings  `json:"settings"`
}

func Default() Config {
	return Config{
		Server: Server{Port: "8080", RequestTimeoutSec: 10},
		DolarAPI: DolarAPI{
			BaseURL: "https://dolarapi.com/v1",
		},
		CryptoYa: CryptoYa{
			URL: "https://criptoya.com/api/usdt/ars",
			Exchanges: []string{
				"lemoncash", "binance", "belo", "buenbit",
				"fiwind", "ripio", "satoshitango", "bitso",
			},
		},
		Analysis: Analysis{
			Enabled:    false,
			BaseURL:    "https://api.openai.com/v1",
			Model:      "gpt-4o-mini",
			TimeoutSec: 20,
		},
		Arbitrage: Arbitrage{
			ProfitableFloorPercent: 0.5,
			NeutralFloorPercent:    -1.5,
			NotionalUnits:          1000,
		},
		Band: Band{
			LowerFactor: 0.75,
			UpperFactor: 1.05,
			ZoneWidths:  []float64{25, 40, 25, 10},
		},
		Settings: Settings{Path: "settings.json"},
	}
}

// Load reads JSON config from path. If path is empty or the file does not
// exist, it returns defaults. Environment variables override select fields.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		if _, err := os.Stat("config.json"); err == nil {
			path = "config.json"
		}
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := json.Unmarshal(b, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config: %w", err)
			}
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("REQUEST_TIMEOUT_SEC"); v != "" {
		var x int
		fmt.Sscanf(v, "%d", &x)
		if x > 0 {
			cfg.Server.RequestTimeoutSec = x
		}
	}
	if v := os.Getenv("DOLARAPI_BASE_URL"); v != "" {
		cfg.DolarAPI.BaseURL = v
	}
	if v := os.Getenv("CRYPTOYA_URL"); v != "" {
		cfg.CryptoYa.URL = v
	}
	if v := os.Getenv("CRYPTOYA_EXCHANGES"); v != "" {
		cfg.CryptoYa.Exchanges = splitCSV(v)
	}
	if v := os.Getenv("ANALYSIS_ENABLED"); v != "" {
		switch strings.ToLower(v) {
		case "1", "true", "yes", "y":
			cfg.Analysis.Enabled = true
		case "0", "false", "no", "n":
			cfg.Analysis.Enabled = false
		}
	}
	if v := os.Getenv("ANALYSIS_BASE_URL"); v != "" {
		cfg.Analysis.BaseURL = v
	}
	if v := os.Getenv("ANALYSIS_API_KEY"); v != "" {
		cfg.Analysis.APIKey = v
	}
	if v := os.Getenv("ANALYSIS_MODEL"); v != "" {
		cfg.Analysis.Model = v
	}
	if v := os.Getenv("ANALYSIS_TIMEOUT_SEC"); v != "" {
		var x int
		fmt.Sscanf(v, "%d", &x)
		if x > 0 {
			cfg.Analysis.TimeoutSec = x
		}
	}
	if v := os.Getenv("SETTINGS_FILE"); v != "" {
		cfg.Settings.Path = v
	}
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
