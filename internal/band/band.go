// Package band derives the policy-corridor model from a single reference
// quote. The corridor multipliers are an illustrative simplification, not a
// live regulatory feed, and stay overridable through Config.
package band

import (
	"quotedash/internal/quote"
)

// Zone is the four-tier classification of the corridor position.
type Zone string

const (
	ZoneFavorable    Zone = "favorable"
	ZoneIntermediate Zone = "intermediate"
	ZoneCaution      Zone = "caution"
	ZoneCritical     Zone = "critical"
)

// Config carries the corridor constants.
type Config struct {
	// LowerFactor and UpperFactor scale the reference sell price into the
	// corridor bounds.
	LowerFactor float64
	UpperFactor float64
	// ZoneWidths are the cumulative tier widths in percent, low to high.
	// They must sum to 100.
	ZoneWidths []float64
}

func DefaultConfig() Config {
	return Config{LowerFactor: 0.75, UpperFactor: 1.05, ZoneWidths: []float64{25, 40, 25, 10}}
}

var zones = []Zone{ZoneFavorable, ZoneIntermediate, ZoneCaution, ZoneCritical}

// Model is the derived corridor snapshot. Recomputed fresh on every call,
// never persisted.
type Model struct {
	ReferenceCode   string  `json:"reference_code"`
	ReferenceName   string  `json:"reference_name"`
	CurrentPrice    float64 `json:"current_price"`
	LowerBound      float64 `json:"lower_bound"`
	UpperBound      float64 `json:"upper_bound"`
	PositionPercent float64 `json:"position_percent"`
	Zone            Zone    `json:"zone"`
	// Distance from the current price to each bound, absolute and as a
	// percentage of the current price.
	ToUpper        float64 `json:"to_upper"`
	ToUpperPercent float64 `json:"to_upper_percent"`
	ToLower        float64 `json:"to_lower"`
	ToLowerPercent float64 `json:"to_lower_percent"`
}

// Reference picks the corridor reference from a quote list: the wholesale
// rate when present, otherwise the official one. ok is false when neither
// exists; the caller shows its empty state, there is no fallback here.
func Reference(quotes []quote.Quote) (quote.Quote, bool) {
	if q, ok := quote.FindByCode(quotes, "mayorista"); ok {
		return q, true
	}
	return quote.FindByCode(quotes, "oficial")
}

// Compute derives the corridor model from one reference quote.
func Compute(cfg Config, ref quote.Quote) Model {
	current := ref.SellPrice
	lower := current * cfg.LowerFactor
	upper := current * cfg.UpperFactor

	position := 0.0
	if width := upper - lower; width > 0 {
		position = clamp((current-lower)/width*100, 0, 100)
	}

	m := Model{
		ReferenceCode:   ref.InstrumentCode,
		ReferenceName:   ref.Name(),
		CurrentPrice:    current,
		LowerBound:      lower,
		UpperBound:      upper,
		PositionPercent: position,
		Zone:            classify(cfg.ZoneWidths, position),
		ToUpper:         upper - current,
		ToLower:         current - lower,
	}
	if current > 0 {
		m.ToUpperPercent = m.ToUpper / current * 100
		m.ToLowerPercent = m.ToLower / current * 100
	}
	return m
}

// classify walks the cumulative tier boundaries; a position lands in the
// first tier whose cumulative upper edge it does not exceed.
func classify(widths []float64, position float64) Zone {
	cumulative := 0.0
	for i, w := range widths {
		cumulative += w
		if position <= cumulative && i < len(zones) {
			return zones[i]
		}
	}
	return ZoneCritical
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
