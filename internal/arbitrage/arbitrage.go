// Package arbitrage derives the fixed buy-here-sell-there strategies from a
// normalized quote list. Everything is recomputed on each call; there is no
// hidden state, so identical inputs always yield identical output.
package arbitrage

import (
	"sort"

	"quotedash/internal/quote"
)

// Severity is the four-tier display classification of a strategy.
type Severity string

const (
	// SeverityAlert marks strategies above the user's alert threshold.
	SeverityAlert Severity = "alert"
	// SeverityProfitable clears the fixed profitability floor but not the alert.
	SeverityProfitable Severity = "profitable"
	// SeverityNeutral sits between the neutral floor and the profitability floor.
	SeverityNeutral Severity = "neutral"
	// SeverityUnfavorable is everything below the neutral floor.
	SeverityUnfavorable Severity = "unfavorable"
)

// Config carries the classification constants. The floors cover typical
// spread/fee noise and are not user-tunable at runtime.
type Config struct {
	// ProfitableFloorPercent is the minimum profit% considered worth acting on.
	ProfitableFloorPercent float64
	// NeutralFloorPercent separates "roughly even" from "clearly unfavorable".
	NeutralFloorPercent float64
	// NotionalUnits is the fixed position size ProfitAmount is quoted for.
	NotionalUnits float64
}

func DefaultConfig() Config {
	return Config{ProfitableFloorPercent: 0.5, NeutralFloorPercent: -1.5, NotionalUnits: 1000}
}

// Strategy is one evaluated buy→sell pairing.
type Strategy struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	BuySource   string  `json:"buy_source"`
	SellSource  string  `json:"sell_source"`
	// BuyPrice is what acquiring one foreign unit costs (buy side's sell leg);
	// SellPrice is what liquidating it pays (sell side's buy leg).
	BuyPrice      float64  `json:"buy_price"`
	SellPrice     float64  `json:"sell_price"`
	ProfitPercent float64  `json:"profit_percent"`
	ProfitAmount  float64  `json:"profit_amount"`
	IsProfitable  bool     `json:"is_profitable"`
	TriggersAlert bool     `json:"triggers_alert"`
	Severity      Severity `json:"severity"`
}

// Required instrument codes. If any is absent the whole panel is hidden.
const (
	codeBlue    = "blue"
	codeMEP     = "bolsa"
	codeOficial = "oficial"
)

// Compute evaluates the four fixed strategies against the current quotes.
// thresholdPercent and alertsEnabled are the user's preferences, consumed as
// parameters and never stored here. Returns nil when any required quote is
// missing; callers must read that as "insufficient data", not an error.
func Compute(cfg Config, quotes []quote.Quote, thresholdPercent float64, alertsEnabled bool) []Strategy {
	blue, okBlue := quote.FindByCode(quotes, codeBlue)
	mep, okMEP := quote.FindByCode(quotes, codeMEP)
	oficial, okOficial := quote.FindByCode(quotes, codeOficial)
	if !okBlue || !okMEP || !okOficial {
		return nil
	}

	eval := func(id, title string, buy, sell quote.Quote, buyName, sellName, descProfitable, descLoss string) Strategy {
		buyPrice := buy.SellPrice  // acquire at the seller's ask
		sellPrice := sell.BuyPrice // liquidate at the buyer's bid
		perUnit := sellPrice - buyPrice
		profitPercent := perUnit / buyPrice * 100
		profitAmount := perUnit * cfg.NotionalUnits

		isProfitable := profitPercent > cfg.ProfitableFloorPercent
		triggersAlert := alertsEnabled && profitPercent >= thresholdPercent

		severity := SeverityUnfavorable
		switch {
		case triggersAlert:
			severity = SeverityAlert
		case isProfitable:
			severity = SeverityProfitable
		case profitPercent > cfg.NeutralFloorPercent:
			severity = SeverityNeutral
		}

		desc := descLoss
		if isProfitable {
			desc = descProfitable
		}
		return Strategy{
			ID:            id,
			Title:         title,
			Description:   desc,
			BuySource:     buyName,
			SellSource:    sellName,
			BuyPrice:      buyPrice,
			SellPrice:     sellPrice,
			ProfitPercent: profitPercent,
			ProfitAmount:  profitAmount,
			IsProfitable:  isProfitable,
			TriggersAlert: triggersAlert,
			Severity:      severity,
		}
	}

	strategies := []Strategy{
		eval("mep-to-blue", "Hacer Puré (MEP → Blue)", mep, blue, "MEP", "Blue",
			"El Blue está caro respecto al MEP. Comprás barato en bolsa y vendés caro en el paralelo.",
			"Actualmente no conviene comprar MEP para vender al Blue, la brecha es negativa o muy chica."),
		eval("blue-to-mep", "Rulo Inverso (Blue → MEP)", blue, mep, "Blue", "MEP",
			"El Blue está barato. Podés comprar billete físico y venderlo vía MEP (requiere depositar en banco).",
			"El MEP no paga lo suficiente por tus dólares Blue para justificar el movimiento."),
		eval("mep-to-oficial", "Vender al Banco (MEP → Oficial)", mep, oficial, "MEP", "Oficial",
			"Situación atípica: El banco paga más por tus dólares que el mercado de capitales.",
			"Vender tus dólares MEP al banco (Oficial) genera pérdida. El banco paga menos."),
		eval("blue-to-oficial", "Vender al Banco (Blue → Oficial)", blue, oficial, "Blue", "Oficial",
			"El banco está pagando muy bien el dólar comparado con la cueva.",
			"El banco paga mucho menos que el Blue. No te conviene venderle al banco."),
	}

	// Alert-triggering strategies first, the rest by descending profit.
	sort.SliceStable(strategies, func(i, j int) bool {
		if strategies[i].TriggersAlert != strategies[j].TriggersAlert {
			return strategies[i].TriggersAlert
		}
		return strategies[i].ProfitPercent > strategies[j].ProfitPercent
	})
	return strategies
}
