package rates

import (
	"sort"

	"quotedash/internal/provider/dolarapi"
	"quotedash/internal/quote"
)

// fxPriority is the fixed display rank of the headline dollar board.
// Codes outside the list sort after all listed ones.
var fxPriority = []string{"blue", "oficial", "bolsa", "contadoconliqui", "cripto", "tarjeta", "mayorista"}

// Order ranks a merged quote list for display. It is pure: the input slice
// is not touched, and all sorts are stable so ties keep fetch order.
func Order(category quote.Category, quotes []quote.Quote) []quote.Quote {
	out := append([]quote.Quote(nil), quotes...)
	switch category {
	case quote.CategoryFXRetail:
		sort.SliceStable(out, func(i, j int) bool {
			return fxRank(out[i].InstrumentCode) < fxRank(out[j].InstrumentCode)
		})
	case quote.CategoryBankRetail:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].SellPrice < out[j].SellPrice
		})
	case quote.CategoryCryptoP2P:
		// Benchmark pinned first, the rest cheapest-to-buy first.
		sort.SliceStable(out, func(i, j int) bool {
			bi := out[i].InstrumentCode == dolarapi.BenchmarkCode
			bj := out[j].InstrumentCode == dolarapi.BenchmarkCode
			if bi != bj {
				return bi
			}
			if bi {
				return false
			}
			return out[i].SellPrice < out[j].SellPrice
		})
	case quote.CategoryPolicyBand:
		// Single-reference view, no ordering defined.
	}
	return out
}

func fxRank(code string) int {
	for i, c := range fxPriority {
		if c == code {
			return i
		}
	}
	return len(fxPriority)
}
