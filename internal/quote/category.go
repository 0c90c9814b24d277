package quote

import "fmt"

// Category is the closed set of dashboard views. Each category decides which
// adapters run and which ordering applies to the merged list.
type Category string

const (
	// CategoryFXRetail is the headline dollar board (blue, oficial, MEP, ...).
	CategoryFXRetail Category = "fx-retail"
	// CategoryBankRetail lists per-bank retail counters.
	CategoryBankRetail Category = "bank-retail"
	// CategoryCryptoP2P lists USDT/ARS quotes per exchange plus a benchmark.
	CategoryCryptoP2P Category = "crypto-p2p"
	// CategoryPolicyBand feeds the corridor gauge from the FX board.
	CategoryPolicyBand Category = "policy-band"
)

// Categories lists every valid category in display order.
func Categories() []Category {
	return []Category{CategoryFXRetail, CategoryBankRetail, CategoryCryptoP2P, CategoryPolicyBand}
}

// ParseCategory rejects anything outside the closed set so adapter dispatch
// stays exhaustive.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryFXRetail, CategoryBankRetail, CategoryCryptoP2P, CategoryPolicyBand:
		return Category(s), nil
	}
	return "", fmt.Errorf("unknown view category %q", s)
}

func (c Category) String() string { return string(c) }
