package quote

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Quote is the normalized record every upstream adapter maps into.
// Prices are quoted from the platform's perspective: BuyPrice is what the
// platform pays the user for one foreign unit, SellPrice is what it charges.
// Nothing enforces SellPrice >= BuyPrice; upstream data can and does invert.
type Quote struct {
	InstrumentCode string    `json:"instrument_code" validate:"required"`
	CurrencyCode   string    `json:"currency_code" validate:"required"`
	DisplayName    string    `json:"display_name"`
	BuyPrice       float64   `json:"buy_price" validate:"gte=0"`
	SellPrice      float64   `json:"sell_price" validate:"gte=0"`
	UpdatedAt      time.Time `json:"updated_at"`
}

var validate = validator.New()

// Validate reports whether the quote satisfies the record schema.
// Adapters drop records that fail instead of passing zero fields downstream.
func (q Quote) Validate() error {
	if err := validate.Struct(q); err != nil {
		return fmt.Errorf("invalid quote %q: %w", q.InstrumentCode, err)
	}
	return nil
}

// Name returns the human label, falling back to the instrument code when
// upstream omitted one.
func (q Quote) Name() string {
	if q.DisplayName != "" {
		return q.DisplayName
	}
	return q.InstrumentCode
}

// Spread is sell minus buy for the same instrument. May be negative.
func (q Quote) Spread() float64 {
	return q.SellPrice - q.BuyPrice
}

// FindByCode returns the first quote with the given instrument code.
func FindByCode(quotes []Quote, code string) (Quote, bool) {
	for _, q := range quotes {
		if q.InstrumentCode == code {
			return q, true
		}
	}
	return Quote{}, false
}
