package dolarapi

import (
	"context"

	"quotedash/internal/quote"
)

// Source binds a Client to one endpoint path and a forced currency so it can
// serve as a provider.Fetcher.
type Source struct {
	name     string
	client   *Client
	path     string
	currency string
}

func NewSource(name string, c *Client, path, currency string) *Source {
	if currency == "" {
		currency = "USD"
	}
	return &Source{name: name, client: c, path: path, currency: currency}
}

func (s *Source) Name() string { return s.name }

func (s *Source) Fetch(ctx context.Context) ([]quote.Quote, error) {
	return s.client.Rates(ctx, s.path, s.currency)
}
