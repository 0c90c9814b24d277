package provider

import (
	"context"

	"quotedash/internal/quote"
)

// Fetcher is one configured upstream source. Unlike a symbol-query API,
// every upstream here returns its whole board, so a fetcher is bound to a
// single endpoint at construction time.
//
// Fetchers are honest: transport and parse failures come back as errors.
// Degrading a failure to an empty list is the orchestrator's call, not ours.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context) ([]quote.Quote, error)
}
