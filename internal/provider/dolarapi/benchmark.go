package dolarapi

import (
	"context"

	"quotedash/internal/quote"
)

const (
	// BenchmarkCode is the instrument code the crypto benchmark is published
	// under, regardless of what the upstream record says.
	BenchmarkCode = "cripto"
	// BenchmarkName is its display label.
	BenchmarkName = "Promedio Cripto"
	// BenchmarkPath is the endpoint carrying the exchange-averaged crypto rate.
	BenchmarkPath = "dolares/cripto"
)

// Benchmark is the crypto-benchmark fetcher: it delegates to the standard
// adapter against the benchmark endpoint, keeps only the first record and
// republishes it under a fixed identity.
type Benchmark struct {
	client *Client
}

func NewBenchmark(c *Client) *Benchmark {
	return &Benchmark{client: c}
}

func (b *Benchmark) Name() string { return "dolarapi-benchmark" }

func (b *Benchmark) Fetch(ctx context.Context) ([]quote.Quote, error) {
	quotes, err := b.client.Rates(ctx, BenchmarkPath, "USD")
	if err != nil {
		return nil, err
	}
	if len(quotes) == 0 {
		return nil, nil
	}
	q := quotes[0]
	q.InstrumentCode = BenchmarkCode
	q.DisplayName = BenchmarkName
	return []quote.Quote{q}, nil
}
