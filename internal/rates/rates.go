package rates

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"quotedash/internal/metrics"
	"quotedash/internal/provider"
	"quotedash/internal/quote"
)

// Sources holds the configured fetcher per concern. The three standard
// slots may share one underlying client; crypto has two independent
// upstreams that are fanned out concurrently.
type Sources struct {
	FXRetail        provider.Fetcher
	BankRetail      provider.Fetcher
	PolicyBand      provider.Fetcher
	CryptoExchanges provider.Fetcher
	CryptoBenchmark provider.Fetcher
}

// Service is the fetch orchestrator. It decides which fetchers a view
// category needs, runs independent ones concurrently, and merges whatever
// succeeded. It never surfaces an error: the worst case is an empty list,
// which callers must treat as "no data".
type Service struct {
	src Sources
	log *zap.Logger
	sf  singleflight.Group
}

func NewService(src Sources, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{src: src, log: log}
}

// FetchQuotes returns the merged, unordered quote list for a category.
// Every call re-fetches; there is no cache. Concurrent calls for the same
// category are coalesced so they share one fresh upstream round-trip.
func (s *Service) FetchQuotes(ctx context.Context, category quote.Category) []quote.Quote {
	timer := prometheus.NewTimer(metrics.FetchLatency)
	defer timer.ObserveDuration()
	metrics.FetchTotal.WithLabelValues(category.String()).Inc()

	v, _, _ := s.sf.Do(category.String(), func() (any, error) {
		return s.fetch(ctx, category), nil
	})
	quotes, _ := v.([]quote.Quote)
	return quotes
}

func (s *Service) fetch(ctx context.Context, category quote.Category) []quote.Quote {
	switch category {
	case quote.CategoryCryptoP2P:
		return s.fetchCrypto(ctx)
	case quote.CategoryFXRetail:
		return s.fetchOne(ctx, s.src.FXRetail)
	case quote.CategoryBankRetail:
		return s.fetchOne(ctx, s.src.BankRetail)
	case quote.CategoryPolicyBand:
		return s.fetchOne(ctx, s.src.PolicyBand)
	}
	return nil
}

func (s *Service) fetchOne(ctx context.Context, f provider.Fetcher) []quote.Quote {
	if f == nil {
		return nil
	}
	quotes, err := f.Fetch(ctx)
	if err != nil {
		s.log.Warn("upstream fetch failed", zap.String("source", f.Name()), zap.Error(err))
		metrics.UpstreamErrors.WithLabelValues(f.Name()).Inc()
		return nil
	}
	return quotes
}

// fetchCrypto fans out to the benchmark and the exchange aggregator in
// parallel. The join settles both branches: a failure in one never cancels
// or discards the other. Benchmark first, exchanges after.
func (s *Service) fetchCrypto(ctx context.Context) []quote.Quote {
	var benchmark, exchanges []quote.Quote

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		benchmark = s.fetchOne(gctx, s.src.CryptoBenchmark)
		return nil
	})
	g.Go(func() error {
		exchanges = s.fetchOne(gctx, s.src.CryptoExchanges)
		return nil
	})
	_ = g.Wait()

	merged := make([]quote.Quote, 0, len(benchmark)+len(exchanges))
	merged = append(merged, benchmark...)
	merged = append(merged, exchanges...)
	return merged
}
