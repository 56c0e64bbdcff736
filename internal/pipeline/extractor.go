package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rickgao/alphavantage-data/internal/api"
	"github.com/rickgao/alphavantage-data/internal/model"
)

// Source provides typed provider data.
type Source interface {
	TimeSeriesDaily(ctx context.Context, symbol string) (*api.TimeSeriesDailyResponse, error)
	NewsSentiment(ctx context.Context, ticker string, opts api.NewsSentimentOptions) (*api.NewsSentimentResponse, error)
	BalanceSheet(ctx context.Context, symbol string) (*api.FinancialStatementsResponse, error)
	IncomeStatement(ctx context.Context, symbol string) (*api.FinancialStatementsResponse, error)
	CashFlow(ctx context.Context, symbol string) (*api.FinancialStatementsResponse, error)
	Earnings(ctx context.Context, symbol string) (*api.EarningsResponse, error)
	TreasuryYield(ctx context.Context, maturity string) (*api.EconomicSeriesResponse, error)
	FederalFundsRate(ctx context.Context) (*api.EconomicSeriesResponse, error)
	Indicator(ctx context.Context, function string) (*api.EconomicSeriesResponse, error)
}

// Sink receives finished frames.
type Sink interface {
	Ingest(ctx context.Context, frame *model.Frame) (int, error)
}

// Extractor runs the fetch-transform-ingest pipelines.
type Extractor struct {
	source Source
	sink   Sink
	logger *slog.Logger

	// News coverage starts here; the provider keeps no older articles.
	sentimentStartYear int
	now                func() time.Time
}

// ExtractorOption customizes an Extractor.
type ExtractorOption func(*Extractor)

// WithSentimentStartYear sets the first year of news coverage.
func WithSentimentStartYear(year int) ExtractorOption {
	return func(e *Extractor) { e.sentimentStartYear = year }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) ExtractorOption {
	return func(e *Extractor) { e.now = now }
}

// NewExtractor creates an Extractor over source and sink.
func NewExtractor(source Source, sink Sink, logger *slog.Logger, opts ...ExtractorOption) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Extractor{
		source:             source,
		sink:               sink,
		logger:             logger,
		sentimentStartYear: 2022,
		now:                time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractTicker runs every ticker-level pipeline for one symbol.
func (e *Extractor) ExtractTicker(ctx context.Context, ticker string) error {
	if _, err := e.ExtractStock(ctx, ticker); err != nil {
		return err
	}
	if _, err := e.ExtractSentiment(ctx, ticker); err != nil {
		return err
	}
	if _, err := e.ExtractFinancials(ctx, ticker); err != nil {
		return err
	}
	return nil
}

// ExtractEconomy runs every economy-level pipeline.
func (e *Extractor) ExtractEconomy(ctx context.Context) error {
	if _, err := e.ExtractTreasuryYields(ctx); err != nil {
		return err
	}
	if _, err := e.ExtractFederalFunds(ctx); err != nil {
		return err
	}
	if _, err := e.ExtractIndicators(ctx); err != nil {
		return err
	}
	return nil
}

// ExtractAll runs one full cycle: economy-level series once, then
// ticker-level pipelines fanned out with at most concurrency tickers in
// flight. The first failure cancels the remaining tickers.
func (e *Extractor) ExtractAll(ctx context.Context, tickers []string, concurrency int) error {
	start := time.Now()

	if err := e.ExtractEconomy(ctx); err != nil {
		return err
	}

	if concurrency < 1 {
		concurrency = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, ticker := range tickers {
		g.Go(func() error {
			return e.ExtractTicker(gctx, ticker)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	e.logger.Info("extraction cycle complete",
		"tickers", len(tickers),
		"duration", time.Since(start),
	)
	return nil
}
