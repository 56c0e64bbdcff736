package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// RunnerConfig holds scheduling configuration.
type RunnerConfig struct {
	Tickers     []string      // Symbols to extract each cycle
	Interval    time.Duration // Cycle interval (default: 24h)
	Concurrency int           // Max tickers in flight (default: 4)
}

// DefaultRunnerConfig returns sensible defaults.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		Interval:    24 * time.Hour,
		Concurrency: 4,
	}
}

// Runner periodically runs full extraction cycles.
type Runner struct {
	cfg       RunnerConfig
	extractor *Extractor
	logger    *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRunner creates a new Runner.
func NewRunner(cfg RunnerConfig, extractor *Extractor, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultRunnerConfig().Interval
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = DefaultRunnerConfig().Concurrency
	}
	return &Runner{
		cfg:       cfg,
		extractor: extractor,
		logger:    logger,
	}
}

// Start begins the extraction loop.
func (r *Runner) Start(ctx context.Context) error {
	r.ctx, r.cancel = context.WithCancel(ctx)

	r.wg.Add(1)
	go r.run()

	r.logger.Info("extraction runner started",
		"tickers", len(r.cfg.Tickers),
		"interval", r.cfg.Interval,
		"concurrency", r.cfg.Concurrency,
	)

	return nil
}

// Stop gracefully shuts down the runner.
func (r *Runner) Stop(ctx context.Context) error {
	if r.cancel != nil {
		r.cancel()
	}

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("extraction runner stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run is the main extraction loop.
func (r *Runner) run() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	// Run a cycle immediately on start.
	r.runCycle()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			r.runCycle()
		}
	}
}

func (r *Runner) runCycle() {
	if err := r.extractor.ExtractAll(r.ctx, r.cfg.Tickers, r.cfg.Concurrency); err != nil {
		r.logger.Error("extraction cycle failed", "err", err)
	}
}
