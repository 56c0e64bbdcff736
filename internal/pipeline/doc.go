// Package pipeline turns provider responses into tabular frames and
// ingests them.
//
// Ticker-level pipelines (prices, sentiment, fundamentals) run once per
// symbol; economy-level pipelines (treasury yields, federal funds,
// monthly indicators) run once per cycle. The Runner schedules full
// cycles on an interval with bounded per-ticker concurrency.
package pipeline
