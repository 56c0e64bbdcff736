// Package writer persists tabular frames into PostgreSQL.
//
// Destination tables:
//   - stock_prices (daily OHLCV per ticker)
//   - news_sentiment (article-level sentiment scores)
//   - fundamentals (quarterly statement highlights)
//   - economic_indicators (monthly macro series)
//   - treasury_yields (daily, six maturities)
//   - federal_funds (daily rate)
//
// All tables are append-only: inserts use ON CONFLICT DO NOTHING on the
// primary key, so refetching a window is idempotent.
package writer
