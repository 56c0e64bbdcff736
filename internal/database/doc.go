// Package database provides the PostgreSQL connection pool holding the
// fetched Alpha Vantage tables (stock prices, news sentiment, economic
// indicators, financial statements).
package database
