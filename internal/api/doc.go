// Package api provides typed wrappers for the Alpha Vantage query API.
//
// Every operation goes through the shared dispatcher, which owns key
// selection, quota accounting and soft-block recovery. Endpoints:
//   - TIME_SERIES_DAILY (full daily history per symbol)
//   - NEWS_SENTIMENT (article-level sentiment per ticker)
//   - TREASURY_YIELD (daily, six maturities)
//   - FEDERAL_FUNDS_RATE (daily)
//   - CPI, INFLATION, RETAIL_SALES, DURABLES, UNEMPLOYMENT,
//     NONFARM_PAYROLL (monthly indicators)
//   - BALANCE_SHEET, INCOME_STATEMENT, CASH_FLOW, EARNINGS (quarterly)
//
// API keys can be obtained at https://www.alphavantage.co/support/
package api
