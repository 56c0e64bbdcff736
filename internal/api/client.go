package api

import (
	"context"
	"log/slog"

	"github.com/rickgao/alphavantage-data/internal/dispatch"
)

// Alpha Vantage function names.
const (
	FuncTimeSeriesDaily  = "TIME_SERIES_DAILY"
	FuncNewsSentiment    = "NEWS_SENTIMENT"
	FuncTreasuryYield    = "TREASURY_YIELD"
	FuncFederalFundsRate = "FEDERAL_FUNDS_RATE"
	FuncBalanceSheet     = "BALANCE_SHEET"
	FuncIncomeStatement  = "INCOME_STATEMENT"
	FuncCashFlow         = "CASH_FLOW"
	FuncEarnings         = "EARNINGS"
)

// MaturityIntervals are the treasury maturities fetched per cycle.
var MaturityIntervals = []string{"3month", "2year", "5year", "7year", "10year", "30year"}

// MonthlyIndicators are the monthly economic indicator functions.
var MonthlyIndicators = []string{"CPI", "INFLATION", "RETAIL_SALES", "DURABLES", "UNEMPLOYMENT", "NONFARM_PAYROLL"}

// Dispatcher issues rate-limited provider requests.
type Dispatcher interface {
	DispatchInto(ctx context.Context, req dispatch.Request, result any) error
}

// Client provides typed access to the Alpha Vantage endpoints.
type Client struct {
	dispatcher Dispatcher
	logger     *slog.Logger
}

// NewClient creates a client over the shared dispatcher.
func NewClient(d Dispatcher, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		dispatcher: d,
		logger:     logger,
	}
}
