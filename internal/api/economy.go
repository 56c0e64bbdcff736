package api

import (
	"context"
	"fmt"
	"slices"

	"github.com/rickgao/alphavantage-data/internal/dispatch"
)

// SeriesPoint is one date/value observation of an economic series.
type SeriesPoint struct {
	Date  string `json:"date"`
	Value string `json:"value"` // "." marks a missing observation
}

// EconomicSeriesResponse is the shared shape of TREASURY_YIELD,
// FEDERAL_FUNDS_RATE and the monthly indicator functions.
type EconomicSeriesResponse struct {
	Name     string        `json:"name"`
	Interval string        `json:"interval"`
	Unit     string        `json:"unit"`
	Data     []SeriesPoint `json:"data"`
}

// TreasuryYield fetches the daily yield series for one maturity.
func (c *Client) TreasuryYield(ctx context.Context, maturity string) (*EconomicSeriesResponse, error) {
	if !slices.Contains(MaturityIntervals, maturity) {
		return nil, fmt.Errorf("treasury yield: unknown maturity %q", maturity)
	}

	var resp EconomicSeriesResponse
	err := c.dispatcher.DispatchInto(ctx, dispatch.Request{
		Function: FuncTreasuryYield,
		Params: map[string]string{
			"interval": "daily",
			"maturity": maturity,
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("treasury yield %s: %w", maturity, err)
	}
	return &resp, nil
}

// FederalFundsRate fetches the daily federal funds rate series.
func (c *Client) FederalFundsRate(ctx context.Context) (*EconomicSeriesResponse, error) {
	var resp EconomicSeriesResponse
	err := c.dispatcher.DispatchInto(ctx, dispatch.Request{
		Function: FuncFederalFundsRate,
		Params: map[string]string{
			"interval": "daily",
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("federal funds rate: %w", err)
	}
	return &resp, nil
}

// Indicator fetches one monthly economic indicator series (CPI,
// INFLATION, RETAIL_SALES, DURABLES, UNEMPLOYMENT, NONFARM_PAYROLL).
func (c *Client) Indicator(ctx context.Context, function string) (*EconomicSeriesResponse, error) {
	if !slices.Contains(MonthlyIndicators, function) {
		return nil, fmt.Errorf("indicator: unknown function %q", function)
	}

	var resp EconomicSeriesResponse
	err := c.dispatcher.DispatchInto(ctx, dispatch.Request{
		Function: function,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("indicator %s: %w", function, err)
	}
	return &resp, nil
}
