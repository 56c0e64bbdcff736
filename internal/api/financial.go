package api

import (
	"context"
	"fmt"

	"github.com/rickgao/alphavantage-data/internal/dispatch"
)

// FinancialReport is one quarterly report. Values arrive as strings;
// the provider uses "None" for unreported figures.
type FinancialReport map[string]string

// FinancialStatementsResponse is the shared shape of BALANCE_SHEET,
// INCOME_STATEMENT and CASH_FLOW.
type FinancialStatementsResponse struct {
	Symbol           string            `json:"symbol"`
	QuarterlyReports []FinancialReport `json:"quarterlyReports"`
}

// EarningsResponse from function=EARNINGS.
type EarningsResponse struct {
	Symbol            string            `json:"symbol"`
	QuarterlyEarnings []FinancialReport `json:"quarterlyEarnings"`
}

func (c *Client) financialStatement(ctx context.Context, function, symbol string) (*FinancialStatementsResponse, error) {
	var resp FinancialStatementsResponse
	err := c.dispatcher.DispatchInto(ctx, dispatch.Request{
		Function: function,
		Params: map[string]string{
			"symbol": symbol,
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", function, symbol, err)
	}
	return &resp, nil
}

// BalanceSheet fetches quarterly balance sheets for symbol.
func (c *Client) BalanceSheet(ctx context.Context, symbol string) (*FinancialStatementsResponse, error) {
	return c.financialStatement(ctx, FuncBalanceSheet, symbol)
}

// IncomeStatement fetches quarterly income statements for symbol.
func (c *Client) IncomeStatement(ctx context.Context, symbol string) (*FinancialStatementsResponse, error) {
	return c.financialStatement(ctx, FuncIncomeStatement, symbol)
}

// CashFlow fetches quarterly cash flow statements for symbol.
func (c *Client) CashFlow(ctx context.Context, symbol string) (*FinancialStatementsResponse, error) {
	return c.financialStatement(ctx, FuncCashFlow, symbol)
}

// Earnings fetches quarterly earnings for symbol.
func (c *Client) Earnings(ctx context.Context, symbol string) (*EarningsResponse, error) {
	var resp EarningsResponse
	err := c.dispatcher.DispatchInto(ctx, dispatch.Request{
		Function: FuncEarnings,
		Params: map[string]string{
			"symbol": symbol,
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", FuncEarnings, symbol, err)
	}
	return &resp, nil
}
