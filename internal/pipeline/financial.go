package pipeline

import (
	"context"
	"maps"
	"slices"
	"strings"

	"github.com/rickgao/alphavantage-data/internal/api"
	"github.com/rickgao/alphavantage-data/internal/model"
)

// ExtractFinancials fetches the four quarterly statement endpoints for
// ticker, joins them on fiscal date, and ingests the result into
// fundamentals. Returns the number of rows inserted.
//
// The join is inner: a quarter missing from any statement is dropped.
func (e *Extractor) ExtractFinancials(ctx context.Context, ticker string) (int, error) {
	balance, err := e.source.BalanceSheet(ctx, ticker)
	if err != nil {
		return 0, err
	}
	income, err := e.source.IncomeStatement(ctx, ticker)
	if err != nil {
		return 0, err
	}
	cashFlow, err := e.source.CashFlow(ctx, ticker)
	if err != nil {
		return 0, err
	}
	earnings, err := e.source.Earnings(ctx, ticker)
	if err != nil {
		return 0, err
	}

	frame := fundamentalsFrame(ticker, balance, income, cashFlow, earnings)
	e.logger.Debug("fundamentals frame built", "ticker", ticker, "rows", frame.Len())

	return e.sink.Ingest(ctx, frame)
}

func fundamentalsFrame(ticker string, balance, income, cashFlow *api.FinancialStatementsResponse, earnings *api.EarningsResponse) *model.Frame {
	byDate := func(reports []api.FinancialReport) map[string]api.FinancialReport {
		m := make(map[string]api.FinancialReport, len(reports))
		for _, r := range reports {
			if date := r["fiscalDateEnding"]; date != "" {
				m[date] = r
			}
		}
		return m
	}

	balanceByDate := byDate(balance.QuarterlyReports)
	incomeByDate := byDate(income.QuarterlyReports)
	cashByDate := byDate(cashFlow.QuarterlyReports)
	earningsByDate := byDate(earnings.QuarterlyEarnings)

	frame := model.NewFrame("fundamentals",
		"fiscal_date_ending", "ticker",
		"total_assets", "total_liabilities", "total_shareholder_equity",
		"total_revenue", "gross_profit", "operating_income", "net_income",
		"operating_cashflow", "capital_expenditures",
		"reported_eps")

	symbol := strings.ToUpper(ticker)
	for _, date := range slices.Sorted(maps.Keys(balanceByDate)) {
		is, okIncome := incomeByDate[date]
		cf, okCash := cashByDate[date]
		earn, okEarnings := earningsByDate[date]
		if !okIncome || !okCash || !okEarnings {
			continue
		}
		bs := balanceByDate[date]

		frame.Append(date, symbol,
			toInt(bs["totalAssets"]),
			toInt(bs["totalLiabilities"]),
			toInt(bs["totalShareholderEquity"]),
			toInt(is["totalRevenue"]),
			toInt(is["grossProfit"]),
			toInt(is["operatingIncome"]),
			toInt(is["netIncome"]),
			toInt(cf["operatingCashflow"]),
			toInt(cf["capitalExpenditures"]),
			toFloat(earn["reportedEPS"]),
		)
	}
	return frame
}
