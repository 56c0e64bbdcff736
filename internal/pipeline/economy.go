package pipeline

import (
	"context"
	"maps"
	"slices"

	"github.com/rickgao/alphavantage-data/internal/api"
	"github.com/rickgao/alphavantage-data/internal/model"
)

// ExtractTreasuryYields fetches the daily yield series for every
// maturity, joins them on date, and ingests the result into
// treasury_yields. Returns the number of rows inserted.
//
// The join is inner: a date missing from any maturity is dropped.
func (e *Extractor) ExtractTreasuryYields(ctx context.Context) (int, error) {
	series := make(map[string]map[string]string, len(api.MaturityIntervals))
	for _, maturity := range api.MaturityIntervals {
		resp, err := e.source.TreasuryYield(ctx, maturity)
		if err != nil {
			return 0, err
		}
		series[maturity] = indexByDate(resp)
	}

	frame := model.NewFrame("treasury_yields",
		"date", "yield_3month", "yield_2year", "yield_5year",
		"yield_7year", "yield_10year", "yield_30year")

	for _, date := range joinedDates(series, api.MaturityIntervals) {
		row := make([]any, 0, len(api.MaturityIntervals)+1)
		row = append(row, date)
		for _, maturity := range api.MaturityIntervals {
			row = append(row, toFloat(series[maturity][date]))
		}
		frame.Append(row...)
	}

	e.logger.Debug("treasury yields frame built", "rows", frame.Len())
	return e.sink.Ingest(ctx, frame)
}

// ExtractFederalFunds fetches the daily federal funds rate series and
// ingests it into federal_funds. Returns the number of rows inserted.
func (e *Extractor) ExtractFederalFunds(ctx context.Context) (int, error) {
	resp, err := e.source.FederalFundsRate(ctx)
	if err != nil {
		return 0, err
	}

	frame := model.NewFrame("federal_funds", "date", "rate")
	byDate := indexByDate(resp)
	for _, date := range slices.Sorted(maps.Keys(byDate)) {
		frame.Append(date, toFloat(byDate[date]))
	}

	e.logger.Debug("federal funds frame built", "rows", frame.Len())
	return e.sink.Ingest(ctx, frame)
}

// ExtractIndicators fetches every monthly indicator series, joins them
// on date, and ingests the result into economic_indicators. Returns
// the number of rows inserted.
//
// The join is inner: a month missing from any series is dropped.
func (e *Extractor) ExtractIndicators(ctx context.Context) (int, error) {
	series := make(map[string]map[string]string, len(api.MonthlyIndicators))
	for _, function := range api.MonthlyIndicators {
		resp, err := e.source.Indicator(ctx, function)
		if err != nil {
			return 0, err
		}
		series[function] = indexByDate(resp)
	}

	frame := model.NewFrame("economic_indicators",
		"date", "cpi", "inflation", "retail_sales", "durables",
		"unemployment", "nonfarm_payroll")

	for _, date := range joinedDates(series, api.MonthlyIndicators) {
		frame.Append(date,
			toFloat(series["CPI"][date]),
			toFloat(series["INFLATION"][date]),
			toInt(series["RETAIL_SALES"][date]),
			toInt(series["DURABLES"][date]),
			toFloat(series["UNEMPLOYMENT"][date]),
			toInt(series["NONFARM_PAYROLL"][date]),
		)
	}

	e.logger.Debug("economic indicators frame built", "rows", frame.Len())
	return e.sink.Ingest(ctx, frame)
}

func indexByDate(resp *api.EconomicSeriesResponse) map[string]string {
	m := make(map[string]string, len(resp.Data))
	for _, point := range resp.Data {
		m[point.Date] = point.Value
	}
	return m
}

// joinedDates returns the sorted dates present in every series.
func joinedDates(series map[string]map[string]string, names []string) []string {
	var dates []string
	for date := range series[names[0]] {
		present := true
		for _, name := range names[1:] {
			if _, ok := series[name][date]; !ok {
				present = false
				break
			}
		}
		if present {
			dates = append(dates, date)
		}
	}
	slices.Sort(dates)
	return dates
}
