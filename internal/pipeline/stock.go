package pipeline

import (
	"context"
	"maps"
	"slices"
	"strings"

	"github.com/rickgao/alphavantage-data/internal/api"
	"github.com/rickgao/alphavantage-data/internal/model"
)

// ExtractStock fetches the full daily price history for ticker and
// ingests it into stock_prices. Returns the number of rows inserted.
func (e *Extractor) ExtractStock(ctx context.Context, ticker string) (int, error) {
	resp, err := e.source.TimeSeriesDaily(ctx, ticker)
	if err != nil {
		return 0, err
	}

	frame := stockFrame(ticker, resp)
	e.logger.Debug("stock frame built", "ticker", ticker, "rows", frame.Len())

	return e.sink.Ingest(ctx, frame)
}

// stockFrame flattens a daily time series into stock_prices rows,
// oldest first.
func stockFrame(ticker string, resp *api.TimeSeriesDailyResponse) *model.Frame {
	frame := model.NewFrame("stock_prices",
		"date", "ticker", "open", "high", "low", "close", "volume")

	symbol := strings.ToUpper(ticker)
	for _, date := range slices.Sorted(maps.Keys(resp.Series)) {
		bar := resp.Series[date]
		frame.Append(date, symbol,
			toFloat(bar.Open), toFloat(bar.High), toFloat(bar.Low), toFloat(bar.Close),
			toInt(bar.Volume))
	}
	return frame
}
