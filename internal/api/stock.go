package api

import (
	"context"
	"fmt"

	"github.com/rickgao/alphavantage-data/internal/dispatch"
)

// DailyBar is one day of OHLCV data.
type DailyBar struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

// TimeSeriesDailyResponse from function=TIME_SERIES_DAILY.
type TimeSeriesDailyResponse struct {
	MetaData map[string]string   `json:"Meta Data"`
	Series   map[string]DailyBar `json:"Time Series (Daily)"`
}

// TimeSeriesDaily fetches the full daily price history for symbol.
// Series is keyed by "2006-01-02" dates.
func (c *Client) TimeSeriesDaily(ctx context.Context, symbol string) (*TimeSeriesDailyResponse, error) {
	var resp TimeSeriesDailyResponse
	err := c.dispatcher.DispatchInto(ctx, dispatch.Request{
		Function: FuncTimeSeriesDaily,
		Params: map[string]string{
			"symbol":     symbol,
			"outputsize": "full",
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("time series daily %s: %w", symbol, err)
	}

	if len(resp.Series) == 0 {
		return nil, fmt.Errorf("time series daily %s: empty series in response", symbol)
	}
	return &resp, nil
}
