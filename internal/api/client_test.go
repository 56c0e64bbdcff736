package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/rickgao/alphavantage-data/internal/dispatch"
)

// fakeDispatcher serves canned JSON per function and records requests.
type fakeDispatcher struct {
	responses map[string]string
	requests  []dispatch.Request
	err       error
}

func (f *fakeDispatcher) DispatchInto(_ context.Context, req dispatch.Request, result any) error {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return f.err
	}
	body, ok := f.responses[req.Function]
	if !ok {
		return fmt.Errorf("no canned response for %s", req.Function)
	}
	return json.Unmarshal([]byte(body), result)
}

func TestTimeSeriesDaily(t *testing.T) {
	t.Run("parses series and sends params", func(t *testing.T) {
		fd := &fakeDispatcher{responses: map[string]string{
			FuncTimeSeriesDaily: `{
				"Meta Data": {"2. Symbol": "AAPL"},
				"Time Series (Daily)": {
					"2024-01-15": {"1. open": "185.00", "2. high": "186.40", "3. low": "183.92", "4. close": "185.92", "5. volume": "65076641"}
				}
			}`,
		}}
		c := NewClient(fd, nil)

		resp, err := c.TimeSeriesDaily(context.Background(), "AAPL")
		if err != nil {
			t.Fatalf("TimeSeriesDaily: %v", err)
		}

		bar, ok := resp.Series["2024-01-15"]
		if !ok {
			t.Fatal("missing 2024-01-15 bar")
		}
		if bar.Close != "185.92" || bar.Volume != "65076641" {
			t.Errorf("bar = %+v", bar)
		}

		req := fd.requests[0]
		if req.Params["symbol"] != "AAPL" || req.Params["outputsize"] != "full" {
			t.Errorf("params = %v", req.Params)
		}
	})

	t.Run("empty series errors", func(t *testing.T) {
		fd := &fakeDispatcher{responses: map[string]string{
			FuncTimeSeriesDaily: `{"Meta Data": {}}`,
		}}
		c := NewClient(fd, nil)

		if _, err := c.TimeSeriesDaily(context.Background(), "AAPL"); err == nil {
			t.Fatal("expected error for empty series")
		}
	})

	t.Run("dispatcher error propagates", func(t *testing.T) {
		want := errors.New("pool drained")
		c := NewClient(&fakeDispatcher{err: want}, nil)

		_, err := c.TimeSeriesDaily(context.Background(), "AAPL")
		if !errors.Is(err, want) {
			t.Errorf("err = %v, want wrapped dispatcher error", err)
		}
	})
}

func TestNewsSentiment(t *testing.T) {
	fd := &fakeDispatcher{responses: map[string]string{
		FuncNewsSentiment: `{
			"items": "2",
			"feed": [
				{"title": "Apple beats estimates", "source": "Reuters", "time_published": "20240115T130000", "overall_sentiment_score": 0.31, "overall_sentiment_label": "Somewhat-Bullish"},
				{"title": "Supply concerns", "source": "Bloomberg", "time_published": "20240115T150000", "overall_sentiment_score": -0.12, "overall_sentiment_label": "Neutral"}
			]
		}`,
	}}
	c := NewClient(fd, nil)

	resp, err := c.NewsSentiment(context.Background(), "AAPL", NewsSentimentOptions{
		TimeFrom: "20240101T0000",
		TimeTo:   "20240630T2359",
	})
	if err != nil {
		t.Fatalf("NewsSentiment: %v", err)
	}
	if len(resp.Feed) != 2 {
		t.Fatalf("feed size = %d, want 2", len(resp.Feed))
	}
	if resp.Feed[0].OverallSentimentScore != 0.31 {
		t.Errorf("score = %v", resp.Feed[0].OverallSentimentScore)
	}

	params := fd.requests[0].Params
	if params["tickers"] != "AAPL" || params["sort"] != "RELEVANCE" || params["limit"] != "1000" {
		t.Errorf("params = %v", params)
	}
	if params["time_from"] != "20240101T0000" || params["time_to"] != "20240630T2359" {
		t.Errorf("time range params = %v", params)
	}
}

func TestTreasuryYield(t *testing.T) {
	t.Run("valid maturity", func(t *testing.T) {
		fd := &fakeDispatcher{responses: map[string]string{
			FuncTreasuryYield: `{"name": "10-Year Treasury Constant Maturity Rate", "interval": "daily", "unit": "percent", "data": [{"date": "2024-01-12", "value": "3.96"}]}`,
		}}
		c := NewClient(fd, nil)

		resp, err := c.TreasuryYield(context.Background(), "10year")
		if err != nil {
			t.Fatalf("TreasuryYield: %v", err)
		}
		if len(resp.Data) != 1 || resp.Data[0].Value != "3.96" {
			t.Errorf("data = %v", resp.Data)
		}
		if fd.requests[0].Params["maturity"] != "10year" || fd.requests[0].Params["interval"] != "daily" {
			t.Errorf("params = %v", fd.requests[0].Params)
		}
	})

	t.Run("unknown maturity rejected before dispatch", func(t *testing.T) {
		fd := &fakeDispatcher{}
		c := NewClient(fd, nil)

		if _, err := c.TreasuryYield(context.Background(), "6month"); err == nil {
			t.Fatal("expected error for unknown maturity")
		}
		if len(fd.requests) != 0 {
			t.Error("invalid maturity should not reach the dispatcher")
		}
	})
}

func TestIndicator(t *testing.T) {
	t.Run("valid function", func(t *testing.T) {
		fd := &fakeDispatcher{responses: map[string]string{
			"CPI": `{"name": "Consumer Price Index", "interval": "monthly", "unit": "index 1982-1984=100", "data": [{"date": "2024-01-01", "value": "308.417"}]}`,
		}}
		c := NewClient(fd, nil)

		resp, err := c.Indicator(context.Background(), "CPI")
		if err != nil {
			t.Fatalf("Indicator: %v", err)
		}
		if resp.Data[0].Value != "308.417" {
			t.Errorf("value = %q", resp.Data[0].Value)
		}
	})

	t.Run("unknown function rejected", func(t *testing.T) {
		c := NewClient(&fakeDispatcher{}, nil)
		if _, err := c.Indicator(context.Background(), "GDP"); err == nil {
			t.Fatal("expected error for unknown indicator")
		}
	})
}

func TestFinancialStatements(t *testing.T) {
	fd := &fakeDispatcher{responses: map[string]string{
		FuncBalanceSheet: `{
			"symbol": "AAPL",
			"quarterlyReports": [
				{"fiscalDateEnding": "2023-12-30", "totalAssets": "353514000000", "totalLiabilities": "279414000000", "inventory": "None"}
			]
		}`,
	}}
	c := NewClient(fd, nil)

	resp, err := c.BalanceSheet(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("BalanceSheet: %v", err)
	}
	if resp.Symbol != "AAPL" || len(resp.QuarterlyReports) != 1 {
		t.Fatalf("resp = %+v", resp)
	}
	report := resp.QuarterlyReports[0]
	if report["fiscalDateEnding"] != "2023-12-30" {
		t.Errorf("fiscalDateEnding = %q", report["fiscalDateEnding"])
	}
	if report["inventory"] != "None" {
		t.Errorf("inventory = %q, want provider's None marker preserved", report["inventory"])
	}
	if fd.requests[0].Params["symbol"] != "AAPL" {
		t.Errorf("params = %v", fd.requests[0].Params)
	}
}
