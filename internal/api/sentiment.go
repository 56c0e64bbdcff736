package api

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rickgao/alphavantage-data/internal/dispatch"
)

// NewsArticle is one entry of the NEWS_SENTIMENT feed.
type NewsArticle struct {
	Title                 string  `json:"title"`
	Source                string  `json:"source"`
	TimePublished         string  `json:"time_published"` // 20060102T150405
	OverallSentimentScore float64 `json:"overall_sentiment_score"`
	OverallSentimentLabel string  `json:"overall_sentiment_label"`
}

// NewsSentimentResponse from function=NEWS_SENTIMENT.
type NewsSentimentResponse struct {
	Items string        `json:"items"`
	Feed  []NewsArticle `json:"feed"`
}

// NewsSentimentOptions narrow a NEWS_SENTIMENT query.
type NewsSentimentOptions struct {
	TimeFrom string // 20060102T1504, inclusive
	TimeTo   string
	Limit    int
}

// NewsSentiment fetches article sentiment for ticker, sorted by
// relevance.
func (c *Client) NewsSentiment(ctx context.Context, ticker string, opts NewsSentimentOptions) (*NewsSentimentResponse, error) {
	params := map[string]string{
		"tickers": ticker,
		"sort":    "RELEVANCE",
		"limit":   "1000",
	}
	if opts.Limit > 0 {
		params["limit"] = strconv.Itoa(opts.Limit)
	}
	if opts.TimeFrom != "" {
		params["time_from"] = opts.TimeFrom
	}
	if opts.TimeTo != "" {
		params["time_to"] = opts.TimeTo
	}

	var resp NewsSentimentResponse
	err := c.dispatcher.DispatchInto(ctx, dispatch.Request{
		Function: FuncNewsSentiment,
		Params:   params,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("news sentiment %s: %w", ticker, err)
	}
	return &resp, nil
}
