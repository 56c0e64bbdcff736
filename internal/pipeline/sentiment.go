package pipeline

import (
	"context"
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/rickgao/alphavantage-data/internal/api"
	"github.com/rickgao/alphavantage-data/internal/model"
)

const timePublishedLayout = "20060102T150405"

// sentimentWindow is one half-year news query range.
type sentimentWindow struct {
	From string
	To   string
}

// article is one deduplicated news_sentiment row.
type article struct {
	Date   string
	Time   string
	Ticker string
	Title  string
	Source string
	Score  float64
}

func (a article) key() string {
	return strings.Join([]string{a.Date, a.Time, a.Ticker, a.Title, a.Source}, "|")
}

// ExtractSentiment fetches news sentiment for ticker across every
// half-year window since coverage began and ingests it into
// news_sentiment. Returns the number of rows inserted.
func (e *Extractor) ExtractSentiment(ctx context.Context, ticker string) (int, error) {
	symbol := strings.ToUpper(ticker)
	seen := make(map[string]article)

	for _, window := range halfYearWindows(e.sentimentStartYear, e.now()) {
		resp, err := e.source.NewsSentiment(ctx, ticker, api.NewsSentimentOptions{
			TimeFrom: window.From,
			TimeTo:   window.To,
		})
		if err != nil {
			return 0, err
		}

		for _, item := range resp.Feed {
			published, err := time.Parse(timePublishedLayout, item.TimePublished)
			if err != nil {
				e.logger.Warn("skipping article with bad timestamp",
					"ticker", ticker,
					"time_published", item.TimePublished,
				)
				continue
			}

			a := article{
				Date:   published.Format("2006-01-02"),
				Time:   published.Format("15:04:05"),
				Ticker: symbol,
				Title:  item.Title,
				Source: item.Source,
				Score:  item.OverallSentimentScore,
			}

			// Windows overlap at their edges; on a duplicate key keep
			// the most extreme score.
			if prev, ok := seen[a.key()]; ok && math.Abs(prev.Score) >= math.Abs(a.Score) {
				continue
			}
			seen[a.key()] = a
		}
	}

	frame := sentimentFrame(seen)
	e.logger.Debug("sentiment frame built", "ticker", ticker, "rows", frame.Len())

	return e.sink.Ingest(ctx, frame)
}

func sentimentFrame(articles map[string]article) *model.Frame {
	frame := model.NewFrame("news_sentiment",
		"date", "time", "ticker", "title", "source", "sentiment_score")

	for _, key := range slices.Sorted(maps.Keys(articles)) {
		a := articles[key]
		frame.Append(a.Date, a.Time, a.Ticker, a.Title, a.Source, a.Score)
	}
	return frame
}

// halfYearWindows splits each year from startYear through now's year
// into two query windows.
func halfYearWindows(startYear int, now time.Time) []sentimentWindow {
	var windows []sentimentWindow
	for year := startYear; year <= now.Year(); year++ {
		start := fmt.Sprintf("%d0101T0130", year)
		mid := fmt.Sprintf("%d0630T0130", year)
		end := fmt.Sprintf("%d1231T0130", year)
		windows = append(windows,
			sentimentWindow{From: start, To: mid},
			sentimentWindow{From: mid, To: end},
		)
	}
	return windows
}
