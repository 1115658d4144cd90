package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const yahooBaseURL = "https://query1.finance.yahoo.com"

// Yahoo fetches quotes and candles from the Yahoo Finance JSON endpoints.
// Calls are synchronous and are not retried; callers decide how a failure
// degrades.
type Yahoo struct {
	client  *http.Client
	baseURL string
}

func NewYahoo() *Yahoo {
	return &Yahoo{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: yahooBaseURL,
	}
}

type yahooError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type yahooQuoteResult struct {
	RegularMarketPrice         *float64 `json:"regularMarketPrice"`
	RegularMarketPreviousClose *float64 `json:"regularMarketPreviousClose"`
	RegularMarketDayHigh       *float64 `json:"regularMarketDayHigh"`
	RegularMarketDayLow        *float64 `json:"regularMarketDayLow"`
	FiftyTwoWeekHigh           *float64 `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow            *float64 `json:"fiftyTwoWeekLow"`
	MarketCap                  *float64 `json:"marketCap"`
	RegularMarketVolume        *float64 `json:"regularMarketVolume"`
	AverageDailyVolume10Day    *float64 `json:"averageDailyVolume10Day"`
}

type yahooQuoteResponse struct {
	QuoteResponse struct {
		Result []yahooQuoteResult `json:"result"`
		Error  *yahooError        `json:"error"`
	} `json:"quoteResponse"`
}

// Summary is the fast path over the batch quote endpoint.
func (y *Yahoo) Summary(ctx context.Context, symbol string) (Summary, error) {
	u := fmt.Sprintf("%s/v7/finance/quote?symbols=%s", y.baseURL, url.QueryEscape(symbol))

	var resp yahooQuoteResponse
	if err := y.getJSON(ctx, u, &resp); err != nil {
		return Summary{}, err
	}
	if resp.QuoteResponse.Error != nil {
		return Summary{}, fmt.Errorf("yahoo quote %s: %s", symbol, resp.QuoteResponse.Error.Description)
	}
	if len(resp.QuoteResponse.Result) == 0 {
		return Summary{}, fmt.Errorf("yahoo quote %s: no result", symbol)
	}

	r := resp.QuoteResponse.Result[0]
	return Summary{
		LastPrice:     r.RegularMarketPrice,
		PreviousClose: r.RegularMarketPreviousClose,
		DayHigh:       r.RegularMarketDayHigh,
		DayLow:        r.RegularMarketDayLow,
		YearHigh:      r.FiftyTwoWeekHigh,
		YearLow:       r.FiftyTwoWeekLow,
		MarketCap:     r.MarketCap,
		Volume:        r.RegularMarketVolume,
		AvgVolume10D:  r.AverageDailyVolume10Day,
	}, nil
}

// yahooValue is Yahoo's {raw, fmt} number wrapper; only raw matters here.
type yahooValue struct {
	Raw *float64 `json:"raw"`
}

type yahooSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			Price *struct {
				RegularMarketPrice         yahooValue `json:"regularMarketPrice"`
				RegularMarketPreviousClose yahooValue `json:"regularMarketPreviousClose"`
				RegularMarketDayHigh       yahooValue `json:"regularMarketDayHigh"`
				RegularMarketDayLow        yahooValue `json:"regularMarketDayLow"`
				RegularMarketVolume        yahooValue `json:"regularMarketVolume"`
				MarketCap                  yahooValue `json:"marketCap"`
			} `json:"price"`
			SummaryDetail *struct {
				PreviousClose       yahooValue `json:"previousClose"`
				DayHigh             yahooValue `json:"dayHigh"`
				DayLow              yahooValue `json:"dayLow"`
				FiftyTwoWeekHigh    yahooValue `json:"fiftyTwoWeekHigh"`
				FiftyTwoWeekLow     yahooValue `json:"fiftyTwoWeekLow"`
				Volume              yahooValue `json:"volume"`
				AverageVolume10days yahooValue `json:"averageVolume10days"`
				AverageVolume       yahooValue `json:"averageVolume"`
				MarketCap           yahooValue `json:"marketCap"`
			} `json:"summaryDetail"`
		} `json:"result"`
		Error *yahooError `json:"error"`
	} `json:"quoteSummary"`
}

// Details is the slower quoteSummary fallback.
func (y *Yahoo) Details(ctx context.Context, symbol string) (Summary, error) {
	u := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=price%%2CsummaryDetail",
		y.baseURL, url.PathEscape(symbol))

	var resp yahooSummaryResponse
	if err := y.getJSON(ctx, u, &resp); err != nil {
		return Summary{}, err
	}
	if resp.QuoteSummary.Error != nil {
		return Summary{}, fmt.Errorf("yahoo summary %s: %s", symbol, resp.QuoteSummary.Error.Description)
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return Summary{}, fmt.Errorf("yahoo summary %s: no result", symbol)
	}

	var s Summary
	r := resp.QuoteSummary.Result[0]
	if p := r.Price; p != nil {
		s.LastPrice = p.RegularMarketPrice.Raw
		s.PreviousClose = p.RegularMarketPreviousClose.Raw
		s.DayHigh = p.RegularMarketDayHigh.Raw
		s.DayLow = p.RegularMarketDayLow.Raw
		s.Volume = p.RegularMarketVolume.Raw
		s.MarketCap = p.MarketCap.Raw
	}
	if d := r.SummaryDetail; d != nil {
		if s.PreviousClose == nil {
			s.PreviousClose = d.PreviousClose.Raw
		}
		if s.DayHigh == nil {
			s.DayHigh = d.DayHigh.Raw
		}
		if s.DayLow == nil {
			s.DayLow = d.DayLow.Raw
		}
		s.YearHigh = d.FiftyTwoWeekHigh.Raw
		s.YearLow = d.FiftyTwoWeekLow.Raw
		if s.Volume == nil {
			s.Volume = d.Volume.Raw
		}
		if s.MarketCap == nil {
			s.MarketCap = d.MarketCap.Raw
		}
		s.AvgVolume10D = d.AverageVolume10days.Raw
		if s.AvgVolume10D == nil {
			s.AvgVolume10D = d.AverageVolume.Raw
		}
	}
	return s, nil
}

type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				ExchangeTimezoneName string `json:"exchangeTimezoneName"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *yahooError `json:"error"`
	} `json:"chart"`
}

// History fetches candles from the chart endpoint, e.g. period "1mo" with
// interval "1d", or "1d" with "1m" for intraday. Timestamps are converted to
// the exchange timezone so intraday labels read in market hours.
func (y *Yahoo) History(ctx context.Context, symbol, period, interval string) ([]RawBar, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?range=%s&interval=%s",
		y.baseURL, url.PathEscape(symbol), url.QueryEscape(period), url.QueryEscape(interval))

	var resp yahooChartResponse
	if err := y.getJSON(ctx, u, &resp); err != nil {
		return nil, err
	}
	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo chart %s: %s", symbol, resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("yahoo chart %s: no result", symbol)
	}

	r := resp.Chart.Result[0]
	loc, err := time.LoadLocation(r.Meta.ExchangeTimezoneName)
	if err != nil {
		loc = time.UTC
	}

	if len(r.Indicators.Quote) == 0 {
		return []RawBar{}, nil
	}
	q := r.Indicators.Quote[0]

	bars := make([]RawBar, 0, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		bars = append(bars, RawBar{
			Timestamp: time.Unix(ts, 0).In(loc),
			Open:      at(q.Open, i),
			High:      at(q.High, i),
			Low:       at(q.Low, i),
			Close:     at(q.Close, i),
			Volume:    at(q.Volume, i),
		})
	}
	return bars, nil
}

func at(vals []*float64, i int) *float64 {
	if i < len(vals) {
		return vals[i]
	}
	return nil
}

func (y *Yahoo) getJSON(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	// Yahoo rejects requests without a browser-ish UA.
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; finance-tracker/1.0)")

	resp, err := y.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("yahoo: unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
