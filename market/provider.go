package market

import (
	"context"
	"time"
)

// Summary holds the upstream quote fields for one symbol. Every field is
// optional: a nil pointer means the source did not carry the value.
type Summary struct {
	LastPrice     *float64
	PreviousClose *float64
	DayHigh       *float64
	DayLow        *float64
	YearHigh      *float64
	YearLow       *float64
	MarketCap     *float64
	Volume        *float64
	AvgVolume10D  *float64
}

// RawBar is one OHLCV candle as delivered by the provider. Upstream feeds
// routinely carry null slots inside a series, hence the pointers.
type RawBar struct {
	Timestamp time.Time
	Open      *float64
	High      *float64
	Low       *float64
	Close     *float64
	Volume    *float64
}

// Provider is the market-data upstream.
//
// Summary is the fast path. Details is the slower fallback dictionary that
// fills gaps the fast path left. History fetches candles for a period such
// as "1mo" at a daily interval, or "1d" at "1m" for intraday.
type Provider interface {
	Summary(ctx context.Context, symbol string) (Summary, error)
	Details(ctx context.Context, symbol string) (Summary, error)
	History(ctx context.Context, symbol, period, interval string) ([]RawBar, error)
}
