package market

import (
	"context"
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// Quote is the normalized snapshot for one symbol. Every field resolves to a
// numeric default when the upstream data is missing; price fields carry two
// decimal digits, volumes and market cap stay raw.
type Quote struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name,omitempty"`
	Key           string  `json:"key,omitempty"`
	CurrentPrice  float64 `json:"current_price"`
	PreviousClose float64 `json:"previous_close"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	Volume        int64   `json:"volume"`
	AvgVolume     int64   `json:"avg_volume"`
	VolumeChange  float64 `json:"volume_change"`
	MarketCap     float64 `json:"market_cap"`
	DayHigh       float64 `json:"day_high"`
	DayLow        float64 `json:"day_low"`
	YearHigh      float64 `json:"52_week_high"`
	YearLow       float64 `json:"52_week_low"`
	History       []Bar   `json:"history,omitempty"`
}

// Bar is one normalized daily candle.
type Bar struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// Point is one normalized intraday sample.
type Point struct {
	Time   string  `json:"time"`
	Price  float64 `json:"price"`
	Volume int64   `json:"volume"`
}

// Shocker is one row of the volume-shocker screen.
type Shocker struct {
	Name          string  `json:"name"`
	Symbol        string  `json:"symbol"`
	Volume        int64   `json:"volume"`
	VolumeChange  float64 `json:"volume_change"`
	CurrentPrice  float64 `json:"current_price"`
	ChangePercent float64 `json:"change_percent"`
}

const (
	shockerThreshold = 20.0
	shockerLimit     = 5
)

// round2 rounds to two decimal digits, mapping non-finite input to zero.
func round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// coalesce returns the first present candidate, or def when all are absent.
func coalesce(def float64, candidates ...*float64) float64 {
	for _, c := range candidates {
		if c != nil {
			return *c
		}
	}
	return def
}

// fill copies src fields into dst only where dst is still missing them.
func fill(dst *Summary, src Summary) {
	if dst.LastPrice == nil {
		dst.LastPrice = src.LastPrice
	}
	if dst.PreviousClose == nil {
		dst.PreviousClose = src.PreviousClose
	}
	if dst.DayHigh == nil {
		dst.DayHigh = src.DayHigh
	}
	if dst.DayLow == nil {
		dst.DayLow = src.DayLow
	}
	if dst.YearHigh == nil {
		dst.YearHigh = src.YearHigh
	}
	if dst.YearLow == nil {
		dst.YearLow = src.YearLow
	}
	if dst.MarketCap == nil {
		dst.MarketCap = src.MarketCap
	}
	if dst.Volume == nil {
		dst.Volume = src.Volume
	}
	if dst.AvgVolume10D == nil {
		dst.AvgVolume10D = src.AvgVolume10D
	}
}

// BuildQuote assembles a complete Quote for a provider symbol.
//
// Sources are consulted in order: the fast summary, then the detailed-info
// fallback when the fast path had no price, then recent daily closes when
// price or previous close are still missing. A failing source counts as
// absent and the lookup moves on. An error is returned only when no source
// answered at all; otherwise missing fields default to zero.
func BuildQuote(ctx context.Context, p Provider, symbol string) (Quote, error) {
	sum, err := p.Summary(ctx, symbol)
	answered := err == nil
	lastErr := err
	if err != nil {
		sum = Summary{}
	}

	if sum.LastPrice == nil {
		det, derr := p.Details(ctx, symbol)
		if derr == nil {
			answered = true
			fill(&sum, det)
		} else {
			lastErr = derr
		}
	}

	if sum.LastPrice == nil || sum.PreviousClose == nil {
		bars, herr := p.History(ctx, symbol, "2d", "1d")
		if herr == nil {
			answered = true
			closes := make([]float64, 0, len(bars))
			for _, b := range bars {
				if b.Close != nil {
					closes = append(closes, *b.Close)
				}
			}
			if len(closes) > 0 {
				if sum.LastPrice == nil {
					sum.LastPrice = &closes[len(closes)-1]
				}
				if sum.PreviousClose == nil {
					if len(closes) >= 2 {
						sum.PreviousClose = &closes[len(closes)-2]
					} else {
						sum.PreviousClose = &closes[len(closes)-1]
					}
				}
			}
		} else {
			lastErr = herr
		}
	}

	if !answered {
		return Quote{}, lastErr
	}

	currentPrice := round2(coalesce(0, sum.LastPrice))
	previousClose := round2(coalesce(0, sum.PreviousClose))

	var change, changePercent float64
	if previousClose != 0 {
		change = currentPrice - previousClose
		changePercent = change / previousClose * 100
	}

	volume := int64(coalesce(0, sum.Volume))
	avgVolume := int64(coalesce(0, sum.AvgVolume10D))
	var volumeChange float64
	if avgVolume != 0 {
		volumeChange = float64(volume-avgVolume) / float64(avgVolume) * 100
	}

	return Quote{
		Symbol:        symbol,
		CurrentPrice:  currentPrice,
		PreviousClose: previousClose,
		Change:        round2(change),
		ChangePercent: round2(changePercent),
		Volume:        volume,
		AvgVolume:     avgVolume,
		VolumeChange:  round2(volumeChange),
		MarketCap:     coalesce(0, sum.MarketCap),
		DayHigh:       coalesce(0, sum.DayHigh),
		DayLow:        coalesce(0, sum.DayLow),
		YearHigh:      coalesce(0, sum.YearHigh),
		YearLow:       coalesce(0, sum.YearLow),
	}, nil
}

// HistoricalBars fetches daily candles for a trailing period and normalizes
// them in input order. Any upstream failure yields an empty slice.
func HistoricalBars(ctx context.Context, p Provider, symbol, period string) []Bar {
	raw, err := p.History(ctx, symbol, period, "1d")
	if err != nil {
		return []Bar{}
	}
	bars := make([]Bar, 0, len(raw))
	for _, b := range raw {
		bars = append(bars, Bar{
			Date:   b.Timestamp.Format("2006-01-02"),
			Open:   round2(coalesce(0, b.Open)),
			High:   round2(coalesce(0, b.High)),
			Low:    round2(coalesce(0, b.Low)),
			Close:  round2(coalesce(0, b.Close)),
			Volume: nonNegVolume(b.Volume),
		})
	}
	return bars
}

// Intraday fetches the current day at one-minute granularity.
func Intraday(ctx context.Context, p Provider, symbol string) ([]Point, error) {
	raw, err := p.History(ctx, symbol, "1d", "1m")
	if err != nil {
		return nil, err
	}
	points := make([]Point, 0, len(raw))
	for _, b := range raw {
		points = append(points, Point{
			Time:   b.Timestamp.Format("15:04"),
			Price:  round2(coalesce(0, b.Close)),
			Volume: nonNegVolume(b.Volume),
		})
	}
	return points, nil
}

func nonNegVolume(v *float64) int64 {
	n := int64(coalesce(0, v))
	if n < 0 {
		return 0
	}
	return n
}

// VolumeShockers screens the tracked universe for symbols trading well above
// their ten-day average volume, newest screen per call. A failed quote for
// one symbol never aborts the screen for the rest.
func VolumeShockers(ctx context.Context, p Provider) []Shocker {
	shockers := []Shocker{}
	for _, l := range Universe {
		q, err := BuildQuote(ctx, p, l.Symbol)
		if err != nil {
			continue
		}
		if q.VolumeChange > shockerThreshold {
			shockers = append(shockers, Shocker{
				Name:          l.Name,
				Symbol:        l.Key,
				Volume:        q.Volume,
				VolumeChange:  q.VolumeChange,
				CurrentPrice:  q.CurrentPrice,
				ChangePercent: q.ChangePercent,
			})
		}
	}
	sort.SliceStable(shockers, func(i, j int) bool {
		return shockers[i].VolumeChange > shockers[j].VolumeChange
	})
	if len(shockers) > shockerLimit {
		shockers = shockers[:shockerLimit]
	}
	return shockers
}
