package market

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

// fakeProvider serves canned data per provider symbol. A symbol listed in
// fail errors every call, like an upstream outage for that listing.
type fakeProvider struct {
	summaries map[string]Summary
	details   map[string]Summary
	bars      map[string][]RawBar
	fail      map[string]bool
}

var errUpstream = errors.New("upstream unavailable")

func (p *fakeProvider) Summary(_ context.Context, symbol string) (Summary, error) {
	if p.fail[symbol] {
		return Summary{}, errUpstream
	}
	s, ok := p.summaries[symbol]
	if !ok {
		return Summary{}, errUpstream
	}
	return s, nil
}

func (p *fakeProvider) Details(_ context.Context, symbol string) (Summary, error) {
	if p.fail[symbol] {
		return Summary{}, errUpstream
	}
	s, ok := p.details[symbol]
	if !ok {
		return Summary{}, errUpstream
	}
	return s, nil
}

func (p *fakeProvider) History(_ context.Context, symbol, _, _ string) ([]RawBar, error) {
	if p.fail[symbol] {
		return nil, errUpstream
	}
	b, ok := p.bars[symbol]
	if !ok {
		return nil, errUpstream
	}
	return b, nil
}

func TestBuildQuoteDerivedMetrics(t *testing.T) {
	p := &fakeProvider{summaries: map[string]Summary{
		"ZOMATO.NS": {
			LastPrice:     f(105.123),
			PreviousClose: f(100),
			Volume:        f(1200),
			AvgVolume10D:  f(1000),
			MarketCap:     f(5e9),
		},
	}}

	q, err := BuildQuote(context.Background(), p, "ZOMATO.NS")
	require.NoError(t, err)

	assert.Equal(t, 105.12, q.CurrentPrice)
	assert.Equal(t, 100.0, q.PreviousClose)
	assert.Equal(t, 5.12, q.Change)
	assert.Equal(t, 5.12, q.ChangePercent)
	assert.Equal(t, int64(1200), q.Volume)
	assert.Equal(t, int64(1000), q.AvgVolume)
	assert.Equal(t, 20.0, q.VolumeChange)
	assert.Equal(t, 5e9, q.MarketCap)
}

func TestBuildQuoteZeroPreviousClose(t *testing.T) {
	p := &fakeProvider{summaries: map[string]Summary{
		"X.NS": {LastPrice: f(42.5)},
	}}

	q, err := BuildQuote(context.Background(), p, "X.NS")
	require.NoError(t, err)

	assert.Equal(t, 42.5, q.CurrentPrice)
	assert.Equal(t, 0.0, q.PreviousClose)
	assert.Equal(t, 0.0, q.Change)
	assert.Equal(t, 0.0, q.ChangePercent)
}

func TestBuildQuoteZeroAvgVolume(t *testing.T) {
	p := &fakeProvider{summaries: map[string]Summary{
		"X.NS": {LastPrice: f(10), PreviousClose: f(10), Volume: f(5000)},
	}}

	q, err := BuildQuote(context.Background(), p, "X.NS")
	require.NoError(t, err)

	assert.Equal(t, int64(5000), q.Volume)
	assert.Equal(t, int64(0), q.AvgVolume)
	assert.Equal(t, 0.0, q.VolumeChange)
}

func TestBuildQuoteDetailsFallback(t *testing.T) {
	// The fast path answered but carried no price; the detailed info fills
	// the gaps without overwriting what the fast path already had.
	p := &fakeProvider{
		summaries: map[string]Summary{
			"X.NS": {PreviousClose: f(90)},
		},
		details: map[string]Summary{
			"X.NS": {LastPrice: f(99), PreviousClose: f(1), YearHigh: f(120)},
		},
	}

	q, err := BuildQuote(context.Background(), p, "X.NS")
	require.NoError(t, err)

	assert.Equal(t, 99.0, q.CurrentPrice)
	assert.Equal(t, 90.0, q.PreviousClose, "fast-path value must win over the fallback")
	assert.Equal(t, 120.0, q.YearHigh)
}

func TestBuildQuoteHistoryFallback(t *testing.T) {
	day := time.Date(2025, 8, 29, 0, 0, 0, 0, time.UTC)
	p := &fakeProvider{
		bars: map[string][]RawBar{
			"X.NS": {
				{Timestamp: day.AddDate(0, 0, -1), Close: f(99)},
				{Timestamp: day, Close: f(101.005)},
			},
		},
	}

	q, err := BuildQuote(context.Background(), p, "X.NS")
	require.NoError(t, err)

	assert.Equal(t, 101.01, q.CurrentPrice)
	assert.Equal(t, 99.0, q.PreviousClose)
}

func TestBuildQuoteHistoryFallbackSingleBar(t *testing.T) {
	p := &fakeProvider{
		bars: map[string][]RawBar{
			"X.NS": {{Timestamp: time.Now(), Close: f(55)}},
		},
	}

	q, err := BuildQuote(context.Background(), p, "X.NS")
	require.NoError(t, err)

	assert.Equal(t, 55.0, q.CurrentPrice)
	assert.Equal(t, 55.0, q.PreviousClose)
	assert.Equal(t, 0.0, q.Change)
}

func TestBuildQuoteAllSourcesFail(t *testing.T) {
	p := &fakeProvider{fail: map[string]bool{"X.NS": true}}

	_, err := BuildQuote(context.Background(), p, "X.NS")
	assert.Error(t, err)
}

func TestHistoricalBarsNormalizes(t *testing.T) {
	day := time.Date(2025, 8, 29, 0, 0, 0, 0, time.UTC)
	p := &fakeProvider{bars: map[string][]RawBar{
		"X.NS": {
			{Timestamp: day, Open: f(10.119), High: f(10.5), Low: nil, Close: f(10.204), Volume: f(1234)},
			{Timestamp: day.AddDate(0, 0, 1), Volume: f(-5)},
		},
	}}

	bars := HistoricalBars(context.Background(), p, "X.NS", "1mo")
	require.Len(t, bars, 2)

	assert.Equal(t, "2025-08-29", bars[0].Date)
	assert.Equal(t, 10.12, bars[0].Open)
	assert.Equal(t, 0.0, bars[0].Low)
	assert.Equal(t, 10.2, bars[0].Close)
	assert.Equal(t, int64(1234), bars[0].Volume)

	assert.Equal(t, "2025-08-30", bars[1].Date)
	assert.Equal(t, 0.0, bars[1].Close)
	assert.Equal(t, int64(0), bars[1].Volume, "negative upstream volume clamps to zero")
}

func TestHistoricalBarsEmptyOnFailure(t *testing.T) {
	p := &fakeProvider{fail: map[string]bool{"X.NS": true}}

	bars := HistoricalBars(context.Background(), p, "X.NS", "1mo")
	assert.Empty(t, bars)
}

func TestIntradayShaping(t *testing.T) {
	ts := time.Date(2025, 8, 29, 9, 15, 0, 0, time.UTC)
	p := &fakeProvider{bars: map[string][]RawBar{
		"X.NS": {
			{Timestamp: ts, Close: f(100.018), Volume: f(500)},
			{Timestamp: ts.Add(time.Minute), Close: nil, Volume: nil},
		},
	}}

	points, err := Intraday(context.Background(), p, "X.NS")
	require.NoError(t, err)
	require.Len(t, points, 2)

	assert.Equal(t, "09:15", points[0].Time)
	assert.Equal(t, 100.02, points[0].Price)
	assert.Equal(t, int64(500), points[0].Volume)
	assert.Equal(t, "09:16", points[1].Time)
	assert.Equal(t, 0.0, points[1].Price)
}

func shockerSummary(changePercent float64) Summary {
	avg := 1000.0
	vol := avg * (1 + changePercent/100)
	return Summary{LastPrice: f(100), PreviousClose: f(100), Volume: &vol, AvgVolume10D: &avg}
}

func TestVolumeShockersScreen(t *testing.T) {
	p := &fakeProvider{
		summaries: map[string]Summary{
			"ZOMATO.NS":     shockerSummary(150),
			"OLA.NS":        shockerSummary(120),
			"BSE.NS":        shockerSummary(90),
			"IRFC.NS":       shockerSummary(60),
			"JIOFIN.NS":     shockerSummary(45),
			"WAAREE.NS":     shockerSummary(30),
			"VTL.NS":        shockerSummary(25),
			"GODFRYPHLP.NS": shockerSummary(10),
		},
		fail: map[string]bool{"MAZDOCK.NS": true},
	}

	shockers := VolumeShockers(context.Background(), p)

	require.Len(t, shockers, 5, "screen is capped at five rows")
	want := []string{"ZOMATO", "OLA", "BSE", "IRFC", "JIOFIN"}
	for i, s := range shockers {
		assert.Equal(t, want[i], s.Symbol)
	}
	for i := 1; i < len(shockers); i++ {
		assert.GreaterOrEqual(t, shockers[i-1].VolumeChange, shockers[i].VolumeChange)
	}
}

func TestVolumeShockersBelowThresholdExcluded(t *testing.T) {
	p := &fakeProvider{summaries: map[string]Summary{
		"ZOMATO.NS": shockerSummary(20), // exactly at the threshold, not above
	}, fail: map[string]bool{}}
	for _, l := range Universe {
		if l.Symbol != "ZOMATO.NS" {
			p.fail[l.Symbol] = true
		}
	}

	shockers := VolumeShockers(context.Background(), p)
	assert.Empty(t, shockers)
}

func TestCoalesceOrder(t *testing.T) {
	assert.Equal(t, 1.5, coalesce(9, nil, f(1.5), f(2)))
	assert.Equal(t, 9.0, coalesce(9, nil, nil))
	assert.Equal(t, 9.0, coalesce(9))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.01, round2(1.005))
	assert.Equal(t, -2.35, round2(-2.345))
	assert.Equal(t, 0.0, round2(0))
}
