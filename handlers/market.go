package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"finance-tracker/cache"
	"finance-tracker/market"

	"github.com/gin-gonic/gin"
)

// Handler serves the market-data API. The provider and cache are injected so
// tests can run against a fake upstream and no Redis.
type Handler struct {
	Provider market.Provider
	Cache    *cache.Service
}

func New(provider market.Provider, c *cache.Service) *Handler {
	return &Handler{Provider: provider, Cache: c}
}

// quoteFor builds the normalized quote for a listing, cache-aside per symbol.
func (h *Handler) quoteFor(ctx context.Context, l market.Listing) (market.Quote, error) {
	key := fmt.Sprintf("stock:%s:quote", l.Symbol)

	var q market.Quote
	if h.Cache.GetJSON(ctx, key, &q) {
		return q, nil
	}

	q, err := market.BuildQuote(ctx, h.Provider, l.Symbol)
	if err != nil {
		return market.Quote{}, err
	}
	q.Name = l.Name
	q.Key = l.Key

	h.Cache.SetJSON(ctx, key, q, cache.QuoteTTL)
	return q, nil
}

func (h *Handler) historyFor(ctx context.Context, l market.Listing, period string) []market.Bar {
	key := fmt.Sprintf("stock:%s:history:%s", l.Symbol, period)

	var bars []market.Bar
	if h.Cache.GetJSON(ctx, key, &bars) {
		return bars
	}

	bars = market.HistoricalBars(ctx, h.Provider, l.Symbol, period)
	if len(bars) > 0 {
		h.Cache.SetJSON(ctx, key, bars, cache.HistoryTTL)
	}
	return bars
}

// Stocks returns a quote for every tracked listing. A failed lookup drops
// that listing from the response instead of failing the request.
func (h *Handler) Stocks(c *gin.Context) {
	ctx := c.Request.Context()
	quotes := []market.Quote{}
	for _, l := range market.Universe {
		q, err := h.quoteFor(ctx, l)
		if err != nil {
			log.Printf("stocks: %s: %v", l.Symbol, err)
			continue
		}
		quotes = append(quotes, q)
	}
	respondData(c, http.StatusOK, quotes)
}

// Stock returns one quote plus a trailing month of daily candles.
func (h *Handler) Stock(c *gin.Context) {
	l, ok := market.Lookup(c.Param("symbol"))
	if !ok {
		respondError(c, http.StatusNotFound, "Stock not found")
		return
	}

	ctx := c.Request.Context()
	q, err := h.quoteFor(ctx, l)
	if err != nil {
		log.Printf("stock: %s: %v", l.Symbol, err)
		respondError(c, http.StatusNotFound, "Stock not found")
		return
	}
	q.History = h.historyFor(ctx, l, "1mo")

	respondData(c, http.StatusOK, q)
}

// VolumeShockers screens the universe for unusual volume, top five rows.
func (h *Handler) VolumeShockers(c *gin.Context) {
	ctx := c.Request.Context()
	key := "screen:volume-shockers"

	var shockers []market.Shocker
	if !h.Cache.GetJSON(ctx, key, &shockers) {
		shockers = market.VolumeShockers(ctx, h.Provider)
		h.Cache.SetJSON(ctx, key, shockers, cache.QuoteTTL)
	}
	respondData(c, http.StatusOK, shockers)
}

type portfolioSummary struct {
	Invested      float64 `json:"invested"`
	Current       float64 `json:"current"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	Holdings      []any   `json:"holdings"`
}

// Portfolio returns the demo portfolio summary shown on the dashboard.
func (h *Handler) Portfolio(c *gin.Context) {
	respondData(c, http.StatusOK, portfolioSummary{
		Invested:      24500.90,
		Current:       30080.57,
		Change:        5579.67,
		ChangePercent: 22.77,
		Holdings:      []any{},
	})
}

// Search matches tracked listings by key or company name.
func (h *Handler) Search(c *gin.Context) {
	respondData(c, http.StatusOK, market.Search(c.Query("q")))
}

// Intraday returns the one-minute series for the current trading day.
func (h *Handler) Intraday(c *gin.Context) {
	l, ok := market.Lookup(c.Param("symbol"))
	if !ok {
		respondError(c, http.StatusNotFound, "Could not fetch intraday data")
		return
	}

	ctx := c.Request.Context()
	key := fmt.Sprintf("stock:%s:intraday", l.Symbol)

	var points []market.Point
	if h.Cache.GetJSON(ctx, key, &points) {
		respondData(c, http.StatusOK, points)
		return
	}

	points, err := market.Intraday(ctx, h.Provider, l.Symbol)
	if err != nil {
		log.Printf("intraday: %s: %v", l.Symbol, err)
		respondError(c, http.StatusNotFound, "Could not fetch intraday data")
		return
	}
	h.Cache.SetJSON(ctx, key, points, cache.IntradayTTL)

	respondData(c, http.StatusOK, points)
}
