package ticker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/aurumtokenaur/aurum-swap-site/pkg/constants"
	"github.com/aurumtokenaur/aurum-swap-site/pkg/utils"
)

// DefaultSymbols is the trading-pair set shown in the price marquee.
var DefaultSymbols = []string{
	"BNBUSDT", "BTCUSDT", "ETHUSDT", "SOLUSDT", "ADAUSDT", "XRPUSDT",
	"DOGEUSDT", "MATICUSDT", "DOTUSDT", "SHIBUSDT", "LTCUSDT", "AVAXUSDT",
	"TRXUSDT", "LINKUSDT", "UNIUSDT", "ATOMUSDT", "BCHUSDT", "AAVEUSDT",
	"FILUSDT", "NEARUSDT", "EGLDUSDT", "XLMUSDT", "ETCUSDT", "ICPUSDT",
}

// Trend discriminates a quote's 24h direction.
type Trend int

const (
	TrendStable Trend = iota
	TrendUp
	TrendDown
)

func (t Trend) String() string {
	switch t {
	case TrendUp:
		return "up"
	case TrendDown:
		return "down"
	default:
		return "stable"
	}
}

// Quote is one rendered marquee entry. Asset is the pair symbol with the quote
// currency stripped ("BNBUSDT" becomes "BNB").
type Quote struct {
	Asset         string
	LastPrice     float64
	ChangePercent float64
	Trend         Trend
}

// Display renders the quote the way the marquee shows it.
func (q Quote) Display() string {
	return fmt.Sprintf("%s: $%.3f (%+.2f%%)", q.Asset, q.LastPrice, q.ChangePercent)
}

// Renderer receives each refreshed quote set. RenderError replaces the lane
// when a refresh fails entirely.
type Renderer interface {
	RenderQuotes(quotes []Quote)
	RenderError()
}

type statsResponse struct {
	Symbol             string `json:"symbol"`
	LastPrice          string `json:"lastPrice"`
	PriceChangePercent string `json:"priceChangePercent"`
}

// Marquee periodically fetches 24h ticker statistics for a fixed symbol set
// and pushes them to a renderer.
type Marquee struct {
	client   *resty.Client
	symbols  []string
	renderer Renderer
	logger   *slog.Logger
}

// NewMarquee builds a marquee over the given API base URL and symbol set. An
// empty symbol set falls back to DefaultSymbols.
func NewMarquee(baseURL string, symbols []string, renderer Renderer, logger *slog.Logger) *Marquee {
	if len(symbols) == 0 {
		symbols = DefaultSymbols
	}
	if logger == nil {
		logger = slog.Default()
	}
	client := resty.NewWithClient(utils.CreateHTTPClientWithTimeouts()).
		SetBaseURL(baseURL)
	return &Marquee{
		client:   client,
		symbols:  symbols,
		renderer: renderer,
		logger:   logger,
	}
}

// Run refreshes immediately and then on every tick until ctx is done. A failed
// refresh renders the error lane and the next tick retries; the marquee never
// stops on its own.
func (m *Marquee) Run(ctx context.Context) error {
	m.refresh(ctx)

	t := time.NewTicker(constants.TickerRefreshPeriod)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			m.refresh(ctx)
		}
	}
}

func (m *Marquee) refresh(ctx context.Context) {
	quotes, err := m.Fetch(ctx)
	if err != nil {
		m.logger.Warn("ticker refresh failed", "error", err)
		m.renderer.RenderError()
		return
	}
	m.renderer.RenderQuotes(quotes)
}

// Fetch retrieves the current 24h statistics for the configured symbols.
// Entries with malformed numeric fields are skipped, not fatal.
func (m *Marquee) Fetch(ctx context.Context) ([]Quote, error) {
	symbols, err := json.Marshal(m.symbols)
	if err != nil {
		return nil, fmt.Errorf("failed to encode symbol list: %w", err)
	}

	resp, err := m.client.R().
		SetContext(ctx).
		SetQueryParam("symbols", string(symbols)).
		Get("/api/v3/ticker/24hr")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("ticker endpoint returned status %d", resp.StatusCode())
	}

	var stats []statsResponse
	if err := json.Unmarshal(resp.Body(), &stats); err != nil {
		return nil, fmt.Errorf("failed to decode ticker response: %w", err)
	}

	quotes := make([]Quote, 0, len(stats))
	for _, s := range stats {
		price, err := strconv.ParseFloat(s.LastPrice, 64)
		if err != nil {
			m.logger.Warn("skipping malformed last price", "symbol", s.Symbol, "value", s.LastPrice)
			continue
		}
		change, err := strconv.ParseFloat(s.PriceChangePercent, 64)
		if err != nil {
			m.logger.Warn("skipping malformed change percent", "symbol", s.Symbol, "value", s.PriceChangePercent)
			continue
		}

		trend := TrendStable
		if change > 0 {
			trend = TrendUp
		} else if change < 0 {
			trend = TrendDown
		}

		quotes = append(quotes, Quote{
			Asset:         strings.TrimSuffix(s.Symbol, "USDT"),
			LastPrice:     price,
			ChangePercent: change,
			Trend:         trend,
		})
	}
	return quotes, nil
}
