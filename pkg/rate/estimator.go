package rate

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/go-resty/resty/v2"

	"github.com/aurumtokenaur/aurum-swap-site/pkg/utils"
)

// UnavailableError reports that no exchange rate could be fetched. The cache
// stays empty so the next call retries.
type UnavailableError struct {
	Pair string
	Err  error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("exchange rate unavailable for %s: %v", e.Pair, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

type priceResponse struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

// Estimator fetches a single trading-pair price and caches it for the process
// lifetime. Fetch failures never poison the cache.
type Estimator struct {
	client *resty.Client
	pair   string
	logger *slog.Logger

	mu     sync.Mutex
	cached *float64
}

// NewEstimator builds an estimator for one trading pair against the given API
// base URL.
func NewEstimator(baseURL, pair string, logger *slog.Logger) *Estimator {
	if logger == nil {
		logger = slog.Default()
	}
	client := resty.NewWithClient(utils.CreateHTTPClientWithTimeouts()).
		SetBaseURL(baseURL)
	return &Estimator{client: client, pair: pair, logger: logger}
}

// Rate returns the cached rate, fetching it once on first use. On fetch or
// parse failure it returns an *UnavailableError and leaves the cache empty.
func (e *Estimator) Rate(ctx context.Context) (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cached != nil {
		return *e.cached, nil
	}

	rate, err := e.fetch(ctx)
	if err != nil {
		e.logger.Warn("price fetch failed", "pair", e.pair, "error", err)
		return 0, &UnavailableError{Pair: e.pair, Err: err}
	}

	e.cached = &rate
	e.logger.Debug("price cached", "pair", e.pair, "rate", rate)
	return rate, nil
}

func (e *Estimator) fetch(ctx context.Context) (float64, error) {
	resp, err := e.client.R().
		SetContext(ctx).
		SetQueryParam("symbol", e.pair).
		Get("/api/v3/ticker/price")
	if err != nil {
		return 0, err
	}
	if resp.IsError() {
		return 0, fmt.Errorf("price endpoint returned status %d", resp.StatusCode())
	}

	var body priceResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return 0, fmt.Errorf("failed to decode price response: %w", err)
	}

	rate, err := strconv.ParseFloat(body.Price, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed price %q: %w", body.Price, err)
	}
	if rate <= 0 {
		return 0, fmt.Errorf("non-positive price %q", body.Price)
	}
	return rate, nil
}

// Estimate converts amount of the base currency into the estimated token
// quantity: amount * rate / unitPriceUSD. Callers must treat non-positive or
// non-numeric amounts as "no estimate" and not call this function.
func Estimate(amount, rate, unitPriceUSD float64) float64 {
	return amount * rate / unitPriceUSD
}
