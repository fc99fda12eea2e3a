package presale

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"sync"

	"github.com/aurumtokenaur/aurum-swap-site/pkg/chains"
	"github.com/aurumtokenaur/aurum-swap-site/pkg/constants"
	"github.com/aurumtokenaur/aurum-swap-site/pkg/ui"
)

// Progress reports cumulative sale progress relative to the captured baseline.
// Sold may be negative when the contract's token balance increases; it is
// reported as-is.
type Progress struct {
	Sold    *big.Int
	Total   *big.Int
	Percent float64
}

// Tracker reads the presale contract's token balance and reports batch
// progress. The baseline is captured on the first successful read after a
// session exists and never recaptured, even across reconnects; the tracker
// therefore outlives individual sessions.
type Tracker struct {
	session *Session
	binder  chains.ContractBinder
	sink    ui.Sink
	logger  *slog.Logger

	mu       sync.Mutex
	baseline *big.Int // whole tokens, immutable once set
}

// NewTracker builds a tracker bound to the session's contract.
func NewTracker(session *Session, binder chains.ContractBinder, sink ui.Sink, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{
		session: session,
		binder:  binder,
		sink:    sink,
		logger:  logger,
	}
}

// Refresh reads the current token balance and publishes progress to the sink.
// Progress is best-effort: every failure maps to ErrProgressUnavailable and
// must never block the purchase flow.
func (t *Tracker) Refresh(ctx context.Context) (Progress, error) {
	_, contract, ok := t.session.Snapshot()
	if !ok {
		return Progress{}, ErrProgressUnavailable
	}

	tokenAddr, err := contract.TokenAddress(ctx)
	if err != nil {
		t.logger.Warn("token address read failed", "error", err)
		return Progress{}, fmt.Errorf("%w: %v", ErrProgressUnavailable, err)
	}

	token, err := t.binder.BindToken(ctx, tokenAddr)
	if err != nil {
		return Progress{}, fmt.Errorf("%w: %v", ErrProgressUnavailable, err)
	}

	balance, err := token.BalanceOf(ctx, t.session.ContractAddress())
	if err != nil {
		t.logger.Warn("token balance read failed", "error", err)
		return Progress{}, fmt.Errorf("%w: %v", ErrProgressUnavailable, err)
	}

	current := wholeTokens(balance)

	t.mu.Lock()
	if t.baseline == nil {
		t.baseline = new(big.Int).Set(current)
		t.logger.Info("sale baseline captured", "tokens", t.baseline.String())
	}
	baseline := new(big.Int).Set(t.baseline)
	t.mu.Unlock()

	sold := new(big.Int).Sub(baseline, current)

	var percent float64
	if baseline.Sign() > 0 {
		soldF, _ := new(big.Float).SetInt(sold).Float64()
		baseF, _ := new(big.Float).SetInt(baseline).Float64()
		percent = soldF / baseF * 100
	}

	label := fmt.Sprintf("%s / %s %s sold in this batch (%.1f%%)",
		sold.String(), baseline.String(), constants.TokenSymbol, percent)
	t.sink.SetProgress(percent, label)

	return Progress{Sold: sold, Total: baseline, Percent: percent}, nil
}
