package presale

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/aurumtokenaur/aurum-swap-site/pkg/chains"
	"github.com/aurumtokenaur/aurum-swap-site/pkg/constants"
	"github.com/aurumtokenaur/aurum-swap-site/pkg/rate"
	"github.com/aurumtokenaur/aurum-swap-site/pkg/ui"
)

type commandKind int

const (
	cmdConnect commandKind = iota
	cmdBuy
	cmdEstimate
	cmdRefresh
)

type command struct {
	kind commandKind
	arg  string // amount for cmdBuy, raw input for cmdEstimate
}

// Orchestrator wires UI events to the session, executor and tracker. Provider
// change notifications are re-dispatched as connect commands through the same
// channel as user events, keeping the state machine's entry points uniform.
type Orchestrator struct {
	session  *Session
	executor *Executor
	tracker  *Tracker
	rates    *rate.Estimator
	provider chains.WalletProvider
	sink     ui.Sink
	logger   *slog.Logger

	cmds chan command
}

// NewOrchestrator assembles the core around a session. The change handler is
// registered here, once, so each external notification produces exactly one
// reconnect command.
func NewOrchestrator(session *Session, executor *Executor, tracker *Tracker, rates *rate.Estimator, provider chains.WalletProvider, sink ui.Sink, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}

	o := &Orchestrator{
		session:  session,
		executor: executor,
		tracker:  tracker,
		rates:    rates,
		provider: provider,
		sink:     sink,
		logger:   logger,
		cmds:     make(chan command, 16),
	}

	executor.SetConfirmedHook(func(ctx context.Context) {
		if _, err := tracker.Refresh(ctx); err != nil {
			logger.Debug("post-purchase progress refresh skipped", "error", err)
		}
	})

	session.SetChangeHandler(func(ev chains.ChangeEvent) {
		// A connect in flight raises its own ChainChanged when it switches
		// networks programmatically; that sequence already covers the change,
		// so only settled sessions react to notifications.
		if st := session.State(); st == StateConnecting || st == StateNetworkChecking {
			logger.Debug("change notification dropped, connect in flight", "kind", ev.Kind)
			return
		}
		switch ev.Kind {
		case chains.AccountsChanged:
			sink.SetStatus("Account changed, reconnecting.", ui.SeverityNeutral)
		case chains.ChainChanged:
			sink.SetStatus("Network changed, reconnecting.", ui.SeverityNeutral)
		}
		o.enqueue(command{kind: cmdConnect})
	})

	return o
}

// Connect queues a connect sequence.
func (o *Orchestrator) Connect() {
	o.enqueue(command{kind: cmdConnect})
}

// Buy queues a purchase of the given raw amount.
func (o *Orchestrator) Buy(rawAmount string) {
	o.enqueue(command{kind: cmdBuy, arg: rawAmount})
}

// Estimate queues a token-amount estimate for the given raw input.
func (o *Orchestrator) Estimate(rawInput string) {
	o.enqueue(command{kind: cmdEstimate, arg: rawInput})
}

// RefreshProgress queues a progress read.
func (o *Orchestrator) RefreshProgress() {
	o.enqueue(command{kind: cmdRefresh})
}

// Run processes commands until ctx is done. Purchases run concurrently with
// the loop (their own single-flight guard applies) so a reconnect notification
// arriving mid-purchase is still handled; everything else runs in order.
func (o *Orchestrator) Run(ctx context.Context) error {
	// Auto-connect when the wallet already granted permissions.
	if _, ok := o.provider.Selected(); ok {
		o.enqueue(command{kind: cmdConnect})
	}

	ticker := time.NewTicker(constants.ProgressRefreshPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			o.refreshProgress(ctx)
		case cmd := <-o.cmds:
			switch cmd.kind {
			case cmdConnect:
				if err := o.session.Connect(ctx); err != nil {
					o.logger.Warn("connect sequence failed", "error", err)
				}
			case cmdBuy:
				go o.executor.Buy(ctx, cmd.arg)
			case cmdEstimate:
				o.estimate(ctx, cmd.arg)
			case cmdRefresh:
				o.refreshProgress(ctx)
			}
		}
	}
}

func (o *Orchestrator) enqueue(cmd command) {
	select {
	case o.cmds <- cmd:
	default:
		o.logger.Warn("command queue full, dropping", "kind", cmd.kind)
	}
}

func (o *Orchestrator) refreshProgress(ctx context.Context) {
	if o.session.State() != StateConnected {
		return
	}
	if _, err := o.tracker.Refresh(ctx); err != nil {
		o.logger.Debug("progress refresh skipped", "error", err)
	}
}

// estimate converts the raw BNB input into an approximate token amount using
// the cached exchange rate. Invalid input and a missing rate both degrade to
// the placeholder; the estimate never blocks anything.
func (o *Orchestrator) estimate(ctx context.Context, rawInput string) {
	const placeholder = "Estimated amount: —"

	amount, err := strconv.ParseFloat(rawInput, 64)
	if err != nil || amount <= 0 {
		o.sink.SetBadge(ui.BadgeEstimate, placeholder)
		return
	}

	bnbUSD, err := o.rates.Rate(ctx)
	if err != nil {
		o.logger.Warn("estimate unavailable", "error", err)
		o.sink.SetBadge(ui.BadgeEstimate, placeholder)
		return
	}

	usd := amount * bnbUSD
	tokens := rate.Estimate(amount, bnbUSD, constants.TokenPriceUSD)
	o.sink.SetBadge(ui.BadgeEstimate, fmt.Sprintf(
		"With %s BNB (~$%.2f), you will receive approx. %.2f %s",
		rawInput, usd, tokens, constants.TokenSymbol))
}
