package presale

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/aurumtokenaur/aurum-swap-site/pkg/chains"
	"github.com/aurumtokenaur/aurum-swap-site/pkg/constants"
	"github.com/aurumtokenaur/aurum-swap-site/pkg/ui"
	"github.com/aurumtokenaur/aurum-swap-site/pkg/utils"
)

// Executor validates and submits purchase transactions. It borrows the session
// read-only for one invocation; at most one purchase is in flight at any time.
type Executor struct {
	session  *Session
	provider chains.WalletProvider
	sink     ui.Sink
	logger   *slog.Logger

	buying atomic.Bool

	// onConfirmed runs after a confirmed purchase, before the executor
	// returns. The orchestrator hooks the progress refresh here.
	onConfirmed func(ctx context.Context)
}

// NewExecutor builds an executor over the session and its provider.
func NewExecutor(session *Session, provider chains.WalletProvider, sink ui.Sink, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{
		session:  session,
		provider: provider,
		sink:     sink,
		logger:   logger,
	}
}

// SetConfirmedHook registers the post-confirmation callback.
func (ex *Executor) SetConfirmedHook(fn func(ctx context.Context)) {
	ex.onConfirmed = fn
}

// Buy runs one purchase invocation end to end: the precondition ladder, wei
// conversion, gas estimation with headroom, submission, and confirmation. Every
// failure is classified; the buy control is re-enabled on every exit path.
func (ex *Executor) Buy(ctx context.Context, rawAmount string) PurchaseOutcome {
	account, contract, ok := ex.session.Snapshot()
	if !ok {
		ex.sink.SetStatus("Connect your wallet first.", ui.SeverityError)
		return failed(ErrNotConnected)
	}

	if !ex.buying.CompareAndSwap(false, true) {
		ex.sink.SetStatus("A purchase is already in progress. Confirm or reject it in your wallet.", ui.SeverityError)
		return failed(ErrPurchaseInFlight)
	}
	defer ex.buying.Store(false)

	ex.sink.SetControl(ui.ControlBuy, false)
	defer ex.sink.SetControl(ui.ControlBuy, true)

	outcome := ex.buy(ctx, account, contract, rawAmount)
	if outcome.Kind == OutcomeFailed {
		ex.reportPurchaseError(outcome.Err)
	}
	return outcome
}

func (ex *Executor) buy(ctx context.Context, account string, contract chains.SaleContract, rawAmount string) PurchaseOutcome {
	// Pause guard. A read failure is tolerated (some deployments omit the
	// flag) but an affirmative pause is a hard stop.
	paused, err := contract.Paused(ctx)
	if err != nil {
		ex.logger.Warn("paused check failed", "error", err)
	} else if paused {
		return failed(ErrContractPaused)
	}

	valueWei, err := parseAmountWei(rawAmount)
	if err != nil {
		return failed(err)
	}

	// Local balance check avoids a doomed submission.
	balance, err := ex.provider.Balance(ctx, account)
	if err != nil {
		return failed(classifyPurchaseError(err))
	}
	if balance.Cmp(valueWei) < 0 {
		return failed(ErrInsufficientFunds)
	}

	// Gas estimate with +20% headroom. Estimation failure is a deliberate
	// fallback to the network default, not a fatal error: some nodes reject
	// simulation-only calls that succeed in the real call.
	var gasLimit uint64
	if est, err := contract.EstimateBuyGas(ctx, valueWei); err != nil {
		ex.logger.Warn("gas estimation failed, proceeding without explicit limit", "error", err)
		ex.sink.SetStatus("Gas estimate unavailable; the network default will apply.", ui.SeverityNeutral)
	} else {
		gasLimit = est * constants.GasHeadroomNum / constants.GasHeadroomDen
	}

	ex.sink.SetStatus("Sending transaction. Confirm in your wallet.", ui.SeverityNeutral)

	txHash, err := contract.BuyTokens(ctx, valueWei, gasLimit)
	if err != nil {
		return failed(classifyPurchaseError(err))
	}

	// Report acceptance before waiting; the user gets the hash immediately.
	ex.sink.SetLink(ui.LinkTx, utils.ExplorerTxURL(txHash))
	ex.sink.SetStatus(fmt.Sprintf("Tx sent: %s", txHash), ui.SeverityNeutral)
	ex.logger.Info("purchase submitted", "tx", txHash, "valueWei", valueWei.String())

	receipt, err := contract.WaitMined(ctx, txHash)
	if err != nil {
		// Covers the signing capability going stale mid-flight after an
		// external account or network change.
		return failed(classifyPurchaseError(err))
	}

	if !receipt.IsSuccessful() {
		ex.sink.SetStatus(fmt.Sprintf("Transaction reverted on chain: %s", txHash), ui.SeverityError)
		ex.logger.Warn("purchase reverted", "tx", txHash)
		return reverted(txHash)
	}

	ex.sink.SetStatus(fmt.Sprintf("Purchase confirmed: %s", txHash), ui.SeveritySuccess)
	ex.logger.Info("purchase confirmed", "tx", txHash)

	ex.refreshBalance(ctx, account)
	if ex.onConfirmed != nil {
		ex.onConfirmed(ctx)
	}
	return confirmed(txHash)
}

func (ex *Executor) refreshBalance(ctx context.Context, account string) {
	balance, err := ex.provider.Balance(ctx, account)
	if err != nil {
		ex.logger.Warn("balance refresh failed", "error", err)
		return
	}
	ex.sink.SetBadge(ui.BadgeBalance, fmt.Sprintf("Balance: %s BNB", formatWeiToBNB(balance)))
}

func (ex *Executor) reportPurchaseError(err error) {
	switch {
	case errors.Is(err, ErrNotConnected), errors.Is(err, ErrPurchaseInFlight):
		// Already reported before the ladder ran.
		return
	case errors.Is(err, ErrContractPaused):
		ex.sink.SetStatus("Purchases are currently paused in the contract.", ui.SeverityError)
	case errors.Is(err, ErrInvalidAmount):
		ex.sink.SetStatus("Enter a valid BNB amount (ex: 0.05).", ui.SeverityError)
	case errors.Is(err, ErrInsufficientFunds):
		ex.sink.SetStatus("Insufficient balance to cover value + gas.", ui.SeverityError)
	case errors.Is(err, ErrUserRejected):
		ex.sink.SetStatus("Transaction rejected by user.", ui.SeverityError)
	default:
		ex.sink.SetStatus(fmt.Sprintf("Purchase error: %v", err), ui.SeverityError)
	}
	ex.logger.Warn("purchase failed", "error", err)
}
