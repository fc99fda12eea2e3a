package presale

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aurumtokenaur/aurum-swap-site/pkg/chains"
	"github.com/aurumtokenaur/aurum-swap-site/pkg/constants"
)

// Fatal categories leave the triggering control re-enabled and state rolled
// back; the non-fatal ones (rate, gas estimate, progress) degrade and never
// block subsequent operations.
var (
	ErrProviderMissing     = errors.New("no wallet provider available")
	ErrPendingApproval     = errors.New("connection request already pending")
	ErrUserRejected        = errors.New("request rejected by user")
	ErrNotConnected        = errors.New("wallet not connected")
	ErrPurchaseInFlight    = errors.New("purchase already in flight")
	ErrContractPaused      = errors.New("purchases are paused in the contract")
	ErrInvalidAmount       = errors.New("invalid purchase amount")
	ErrInsufficientFunds   = errors.New("insufficient balance")
	ErrInvalidAddress      = errors.New("invalid contract address")
	ErrProgressUnavailable = errors.New("sale progress unavailable")
)

// WrongNetworkError reports a network-identity mismatch that a programmatic
// switch could not resolve.
type WrongNetworkError struct {
	Current  int64
	Required int64
}

func (e *WrongNetworkError) Error() string {
	return fmt.Sprintf("wrong network: on chain %d, presale requires chain %d", e.Current, e.Required)
}

// ConnectionError wraps a connect failure that is neither a pending request
// nor a user rejection.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection error: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// PurchaseError wraps a submission or confirmation failure that does not map
// to a more specific category. Reason carries the most specific message the
// failure object offered, preferring an embedded revert reason.
type PurchaseError struct {
	Reason string
	Err    error
}

func (e *PurchaseError) Error() string {
	return fmt.Sprintf("purchase error: %s", e.Reason)
}

func (e *PurchaseError) Unwrap() error {
	return e.Err
}

// classifyConnectError maps a raw connect failure onto the fixed taxonomy.
// Nothing is silently swallowed: everything not recognized becomes a
// ConnectionError carrying the original failure.
func classifyConnectError(err error) error {
	var pe *chains.ProviderError
	if errors.As(err, &pe) {
		switch pe.Code {
		case constants.CodeRequestPending:
			return ErrPendingApproval
		case constants.CodeUserRejected:
			return ErrUserRejected
		}
		if isUserRejection(pe.BestMessage()) {
			return ErrUserRejected
		}
	}
	if isUserRejection(err.Error()) {
		return ErrUserRejected
	}
	return &ConnectionError{Err: err}
}

// classifyPurchaseError maps a submission or await failure onto the taxonomy,
// preferring the most specific message field the provider error carries.
func classifyPurchaseError(err error) error {
	msg := err.Error()

	var pe *chains.ProviderError
	if errors.As(err, &pe) {
		msg = pe.BestMessage()
		switch pe.Code {
		case constants.CodeInsufficientFunds:
			return ErrInsufficientFunds
		case constants.CodeUserRejected:
			return ErrUserRejected
		}
	}

	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "insufficient funds"):
		return ErrInsufficientFunds
	case isUserRejection(msg):
		return ErrUserRejected
	}

	return &PurchaseError{Reason: msg, Err: err}
}

func isUserRejection(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "user rejected") || strings.Contains(lower, "user denied")
}
