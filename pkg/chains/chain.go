package chains

import (
	"context"
	"fmt"
	"math/big"
)

// WalletProvider is the wallet capability the presale core consumes. It mirrors
// the EIP-1193 provider surface: account acquisition, network identity, a
// programmatic network switch, and account/network change notifications.
type WalletProvider interface {
	// RequestAccounts prompts the wallet for access and returns the active
	// accounts. A second call while one is outstanding fails with a
	// ProviderError carrying the request-pending code.
	RequestAccounts(ctx context.Context) ([]string, error)

	// ChainID returns the numeric id of the currently active network.
	ChainID(ctx context.Context) (int64, error)

	// SwitchChain asks the wallet to change the active network. Unconfigured
	// targets fail with a ProviderError carrying the unrecognized-chain code.
	SwitchChain(ctx context.Context, chainID int64) error

	// Balance returns the native-currency balance of an account in wei.
	Balance(ctx context.Context, account string) (*big.Int, error)

	// Selected reports the account the wallet already exposes without a prompt,
	// if any. Used for the auto-connect probe at startup.
	Selected() (string, bool)

	// Subscribe registers a change-notification listener and returns its
	// unsubscribe function. Each call replaces nothing; callers own idempotency
	// by unsubscribing the previous registration first.
	Subscribe(fn func(ChangeEvent)) (unsubscribe func())
}

// ContractBinder produces contract handles bound to the provider's signing
// capability. Binding happens only after a connect sequence fully succeeds.
type ContractBinder interface {
	BindContract(ctx context.Context, address string) (SaleContract, error)
	BindToken(ctx context.Context, address string) (TokenReader, error)
}

// SaleContract is the presale contract capability bound to a connected signer.
type SaleContract interface {
	// Paused reads the contract-level pause flag.
	Paused(ctx context.Context) (bool, error)

	// TokenAddress reads the address of the token being sold.
	TokenAddress(ctx context.Context) (string, error)

	// RateTokensPerBNB reads the configured on-chain sale rate.
	RateTokensPerBNB(ctx context.Context) (*big.Int, error)

	// TokensForSale reads the configured total sale allocation.
	TokensForSale(ctx context.Context) (*big.Int, error)

	// EstimateBuyGas simulates buyTokens with the given value and returns a gas
	// estimate.
	EstimateBuyGas(ctx context.Context, valueWei *big.Int) (uint64, error)

	// BuyTokens submits the purchase call with the given value. A zero gasLimit
	// means no explicit limit; the network default applies.
	BuyTokens(ctx context.Context, valueWei *big.Int, gasLimit uint64) (txHash string, err error)

	// WaitMined blocks until the transaction is mined or ctx is done.
	WaitMined(ctx context.Context, txHash string) (TransactionReceipt, error)
}

// TokenReader exposes the balance-of read of the secondary token contract.
type TokenReader interface {
	BalanceOf(ctx context.Context, holder string) (*big.Int, error)
}

// TransactionReceipt is the outcome of a mined transaction.
type TransactionReceipt interface {
	// IsSuccessful returns whether the transaction status is success.
	IsSuccessful() bool

	// TxHash returns the hash of the mined transaction.
	TxHash() string
}

// ChangeEventKind discriminates provider change notifications.
type ChangeEventKind int

const (
	AccountsChanged ChangeEventKind = iota
	ChainChanged
)

func (k ChangeEventKind) String() string {
	switch k {
	case AccountsChanged:
		return "accountsChanged"
	case ChainChanged:
		return "chainChanged"
	default:
		return fmt.Sprintf("ChangeEventKind(%d)", int(k))
	}
}

// ChangeEvent is an externally pushed account or network change notification.
type ChangeEvent struct {
	Kind ChangeEventKind
}

// ProviderError is the normalized shape of wallet and RPC failures. Ambient
// errors arrive with inconsistent shapes (sometimes a code, sometimes a nested
// reason or data message); adapters convert them to this struct at the boundary
// so business logic only ever inspects one shape.
type ProviderError struct {
	Code        int
	Message     string
	Reason      string // embedded revert reason, when the node surfaces one
	DataMessage string // nested data.message, the most specific field available
}

func (e *ProviderError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("provider error %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("provider error: %s", e.Message)
}

// BestMessage returns the most specific human-readable field available,
// preferring the nested data message, then the revert reason, then the message.
func (e *ProviderError) BestMessage() string {
	if e.DataMessage != "" {
		return e.DataMessage
	}
	if e.Reason != "" {
		return e.Reason
	}
	return e.Message
}
