package presale

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aurumtokenaur/aurum-swap-site/pkg/chains"
	"github.com/aurumtokenaur/aurum-swap-site/pkg/constants"
	"github.com/aurumtokenaur/aurum-swap-site/pkg/ui"
	"github.com/aurumtokenaur/aurum-swap-site/pkg/utils"
)

// State is the connection lifecycle state.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateNetworkChecking
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateNetworkChecking:
		return "network-checking"
	case StateConnected:
		return "connected"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Session owns the wallet connection lifecycle: it acquires an account,
// enforces the target network identity, binds the presale contract to the
// signing capability, and keeps the only long-lived mutable state of the
// system. All failures collapse back to StateDisconnected; a half-connected
// session is never observable.
type Session struct {
	provider      chains.WalletProvider
	binder        chains.ContractBinder
	sink          ui.Sink
	logger        *slog.Logger
	contractAddr  string // normalized, fixed for the session's lifetime
	targetChainID int64

	mu          sync.Mutex
	state       State
	account     string
	networkID   int64
	contract    chains.SaleContract
	unsubscribe func()
	onChange    func(chains.ChangeEvent)
}

// NewSession validates the configured contract address and builds a session in
// StateDisconnected. An address that fails normalization is rejected up front,
// before any wallet interaction.
func NewSession(provider chains.WalletProvider, binder chains.ContractBinder, sink ui.Sink, rawContractAddr string, targetChainID int64, logger *slog.Logger) (*Session, error) {
	if provider == nil {
		return nil, ErrProviderMissing
	}
	if logger == nil {
		logger = slog.Default()
	}

	normalized, ok := utils.NormalizeAddress(rawContractAddr)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, rawContractAddr)
	}

	return &Session{
		provider:      provider,
		binder:        binder,
		sink:          sink,
		logger:        logger,
		contractAddr:  normalized,
		targetChainID: targetChainID,
		state:         StateDisconnected,
	}, nil
}

// ContractAddress returns the fixed normalized presale contract address.
func (s *Session) ContractAddress() string {
	return s.contractAddr
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Snapshot returns the connected account and contract handle, or ok=false when
// the session is not connected. Borrowers get a read-only view; only Connect
// and Reset mutate the session.
func (s *Session) Snapshot() (account string, contract chains.SaleContract, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateConnected {
		return "", nil, false
	}
	return s.account, s.contract, true
}

// SetChangeHandler registers the callback invoked on provider account/network
// change notifications. Must be set before Connect; the session (re)subscribes
// it on every successful connect, removing the previous registration first so
// reconnect storms cannot stack listeners.
func (s *Session) SetChangeHandler(fn func(chains.ChangeEvent)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// Connect runs the full acquire-account / enforce-network / bind-contract
// sequence. At most one sequence is in flight at any time: re-entry while one
// is outstanding returns ErrPendingApproval without issuing a second accounts
// request. The connect control is disabled for the duration and re-enabled on
// every exit path.
func (s *Session) Connect(ctx context.Context) error {
	s.mu.Lock()
	if s.state == StateConnecting || s.state == StateNetworkChecking {
		s.mu.Unlock()
		s.sink.SetStatus("Please confirm the connection in your wallet.", ui.SeverityNeutral)
		return ErrPendingApproval
	}
	s.state = StateConnecting
	s.mu.Unlock()

	s.sink.SetControl(ui.ControlConnect, false)
	defer s.sink.SetControl(ui.ControlConnect, true)

	err := s.connect(ctx)
	if err != nil {
		s.reset()
		s.reportConnectError(err)
		return err
	}
	return nil
}

func (s *Session) connect(ctx context.Context) error {
	s.sink.SetStatus("Requesting connection. Confirm in your wallet.", ui.SeverityNeutral)

	accounts, err := s.provider.RequestAccounts(ctx)
	if err != nil {
		return classifyConnectError(err)
	}
	if len(accounts) == 0 {
		return &ConnectionError{Err: fmt.Errorf("provider returned no accounts")}
	}
	account := accounts[0]

	s.mu.Lock()
	s.state = StateNetworkChecking
	s.mu.Unlock()

	chainID, err := s.ensureTargetNetwork(ctx)
	if err != nil {
		return err
	}

	contract, err := s.binder.BindContract(ctx, s.contractAddr)
	if err != nil {
		return classifyConnectError(err)
	}

	balance, err := s.provider.Balance(ctx, account)
	if err != nil {
		return classifyConnectError(err)
	}

	networkName := constants.ChainIDToName[chainID]
	s.sink.SetBadge(ui.BadgeNetwork, fmt.Sprintf("Network: %s (%d)", networkName, chainID))
	s.sink.SetBadge(ui.BadgeAccount, fmt.Sprintf("Account: %s", utils.ShortenAddress(account)))
	s.sink.SetBadge(ui.BadgeBalance, fmt.Sprintf("Balance: %s BNB", formatWeiToBNB(balance)))
	s.sink.SetLink(ui.LinkContract, utils.ExplorerAddressURL(s.contractAddr))
	s.sink.SetStatus("Wallet connected", ui.SeveritySuccess)

	s.mu.Lock()
	// Remove any previously registered listener before adding a new one so an
	// external change never triggers more than one reconnect.
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
	if s.onChange != nil {
		s.unsubscribe = s.provider.Subscribe(s.onChange)
	}
	s.state = StateConnected
	s.account = account
	s.networkID = chainID
	s.contract = contract
	s.mu.Unlock()

	s.logger.Info("wallet connected", "account", account, "chainID", chainID)
	return nil
}

// ensureTargetNetwork reads the active network and, on a mismatch, attempts one
// programmatic switch. A second mismatch after the switch is WrongNetwork; no
// contract binding happens on the wrong chain.
func (s *Session) ensureTargetNetwork(ctx context.Context) (int64, error) {
	chainID, err := s.provider.ChainID(ctx)
	if err != nil {
		return 0, classifyConnectError(err)
	}
	if chainID == s.targetChainID {
		return chainID, nil
	}

	if err := s.provider.SwitchChain(ctx, s.targetChainID); err != nil {
		s.logger.Warn("network switch failed", "from", chainID, "to", s.targetChainID, "error", err)
		return 0, &WrongNetworkError{Current: chainID, Required: s.targetChainID}
	}

	chainID, err = s.provider.ChainID(ctx)
	if err != nil {
		return 0, classifyConnectError(err)
	}
	if chainID != s.targetChainID {
		return 0, &WrongNetworkError{Current: chainID, Required: s.targetChainID}
	}
	return chainID, nil
}

// Reset nulls the session back to StateDisconnected, dropping the account,
// network and contract binding. Used when the provider reports account loss.
func (s *Session) Reset() {
	s.reset()
}

func (s *Session) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateDisconnected
	s.account = ""
	s.networkID = 0
	s.contract = nil
}

func (s *Session) reportConnectError(err error) {
	switch {
	case errors.Is(err, ErrPendingApproval):
		s.sink.SetStatus("Connection request already pending. Please open your wallet and approve it.", ui.SeverityError)
	case errors.Is(err, ErrUserRejected):
		s.sink.SetStatus("Connection rejected by user.", ui.SeverityError)
	default:
		var wrongNet *WrongNetworkError
		if errors.As(err, &wrongNet) {
			s.sink.SetStatus(fmt.Sprintf("Please switch to %s (%d) in your wallet.",
				constants.ChainIDToName[wrongNet.Required], wrongNet.Required), ui.SeverityError)
			return
		}
		s.sink.SetStatus(fmt.Sprintf("Connection error: %v", err), ui.SeverityError)
	}
	s.logger.Warn("connect failed", "error", err)
}
