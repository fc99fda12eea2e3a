package evm

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/aurumtokenaur/aurum-swap-site/pkg/chains"
	"github.com/aurumtokenaur/aurum-swap-site/pkg/constants"
)

// Provider implements chains.WalletProvider over a locally held key and a map of
// per-chain RPC endpoints. It plays the role a browser wallet plays for the web
// front end: it owns the signing key, answers account and network queries, and
// emits change notifications when the active network is switched.
type Provider struct {
	key     *ecdsa.PrivateKey
	address common.Address
	logger  *slog.Logger

	endpoints map[int64]string

	mu         sync.Mutex
	client     *ethclient.Client
	chainID    int64
	authorized bool
	requesting bool

	listenerMu   sync.Mutex
	listeners    map[int]func(chains.ChangeEvent)
	nextListener int
}

// ProviderConfig configures a key-backed provider.
type ProviderConfig struct {
	// PrivateKeyHex is the signing key, with or without 0x prefix.
	PrivateKeyHex string

	// Endpoints maps chain ids to RPC URLs. SwitchChain only succeeds for ids
	// present here.
	Endpoints map[int64]string

	// InitialChainID selects the endpoint dialed on the first accounts request.
	InitialChainID int64
}

// Verify Provider implements the wallet capability
var _ chains.WalletProvider = (*Provider)(nil)

// NewProvider creates a provider from a hex private key. No RPC connection is
// made until the first accounts request.
func NewProvider(cfg *ProviderConfig, logger *slog.Logger) (*Provider, error) {
	if logger == nil {
		logger = slog.Default()
	}

	keyHex := strings.TrimPrefix(cfg.PrivateKeyHex, "0x")
	key, err := crypto.HexToECDSA(keyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	if len(cfg.Endpoints) == 0 {
		return nil, fmt.Errorf("no RPC endpoints configured")
	}
	if _, ok := cfg.Endpoints[cfg.InitialChainID]; !ok {
		return nil, fmt.Errorf("no RPC endpoint for initial chain id %d", cfg.InitialChainID)
	}

	return &Provider{
		key:       key,
		address:   crypto.PubkeyToAddress(key.PublicKey),
		logger:    logger,
		endpoints: cfg.Endpoints,
		chainID:   cfg.InitialChainID,
		listeners: make(map[int]func(chains.ChangeEvent)),
	}, nil
}

// RequestAccounts implements chains.WalletProvider. A second call while one is
// outstanding fails with the request-pending code, matching wallet behavior.
func (p *Provider) RequestAccounts(ctx context.Context) ([]string, error) {
	p.mu.Lock()
	if p.requesting {
		p.mu.Unlock()
		return nil, &chains.ProviderError{
			Code:    constants.CodeRequestPending,
			Message: "request of type wallet_requestPermissions already pending",
		}
	}
	p.requesting = true
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.requesting = false
		p.mu.Unlock()
	}()

	if err := p.ensureClient(ctx); err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.authorized = true
	p.mu.Unlock()

	return []string{p.address.Hex()}, nil
}

// ChainID implements chains.WalletProvider.
func (p *Provider) ChainID(ctx context.Context) (int64, error) {
	if err := p.ensureClient(ctx); err != nil {
		return 0, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.chainID, nil
}

// SwitchChain implements chains.WalletProvider. Switching re-dials the endpoint
// registered for the target id and notifies subscribers, as a wallet UI does.
func (p *Provider) SwitchChain(ctx context.Context, chainID int64) error {
	endpoint, ok := p.endpoints[chainID]
	if !ok {
		return &chains.ProviderError{
			Code:    constants.CodeUnrecognizedChain,
			Message: fmt.Sprintf("unrecognized chain id %d: no endpoint configured", chainID),
		}
	}

	client, err := ethclient.DialContext(ctx, endpoint)
	if err != nil {
		return toProviderError(err)
	}

	p.mu.Lock()
	if p.client != nil {
		p.client.Close()
	}
	p.client = client
	p.chainID = chainID
	p.mu.Unlock()

	p.logger.Info("switched active chain", "chainID", chainID, "endpoint", endpoint)
	p.notify(chains.ChangeEvent{Kind: chains.ChainChanged})
	return nil
}

// Balance implements chains.WalletProvider.
func (p *Provider) Balance(ctx context.Context, account string) (*big.Int, error) {
	client, err := p.currentClient(ctx)
	if err != nil {
		return nil, err
	}
	bal, err := client.BalanceAt(ctx, common.HexToAddress(account), nil)
	if err != nil {
		return nil, toProviderError(err)
	}
	return bal, nil
}

// Selected implements chains.WalletProvider.
func (p *Provider) Selected() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.authorized {
		return "", false
	}
	return p.address.Hex(), true
}

// Subscribe implements chains.WalletProvider.
func (p *Provider) Subscribe(fn func(chains.ChangeEvent)) (unsubscribe func()) {
	p.listenerMu.Lock()
	defer p.listenerMu.Unlock()

	id := p.nextListener
	p.nextListener++
	p.listeners[id] = fn

	return func() {
		p.listenerMu.Lock()
		defer p.listenerMu.Unlock()
		delete(p.listeners, id)
	}
}

// BindContract implements chains.ContractBinder, producing a presale contract
// handle backed by this provider's client and signing key.
func (p *Provider) BindContract(ctx context.Context, address string) (chains.SaleContract, error) {
	client, err := p.currentClient(ctx)
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	chainID := p.chainID
	p.mu.Unlock()
	return NewContract(client, common.HexToAddress(address), p.key, big.NewInt(chainID))
}

// BindToken implements chains.ContractBinder, producing a read-only token handle.
func (p *Provider) BindToken(ctx context.Context, address string) (chains.TokenReader, error) {
	client, err := p.currentClient(ctx)
	if err != nil {
		return nil, err
	}
	return NewToken(client, common.HexToAddress(address))
}

func (p *Provider) notify(ev chains.ChangeEvent) {
	p.listenerMu.Lock()
	fns := make([]func(chains.ChangeEvent), 0, len(p.listeners))
	for _, fn := range p.listeners {
		fns = append(fns, fn)
	}
	p.listenerMu.Unlock()

	// Listeners run outside the provider locks so a reconnect triggered by the
	// notification can call straight back into the provider.
	for _, fn := range fns {
		go fn(ev)
	}
}

func (p *Provider) ensureClient(ctx context.Context) error {
	_, err := p.currentClient(ctx)
	return err
}

func (p *Provider) currentClient(ctx context.Context) (*ethclient.Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client != nil {
		return p.client, nil
	}

	endpoint := p.endpoints[p.chainID]
	client, err := ethclient.DialContext(ctx, endpoint)
	if err != nil {
		return nil, toProviderError(err)
	}
	p.client = client
	return client, nil
}

// Close releases the underlying RPC connection.
func (p *Provider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client != nil {
		p.client.Close()
		p.client = nil
	}
}
