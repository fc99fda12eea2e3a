package evm

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/aurumtokenaur/aurum-swap-site/pkg/chains"
	"github.com/aurumtokenaur/aurum-swap-site/pkg/constants"
)

// presaleABI covers the functions the client uses. Extend if the contract
// exposes more.
const presaleABI = `[
	{"inputs":[],"name":"buyTokens","outputs":[],"stateMutability":"payable","type":"function"},
	{"inputs":[],"name":"paused","outputs":[{"internalType":"bool","name":"","type":"bool"}],"stateMutability":"view","type":"function"},
	{"inputs":[],"name":"aurumToken","outputs":[{"internalType":"address","name":"","type":"address"}],"stateMutability":"view","type":"function"},
	{"inputs":[],"name":"rateTokensPerBNB","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"inputs":[],"name":"tokensForSale","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"}
]`

// DefaultBuyGasLimit is used when the caller passes no explicit limit. It
// stands in for the browser wallet's own default.
const DefaultBuyGasLimit uint64 = 300_000

// Contract implements chains.SaleContract against a live node via ethclient.
type Contract struct {
	client  *ethclient.Client
	address common.Address
	abi     abi.ABI
	key     *ecdsa.PrivateKey
	from    common.Address
	chainID *big.Int
}

var _ chains.SaleContract = (*Contract)(nil)

// NewContract binds the presale ABI at address with the given signing key.
func NewContract(client *ethclient.Client, address common.Address, key *ecdsa.PrivateKey, chainID *big.Int) (*Contract, error) {
	parsed, err := abi.JSON(strings.NewReader(presaleABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse presale ABI: %w", err)
	}

	return &Contract{
		client:  client,
		address: address,
		abi:     parsed,
		key:     key,
		from:    crypto.PubkeyToAddress(key.PublicKey),
		chainID: chainID,
	}, nil
}

// Address returns the bound contract address.
func (c *Contract) Address() string {
	return c.address.Hex()
}

// Paused implements chains.SaleContract.
func (c *Contract) Paused(ctx context.Context) (bool, error) {
	var paused bool
	if err := c.callView(ctx, "paused", &paused); err != nil {
		return false, err
	}
	return paused, nil
}

// TokenAddress implements chains.SaleContract.
func (c *Contract) TokenAddress(ctx context.Context) (string, error) {
	var addr common.Address
	if err := c.callView(ctx, "aurumToken", &addr); err != nil {
		return "", err
	}
	return addr.Hex(), nil
}

// RateTokensPerBNB implements chains.SaleContract.
func (c *Contract) RateTokensPerBNB(ctx context.Context) (*big.Int, error) {
	rate := new(big.Int)
	if err := c.callView(ctx, "rateTokensPerBNB", &rate); err != nil {
		return nil, err
	}
	return rate, nil
}

// TokensForSale implements chains.SaleContract.
func (c *Contract) TokensForSale(ctx context.Context) (*big.Int, error) {
	total := new(big.Int)
	if err := c.callView(ctx, "tokensForSale", &total); err != nil {
		return nil, err
	}
	return total, nil
}

// EstimateBuyGas implements chains.SaleContract.
func (c *Contract) EstimateBuyGas(ctx context.Context, valueWei *big.Int) (uint64, error) {
	data, err := c.abi.Pack("buyTokens")
	if err != nil {
		return 0, fmt.Errorf("failed to pack buyTokens call: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, constants.GasEstimateTimeout)
	defer cancel()

	gas, err := c.client.EstimateGas(ctx, ethereum.CallMsg{
		From:  c.from,
		To:    &c.address,
		Value: valueWei,
		Data:  data,
	})
	if err != nil {
		return 0, toProviderError(err)
	}
	return gas, nil
}

// BuyTokens implements chains.SaleContract. The purchase is submitted as a
// signed legacy transaction carrying value; gasLimit==0 falls back to
// DefaultBuyGasLimit.
func (c *Contract) BuyTokens(ctx context.Context, valueWei *big.Int, gasLimit uint64) (string, error) {
	data, err := c.abi.Pack("buyTokens")
	if err != nil {
		return "", fmt.Errorf("failed to pack buyTokens call: %w", err)
	}

	nonce, err := c.client.PendingNonceAt(ctx, c.from)
	if err != nil {
		return "", toProviderError(err)
	}

	gasPrice, err := c.client.SuggestGasPrice(ctx)
	if err != nil {
		return "", toProviderError(err)
	}

	if gasLimit == 0 {
		gasLimit = DefaultBuyGasLimit
	}

	tx := ethtypes.NewTransaction(nonce, c.address, valueWei, gasLimit, gasPrice, data)
	signed, err := ethtypes.SignTx(tx, ethtypes.LatestSignerForChainID(c.chainID), c.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := c.client.SendTransaction(ctx, signed); err != nil {
		return "", toProviderError(err)
	}

	return signed.Hash().Hex(), nil
}

// WaitMined implements chains.SaleContract. It polls for the receipt until the
// transaction is mined or ctx is done.
func (c *Contract) WaitMined(ctx context.Context, txHash string) (chains.TransactionReceipt, error) {
	hash := common.HexToHash(txHash)
	ticker := time.NewTicker(constants.ReceiptPollInterval)
	defer ticker.Stop()

	for {
		receipt, err := c.client.TransactionReceipt(ctx, hash)
		if err == nil {
			return NewReceipt(receipt), nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			return nil, toProviderError(err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *Contract) callView(ctx context.Context, method string, out any) error {
	data, err := c.abi.Pack(method)
	if err != nil {
		return fmt.Errorf("failed to pack %s call: %w", method, err)
	}

	ctx, cancel := context.WithTimeout(ctx, constants.CallContractTimeout)
	defer cancel()

	raw, err := c.client.CallContract(ctx, ethereum.CallMsg{
		To:   &c.address,
		Data: data,
	}, nil)
	if err != nil {
		return toProviderError(err)
	}

	if err := c.abi.UnpackIntoInterface(out, method, raw); err != nil {
		return fmt.Errorf("failed to decode %s result: %w", method, err)
	}
	return nil
}
