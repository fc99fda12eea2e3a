package evm

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/aurumtokenaur/aurum-swap-site/pkg/chains"
	"github.com/aurumtokenaur/aurum-swap-site/pkg/constants"
)

// erc20ABI only needs balanceOf for progress tracking.
const erc20ABI = `[{"inputs":[{"internalType":"address","name":"account","type":"address"}],"name":"balanceOf","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"}]`

// Token implements chains.TokenReader for an ERC-20 token contract.
type Token struct {
	client  *ethclient.Client
	address common.Address
	abi     abi.ABI
}

var _ chains.TokenReader = (*Token)(nil)

// NewToken binds the minimal ERC-20 read surface at address.
func NewToken(client *ethclient.Client, address common.Address) (*Token, error) {
	parsed, err := abi.JSON(strings.NewReader(erc20ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ERC-20 ABI: %w", err)
	}
	return &Token{client: client, address: address, abi: parsed}, nil
}

// BalanceOf implements chains.TokenReader.
func (t *Token) BalanceOf(ctx context.Context, holder string) (*big.Int, error) {
	data, err := t.abi.Pack("balanceOf", common.HexToAddress(holder))
	if err != nil {
		return nil, fmt.Errorf("failed to pack balanceOf call: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, constants.CallContractTimeout)
	defer cancel()

	raw, err := t.client.CallContract(ctx, ethereum.CallMsg{
		To:   &t.address,
		Data: data,
	}, nil)
	if err != nil {
		return nil, toProviderError(err)
	}

	balance := new(big.Int)
	if err := t.abi.UnpackIntoInterface(&balance, "balanceOf", raw); err != nil {
		return nil, fmt.Errorf("failed to decode balanceOf result: %w", err)
	}
	return balance, nil
}
