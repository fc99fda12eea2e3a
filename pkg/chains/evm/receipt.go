package evm

import (
	ethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/aurumtokenaur/aurum-swap-site/pkg/chains"
)

// Receipt implements chains.TransactionReceipt over a go-ethereum receipt.
type Receipt struct {
	receipt *ethtypes.Receipt
}

var _ chains.TransactionReceipt = (*Receipt)(nil)

// NewReceipt wraps a go-ethereum receipt.
func NewReceipt(receipt *ethtypes.Receipt) *Receipt {
	return &Receipt{receipt: receipt}
}

func (r *Receipt) IsSuccessful() bool {
	return r.receipt.Status == ethtypes.ReceiptStatusSuccessful
}

func (r *Receipt) TxHash() string {
	return r.receipt.TxHash.Hex()
}

// GetUnderlyingReceipt returns the wrapped go-ethereum receipt.
func (r *Receipt) GetUnderlyingReceipt() *ethtypes.Receipt {
	return r.receipt
}
