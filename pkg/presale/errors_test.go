package presale

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurumtokenaur/aurum-swap-site/pkg/chains"
)

func TestClassifyConnectError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "code pending",
			err:  &chains.ProviderError{Code: -32002, Message: "request already pending"},
			want: ErrPendingApproval,
		},
		{
			name: "code user rejected",
			err:  &chains.ProviderError{Code: 4001, Message: "User rejected the request."},
			want: ErrUserRejected,
		},
		{
			name: "message user rejected without code",
			err:  &chains.ProviderError{Code: -32603, Message: "User rejected the request."},
			want: ErrUserRejected,
		},
		{
			name: "plain user denied text",
			err:  errors.New("MetaMask Tx Signature: User denied message signature."),
			want: ErrUserRejected,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, classifyConnectError(tt.err), tt.want)
		})
	}

	t.Run("unrecognized failures become ConnectionError", func(t *testing.T) {
		orig := errors.New("dial tcp: connection refused")
		got := classifyConnectError(orig)

		var connErr *ConnectionError
		require.ErrorAs(t, got, &connErr)
		assert.ErrorIs(t, got, orig)
	})
}

func TestClassifyPurchaseError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "code insufficient funds",
			err:  &chains.ProviderError{Code: -32000, Message: "insufficient funds for gas * price + value"},
			want: ErrInsufficientFunds,
		},
		{
			name: "insufficient funds by message",
			err:  errors.New("err: insufficient funds for transfer"),
			want: ErrInsufficientFunds,
		},
		{
			name: "code user rejected",
			err:  &chains.ProviderError{Code: 4001, Message: "User denied transaction signature."},
			want: ErrUserRejected,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, classifyPurchaseError(tt.err), tt.want)
		})
	}

	t.Run("data message wins over generic message", func(t *testing.T) {
		err := &chains.ProviderError{
			Code:        3,
			Message:     "Internal JSON-RPC error.",
			DataMessage: "execution reverted: presale not active",
		}
		got := classifyPurchaseError(err)

		var pErr *PurchaseError
		require.ErrorAs(t, got, &pErr)
		assert.Equal(t, "execution reverted: presale not active", pErr.Reason)
	})

	t.Run("reason field wins over message", func(t *testing.T) {
		err := &chains.ProviderError{
			Code:    3,
			Message: "Internal JSON-RPC error.",
			Reason:  "sale cap reached",
		}
		got := classifyPurchaseError(err)

		var pErr *PurchaseError
		require.ErrorAs(t, got, &pErr)
		assert.Equal(t, "sale cap reached", pErr.Reason)
	})
}
