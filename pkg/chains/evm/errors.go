package evm

import (
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/rpc"

	"github.com/aurumtokenaur/aurum-swap-site/pkg/chains"
	"github.com/aurumtokenaur/aurum-swap-site/pkg/constants"
)

// toProviderError normalizes go-ethereum and node errors into the single
// chains.ProviderError shape before they cross the adapter boundary. Node
// errors arrive in inconsistent forms: sometimes a JSON-RPC code, sometimes a
// nested data payload with the revert reason, sometimes only text.
func toProviderError(err error) error {
	if err == nil {
		return nil
	}

	var pe *chains.ProviderError
	if errors.As(err, &pe) {
		return err
	}

	out := &chains.ProviderError{Message: err.Error()}

	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		out.Code = rpcErr.ErrorCode()
	}

	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		if msg, ok := dataErr.ErrorData().(string); ok {
			out.DataMessage = msg
		}
	}

	lower := strings.ToLower(out.Message)
	switch {
	case strings.Contains(lower, "insufficient funds"):
		out.Code = constants.CodeInsufficientFunds
	case strings.Contains(lower, "execution reverted"):
		if out.Reason == "" {
			out.Reason = revertReason(out.Message)
		}
	}

	return out
}

// revertReason pulls the human part out of "execution reverted: <reason>".
func revertReason(msg string) string {
	const marker = "execution reverted"
	idx := strings.Index(strings.ToLower(msg), marker)
	if idx < 0 {
		return ""
	}
	rest := strings.TrimSpace(msg[idx+len(marker):])
	rest = strings.TrimPrefix(rest, ":")
	return strings.TrimSpace(rest)
}
