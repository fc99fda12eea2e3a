package utils

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/aurumtokenaur/aurum-swap-site/pkg/constants"
)

// NormalizeAddress returns the EIP-55 checksummed form of addr, or ok=false when
// the input is not a well-formed address. It never panics on malformed input.
// Mixed-case inputs must carry a valid checksum; all-lower and all-upper hex is
// accepted as checksum-agnostic, matching wallet UX conventions.
func NormalizeAddress(addr string) (string, bool) {
	addr = strings.TrimSpace(addr)
	if !common.IsHexAddress(addr) {
		return "", false
	}

	parsed := common.HexToAddress(addr)
	checksummed := parsed.Hex()

	prefixed := addr
	if !strings.HasPrefix(prefixed, "0x") && !strings.HasPrefix(prefixed, "0X") {
		prefixed = "0x" + prefixed
	}
	hexPart := prefixed[2:]
	if hexPart != strings.ToLower(hexPart) && hexPart != strings.ToUpper(hexPart) {
		// Mixed case claims an EIP-55 checksum; verify it.
		if prefixed != checksummed {
			return "", false
		}
	}

	return checksummed, true
}

// AddressesEqual compares two addresses case-insensitively after normalization.
// Either side failing to normalize makes the comparison false, never an error.
func AddressesEqual(a, b string) bool {
	na, ok := NormalizeAddress(a)
	if !ok {
		return false
	}
	nb, ok := NormalizeAddress(b)
	if !ok {
		return false
	}
	return strings.EqualFold(na, nb)
}

// ShortenAddress renders an address as 0xabcd...1234 for badges.
func ShortenAddress(addr string) string {
	if len(addr) < 10 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}

// ExplorerAddressURL returns the block-explorer page for an address.
func ExplorerAddressURL(addr string) string {
	return fmt.Sprintf("%s/address/%s", constants.ExplorerBaseURL, addr)
}

// ExplorerTxURL returns the block-explorer page for a transaction hash.
func ExplorerTxURL(txHash string) string {
	return fmt.Sprintf("%s/tx/%s", constants.ExplorerBaseURL, txHash)
}
