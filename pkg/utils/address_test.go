package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aurumtokenaur/aurum-swap-site/pkg/constants"
)

func TestNormalizeAddress(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		ok       bool
	}{
		{
			name:     "lowercase contract address",
			input:    "0xac958de36acfbb1dce325140973799475ed9493e",
			expected: "0xAC958DE36acfbb1DCE325140973799475eD9493e",
			ok:       true,
		},
		{
			name:     "already checksummed",
			input:    "0xAC958DE36acfbb1DCE325140973799475eD9493e",
			expected: "0xAC958DE36acfbb1DCE325140973799475eD9493e",
			ok:       true,
		},
		{
			name:     "uppercase hex accepted as checksum-agnostic",
			input:    "0xAC958DE36ACFBB1DCE325140973799475ED9493E",
			expected: "0xAC958DE36acfbb1DCE325140973799475eD9493e",
			ok:       true,
		},
		{
			name:     "surrounding whitespace trimmed",
			input:    "  0xac958de36acfbb1dce325140973799475ed9493e  ",
			expected: "0xAC958DE36acfbb1DCE325140973799475eD9493e",
			ok:       true,
		},
		{
			name:  "bad checksum on mixed case",
			input: "0xAc958de36acfbb1dce325140973799475ed9493E",
			ok:    false,
		},
		{
			name:  "too short",
			input: "0xac958de36",
			ok:    false,
		},
		{
			name:  "too long",
			input: "0xac958de36acfbb1dce325140973799475ed9493e00",
			ok:    false,
		},
		{
			name:  "non-hex characters",
			input: "0xzz958de36acfbb1dce325140973799475ed9493e",
			ok:    false,
		},
		{
			name:  "empty string",
			input: "",
			ok:    false,
		},
		{
			name:  "random text",
			input: "not an address",
			ok:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeAddress(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, got)
			} else {
				assert.Empty(t, got)
			}
		})
	}
}

func TestAddressesEqual(t *testing.T) {
	official := constants.RawContractAddress

	tests := []struct {
		name     string
		a, b     string
		expected bool
	}{
		{
			name:     "same address different case",
			a:        official,
			b:        "0xAC958DE36acfbb1DCE325140973799475eD9493e",
			expected: true,
		},
		{
			name:     "well-formed but different address",
			a:        official,
			b:        "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913",
			expected: false,
		},
		{
			name:     "left side malformed",
			a:        "0x123",
			b:        official,
			expected: false,
		},
		{
			name:     "right side malformed",
			a:        official,
			b:        "garbage",
			expected: false,
		},
		{
			name:     "both empty",
			a:        "",
			b:        "",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AddressesEqual(tt.a, tt.b))
		})
	}
}

func TestShortenAddress(t *testing.T) {
	assert.Equal(t, "0xAC95...493e", ShortenAddress("0xAC958DE36acfbb1DCE325140973799475eD9493e"))
	assert.Equal(t, "0x123", ShortenAddress("0x123"))
}

func TestExplorerURLs(t *testing.T) {
	assert.Equal(t,
		"https://bscscan.com/address/0xAC958DE36acfbb1DCE325140973799475eD9493e",
		ExplorerAddressURL("0xAC958DE36acfbb1DCE325140973799475eD9493e"))
	assert.Equal(t,
		"https://bscscan.com/tx/0xabc",
		ExplorerTxURL("0xabc"))
}
