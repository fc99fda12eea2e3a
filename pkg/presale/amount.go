package presale

import (
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/aurumtokenaur/aurum-swap-site/pkg/constants"
)

// amountPattern accepts strictly positive decimal numerals: digits with an
// optional fractional part. No signs, no exponents, no separators.
var amountPattern = regexp.MustCompile(`^\d+(\.\d+)?$`)

// parseAmountWei converts raw user input into a wei value. It rejects anything
// that is not a strictly positive decimal numeral, and anything finer than one
// wei, before any network call is made.
func parseAmountWei(raw string) (*big.Int, error) {
	raw = strings.TrimSpace(raw)
	if !amountPattern.MatchString(raw) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	if !d.IsPositive() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}

	wei := d.Shift(constants.TokenDecimals)
	if !wei.IsInteger() {
		return nil, fmt.Errorf("%w: %q has more than %d decimal places", ErrInvalidAmount, raw, constants.TokenDecimals)
	}

	value := wei.BigInt()
	if value.Sign() < 1 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	return value, nil
}

// formatWeiToBNB renders a wei amount as a BNB decimal string for badges.
func formatWeiToBNB(wei *big.Int) string {
	return decimal.NewFromBigInt(wei, -constants.TokenDecimals).String()
}

// wholeTokens truncates a token balance in base units to whole tokens.
func wholeTokens(balance *big.Int) *big.Int {
	unit := new(big.Int).Exp(big.NewInt(10), big.NewInt(constants.TokenDecimals), nil)
	return new(big.Int).Quo(balance, unit)
}
