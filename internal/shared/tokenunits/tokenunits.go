// Package tokenunits converts between whole-token quantities and the
// smallest-unit integers ERC-20 contracts report.
//
// Every threshold and quorum in the service is scaled through Pow10 so the
// call sites cannot drift apart.
package tokenunits

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount   = errors.New("invalid token amount")
	ErrNegativeAmount  = errors.New("token amount must not be negative")
	ErrInvalidDecimals = errors.New("invalid token decimals")
)

var ten = big.NewInt(10)

// Pow10 returns 10^exp computed with exact integer arithmetic.
func Pow10(exp int) (*big.Int, error) {
	if exp < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDecimals, exp)
	}
	return new(big.Int).Exp(ten, big.NewInt(int64(exp)), nil), nil
}

// WholeTokens scales a whole-token count into smallest units.
func WholeTokens(tokens int64, decimals int) (*big.Int, error) {
	scale, err := Pow10(decimals)
	if err != nil {
		return nil, err
	}
	return scale.Mul(scale, big.NewInt(tokens)), nil
}

// ParseAmount parses a non-negative base-10 integer string.
func ParseAmount(raw string) (*big.Int, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}
	amount, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	if amount.Sign() < 0 {
		return nil, fmt.Errorf("%w: %q", ErrNegativeAmount, raw)
	}
	return amount, nil
}

// Format renders a smallest-unit amount as a whole-token decimal string,
// e.g. 1500000000000000000 with 18 decimals becomes "1.5".
func Format(amount *big.Int, decimals int) string {
	if amount == nil {
		return "0"
	}
	if decimals < 0 {
		decimals = 0
	}
	return decimal.NewFromBigInt(amount, -int32(decimals)).String()
}
