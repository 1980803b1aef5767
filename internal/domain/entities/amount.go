package entities

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

var maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// ParseAmount converts a user-entered amount into the uint256 argument passed
// to the contract. The value is taken as raw token units, the same way the
// contract receives it; fractional, negative or oversized values are rejected.
func ParseAmount(amount string) (*big.Int, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}

	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not a number", ErrInvalidAmount, amount)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("%w: %q is negative", ErrInvalidAmount, amount)
	}
	if !d.Equal(d.Truncate(0)) {
		return nil, fmt.Errorf("%w: %q is not a whole number of token units", ErrInvalidAmount, amount)
	}

	value := d.BigInt()
	if value.Cmp(maxUint256) > 0 {
		return nil, fmt.Errorf("%w: %q overflows uint256", ErrInvalidAmount, amount)
	}
	return value, nil
}
