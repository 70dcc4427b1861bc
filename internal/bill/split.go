package bill

import (
	"errors"
	"fmt"

	"github.com/bojanz/currency"
)

var ErrNoPayers = errors.New("at least one payer is required")

// Split divides total into n shares in minor units. Every share gets the
// truncated quotient; the first total%n shares get one extra minor unit, so
// the shares always add up to total.
func Split(total currency.Amount, n int) ([]currency.Amount, error) {
	if n < 1 {
		return nil, ErrNoPayers
	}
	minor, err := total.Int64()
	if err != nil {
		return nil, fmt.Errorf("failed to convert %s to minor units: %w", total, err)
	}

	base, rem := minor/int64(n), minor%int64(n)
	shares := make([]currency.Amount, n)
	for i := range shares {
		units := base
		if int64(i) < rem {
			units++
		}
		share, err := currency.NewAmountFromInt64(units, total.CurrencyCode())
		if err != nil {
			return nil, fmt.Errorf("failed to build share: %w", err)
		}
		shares[i] = share
	}
	return shares, nil
}
