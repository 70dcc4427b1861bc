package bill

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bojanz/currency"
)

// AmountError reports an amount string that could not be used as a bill total.
type AmountError struct {
	Input  string
	Reason string
}

func (e *AmountError) Error() string {
	return fmt.Sprintf("invalid amount %q: %s", e.Input, e.Reason)
}

// ParseAmount parses raw as a positive amount in currencyCode, rounded to the
// currency's minor unit. A single leading "$" is tolerated.
func ParseAmount(raw, currencyCode string) (currency.Amount, error) {
	input := strings.TrimSpace(raw)
	number := strings.TrimSpace(strings.TrimPrefix(input, "$"))

	amount, err := currency.NewAmount(number, currencyCode)
	if err != nil {
		var numErr currency.InvalidNumberError
		if errors.As(err, &numErr) {
			return currency.Amount{}, &AmountError{Input: input, Reason: "not a number"}
		}
		return currency.Amount{}, fmt.Errorf("failed to parse amount: %w", err)
	}
	// NaN, Infinity and totals past int64 minor units parse as decimals but
	// cannot be split.
	amount = amount.Round()
	if _, err := amount.Int64(); err != nil {
		return currency.Amount{}, &AmountError{Input: input, Reason: "not a finite amount in range"}
	}
	if !amount.IsPositive() {
		return currency.Amount{}, &AmountError{Input: input, Reason: "must be greater than zero"}
	}
	return amount, nil
}
