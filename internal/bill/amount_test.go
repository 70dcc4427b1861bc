package bill

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"420.69", "420.69"},
		{"  12 ", "12.00"},
		{"$5.5", "5.50"},
		{"10.005", "10.01"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in, "CAD")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Number())
			assert.Equal(t, "CAD", got.CurrencyCode())
		})
	}
}

func TestParseAmountRejects(t *testing.T) {
	for _, in := range []string{"abc", "", "12,50", "-3", "0", "$", "NaN", "nan", "Infinity", "inf", "-Infinity", "99999999999999999999"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseAmount(" "+in+" ", "CAD")
			require.Error(t, err)

			var amountErr *AmountError
			require.True(t, errors.As(err, &amountErr))
			assert.Equal(t, in, amountErr.Input)
		})
	}
}
