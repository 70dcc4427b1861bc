package bill

import (
	"fmt"
	"testing"

	"github.com/bojanz/currency"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustAmount(t *testing.T, n string) currency.Amount {
	t.Helper()
	a, err := currency.NewAmount(n, "CAD")
	require.NoError(t, err)
	return a
}

func TestSplitEven(t *testing.T) {
	shares, err := Split(mustAmount(t, "420.69"), 3)
	require.NoError(t, err)
	require.Len(t, shares, 3)
	for _, s := range shares {
		assert.Equal(t, "140.23", s.Number())
	}
}

func TestSplitRemainder(t *testing.T) {
	shares, err := Split(mustAmount(t, "100.00"), 3)
	require.NoError(t, err)

	got := make([]string, len(shares))
	for i, s := range shares {
		got[i] = s.Number()
	}
	assert.Equal(t, []string{"33.34", "33.33", "33.33"}, got)
}

func TestSplitSumsToTotal(t *testing.T) {
	totals := []string{"0.01", "1.00", "99.99", "420.69", "1000.03", "7.77"}
	for _, total := range totals {
		for n := 1; n <= 12; n++ {
			t.Run(fmt.Sprintf("%s/%d", total, n), func(t *testing.T) {
				amount := mustAmount(t, total)
				shares, err := Split(amount, n)
				require.NoError(t, err)
				require.Len(t, shares, n)

				sum := mustAmount(t, "0")
				for _, s := range shares {
					sum, err = sum.Add(s)
					require.NoError(t, err)
				}
				assert.True(t, sum.Equal(amount), "sum %s != total %s", sum, amount)
			})
		}
	}
}

func TestSplitNoPayers(t *testing.T) {
	_, err := Split(mustAmount(t, "10"), 0)
	assert.ErrorIs(t, err, ErrNoPayers)
}
