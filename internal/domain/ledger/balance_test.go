package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func TestDueAfterReceiptAmountChange(t *testing.T) {
	tests := []struct {
		name      string
		due       int64
		oldAmount int64
		newAmount int64
		want      int64
		wantErr   bool
	}{
		{"amount raised shifts due up", 700, 1000, 1200, 900, false},
		{"amount lowered shifts due down", 700, 1000, 500, 200, false},
		{"amount lowered to exactly paid", 700, 1000, 300, 0, false},
		{"amount lowered below payments rejected", 700, 1000, 200, 0, true},
		{"no change keeps due", 700, 1000, 1000, 700, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DueAfterReceiptAmountChange(d(tt.due), d(tt.oldAmount), d(tt.newAmount))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrDueNegative)
				return
			}
			require.NoError(t, err)
			assert.True(t, d(tt.want).Equal(got), "want %d got %s", tt.want, got)
		})
	}
}

func TestDueAfterDepositAmountChange(t *testing.T) {
	tests := []struct {
		name      string
		due       int64
		oldAmount int64
		newAmount int64
		want      int64
		wantErr   bool
	}{
		{"deposit raised lowers due", 700, 300, 500, 500, false},
		{"deposit lowered raises due", 700, 300, 100, 900, false},
		{"deposit raised to full due", 700, 300, 1000, 0, false},
		{"deposit raised past due rejected", 700, 300, 1001, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DueAfterDepositAmountChange(d(tt.due), d(tt.oldAmount), d(tt.newAmount))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrDueNegative)
				return
			}
			require.NoError(t, err)
			assert.True(t, d(tt.want).Equal(got))
		})
	}
}

func TestDueAfterSettlement(t *testing.T) {
	got, err := DueAfterSettlement(d(1000), d(300))
	require.NoError(t, err)
	assert.True(t, d(700).Equal(got))

	got, err = DueAfterSettlement(d(300), d(300))
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	_, err = DueAfterSettlement(d(300), d(500))
	assert.ErrorIs(t, err, ErrDepositExceedsDue)
}

func TestDueAfterRelease(t *testing.T) {
	assert.True(t, d(1000).Equal(DueAfterRelease(d(700), d(300))))
	// Increasing due is always legal, even past the original amount.
	assert.True(t, d(1300).Equal(DueAfterRelease(d(1000), d(300))))
}
