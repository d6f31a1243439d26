package ledger

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReceipt(t *testing.T) {
	customerID := uuid.New()
	date := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		customerID  uuid.UUID
		date        time.Time
		amount      decimal.Decimal
		description string
		wantErr     bool
	}{
		{"valid receipt", customerID, date, d(1000), "bricks", false},
		{"nil customer", uuid.Nil, date, d(1000), "", true},
		{"zero date", customerID, time.Time{}, d(1000), "", true},
		{"zero amount", customerID, date, d(0), "", true},
		{"negative amount", customerID, date, d(-5), "", true},
		{"description too long", customerID, date, d(1000), strings.Repeat("x", 151), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewReceipt(tt.customerID, tt.date, tt.amount, tt.description, "")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, r.ID)
			assert.True(t, r.Due.Equal(r.Amount), "due must start equal to amount")
			assert.False(t, r.HasAttachment())
		})
	}
}

func TestReceiptDiff(t *testing.T) {
	r, err := NewReceipt(uuid.New(), time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), d(1000), "bricks", "")
	require.NoError(t, err)

	t.Run("identical patch is empty", func(t *testing.T) {
		desc := "bricks"
		diff := r.Diff(ReceiptPatch{Date: &r.Date, Amount: &r.Amount, Description: &desc})
		assert.True(t, diff.IsEmpty())
	})

	t.Run("changed amount recorded", func(t *testing.T) {
		amount := d(1200)
		diff := r.Diff(ReceiptPatch{Amount: &amount})
		assert.False(t, diff.IsEmpty())
		assert.Contains(t, diff.From, "amount")
		assert.Contains(t, diff.To, "amount")
	})

	t.Run("whitespace-only description change is empty", func(t *testing.T) {
		desc := "  bricks  "
		diff := r.Diff(ReceiptPatch{Description: &desc})
		assert.True(t, diff.IsEmpty())
	})

	t.Run("nil fields are ignored", func(t *testing.T) {
		assert.True(t, r.Diff(ReceiptPatch{}).IsEmpty())
	})
}

func TestReceiptApply(t *testing.T) {
	r, err := NewReceipt(uuid.New(), time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), d(1000), "bricks", "")
	require.NoError(t, err)

	amount := d(1200)
	desc := "cement"
	r.Apply(ReceiptPatch{Amount: &amount, Description: &desc})

	assert.True(t, r.Amount.Equal(d(1200)))
	assert.Equal(t, "cement", r.Description)
	// Apply never touches Due; the operation layer adjusts it.
	assert.True(t, r.Due.Equal(d(1000)))
}

func TestReceiptOwnedBy(t *testing.T) {
	customerID := uuid.New()
	r, err := NewReceipt(customerID, time.Now(), d(100), "", "")
	require.NoError(t, err)

	assert.True(t, r.OwnedBy(customerID))
	assert.False(t, r.OwnedBy(uuid.New()))
}
