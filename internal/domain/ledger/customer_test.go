package ledger

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCustomer(t *testing.T) {
	createdBy := uuid.New()

	tests := []struct {
		name     string
		creator  uuid.UUID
		custName string
		address  string
		wantErr  bool
	}{
		{"valid customer", createdBy, "Ramesh", "MG Road", false},
		{"nil creator", uuid.Nil, "Ramesh", "", true},
		{"empty name", createdBy, "   ", "", true},
		{"name too long", createdBy, strings.Repeat("x", 51), "", true},
		{"empty address defaults", createdBy, "Ramesh", "  ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCustomer(tt.creator, tt.custName, "9876543210", tt.address, "")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if strings.TrimSpace(tt.address) == "" {
				assert.Equal(t, "unknown", c.Address)
			}
		})
	}
}

func TestCustomerDiff(t *testing.T) {
	c, err := NewCustomer(uuid.New(), "Ramesh", "9876543210", "MG Road", "")
	require.NoError(t, err)

	t.Run("identical patch is empty", func(t *testing.T) {
		name := " Ramesh "
		phone := "9876543210"
		diff := c.Diff(CustomerPatch{Name: &name, Phone: &phone})
		assert.True(t, diff.IsEmpty())
	})

	t.Run("changed fields recorded", func(t *testing.T) {
		name := "Suresh"
		diff := c.Diff(CustomerPatch{Name: &name})
		assert.Equal(t, "Ramesh", diff.From["name"])
		assert.Equal(t, "Suresh", diff.To["name"])
	})
}

func TestCustomerSnapshotExcludesPassword(t *testing.T) {
	c, err := NewCustomer(uuid.New(), "Ramesh", "9876543210", "MG Road", "secret-hash")
	require.NoError(t, err)

	snap := c.Snapshot()
	assert.NotContains(t, snap, "passwordHash")
	assert.NotContains(t, snap, "password")
	assert.Equal(t, "Ramesh", snap["name"])
}
