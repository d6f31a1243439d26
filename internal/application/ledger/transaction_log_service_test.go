package ledger

import (
	"context"
	"testing"

	"github.com/bahikhata/backend/internal/domain/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListTransactionLogs(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	sita := env.createCustomer(t, "Sita Traders")
	gita := env.createCustomer(t, "Gita Stores")

	r := env.createReceipt(t, sita.ID, 1000)
	_, err := env.deposits.CreateDepositOnReceipt(ctx, env.actor, sita.ID, r.ID, depositInput(300))
	require.NoError(t, err)
	env.createDeposit(t, gita.ID, 50)

	t.Run("newest first with total", func(t *testing.T) {
		page, err := env.logs.ListTransactionLogs(ctx, ledger.TransactionLogFilter{Page: 1, PageSize: 10})
		require.NoError(t, err)
		assert.EqualValues(t, 5, page.Total)
		require.Len(t, page.Items, 5)
		assert.Equal(t, ledger.OperationCreateDeposit, page.Items[0].Operation)
	})

	t.Run("filter by customer", func(t *testing.T) {
		page, err := env.logs.ListTransactionLogs(ctx, ledger.TransactionLogFilter{
			CustomerID: &gita.ID,
			Page:       1,
			PageSize:   10,
		})
		require.NoError(t, err)
		assert.EqualValues(t, 2, page.Total)
		for _, item := range page.Items {
			assert.Equal(t, gita.ID, item.CustomerID)
		}
	})

	t.Run("pagination defaults applied", func(t *testing.T) {
		page, err := env.logs.ListTransactionLogs(ctx, ledger.TransactionLogFilter{})
		require.NoError(t, err)
		assert.Equal(t, 1, page.Page)
		assert.Equal(t, 20, page.PageSize)
	})

	t.Run("page slicing", func(t *testing.T) {
		page, err := env.logs.ListTransactionLogs(ctx, ledger.TransactionLogFilter{Page: 2, PageSize: 2})
		require.NoError(t, err)
		assert.EqualValues(t, 5, page.Total)
		assert.Len(t, page.Items, 2)
		assert.Equal(t, 3, page.TotalPages)
	})
}
