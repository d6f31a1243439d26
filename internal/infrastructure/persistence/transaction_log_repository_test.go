package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/bahikhata/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustNewLog(t *testing.T, customerID uuid.UUID, op ledger.Operation) *ledger.TransactionLog {
	log, err := ledger.NewTransactionLog(uuid.New(), customerID, op)
	require.NoError(t, err)
	return log
}

func TestGormTransactionLogRepository_CreateAndFindAll(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewGormTransactionLogRepository(db)
	ctx := context.Background()

	customerID := uuid.New()
	log := mustNewLog(t, customerID, ledger.OperationCreateReceipt)
	log.WithContext(ledger.RequestContext{IP: "10.0.0.1", UserAgent: "curl/8"})
	changes := ledger.NewFieldChanges()
	changes.Record("amount", "0", "1000")
	log.AddEntity(ledger.EntityTypeReceipt, uuid.New(), ledger.EntityActionCreate, changes)
	require.NoError(t, repo.Create(ctx, log))

	logs, total, err := repo.FindAll(ctx, ledger.TransactionLogFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, logs, 1)
	assert.Equal(t, ledger.OperationCreateReceipt, logs[0].Operation)
	assert.Equal(t, "10.0.0.1", logs[0].Context.IP)
	require.Len(t, logs[0].Entities, 1)
	assert.Equal(t, "1000", logs[0].Entities[0].Changes.To["amount"])
}

func TestGormTransactionLogRepository_Filters(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewGormTransactionLogRepository(db)
	ctx := context.Background()

	customerA := uuid.New()
	customerB := uuid.New()
	require.NoError(t, repo.Create(ctx, mustNewLog(t, customerA, ledger.OperationCreateReceipt)))
	require.NoError(t, repo.Create(ctx, mustNewLog(t, customerA, ledger.OperationCreateDeposit)))
	require.NoError(t, repo.Create(ctx, mustNewLog(t, customerB, ledger.OperationCreateCustomer)))

	t.Run("filters by customer", func(t *testing.T) {
		logs, total, err := repo.FindAll(ctx, ledger.TransactionLogFilter{CustomerID: &customerA})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, logs, 2)
	})

	t.Run("filters by time window", func(t *testing.T) {
		future := time.Now().Add(time.Hour)
		logs, total, err := repo.FindAll(ctx, ledger.TransactionLogFilter{From: &future})
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, logs)
	})

	t.Run("paginates with full count", func(t *testing.T) {
		logs, total, err := repo.FindAll(ctx, ledger.TransactionLogFilter{Page: 1, PageSize: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, logs, 2)
	})
}
