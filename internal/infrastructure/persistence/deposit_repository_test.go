package persistence

import (
	"context"
	"testing"

	"github.com/bahikhata/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormDepositRepository_CreateAndFind(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewGormDepositRepository(db)
	ctx := context.Background()

	customerID := uuid.New()
	deposit := mustNewDeposit(t, customerID, nil, 300)
	require.NoError(t, repo.Create(ctx, deposit))

	found, err := repo.FindByID(ctx, deposit.ID)
	require.NoError(t, err)
	assert.True(t, found.Amount.Equal(decimal.NewFromInt(300)))
	assert.False(t, found.Settled())
	assert.Equal(t, ledger.PaymentModeCash, found.Mode)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ledger.ErrDepositNotFound)
}

func TestGormDepositRepository_SettlementQueries(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewGormDepositRepository(db)
	ctx := context.Background()

	customerID := uuid.New()
	receiptID := uuid.New()

	settled := mustNewDeposit(t, customerID, &receiptID, 300)
	unsettled := mustNewDeposit(t, customerID, nil, 200)
	other := mustNewDeposit(t, uuid.New(), nil, 100)
	require.NoError(t, repo.Create(ctx, settled))
	require.NoError(t, repo.Create(ctx, unsettled))
	require.NoError(t, repo.Create(ctx, other))

	t.Run("finds by receipt", func(t *testing.T) {
		deposits, err := repo.FindByReceipt(ctx, receiptID)
		require.NoError(t, err)
		require.Len(t, deposits, 1)
		assert.Equal(t, settled.ID, deposits[0].ID)
	})

	t.Run("finds unsettled by customer", func(t *testing.T) {
		deposits, err := repo.FindUnsettledByCustomer(ctx, customerID)
		require.NoError(t, err)
		require.Len(t, deposits, 1)
		assert.Equal(t, unsettled.ID, deposits[0].ID)
	})
}

func TestGormDepositRepository_UpdatePersistsSettlement(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewGormDepositRepository(db)
	ctx := context.Background()

	deposit := mustNewDeposit(t, uuid.New(), nil, 300)
	require.NoError(t, repo.Create(ctx, deposit))

	receiptID := uuid.New()
	require.NoError(t, deposit.Settle(receiptID))
	require.NoError(t, repo.Update(ctx, deposit))

	found, err := repo.FindByID(ctx, deposit.ID)
	require.NoError(t, err)
	assert.True(t, found.SettledTo(receiptID))

	// Unsettle must null the receipt reference out again.
	found.Unsettle()
	require.NoError(t, repo.Update(ctx, found))

	found, err = repo.FindByID(ctx, deposit.ID)
	require.NoError(t, err)
	assert.False(t, found.Settled())
}

func TestGormDepositRepository_Delete(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewGormDepositRepository(db)
	ctx := context.Background()

	deposit := mustNewDeposit(t, uuid.New(), nil, 300)
	require.NoError(t, repo.Create(ctx, deposit))
	require.NoError(t, repo.Delete(ctx, deposit.ID))

	assert.ErrorIs(t, repo.Delete(ctx, deposit.ID), ledger.ErrDepositNotFound)
}
