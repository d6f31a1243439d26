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

func TestGormReceiptRepository_CreateAndFind(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewGormReceiptRepository(db)
	ctx := context.Background()

	customerID := uuid.New()
	receipt := mustNewReceipt(t, customerID, 1000)
	require.NoError(t, repo.Create(ctx, receipt))

	t.Run("finds by id with due intact", func(t *testing.T) {
		found, err := repo.FindByID(ctx, receipt.ID)
		require.NoError(t, err)
		assert.True(t, found.Amount.Equal(decimal.NewFromInt(1000)))
		assert.True(t, found.Due.Equal(decimal.NewFromInt(1000)))
		assert.Equal(t, customerID, found.CustomerID)
	})

	t.Run("missing id returns not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, ledger.ErrReceiptNotFound)
	})
}

func TestGormReceiptRepository_FindByCustomer(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewGormReceiptRepository(db)
	ctx := context.Background()

	customerID := uuid.New()
	require.NoError(t, repo.Create(ctx, mustNewReceipt(t, customerID, 100)))
	require.NoError(t, repo.Create(ctx, mustNewReceipt(t, customerID, 200)))
	require.NoError(t, repo.Create(ctx, mustNewReceipt(t, uuid.New(), 300)))

	receipts, err := repo.FindByCustomer(ctx, customerID)
	require.NoError(t, err)
	assert.Len(t, receipts, 2)
	for _, r := range receipts {
		assert.Equal(t, customerID, r.CustomerID)
	}
}

func TestGormReceiptRepository_Update(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewGormReceiptRepository(db)
	ctx := context.Background()

	receipt := mustNewReceipt(t, uuid.New(), 1000)
	require.NoError(t, repo.Create(ctx, receipt))

	receipt.Due = decimal.NewFromInt(700)
	receipt.ReceiptURL = "receipts/abc/20250314_x.pdf"
	require.NoError(t, repo.Update(ctx, receipt))

	found, err := repo.FindByID(ctx, receipt.ID)
	require.NoError(t, err)
	assert.True(t, found.Due.Equal(decimal.NewFromInt(700)))
	assert.True(t, found.HasAttachment())
}

func TestGormReceiptRepository_Delete(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewGormReceiptRepository(db)
	ctx := context.Background()

	receipt := mustNewReceipt(t, uuid.New(), 1000)
	require.NoError(t, repo.Create(ctx, receipt))
	require.NoError(t, repo.Delete(ctx, receipt.ID))

	_, err := repo.FindByID(ctx, receipt.ID)
	assert.ErrorIs(t, err, ledger.ErrReceiptNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, receipt.ID), ledger.ErrReceiptNotFound)
}

func TestGormReceiptRepository_FindRecent(t *testing.T) {
	db := setupLedgerTestDB(t)
	customerRepo := NewGormCustomerRepository(db)
	repo := NewGormReceiptRepository(db)
	ctx := context.Background()

	customer := mustNewCustomer(t, "Ramesh")
	require.NoError(t, customerRepo.Create(ctx, customer))
	require.NoError(t, repo.Create(ctx, mustNewReceipt(t, customer.ID, 1000)))

	recent, err := repo.FindRecent(ctx, 5)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "Ramesh", recent[0].CustomerName)
	assert.Equal(t, customer.ID, recent[0].CustomerID)
}
