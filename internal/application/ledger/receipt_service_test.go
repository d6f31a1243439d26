package ledger

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bahikhata/backend/internal/domain/ledger"
	"github.com/bahikhata/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateReceipt(t *testing.T) {
	ctx := context.Background()

	t.Run("due starts at the full amount", func(t *testing.T) {
		env := newTestEnv(t)
		customer := env.createCustomer(t, "Sita Traders")

		r := env.createReceipt(t, customer.ID, 1000)
		assert.True(t, r.Due.Equal(decimal.NewFromInt(1000)))

		stored := env.getReceipt(t, customer.ID, r.ID)
		assert.True(t, stored.Due.Equal(decimal.NewFromInt(1000)))
	})

	t.Run("writes one audit record with the receipt entity", func(t *testing.T) {
		env := newTestEnv(t)
		customer := env.createCustomer(t, "Sita Traders")
		r := env.createReceipt(t, customer.ID, 1000)

		logs := env.auditLog(t)
		require.NotEmpty(t, logs)
		last := logs[0]
		assert.Equal(t, ledger.OperationCreateReceipt, last.Operation)
		assert.Equal(t, customer.ID, last.CustomerID)
		assert.Equal(t, env.actor.UserID, last.UserID)
		require.Len(t, last.Entities, 1)
		assert.Equal(t, ledger.EntityTypeReceipt, last.Entities[0].Type)
		assert.Equal(t, r.ID, last.Entities[0].ID)
		assert.Equal(t, ledger.EntityActionCreate, last.Entities[0].Action)
	})

	t.Run("unknown customer rejected", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.receipts.CreateReceipt(ctx, env.actor, uuid.New(), CreateReceiptInput{
			Date:   time.Now(),
			Amount: decimal.NewFromInt(100),
		}, nil)
		assert.ErrorIs(t, err, ledger.ErrCustomerNotFound)
	})

	t.Run("images become an uploaded attachment", func(t *testing.T) {
		env := newTestEnv(t)
		customer := env.createCustomer(t, "Sita Traders")

		r, err := env.receipts.CreateReceipt(ctx, env.actor, customer.ID, CreateReceiptInput{
			Date:   time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
			Amount: decimal.NewFromInt(500),
		}, [][]byte{[]byte("img")})
		require.NoError(t, err)

		assert.True(t, r.HasAttachment())
		assert.True(t, strings.HasPrefix(r.ReceiptURL, "receipts/"+customer.ID.String()+"/"))
		assert.True(t, strings.HasSuffix(r.ReceiptURL, ".pdf"))
		assert.True(t, env.store.Has(r.ReceiptURL))
	})
}

func TestCreateReceipt_Compensation(t *testing.T) {
	ctx := context.Background()

	t.Run("failed transaction deletes the uploaded blob", func(t *testing.T) {
		env := newTestEnv(t)

		// Unknown customer: the upload happens first, the transaction fails.
		_, err := env.receipts.CreateReceipt(ctx, env.actor, uuid.New(), CreateReceiptInput{
			Date:   time.Now(),
			Amount: decimal.NewFromInt(100),
		}, [][]byte{[]byte("img")})
		require.ErrorIs(t, err, ledger.ErrCustomerNotFound)

		require.Len(t, env.store.Deleted, 1)
		assert.Equal(t, 0, env.store.Len())
	})

	t.Run("failed compensation does not mask the original error", func(t *testing.T) {
		env := newTestEnv(t)
		env.store.FailDelete = errors.New("storage down")

		_, err := env.receipts.CreateReceipt(ctx, env.actor, uuid.New(), CreateReceiptInput{
			Date:   time.Now(),
			Amount: decimal.NewFromInt(100),
		}, [][]byte{[]byte("img")})

		// The caller sees the transaction error, not the delete failure.
		assert.ErrorIs(t, err, ledger.ErrCustomerNotFound)
		assert.Len(t, env.store.Deleted, 1)
	})

	t.Run("render failure aborts before anything is written", func(t *testing.T) {
		env := newTestEnv(t)
		customer := env.createCustomer(t, "Sita Traders")
		env.renderer.Fail = errors.New("chrome crashed")

		_, err := env.receipts.CreateReceipt(ctx, env.actor, customer.ID, CreateReceiptInput{
			Date:   time.Now(),
			Amount: decimal.NewFromInt(100),
		}, [][]byte{[]byte("img")})
		require.Error(t, err)

		assert.Equal(t, 0, env.store.Len())
		receipts, err := env.receipts.ListReceipts(ctx, customer.ID)
		require.NoError(t, err)
		assert.Empty(t, receipts)
	})
}

func TestUpdateReceipt(t *testing.T) {
	ctx := context.Background()

	t.Run("amount change shifts due by the delta", func(t *testing.T) {
		env := newTestEnv(t)
		customer := env.createCustomer(t, "Sita Traders")
		r := env.createReceipt(t, customer.ID, 1000)

		// Pay 300 so due sits at 700.
		_, err := env.deposits.CreateDepositOnReceipt(ctx, env.actor, customer.ID, r.ID, depositInput(300))
		require.NoError(t, err)

		updated, err := env.receipts.UpdateReceipt(ctx, env.actor, customer.ID, r.ID,
			UpdateReceiptInput{Amount: ptrDecimal(1200)}, nil)
		require.NoError(t, err)

		assert.True(t, updated.Amount.Equal(decimal.NewFromInt(1200)))
		assert.True(t, updated.Due.Equal(decimal.NewFromInt(900)))

		logs := env.auditLog(t)
		last := logs[0]
		assert.Equal(t, ledger.OperationUpdateReceipt, last.Operation)
		require.Len(t, last.Entities, 1)
		changes := last.Entities[0].Changes
		assert.Contains(t, changes.From, "amount")
		assert.Contains(t, changes.From, "due")
	})

	t.Run("amount lowered below payments rejected", func(t *testing.T) {
		env := newTestEnv(t)
		customer := env.createCustomer(t, "Sita Traders")
		r := env.createReceipt(t, customer.ID, 1000)
		_, err := env.deposits.CreateDepositOnReceipt(ctx, env.actor, customer.ID, r.ID, depositInput(800))
		require.NoError(t, err)

		// due is 200; lowering amount by 900 would take it to -700.
		_, err = env.receipts.UpdateReceipt(ctx, env.actor, customer.ID, r.ID,
			UpdateReceiptInput{Amount: ptrDecimal(100)}, nil)
		assert.ErrorIs(t, err, ledger.ErrDueNegative)

		stored := env.getReceipt(t, customer.ID, r.ID)
		assert.True(t, stored.Due.Equal(decimal.NewFromInt(200)))
		assert.True(t, stored.Amount.Equal(decimal.NewFromInt(1000)))
	})

	t.Run("empty diff without images is a no-op", func(t *testing.T) {
		env := newTestEnv(t)
		customer := env.createCustomer(t, "Sita Traders")
		r := env.createReceipt(t, customer.ID, 1000)

		before := len(env.auditLog(t))
		_, err := env.receipts.UpdateReceipt(ctx, env.actor, customer.ID, r.ID,
			UpdateReceiptInput{Description: ptrString("materials")}, nil)
		assert.ErrorIs(t, err, shared.ErrNoChanges)
		assert.Len(t, env.auditLog(t), before)
	})

	t.Run("images alone are a change", func(t *testing.T) {
		env := newTestEnv(t)
		customer := env.createCustomer(t, "Sita Traders")
		r := env.createReceipt(t, customer.ID, 1000)

		updated, err := env.receipts.UpdateReceipt(ctx, env.actor, customer.ID, r.ID,
			UpdateReceiptInput{}, [][]byte{[]byte("img")})
		require.NoError(t, err)
		assert.True(t, updated.HasAttachment())
		assert.True(t, env.store.Has(updated.ReceiptURL))
	})

	t.Run("new images replace the existing attachment in place", func(t *testing.T) {
		env := newTestEnv(t)
		customer := env.createCustomer(t, "Sita Traders")

		r, err := env.receipts.CreateReceipt(ctx, env.actor, customer.ID, CreateReceiptInput{
			Date:   time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
			Amount: decimal.NewFromInt(500),
		}, [][]byte{[]byte("img")})
		require.NoError(t, err)
		key := r.ReceiptURL

		updated, err := env.receipts.UpdateReceipt(ctx, env.actor, customer.ID, r.ID,
			UpdateReceiptInput{}, [][]byte{[]byte("img2")})
		require.NoError(t, err)
		assert.Equal(t, key, updated.ReceiptURL)
		assert.Equal(t, 1, env.store.Len())

		// The rewrite keeps the key, but the audit entity still has to
		// say which attachment changed.
		last := env.auditLog(t)[0]
		require.Len(t, last.Entities, 1)
		assert.Contains(t, last.Entities[0].Changes.To, "receiptUrl")
		assert.Equal(t, key, last.Entities[0].Changes.To["receiptUrl"])
	})

	t.Run("wrong customer is not found", func(t *testing.T) {
		env := newTestEnv(t)
		customer := env.createCustomer(t, "Sita Traders")
		other := env.createCustomer(t, "Gita Stores")
		r := env.createReceipt(t, customer.ID, 1000)

		_, err := env.receipts.UpdateReceipt(ctx, env.actor, other.ID, r.ID,
			UpdateReceiptInput{Amount: ptrDecimal(1200)}, nil)
		assert.ErrorIs(t, err, ledger.ErrReceiptNotFound)
	})
}

func TestDeleteReceipt(t *testing.T) {
	ctx := context.Background()

	t.Run("detaches settled deposits and records every entity", func(t *testing.T) {
		env := newTestEnv(t)
		customer := env.createCustomer(t, "Sita Traders")
		r := env.createReceipt(t, customer.ID, 1000)

		d1, err := env.deposits.CreateDepositOnReceipt(ctx, env.actor, customer.ID, r.ID, depositInput(300))
		require.NoError(t, err)
		d2, err := env.deposits.CreateDepositOnReceipt(ctx, env.actor, customer.ID, r.ID, depositInput(200))
		require.NoError(t, err)

		require.NoError(t, env.receipts.DeleteReceipt(ctx, env.actor, customer.ID, r.ID))

		_, err = env.receipts.GetReceipt(ctx, customer.ID, r.ID)
		assert.ErrorIs(t, err, ledger.ErrReceiptNotFound)

		// Both deposits survive, unsettled.
		unsettled, err := env.deposits.ListUnsettledDeposits(ctx, customer.ID)
		require.NoError(t, err)
		ids := []uuid.UUID{unsettled[0].ID, unsettled[1].ID}
		assert.ElementsMatch(t, []uuid.UUID{d1.ID, d2.ID}, ids)

		logs := env.auditLog(t)
		last := logs[0]
		assert.Equal(t, ledger.OperationDeleteReceipt, last.Operation)
		require.Len(t, last.Entities, 3)
		assert.Equal(t, ledger.EntityTypeDeposit, last.Entities[0].Type)
		assert.Equal(t, ledger.EntityActionUpdate, last.Entities[0].Action)
		assert.Equal(t, ledger.EntityTypeDeposit, last.Entities[1].Type)
		assert.Equal(t, ledger.EntityTypeReceipt, last.Entities[2].Type)
		assert.Equal(t, ledger.EntityActionDelete, last.Entities[2].Action)
	})

	t.Run("attachment deleted from the store after commit", func(t *testing.T) {
		env := newTestEnv(t)
		customer := env.createCustomer(t, "Sita Traders")

		r, err := env.receipts.CreateReceipt(ctx, env.actor, customer.ID, CreateReceiptInput{
			Date:   time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
			Amount: decimal.NewFromInt(500),
		}, [][]byte{[]byte("img")})
		require.NoError(t, err)

		require.NoError(t, env.receipts.DeleteReceipt(ctx, env.actor, customer.ID, r.ID))
		assert.False(t, env.store.Has(r.ReceiptURL))
	})

	t.Run("blob delete failure does not fail the operation", func(t *testing.T) {
		env := newTestEnv(t)
		customer := env.createCustomer(t, "Sita Traders")

		r, err := env.receipts.CreateReceipt(ctx, env.actor, customer.ID, CreateReceiptInput{
			Date:   time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
			Amount: decimal.NewFromInt(500),
		}, [][]byte{[]byte("img")})
		require.NoError(t, err)

		env.store.FailDelete = errors.New("storage down")
		assert.NoError(t, env.receipts.DeleteReceipt(ctx, env.actor, customer.ID, r.ID))

		// The row is gone even though the blob remains.
		_, err = env.receipts.GetReceipt(ctx, customer.ID, r.ID)
		assert.ErrorIs(t, err, ledger.ErrReceiptNotFound)
	})
}

func TestGetReceiptPDF(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	require.NoError(t, env.store.Upload(ctx, "receipts/x/1.pdf", []byte("pdf"), "application/pdf"))

	data, err := env.receipts.GetReceiptPDF(ctx, "receipts/x/1.pdf")
	require.NoError(t, err)
	assert.Equal(t, []byte("pdf"), data)

	_, err = env.receipts.GetReceiptPDF(ctx, "receipts/x/missing.pdf")
	assert.ErrorIs(t, err, ErrBlobNotFound)

	_, err = env.receipts.GetReceiptPDF(ctx, "")
	assert.ErrorIs(t, err, ErrBlobNotFound)
}

func TestRecentReceipts(t *testing.T) {
	env := newTestEnv(t)
	customer := env.createCustomer(t, "Sita Traders")
	for i := 0; i < 12; i++ {
		env.createReceipt(t, customer.ID, int64(100+i))
	}

	recent, err := env.receipts.RecentReceipts(context.Background())
	require.NoError(t, err)
	assert.Len(t, recent, 10)
	assert.Equal(t, "Sita Traders", recent[0].CustomerName)
}
