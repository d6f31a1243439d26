package ledger

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/bahikhata/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// checkBalances verifies that every receipt's due equals its amount minus
// the sum of the deposits settled on it, and that due is never negative.
func checkBalances(t *testing.T, env *testEnv, customerID uuid.UUID) {
	t.Helper()
	ctx := context.Background()

	receipts, err := env.receipts.ListReceipts(ctx, customerID)
	require.NoError(t, err)

	for _, r := range receipts {
		settled, err := env.deposits.ListDepositsByReceipt(ctx, r.ID)
		require.NoError(t, err)

		paid := decimal.Zero
		for _, d := range settled {
			paid = paid.Add(d.Amount)
		}

		assert.Truef(t, r.Due.Equal(r.Amount.Sub(paid)),
			"receipt %s: due %s != amount %s - paid %s", r.ID, r.Due, r.Amount, paid)
		assert.Falsef(t, r.Due.IsNegative(), "receipt %s: negative due %s", r.ID, r.Due)
	}
}

// TestBalanceConservation runs randomized operation sequences and verifies
// the due arithmetic never drifts from the sum of settled deposits.
func TestBalanceConservation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	customer := env.createCustomer(t, "Sita Traders")

	rng := rand.New(rand.NewSource(42))

	var receiptIDs []uuid.UUID
	var depositIDs []uuid.UUID

	pickReceipt := func() (uuid.UUID, bool) {
		if len(receiptIDs) == 0 {
			return uuid.Nil, false
		}
		return receiptIDs[rng.Intn(len(receiptIDs))], true
	}
	pickDeposit := func() (uuid.UUID, bool) {
		if len(depositIDs) == 0 {
			return uuid.Nil, false
		}
		return depositIDs[rng.Intn(len(depositIDs))], true
	}

	// Domain rejections are an expected part of the sequence; anything else
	// is a real failure.
	domainRejection := func(err error) bool {
		var derr *shared.DomainError
		return errors.As(err, &derr)
	}

	for i := 0; i < 400; i++ {
		amount := decimal.NewFromInt(int64(1 + rng.Intn(500)))

		switch rng.Intn(8) {
		case 0: // new receipt
			r, err := env.receipts.CreateReceipt(ctx, env.actor, customer.ID, CreateReceiptInput{
				Date:   time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
				Amount: amount,
			}, nil)
			require.NoError(t, err)
			receiptIDs = append(receiptIDs, r.ID)

		case 1: // new unsettled deposit
			d, err := env.deposits.CreateDeposit(ctx, env.actor, customer.ID, CreateDepositInput{
				Date:   time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC),
				Amount: amount,
			})
			require.NoError(t, err)
			depositIDs = append(depositIDs, d.ID)

		case 2: // deposit straight onto a receipt
			if rid, ok := pickReceipt(); ok {
				d, err := env.deposits.CreateDepositOnReceipt(ctx, env.actor, customer.ID, rid, CreateDepositInput{
					Date:   time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC),
					Amount: amount,
				})
				if err == nil {
					depositIDs = append(depositIDs, d.ID)
				} else {
					require.True(t, domainRejection(err), "unexpected error: %v", err)
				}
			}

		case 3: // settle
			rid, okR := pickReceipt()
			did, okD := pickDeposit()
			if okR && okD {
				_, err := env.deposits.SettleDeposit(ctx, env.actor, customer.ID, did, rid)
				if err != nil {
					require.True(t, domainRejection(err), "unexpected error: %v", err)
				}
			}

		case 4: // unsettle
			rid, okR := pickReceipt()
			did, okD := pickDeposit()
			if okR && okD {
				_, err := env.deposits.UnsettleDeposit(ctx, env.actor, customer.ID, did, rid)
				if err != nil {
					require.True(t, domainRejection(err), "unexpected error: %v", err)
				}
			}

		case 5: // edit receipt amount
			if rid, ok := pickReceipt(); ok {
				_, err := env.receipts.UpdateReceipt(ctx, env.actor, customer.ID, rid,
					UpdateReceiptInput{Amount: &amount}, nil)
				if err != nil {
					require.True(t, domainRejection(err), "unexpected error: %v", err)
				}
			}

		case 6: // edit a settled deposit's amount
			rid, okR := pickReceipt()
			did, okD := pickDeposit()
			if okR && okD {
				_, err := env.deposits.UpdateDepositOnReceipt(ctx, env.actor, customer.ID, rid, did,
					UpdateDepositInput{Amount: &amount})
				if err != nil {
					require.True(t, domainRejection(err), "unexpected error: %v", err)
				}
			}

		case 7: // delete a receipt, detaching its deposits
			if len(receiptIDs) > 0 && rng.Intn(10) == 0 {
				idx := rng.Intn(len(receiptIDs))
				rid := receiptIDs[idx]
				require.NoError(t, env.receipts.DeleteReceipt(ctx, env.actor, customer.ID, rid))
				receiptIDs = append(receiptIDs[:idx], receiptIDs[idx+1:]...)
			}
		}

		if i%50 == 0 {
			checkBalances(t, env, customer.ID)
		}
	}

	checkBalances(t, env, customer.ID)
}

// TestAtomicity forces the audit write to fail and verifies no entity
// mutation from the unit survives.
func TestAtomicity(t *testing.T) {
	ctx := context.Background()
	auditErr := errors.New("audit store unavailable")

	t.Run("create deposit on receipt rolls back the due change", func(t *testing.T) {
		env := newTestEnv(t)
		customer := env.createCustomer(t, "Sita Traders")
		r := env.createReceipt(t, customer.ID, 1000)

		_, failingDeposits := env.withFailingAudit(auditErr)
		_, err := failingDeposits.CreateDepositOnReceipt(ctx, env.actor, customer.ID, r.ID, depositInput(300))
		require.ErrorIs(t, err, auditErr)

		stored := env.getReceipt(t, customer.ID, r.ID)
		assert.True(t, stored.Due.Equal(decimal.NewFromInt(1000)))

		settled, err := env.deposits.ListDepositsByReceipt(ctx, r.ID)
		require.NoError(t, err)
		assert.Empty(t, settled)
	})

	t.Run("receipt delete rolls back the deposit detachments", func(t *testing.T) {
		env := newTestEnv(t)
		customer := env.createCustomer(t, "Sita Traders")
		r := env.createReceipt(t, customer.ID, 1000)
		d, err := env.deposits.CreateDepositOnReceipt(ctx, env.actor, customer.ID, r.ID, depositInput(300))
		require.NoError(t, err)

		failingReceipts, _ := env.withFailingAudit(auditErr)
		err = failingReceipts.DeleteReceipt(ctx, env.actor, customer.ID, r.ID)
		require.ErrorIs(t, err, auditErr)

		// Receipt still exists and the deposit is still settled on it.
		stored := env.getReceipt(t, customer.ID, r.ID)
		assert.True(t, stored.Due.Equal(decimal.NewFromInt(700)))

		kept, err := env.deposits.GetDeposit(ctx, customer.ID, d.ID)
		require.NoError(t, err)
		assert.True(t, kept.SettledTo(r.ID))
	})

	t.Run("receipt create rolls back entirely", func(t *testing.T) {
		env := newTestEnv(t)
		customer := env.createCustomer(t, "Sita Traders")

		failingReceipts, _ := env.withFailingAudit(auditErr)
		_, err := failingReceipts.CreateReceipt(ctx, env.actor, customer.ID, CreateReceiptInput{
			Date:   time.Now(),
			Amount: decimal.NewFromInt(100),
		}, nil)
		require.ErrorIs(t, err, auditErr)

		receipts, err := env.receipts.ListReceipts(ctx, customer.ID)
		require.NoError(t, err)
		assert.Empty(t, receipts)
	})
}
