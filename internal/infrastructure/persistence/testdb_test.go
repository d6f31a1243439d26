package persistence

import (
	"testing"
	"time"

	"github.com/bahikhata/backend/internal/domain/ledger"
	"github.com/bahikhata/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupLedgerTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.CustomerModel{},
		&models.ReceiptModel{},
		&models.DepositModel{},
		&models.TransactionLogModel{},
		&models.UserModel{},
	)
	require.NoError(t, err)

	return db
}

func mustNewCustomer(t *testing.T, name string) *ledger.Customer {
	c, err := ledger.NewCustomer(uuid.New(), name, "9876543210", "MG Road", "")
	require.NoError(t, err)
	return c
}

func mustNewReceipt(t *testing.T, customerID uuid.UUID, amount int64) *ledger.Receipt {
	r, err := ledger.NewReceipt(customerID, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), decimal.NewFromInt(amount), "materials", "")
	require.NoError(t, err)
	return r
}

func mustNewDeposit(t *testing.T, customerID uuid.UUID, receiptID *uuid.UUID, amount int64) *ledger.Deposit {
	d, err := ledger.NewDeposit(customerID, receiptID, time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC),
		decimal.NewFromInt(amount), uuid.New(), "ram", ledger.PaymentModeCash, ledger.DepositTypeNormal, "")
	require.NoError(t, err)
	return d
}
