package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/bahikhata/backend/internal/domain/ledger"
	"github.com/bahikhata/backend/internal/domain/shared"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// GormUnitOfWork implements ledger.UnitOfWork on top of a GORM transaction.
// All repositories handed to the callback share the transaction, so a
// returned error rolls back every write including the audit record.
type GormUnitOfWork struct {
	db *gorm.DB
}

// NewGormUnitOfWork creates a new GormUnitOfWork
func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

// Execute runs fn inside one database transaction
func (u *GormUnitOfWork) Execute(ctx context.Context, fn func(tx ledger.Tx) error) error {
	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTx{tx: tx})
	})
	return classifyTxError(err)
}

// classifyTxError maps driver-level contention failures onto the domain
// conflict error so callers can retry or surface a 409. Domain errors pass
// through untouched.
func classifyTxError(err error) error {
	if err == nil {
		return nil
	}
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return err
	}

	// Postgres: serialization_failure and deadlock_detected.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "40001" || pgErr.Code == "40P01" {
			return shared.ErrConcurrencyConflict
		}
		return err
	}

	// sqlite reports writer contention by message; there is no typed error
	// shared between the cgo and pure-Go drivers.
	msg := err.Error()
	if strings.Contains(msg, "database is locked") || strings.Contains(msg, "database table is locked") {
		return shared.ErrConcurrencyConflict
	}
	return err
}

// gormTx bundles transaction-scoped repositories over one *gorm.DB.
type gormTx struct {
	tx *gorm.DB
}

func (t *gormTx) Customers() ledger.CustomerRepository {
	return NewGormCustomerRepository(t.tx)
}

func (t *gormTx) Receipts() ledger.ReceiptRepository {
	return NewGormReceiptRepository(t.tx)
}

func (t *gormTx) Deposits() ledger.DepositRepository {
	return NewGormDepositRepository(t.tx)
}

func (t *gormTx) TransactionLogs() ledger.TransactionLogRepository {
	return NewGormTransactionLogRepository(t.tx)
}
