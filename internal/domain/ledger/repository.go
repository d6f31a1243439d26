package ledger

import (
	"context"

	"github.com/bahikhata/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerRepository provides access to customers.
type CustomerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	FindByName(ctx context.Context, name string) (*Customer, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Customer, error)
	Create(ctx context.Context, customer *Customer) error
	Update(ctx context.Context, customer *Customer) error
}

// ReceiptRepository provides access to receipts.
type ReceiptRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Receipt, error)
	// FindByIDForUpdate reads the receipt with a row lock held until the
	// surrounding transaction ends. Write paths that read-modify-write the
	// due must use this inside a unit of work.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Receipt, error)
	FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]Receipt, error)
	FindRecent(ctx context.Context, limit int) ([]RecentReceipt, error)
	Create(ctx context.Context, receipt *Receipt) error
	Update(ctx context.Context, receipt *Receipt) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// DepositRepository provides access to deposits.
type DepositRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Deposit, error)
	// FindByIDForUpdate reads the deposit with a row lock, so two
	// transactions cannot settle or edit the same deposit concurrently.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Deposit, error)
	FindByReceipt(ctx context.Context, receiptID uuid.UUID) ([]Deposit, error)
	FindUnsettledByCustomer(ctx context.Context, customerID uuid.UUID) ([]Deposit, error)
	FindRecent(ctx context.Context, limit int) ([]RecentDeposit, error)
	Create(ctx context.Context, deposit *Deposit) error
	Update(ctx context.Context, deposit *Deposit) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// TransactionLogRepository appends and lists audit records. There is no
// update or delete: the log is append-only.
type TransactionLogRepository interface {
	Create(ctx context.Context, log *TransactionLog) error
	FindAll(ctx context.Context, filter TransactionLogFilter) ([]TransactionLog, int64, error)
}

// Tx bundles transaction-scoped repositories. Every repository obtained from
// a Tx participates in the same atomic unit; the transaction-log write must
// be the last write in the unit.
type Tx interface {
	Customers() CustomerRepository
	Receipts() ReceiptRepository
	Deposits() DepositRepository
	TransactionLogs() TransactionLogRepository
}

// UnitOfWork executes fn inside one atomic transaction. If fn returns an
// error the whole unit rolls back; no entity or log record is partially
// written. Write paths must go through a unit of work; standalone
// repositories are for read-only listings that tolerate stale reads.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(tx Tx) error) error
}
