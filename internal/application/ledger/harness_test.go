package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/bahikhata/backend/internal/domain/ledger"
	"github.com/bahikhata/backend/internal/infrastructure/persistence"
	"github.com/bahikhata/backend/internal/infrastructure/persistence/models"
	"github.com/bahikhata/backend/internal/infrastructure/storage"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// testEnv wires the services against an in-memory database and blob store,
// the same way the composition root wires them in production.
type testEnv struct {
	db       *gorm.DB
	uow      ledger.UnitOfWork
	store    *storage.MemoryReceiptStore
	renderer *stubRenderer

	receipts  *ReceiptService
	deposits  *DepositService
	customers *CustomerService
	logs      *TransactionLogService

	actor Actor
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.CustomerModel{},
		&models.ReceiptModel{},
		&models.DepositModel{},
		&models.TransactionLogModel{},
		&models.UserModel{},
	))

	uow := persistence.NewGormUnitOfWork(db)
	store := storage.NewMemoryReceiptStore()
	renderer := &stubRenderer{}

	return &testEnv{
		db:       db,
		uow:      uow,
		store:    store,
		renderer: renderer,

		receipts:  NewReceiptService(uow, persistence.NewGormReceiptRepository(db), store, renderer, nil),
		deposits:  NewDepositService(uow, persistence.NewGormDepositRepository(db), nil),
		customers: NewCustomerService(uow, persistence.NewGormCustomerRepository(db), nil),
		logs:      NewTransactionLogService(persistence.NewGormTransactionLogRepository(db)),

		actor: Actor{
			UserID:  uuid.New(),
			Context: ledger.RequestContext{IP: "10.0.0.1", UserAgent: "test"},
		},
	}
}

// withFailingAudit returns services whose transaction-log writes fail, for
// verifying that nothing else in the unit survives.
func (e *testEnv) withFailingAudit(err error) (*ReceiptService, *DepositService) {
	uow := &auditFailUOW{inner: e.uow, err: err}
	return NewReceiptService(uow, persistence.NewGormReceiptRepository(e.db), e.store, e.renderer, nil),
		NewDepositService(uow, persistence.NewGormDepositRepository(e.db), nil)
}

func (e *testEnv) createCustomer(t *testing.T, name string) *ledger.Customer {
	t.Helper()
	res, err := e.customers.CreateCustomer(context.Background(), e.actor, CreateCustomerInput{
		Name:    name,
		Phone:   "9876543210",
		Address: "MG Road",
	})
	require.NoError(t, err)
	return res.Customer
}

func (e *testEnv) createReceipt(t *testing.T, customerID uuid.UUID, amount int64) *ledger.Receipt {
	t.Helper()
	r, err := e.receipts.CreateReceipt(context.Background(), e.actor, customerID, CreateReceiptInput{
		Date:        time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		Amount:      decimal.NewFromInt(amount),
		Description: "materials",
	}, nil)
	require.NoError(t, err)
	return r
}

func (e *testEnv) createDeposit(t *testing.T, customerID uuid.UUID, amount int64) *ledger.Deposit {
	t.Helper()
	d, err := e.deposits.CreateDeposit(context.Background(), e.actor, customerID, depositInput(amount))
	require.NoError(t, err)
	return d
}

func depositInput(amount int64) CreateDepositInput {
	return CreateDepositInput{
		Date:   time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC),
		Amount: decimal.NewFromInt(amount),
		ByWhom: "ram",
		Mode:   ledger.PaymentModeCash,
		Type:   ledger.DepositTypeNormal,
	}
}

func (e *testEnv) getReceipt(t *testing.T, customerID, receiptID uuid.UUID) *ledger.Receipt {
	t.Helper()
	r, err := e.receipts.GetReceipt(context.Background(), customerID, receiptID)
	require.NoError(t, err)
	return r
}

// auditLog returns all audit records, newest first.
func (e *testEnv) auditLog(t *testing.T) []ledger.TransactionLog {
	t.Helper()
	page, err := e.logs.ListTransactionLogs(context.Background(), ledger.TransactionLogFilter{Page: 1, PageSize: 100})
	require.NoError(t, err)
	return page.Items
}

func ptrDecimal(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func ptrString(s string) *string {
	return &s
}

// stubRenderer returns fixed PDF bytes, or the injected error.
type stubRenderer struct {
	Fail error
}

var _ PDFRenderer = (*stubRenderer)(nil)

func (r *stubRenderer) Render(ctx context.Context, images [][]byte) ([]byte, error) {
	if r.Fail != nil {
		return nil, r.Fail
	}
	return []byte("%PDF-1.4 stub"), nil
}

// auditFailUOW fails every transaction-log write inside the unit of work.
type auditFailUOW struct {
	inner ledger.UnitOfWork
	err   error
}

func (u *auditFailUOW) Execute(ctx context.Context, fn func(tx ledger.Tx) error) error {
	return u.inner.Execute(ctx, func(tx ledger.Tx) error {
		return fn(&auditFailTx{Tx: tx, err: u.err})
	})
}

type auditFailTx struct {
	ledger.Tx
	err error
}

func (t *auditFailTx) TransactionLogs() ledger.TransactionLogRepository {
	return &failingLogRepo{err: t.err}
}

type failingLogRepo struct {
	err error
}

func (r *failingLogRepo) Create(ctx context.Context, log *ledger.TransactionLog) error {
	return r.err
}

func (r *failingLogRepo) FindAll(ctx context.Context, filter ledger.TransactionLogFilter) ([]ledger.TransactionLog, int64, error) {
	return nil, 0, r.err
}
