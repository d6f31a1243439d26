package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/bahikhata/backend/internal/domain/ledger"
	"github.com/bahikhata/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DepositService orchestrates deposit operations. A deposit is either
// unsettled (not applied to any receipt) or settled against exactly one
// receipt; settlement and release always adjust the receipt's due in the
// same transaction that moves the deposit.
type DepositService struct {
	uow      ledger.UnitOfWork
	deposits ledger.DepositRepository
	logger   *zap.Logger
}

// NewDepositService creates a new DepositService
func NewDepositService(uow ledger.UnitOfWork, deposits ledger.DepositRepository, logger *zap.Logger) *DepositService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DepositService{
		uow:      uow,
		deposits: deposits,
		logger:   logger,
	}
}

// CreateDepositInput carries the fields for a new deposit
type CreateDepositInput struct {
	Date        time.Time
	Amount      decimal.Decimal
	ByWhom      string
	Mode        ledger.PaymentMode
	Type        ledger.DepositType
	Description string
}

// UpdateDepositInput carries the patchable deposit fields. Nil fields are
// left untouched.
type UpdateDepositInput struct {
	Date        *time.Time
	Amount      *decimal.Decimal
	ByWhom      *string
	Mode        *ledger.PaymentMode
	Type        *ledger.DepositType
	Description *string
}

func (in UpdateDepositInput) patch() ledger.DepositPatch {
	return ledger.DepositPatch{
		Date:        in.Date,
		Amount:      in.Amount,
		ByWhom:      in.ByWhom,
		Mode:        in.Mode,
		Type:        in.Type,
		Description: in.Description,
	}
}

// CreateDeposit records an unsettled payment for a customer
func (s *DepositService) CreateDeposit(
	ctx context.Context,
	actor Actor,
	customerID uuid.UUID,
	input CreateDepositInput,
) (*ledger.Deposit, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}

	var deposit *ledger.Deposit
	err := s.uow.Execute(ctx, func(tx ledger.Tx) error {
		if _, err := tx.Customers().FindByID(ctx, customerID); err != nil {
			return err
		}

		d, err := ledger.NewDeposit(customerID, nil, input.Date, input.Amount,
			actor.UserID, input.ByWhom, input.Mode, input.Type, input.Description)
		if err != nil {
			return err
		}
		if err := tx.Deposits().Create(ctx, d); err != nil {
			return fmt.Errorf("failed to create deposit: %w", err)
		}

		log, err := ledger.NewTransactionLog(actor.UserID, customerID, ledger.OperationCreateDeposit)
		if err != nil {
			return err
		}
		log.WithContext(actor.Context)
		log.AddEntity(ledger.EntityTypeDeposit, d.ID, ledger.EntityActionCreate, ledger.ChangesForCreate(d.Snapshot()))
		if err := tx.TransactionLogs().Create(ctx, log); err != nil {
			return fmt.Errorf("failed to write audit record: %w", err)
		}

		deposit = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deposit, nil
}

// CreateDepositOnReceipt records a payment applied directly to a receipt.
// The amount must not exceed the receipt's outstanding due; the due is
// decremented in the same transaction and both entities land in one audit
// record.
func (s *DepositService) CreateDepositOnReceipt(
	ctx context.Context,
	actor Actor,
	customerID, receiptID uuid.UUID,
	input CreateDepositInput,
) (*ledger.Deposit, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}

	var deposit *ledger.Deposit
	err := s.uow.Execute(ctx, func(tx ledger.Tx) error {
		r, err := tx.Receipts().FindByIDForUpdate(ctx, receiptID)
		if err != nil {
			return err
		}
		if !r.OwnedBy(customerID) {
			return ledger.ErrReceiptNotFound
		}

		newDue, err := ledger.DueAfterSettlement(r.Due, input.Amount)
		if err != nil {
			return err
		}

		d, err := ledger.NewDeposit(customerID, &receiptID, input.Date, input.Amount,
			actor.UserID, input.ByWhom, input.Mode, input.Type, input.Description)
		if err != nil {
			return err
		}
		if err := tx.Deposits().Create(ctx, d); err != nil {
			return fmt.Errorf("failed to create deposit: %w", err)
		}

		dueChange := ledger.NewFieldChanges()
		dueChange.Record("due", r.Due, newDue)
		r.Due = newDue
		if err := tx.Receipts().Update(ctx, r); err != nil {
			return fmt.Errorf("failed to update receipt due: %w", err)
		}

		log, err := ledger.NewTransactionLog(actor.UserID, customerID, ledger.OperationCreateDepositReceipt)
		if err != nil {
			return err
		}
		log.WithContext(actor.Context)
		log.AddEntity(ledger.EntityTypeDeposit, d.ID, ledger.EntityActionCreate, ledger.ChangesForCreate(d.Snapshot()))
		log.AddEntity(ledger.EntityTypeReceipt, r.ID, ledger.EntityActionUpdate, dueChange)
		if err := tx.TransactionLogs().Create(ctx, log); err != nil {
			return fmt.Errorf("failed to write audit record: %w", err)
		}

		deposit = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deposit, nil
}

// UpdateDeposit edits an unsettled deposit. Settled deposits must be edited
// through UpdateDepositOnReceipt so the due stays balanced.
func (s *DepositService) UpdateDeposit(
	ctx context.Context,
	actor Actor,
	customerID, depositID uuid.UUID,
	input UpdateDepositInput,
) (*ledger.Deposit, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}

	var deposit *ledger.Deposit
	err := s.uow.Execute(ctx, func(tx ledger.Tx) error {
		d, err := tx.Deposits().FindByIDForUpdate(ctx, depositID)
		if err != nil {
			return err
		}
		if !d.OwnedBy(customerID) {
			return ledger.ErrDepositNotFound
		}
		if d.Settled() {
			return ledger.ErrDepositSettled
		}

		diff := d.Diff(input.patch())
		if diff.IsEmpty() {
			return shared.ErrNoChanges
		}
		d.Apply(input.patch())
		if err := tx.Deposits().Update(ctx, d); err != nil {
			return fmt.Errorf("failed to update deposit: %w", err)
		}

		log, err := ledger.NewTransactionLog(actor.UserID, customerID, ledger.OperationUpdateDeposit)
		if err != nil {
			return err
		}
		log.WithContext(actor.Context)
		log.AddEntity(ledger.EntityTypeDeposit, d.ID, ledger.EntityActionUpdate, diff)
		if err := tx.TransactionLogs().Create(ctx, log); err != nil {
			return fmt.Errorf("failed to write audit record: %w", err)
		}

		deposit = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deposit, nil
}

// UpdateDepositOnReceipt edits a deposit settled on the given receipt. An
// amount change rebalances the receipt's due by the delta; the audit record
// includes the receipt entity only when the due actually moved.
func (s *DepositService) UpdateDepositOnReceipt(
	ctx context.Context,
	actor Actor,
	customerID, receiptID, depositID uuid.UUID,
	input UpdateDepositInput,
) (*ledger.Deposit, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}

	var deposit *ledger.Deposit
	err := s.uow.Execute(ctx, func(tx ledger.Tx) error {
		d, err := tx.Deposits().FindByIDForUpdate(ctx, depositID)
		if err != nil {
			return err
		}
		if !d.OwnedBy(customerID) {
			return ledger.ErrDepositNotFound
		}
		if !d.SettledTo(receiptID) {
			return ledger.ErrDepositNotSettled
		}

		diff := d.Diff(input.patch())
		if diff.IsEmpty() {
			return shared.ErrNoChanges
		}

		var dueChange ledger.FieldChanges
		dueMoved := false
		if input.Amount != nil && !input.Amount.Equal(d.Amount) {
			r, err := tx.Receipts().FindByIDForUpdate(ctx, receiptID)
			if err != nil {
				return err
			}
			newDue, err := ledger.DueAfterDepositAmountChange(r.Due, d.Amount, *input.Amount)
			if err != nil {
				return err
			}
			dueChange = ledger.NewFieldChanges()
			dueChange.Record("due", r.Due, newDue)
			r.Due = newDue
			if err := tx.Receipts().Update(ctx, r); err != nil {
				return fmt.Errorf("failed to update receipt due: %w", err)
			}
			dueMoved = true
		}

		d.Apply(input.patch())
		if err := tx.Deposits().Update(ctx, d); err != nil {
			return fmt.Errorf("failed to update deposit: %w", err)
		}

		log, err := ledger.NewTransactionLog(actor.UserID, customerID, ledger.OperationUpdateDepositReceipt)
		if err != nil {
			return err
		}
		log.WithContext(actor.Context)
		log.AddEntity(ledger.EntityTypeDeposit, d.ID, ledger.EntityActionUpdate, diff)
		if dueMoved {
			log.AddEntity(ledger.EntityTypeReceipt, receiptID, ledger.EntityActionUpdate, dueChange)
		}
		if err := tx.TransactionLogs().Create(ctx, log); err != nil {
			return fmt.Errorf("failed to write audit record: %w", err)
		}

		deposit = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deposit, nil
}

// DeleteDeposit removes an unsettled deposit
func (s *DepositService) DeleteDeposit(ctx context.Context, actor Actor, customerID, depositID uuid.UUID) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	return s.uow.Execute(ctx, func(tx ledger.Tx) error {
		d, err := tx.Deposits().FindByIDForUpdate(ctx, depositID)
		if err != nil {
			return err
		}
		if !d.OwnedBy(customerID) {
			return ledger.ErrDepositNotFound
		}
		if d.Settled() {
			return ledger.ErrDepositSettled
		}

		if err := tx.Deposits().Delete(ctx, depositID); err != nil {
			return fmt.Errorf("failed to delete deposit: %w", err)
		}

		log, err := ledger.NewTransactionLog(actor.UserID, customerID, ledger.OperationDeleteDeposit)
		if err != nil {
			return err
		}
		log.WithContext(actor.Context)
		log.AddEntity(ledger.EntityTypeDeposit, d.ID, ledger.EntityActionDelete, ledger.ChangesForDelete(d.Snapshot()))
		return tx.TransactionLogs().Create(ctx, log)
	})
}

// DeleteDepositOnReceipt removes a deposit settled on the given receipt and
// restores its amount to the receipt's due in the same transaction.
func (s *DepositService) DeleteDepositOnReceipt(ctx context.Context, actor Actor, customerID, receiptID, depositID uuid.UUID) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	return s.uow.Execute(ctx, func(tx ledger.Tx) error {
		d, err := tx.Deposits().FindByIDForUpdate(ctx, depositID)
		if err != nil {
			return err
		}
		if !d.OwnedBy(customerID) {
			return ledger.ErrDepositNotFound
		}
		if !d.SettledTo(receiptID) {
			return ledger.ErrDepositNotSettled
		}

		r, err := tx.Receipts().FindByIDForUpdate(ctx, receiptID)
		if err != nil {
			return err
		}

		newDue := ledger.DueAfterRelease(r.Due, d.Amount)
		dueChange := ledger.NewFieldChanges()
		dueChange.Record("due", r.Due, newDue)
		r.Due = newDue

		if err := tx.Deposits().Delete(ctx, depositID); err != nil {
			return fmt.Errorf("failed to delete deposit: %w", err)
		}
		if err := tx.Receipts().Update(ctx, r); err != nil {
			return fmt.Errorf("failed to update receipt due: %w", err)
		}

		log, err := ledger.NewTransactionLog(actor.UserID, customerID, ledger.OperationDeleteDepositReceipt)
		if err != nil {
			return err
		}
		log.WithContext(actor.Context)
		log.AddEntity(ledger.EntityTypeDeposit, d.ID, ledger.EntityActionDelete, ledger.ChangesForDelete(d.Snapshot()))
		log.AddEntity(ledger.EntityTypeReceipt, r.ID, ledger.EntityActionUpdate, dueChange)
		return tx.TransactionLogs().Create(ctx, log)
	})
}

// SettleDeposit applies an unsettled deposit against a receipt. The deposit
// amount must fit within the receipt's outstanding due.
func (s *DepositService) SettleDeposit(ctx context.Context, actor Actor, customerID, depositID, receiptID uuid.UUID) (*ledger.Deposit, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}

	var deposit *ledger.Deposit
	err := s.uow.Execute(ctx, func(tx ledger.Tx) error {
		d, err := tx.Deposits().FindByIDForUpdate(ctx, depositID)
		if err != nil {
			return err
		}
		if !d.OwnedBy(customerID) {
			return ledger.ErrDepositNotFound
		}

		r, err := tx.Receipts().FindByIDForUpdate(ctx, receiptID)
		if err != nil {
			return err
		}
		if !r.OwnedBy(customerID) {
			return ledger.ErrReceiptNotFound
		}

		newDue, err := ledger.DueAfterSettlement(r.Due, d.Amount)
		if err != nil {
			return err
		}
		if err := d.Settle(receiptID); err != nil {
			return err
		}
		if err := tx.Deposits().Update(ctx, d); err != nil {
			return fmt.Errorf("failed to update deposit: %w", err)
		}

		dueChange := ledger.NewFieldChanges()
		dueChange.Record("due", r.Due, newDue)
		r.Due = newDue
		if err := tx.Receipts().Update(ctx, r); err != nil {
			return fmt.Errorf("failed to update receipt due: %w", err)
		}

		attach := ledger.NewFieldChanges()
		attach.Record("receiptId", nil, receiptID)

		log, err := ledger.NewTransactionLog(actor.UserID, customerID, ledger.OperationSettleDeposit)
		if err != nil {
			return err
		}
		log.WithContext(actor.Context)
		log.AddEntity(ledger.EntityTypeDeposit, d.ID, ledger.EntityActionUpdate, attach)
		log.AddEntity(ledger.EntityTypeReceipt, r.ID, ledger.EntityActionUpdate, dueChange)
		if err := tx.TransactionLogs().Create(ctx, log); err != nil {
			return fmt.Errorf("failed to write audit record: %w", err)
		}

		deposit = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deposit, nil
}

// UnsettleDeposit detaches a deposit from the receipt it is settled on and
// restores its amount to the receipt's due.
func (s *DepositService) UnsettleDeposit(ctx context.Context, actor Actor, customerID, depositID, receiptID uuid.UUID) (*ledger.Deposit, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}

	var deposit *ledger.Deposit
	err := s.uow.Execute(ctx, func(tx ledger.Tx) error {
		d, err := tx.Deposits().FindByIDForUpdate(ctx, depositID)
		if err != nil {
			return err
		}
		if !d.OwnedBy(customerID) {
			return ledger.ErrDepositNotFound
		}
		if !d.SettledTo(receiptID) {
			return ledger.ErrDepositNotSettled
		}

		r, err := tx.Receipts().FindByIDForUpdate(ctx, receiptID)
		if err != nil {
			return err
		}

		newDue := ledger.DueAfterRelease(r.Due, d.Amount)
		dueChange := ledger.NewFieldChanges()
		dueChange.Record("due", r.Due, newDue)
		r.Due = newDue

		d.Unsettle()
		if err := tx.Deposits().Update(ctx, d); err != nil {
			return fmt.Errorf("failed to update deposit: %w", err)
		}
		if err := tx.Receipts().Update(ctx, r); err != nil {
			return fmt.Errorf("failed to update receipt due: %w", err)
		}

		detach := ledger.NewFieldChanges()
		detach.Record("receiptId", receiptID, nil)

		log, err := ledger.NewTransactionLog(actor.UserID, customerID, ledger.OperationUnsettleDeposit)
		if err != nil {
			return err
		}
		log.WithContext(actor.Context)
		log.AddEntity(ledger.EntityTypeDeposit, d.ID, ledger.EntityActionUpdate, detach)
		log.AddEntity(ledger.EntityTypeReceipt, r.ID, ledger.EntityActionUpdate, dueChange)
		if err := tx.TransactionLogs().Create(ctx, log); err != nil {
			return fmt.Errorf("failed to write audit record: %w", err)
		}

		deposit = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deposit, nil
}

// GetDeposit returns one deposit owned by the customer
func (s *DepositService) GetDeposit(ctx context.Context, customerID, depositID uuid.UUID) (*ledger.Deposit, error) {
	d, err := s.deposits.FindByID(ctx, depositID)
	if err != nil {
		return nil, err
	}
	if !d.OwnedBy(customerID) {
		return nil, ledger.ErrDepositNotFound
	}
	return d, nil
}

// ListDepositsByReceipt returns the deposits settled on a receipt
func (s *DepositService) ListDepositsByReceipt(ctx context.Context, receiptID uuid.UUID) ([]ledger.Deposit, error) {
	return s.deposits.FindByReceipt(ctx, receiptID)
}

// ListUnsettledDeposits returns a customer's deposits not applied to any
// receipt
func (s *DepositService) ListUnsettledDeposits(ctx context.Context, customerID uuid.UUID) ([]ledger.Deposit, error) {
	return s.deposits.FindUnsettledByCustomer(ctx, customerID)
}

// RecentDeposits returns the ten most recently touched deposits with their
// customer names
func (s *DepositService) RecentDeposits(ctx context.Context) ([]ledger.RecentDeposit, error) {
	return s.deposits.FindRecent(ctx, 10)
}
