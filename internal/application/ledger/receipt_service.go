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

// ReceiptService orchestrates receipt operations. Relational writes run in
// one unit of work; blob store writes sit outside the transaction boundary
// and are compensated explicitly when the transaction fails.
type ReceiptService struct {
	uow      ledger.UnitOfWork
	receipts ledger.ReceiptRepository
	blobs    BlobStorage
	renderer PDFRenderer
	logger   *zap.Logger
}

// NewReceiptService creates a new ReceiptService
func NewReceiptService(
	uow ledger.UnitOfWork,
	receipts ledger.ReceiptRepository,
	blobs BlobStorage,
	renderer PDFRenderer,
	logger *zap.Logger,
) *ReceiptService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReceiptService{
		uow:      uow,
		receipts: receipts,
		blobs:    blobs,
		renderer: renderer,
		logger:   logger,
	}
}

// CreateReceiptInput carries the fields for a new receipt
type CreateReceiptInput struct {
	Date        time.Time
	Amount      decimal.Decimal
	Description string
}

// UpdateReceiptInput carries the patchable receipt fields. Nil fields are
// left untouched.
type UpdateReceiptInput struct {
	Date        *time.Time
	Amount      *decimal.Decimal
	Description *string
}

// CreateReceipt records a new debt for a customer. When images are supplied
// they are rendered to one PDF and uploaded before the transaction opens; if
// the transaction then fails the uploaded object is deleted best-effort so
// no orphan blob survives a failed create.
func (s *ReceiptService) CreateReceipt(
	ctx context.Context,
	actor Actor,
	customerID uuid.UUID,
	input CreateReceiptInput,
	images [][]byte,
) (*ledger.Receipt, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}

	var objectKey string
	if len(images) > 0 {
		key, err := s.renderAndUpload(ctx, customerID, input.Date, images)
		if err != nil {
			return nil, err
		}
		objectKey = key
	}

	var receipt *ledger.Receipt
	err := s.uow.Execute(ctx, func(tx ledger.Tx) error {
		if _, err := tx.Customers().FindByID(ctx, customerID); err != nil {
			return err
		}

		r, err := ledger.NewReceipt(customerID, input.Date, input.Amount, input.Description, objectKey)
		if err != nil {
			return err
		}
		if err := tx.Receipts().Create(ctx, r); err != nil {
			return fmt.Errorf("failed to create receipt: %w", err)
		}

		log, err := ledger.NewTransactionLog(actor.UserID, customerID, ledger.OperationCreateReceipt)
		if err != nil {
			return err
		}
		log.WithContext(actor.Context)
		log.AddEntity(ledger.EntityTypeReceipt, r.ID, ledger.EntityActionCreate, ledger.ChangesForCreate(r.Snapshot()))
		if err := tx.TransactionLogs().Create(ctx, log); err != nil {
			return fmt.Errorf("failed to write audit record: %w", err)
		}

		receipt = r
		return nil
	})
	if err != nil {
		s.compensateUpload(ctx, objectKey)
		return nil, err
	}

	return receipt, nil
}

// UpdateReceipt edits a receipt. An amount change shifts the outstanding due
// by the same delta; a negative result is rejected. New images replace the
// existing attachment in place when one exists, otherwise they upload to a
// fresh key. An empty diff with no images is rejected as a no-op.
func (s *ReceiptService) UpdateReceipt(
	ctx context.Context,
	actor Actor,
	customerID, receiptID uuid.UUID,
	input UpdateReceiptInput,
	images [][]byte,
) (*ledger.Receipt, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}

	// The attachment key is decided from current state before the
	// transaction opens, because the upload has to happen first.
	var uploadKey string
	var freshKey bool
	if len(images) > 0 {
		current, err := s.receipts.FindByID(ctx, receiptID)
		if err != nil {
			return nil, err
		}
		if !current.OwnedBy(customerID) {
			return nil, ledger.ErrReceiptNotFound
		}
		if current.HasAttachment() {
			uploadKey = current.ReceiptURL
		} else {
			date := current.Date
			if input.Date != nil {
				date = *input.Date
			}
			uploadKey = receiptObjectKey(customerID, date)
			freshKey = true
		}
		if err := s.renderAndUploadTo(ctx, uploadKey, images); err != nil {
			return nil, err
		}
	}

	var receipt *ledger.Receipt
	err := s.uow.Execute(ctx, func(tx ledger.Tx) error {
		r, err := tx.Receipts().FindByIDForUpdate(ctx, receiptID)
		if err != nil {
			return err
		}
		if !r.OwnedBy(customerID) {
			return ledger.ErrReceiptNotFound
		}

		patch := ledger.ReceiptPatch{
			Date:        input.Date,
			Amount:      input.Amount,
			Description: input.Description,
		}
		diff := r.Diff(patch)
		if diff.IsEmpty() && len(images) == 0 {
			return shared.ErrNoChanges
		}

		if input.Amount != nil && !input.Amount.Equal(r.Amount) {
			newDue, err := ledger.DueAfterReceiptAmountChange(r.Due, r.Amount, *input.Amount)
			if err != nil {
				return err
			}
			diff.Record("due", r.Due, newDue)
			r.Due = newDue
		}

		r.Apply(patch)
		if len(images) > 0 {
			if freshKey {
				diff.Record("receiptUrl", r.ReceiptURL, uploadKey)
				r.ReceiptURL = uploadKey
			} else {
				// The attachment content was rewritten under its existing
				// key. Recording the key keeps the audit entity non-empty
				// for an images-only update.
				diff.Record("receiptUrl", uploadKey, uploadKey)
			}
		}

		if err := tx.Receipts().Update(ctx, r); err != nil {
			return fmt.Errorf("failed to update receipt: %w", err)
		}

		log, err := ledger.NewTransactionLog(actor.UserID, customerID, ledger.OperationUpdateReceipt)
		if err != nil {
			return err
		}
		log.WithContext(actor.Context)
		log.AddEntity(ledger.EntityTypeReceipt, r.ID, ledger.EntityActionUpdate, diff)
		if err := tx.TransactionLogs().Create(ctx, log); err != nil {
			return fmt.Errorf("failed to write audit record: %w", err)
		}

		receipt = r
		return nil
	})
	if err != nil {
		// Only a freshly uploaded object is compensated. Replacing an
		// existing key overwrites the prior content irreversibly; that
		// loss window is accepted and the failure is logged instead.
		if freshKey {
			s.compensateUpload(ctx, uploadKey)
		} else if uploadKey != "" {
			s.logger.Error("receipt update failed after attachment was replaced in place",
				zap.String("key", uploadKey), zap.Error(err))
		}
		return nil, err
	}

	return receipt, nil
}

// DeleteReceipt removes a receipt. Every deposit settled on it is detached
// first, sequentially, inside the same transaction, and each detachment is
// recorded in the audit entity list. The PDF attachment (if any) is deleted
// from the blob store only after the transaction commits.
func (s *ReceiptService) DeleteReceipt(ctx context.Context, actor Actor, customerID, receiptID uuid.UUID) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	var objectKey string
	err := s.uow.Execute(ctx, func(tx ledger.Tx) error {
		r, err := tx.Receipts().FindByIDForUpdate(ctx, receiptID)
		if err != nil {
			return err
		}
		if !r.OwnedBy(customerID) {
			return ledger.ErrReceiptNotFound
		}

		log, err := ledger.NewTransactionLog(actor.UserID, customerID, ledger.OperationDeleteReceipt)
		if err != nil {
			return err
		}
		log.WithContext(actor.Context)

		deposits, err := tx.Deposits().FindByReceipt(ctx, receiptID)
		if err != nil {
			return fmt.Errorf("failed to list settled deposits: %w", err)
		}
		for i := range deposits {
			d := &deposits[i]
			d.Unsettle()
			if err := tx.Deposits().Update(ctx, d); err != nil {
				return fmt.Errorf("failed to detach deposit: %w", err)
			}
			changes := ledger.NewFieldChanges()
			changes.Record("receiptId", receiptID, nil)
			log.AddEntity(ledger.EntityTypeDeposit, d.ID, ledger.EntityActionUpdate, changes)
		}

		if err := tx.Receipts().Delete(ctx, receiptID); err != nil {
			return fmt.Errorf("failed to delete receipt: %w", err)
		}
		log.AddEntity(ledger.EntityTypeReceipt, r.ID, ledger.EntityActionDelete, ledger.ChangesForDelete(r.Snapshot()))

		if err := tx.TransactionLogs().Create(ctx, log); err != nil {
			return fmt.Errorf("failed to write audit record: %w", err)
		}

		objectKey = r.ReceiptURL
		return nil
	})
	if err != nil {
		return err
	}

	if objectKey != "" {
		if err := s.blobs.Delete(ctx, objectKey); err != nil {
			s.logger.Error("failed to delete receipt attachment after commit",
				zap.String("key", objectKey), zap.Error(err))
		}
	}
	return nil
}

// GetReceipt returns one receipt owned by the customer
func (s *ReceiptService) GetReceipt(ctx context.Context, customerID, receiptID uuid.UUID) (*ledger.Receipt, error) {
	r, err := s.receipts.FindByID(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	if !r.OwnedBy(customerID) {
		return nil, ledger.ErrReceiptNotFound
	}
	return r, nil
}

// ListReceipts returns all receipts of a customer, newest date first
func (s *ReceiptService) ListReceipts(ctx context.Context, customerID uuid.UUID) ([]ledger.Receipt, error) {
	return s.receipts.FindByCustomer(ctx, customerID)
}

// RecentReceipts returns the ten most recently touched receipts with their
// customer names
func (s *ReceiptService) RecentReceipts(ctx context.Context) ([]ledger.RecentReceipt, error) {
	return s.receipts.FindRecent(ctx, 10)
}

// GetReceiptPDF streams a receipt attachment out of the blob store
func (s *ReceiptService) GetReceiptPDF(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrBlobNotFound
	}
	return s.blobs.Download(ctx, key)
}

func (s *ReceiptService) renderAndUpload(ctx context.Context, customerID uuid.UUID, date time.Time, images [][]byte) (string, error) {
	key := receiptObjectKey(customerID, date)
	if err := s.renderAndUploadTo(ctx, key, images); err != nil {
		return "", err
	}
	return key, nil
}

func (s *ReceiptService) renderAndUploadTo(ctx context.Context, key string, images [][]byte) error {
	pdf, err := s.renderer.Render(ctx, images)
	if err != nil {
		return fmt.Errorf("failed to render receipt pdf: %w", err)
	}
	if err := s.blobs.Upload(ctx, key, pdf, "application/pdf"); err != nil {
		return fmt.Errorf("failed to upload receipt pdf: %w", err)
	}
	return nil
}

// compensateUpload removes a blob uploaded ahead of a transaction that then
// failed. Best effort: a failed delete is logged with the orphaned key and
// never masks the original error.
func (s *ReceiptService) compensateUpload(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.blobs.Delete(ctx, key); err != nil {
		s.logger.Error("failed to delete orphaned receipt attachment",
			zap.String("key", key), zap.Error(err))
	}
}
