package persistence

import (
	"context"
	"errors"

	"github.com/bahikhata/backend/internal/domain/ledger"
	"github.com/bahikhata/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormReceiptRepository implements ledger.ReceiptRepository using GORM
type GormReceiptRepository struct {
	db *gorm.DB
}

// NewGormReceiptRepository creates a new GormReceiptRepository
func NewGormReceiptRepository(db *gorm.DB) *GormReceiptRepository {
	return &GormReceiptRepository{db: db}
}

// WithTx returns a new repository instance with the given transaction
func (r *GormReceiptRepository) WithTx(tx *gorm.DB) *GormReceiptRepository {
	return &GormReceiptRepository{db: tx}
}

// FindByID finds a receipt by ID
func (r *GormReceiptRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Receipt, error) {
	return r.findByID(r.db.WithContext(ctx), id)
}

// FindByIDForUpdate finds a receipt by ID and locks its row until the
// surrounding transaction ends.
func (r *GormReceiptRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*ledger.Receipt, error) {
	return r.findByID(forUpdate(r.db.WithContext(ctx)), id)
}

func (r *GormReceiptRepository) findByID(db *gorm.DB, id uuid.UUID) (*ledger.Receipt, error) {
	var model models.ReceiptModel
	err := db.Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.ErrReceiptNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCustomer returns all receipts of one customer, newest first
func (r *GormReceiptRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]ledger.Receipt, error) {
	var modelList []models.ReceiptModel
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("date DESC, created_at DESC").
		Find(&modelList).Error
	if err != nil {
		return nil, err
	}

	receipts := make([]ledger.Receipt, len(modelList))
	for i := range modelList {
		receipts[i] = *modelList[i].ToDomain()
	}
	return receipts, nil
}

// FindRecent returns the most recently created receipts across all customers,
// joined with the customer name for display.
func (r *GormReceiptRepository) FindRecent(ctx context.Context, limit int) ([]ledger.RecentReceipt, error) {
	if limit <= 0 {
		limit = 10
	}

	var rows []ledger.RecentReceipt
	err := r.db.WithContext(ctx).
		Model(&models.ReceiptModel{}).
		Select("receipts.id, receipts.amount, receipts.date, receipts.description, receipts.customer_id, customers.name AS customer_name").
		Joins("JOIN customers ON customers.id = receipts.customer_id").
		Order("receipts.updated_at DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Create creates a new receipt
func (r *GormReceiptRepository) Create(ctx context.Context, receipt *ledger.Receipt) error {
	model := models.ReceiptModelFromDomain(receipt)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update updates an existing receipt
func (r *GormReceiptRepository) Update(ctx context.Context, receipt *ledger.Receipt) error {
	model := models.ReceiptModelFromDomain(receipt)
	result := r.db.WithContext(ctx).
		Model(&models.ReceiptModel{}).
		Where("id = ?", receipt.ID).
		Updates(map[string]any{
			"date":        model.Date,
			"amount":      model.Amount,
			"due":         model.Due,
			"description": model.Description,
			"receipt_url": model.ReceiptURL,
			"updated_at":  model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ledger.ErrReceiptNotFound
	}
	return nil
}

// Delete removes a receipt
func (r *GormReceiptRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ReceiptModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ledger.ErrReceiptNotFound
	}
	return nil
}
