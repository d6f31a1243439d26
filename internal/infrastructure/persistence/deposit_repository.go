package persistence

import (
	"context"
	"errors"

	"github.com/bahikhata/backend/internal/domain/ledger"
	"github.com/bahikhata/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormDepositRepository implements ledger.DepositRepository using GORM
type GormDepositRepository struct {
	db *gorm.DB
}

// NewGormDepositRepository creates a new GormDepositRepository
func NewGormDepositRepository(db *gorm.DB) *GormDepositRepository {
	return &GormDepositRepository{db: db}
}

// WithTx returns a new repository instance with the given transaction
func (r *GormDepositRepository) WithTx(tx *gorm.DB) *GormDepositRepository {
	return &GormDepositRepository{db: tx}
}

// FindByID finds a deposit by ID
func (r *GormDepositRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Deposit, error) {
	return r.findByID(r.db.WithContext(ctx), id)
}

// FindByIDForUpdate finds a deposit by ID and locks its row until the
// surrounding transaction ends.
func (r *GormDepositRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*ledger.Deposit, error) {
	return r.findByID(forUpdate(r.db.WithContext(ctx)), id)
}

func (r *GormDepositRepository) findByID(db *gorm.DB, id uuid.UUID) (*ledger.Deposit, error) {
	var model models.DepositModel
	err := db.Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.ErrDepositNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByReceipt returns all deposits settled to one receipt
func (r *GormDepositRepository) FindByReceipt(ctx context.Context, receiptID uuid.UUID) ([]ledger.Deposit, error) {
	var modelList []models.DepositModel
	err := r.db.WithContext(ctx).
		Where("receipt_id = ?", receiptID).
		Order("date ASC, created_at ASC").
		Find(&modelList).Error
	if err != nil {
		return nil, err
	}
	return depositsToDomain(modelList), nil
}

// FindUnsettledByCustomer returns a customer's deposits not yet applied to
// any receipt
func (r *GormDepositRepository) FindUnsettledByCustomer(ctx context.Context, customerID uuid.UUID) ([]ledger.Deposit, error) {
	var modelList []models.DepositModel
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND receipt_id IS NULL", customerID).
		Order("date ASC, created_at ASC").
		Find(&modelList).Error
	if err != nil {
		return nil, err
	}
	return depositsToDomain(modelList), nil
}

// FindRecent returns the most recently created deposits across all customers,
// joined with the customer name for display.
func (r *GormDepositRepository) FindRecent(ctx context.Context, limit int) ([]ledger.RecentDeposit, error) {
	if limit <= 0 {
		limit = 10
	}

	var rows []ledger.RecentDeposit
	err := r.db.WithContext(ctx).
		Model(&models.DepositModel{}).
		Select("deposits.id, deposits.amount, deposits.receipt_id, deposits.date, deposits.customer_id, customers.name AS customer_name").
		Joins("JOIN customers ON customers.id = deposits.customer_id").
		Order("deposits.updated_at DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Create creates a new deposit
func (r *GormDepositRepository) Create(ctx context.Context, deposit *ledger.Deposit) error {
	model := models.DepositModelFromDomain(deposit)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update updates an existing deposit. receipt_id is included so settle and
// unsettle persist through the same path.
func (r *GormDepositRepository) Update(ctx context.Context, deposit *ledger.Deposit) error {
	model := models.DepositModelFromDomain(deposit)
	result := r.db.WithContext(ctx).
		Model(&models.DepositModel{}).
		Where("id = ?", deposit.ID).
		Updates(map[string]any{
			"receipt_id":  model.ReceiptID,
			"date":        model.Date,
			"amount":      model.Amount,
			"by_whom":     model.ByWhom,
			"mode":        model.Mode,
			"type":        model.Type,
			"description": model.Description,
			"updated_at":  model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ledger.ErrDepositNotFound
	}
	return nil
}

// Delete removes a deposit
func (r *GormDepositRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.DepositModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ledger.ErrDepositNotFound
	}
	return nil
}

func depositsToDomain(modelList []models.DepositModel) []ledger.Deposit {
	deposits := make([]ledger.Deposit, len(modelList))
	for i := range modelList {
		deposits[i] = *modelList[i].ToDomain()
	}
	return deposits
}
