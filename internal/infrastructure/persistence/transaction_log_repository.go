package persistence

import (
	"context"

	"github.com/bahikhata/backend/internal/domain/ledger"
	"github.com/bahikhata/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormTransactionLogRepository implements ledger.TransactionLogRepository
// using GORM. The table is append-only; no update or delete methods exist.
type GormTransactionLogRepository struct {
	db *gorm.DB
}

// NewGormTransactionLogRepository creates a new GormTransactionLogRepository
func NewGormTransactionLogRepository(db *gorm.DB) *GormTransactionLogRepository {
	return &GormTransactionLogRepository{db: db}
}

// WithTx returns a new repository instance with the given transaction
func (r *GormTransactionLogRepository) WithTx(tx *gorm.DB) *GormTransactionLogRepository {
	return &GormTransactionLogRepository{db: tx}
}

// Create appends an audit record
func (r *GormTransactionLogRepository) Create(ctx context.Context, log *ledger.TransactionLog) error {
	model := models.TransactionLogModelFromDomain(log)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindAll returns audit records newest first, with the total count for
// pagination
func (r *GormTransactionLogRepository) FindAll(ctx context.Context, filter ledger.TransactionLogFilter) ([]ledger.TransactionLog, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.TransactionLogModel{})
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at DESC")
	if filter.PageSize > 0 {
		offset := 0
		if filter.Page > 1 {
			offset = (filter.Page - 1) * filter.PageSize
		}
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var modelList []models.TransactionLogModel
	if err := query.Find(&modelList).Error; err != nil {
		return nil, 0, err
	}

	logs := make([]ledger.TransactionLog, len(modelList))
	for i := range modelList {
		logs[i] = *modelList[i].ToDomain()
	}
	return logs, total, nil
}
