package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/bahikhata/backend/internal/domain/ledger"
	"github.com/bahikhata/backend/internal/domain/shared"
	"github.com/bahikhata/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCustomerRepository implements ledger.CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// WithTx returns a new repository instance with the given transaction
func (r *GormCustomerRepository) WithTx(tx *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: tx}
}

// FindByID finds a customer by ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Customer, error) {
	var model models.CustomerModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.ErrCustomerNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByName finds a customer by exact name
func (r *GormCustomerRepository) FindByName(ctx context.Context, name string) (*ledger.Customer, error) {
	var model models.CustomerModel
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.ErrCustomerNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns customers ordered and paginated per the filter
func (r *GormCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]ledger.Customer, error) {
	sortField := ValidateSortField(filter.OrderBy, CustomerSortFields, "name")
	sortOrder := ValidateSortOrder(filter.OrderDir)

	query := r.db.WithContext(ctx).Model(&models.CustomerModel{}).
		Order(fmt.Sprintf("%s %s", sortField, sortOrder))
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	var modelList []models.CustomerModel
	if err := query.Find(&modelList).Error; err != nil {
		return nil, err
	}

	customers := make([]ledger.Customer, len(modelList))
	for i := range modelList {
		customers[i] = *modelList[i].ToDomain()
	}
	return customers, nil
}

// Create creates a new customer. A name collision surfaces as a domain error.
func (r *GormCustomerRepository) Create(ctx context.Context, customer *ledger.Customer) error {
	model := models.CustomerModelFromDomain(customer)
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).
		Create(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ledger.ErrCustomerNameTaken
	}
	return nil
}

// Update updates an existing customer. Name uniqueness against other
// customers is checked by the service before calling Update.
func (r *GormCustomerRepository) Update(ctx context.Context, customer *ledger.Customer) error {
	model := models.CustomerModelFromDomain(customer)
	result := r.db.WithContext(ctx).
		Model(&models.CustomerModel{}).
		Where("id = ?", customer.ID).
		Updates(map[string]any{
			"name":       model.Name,
			"phone":      model.Phone,
			"address":    model.Address,
			"updated_at": model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ledger.ErrCustomerNotFound
	}
	return nil
}
