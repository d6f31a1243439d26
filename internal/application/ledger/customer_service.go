package ledger

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/bahikhata/backend/internal/domain/ledger"
	"github.com/bahikhata/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const generatedPasswordLength = 10

// CustomerService orchestrates customer operations. Customers are never
// deleted; their ledger history must stay replayable.
type CustomerService struct {
	uow       ledger.UnitOfWork
	customers ledger.CustomerRepository
	logger    *zap.Logger
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(uow ledger.UnitOfWork, customers ledger.CustomerRepository, logger *zap.Logger) *CustomerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CustomerService{
		uow:       uow,
		customers: customers,
		logger:    logger,
	}
}

// CreateCustomerInput carries the fields for a new customer
type CreateCustomerInput struct {
	Name    string
	Phone   string
	Address string
}

// UpdateCustomerInput carries the patchable customer fields. Nil fields are
// left untouched.
type UpdateCustomerInput struct {
	Name    *string
	Phone   *string
	Address *string
}

// CreateCustomerResult returns the created customer along with the one-time
// generated password. The plain password exists only in this response; only
// its bcrypt hash is stored.
type CreateCustomerResult struct {
	Customer *ledger.Customer
	Password string
}

// CreateCustomer registers a customer with a unique name and a generated
// password.
func (s *CustomerService) CreateCustomer(ctx context.Context, actor Actor, input CreateCustomerInput) (*CreateCustomerResult, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}

	password, err := generatePassword(generatedPasswordLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate password: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var customer *ledger.Customer
	err = s.uow.Execute(ctx, func(tx ledger.Tx) error {
		c, err := ledger.NewCustomer(actor.UserID, input.Name, input.Phone, input.Address, string(hash))
		if err != nil {
			return err
		}
		if err := tx.Customers().Create(ctx, c); err != nil {
			return err
		}

		log, err := ledger.NewTransactionLog(actor.UserID, c.ID, ledger.OperationCreateCustomer)
		if err != nil {
			return err
		}
		log.WithContext(actor.Context)
		log.AddEntity(ledger.EntityTypeCustomer, c.ID, ledger.EntityActionCreate, ledger.ChangesForCreate(c.Snapshot()))
		if err := tx.TransactionLogs().Create(ctx, log); err != nil {
			return fmt.Errorf("failed to write audit record: %w", err)
		}

		customer = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &CreateCustomerResult{Customer: customer, Password: password}, nil
}

// UpdateCustomer edits a customer's profile fields. A rename to a name that
// another customer already holds is rejected; an empty diff is rejected as a
// no-op.
func (s *CustomerService) UpdateCustomer(ctx context.Context, actor Actor, customerID uuid.UUID, input UpdateCustomerInput) (*ledger.Customer, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}

	var customer *ledger.Customer
	err := s.uow.Execute(ctx, func(tx ledger.Tx) error {
		c, err := tx.Customers().FindByID(ctx, customerID)
		if err != nil {
			return err
		}

		patch := ledger.CustomerPatch{
			Name:    input.Name,
			Phone:   input.Phone,
			Address: input.Address,
		}
		diff := c.Diff(patch)
		if diff.IsEmpty() {
			return shared.ErrNoChanges
		}

		if input.Name != nil {
			existing, err := tx.Customers().FindByName(ctx, *input.Name)
			if err != nil && !errors.Is(err, ledger.ErrCustomerNotFound) {
				return err
			}
			if existing != nil && existing.ID != c.ID {
				return ledger.ErrCustomerNameTaken
			}
		}

		c.Apply(patch)
		if err := tx.Customers().Update(ctx, c); err != nil {
			return fmt.Errorf("failed to update customer: %w", err)
		}

		log, err := ledger.NewTransactionLog(actor.UserID, c.ID, ledger.OperationUpdateCustomer)
		if err != nil {
			return err
		}
		log.WithContext(actor.Context)
		log.AddEntity(ledger.EntityTypeCustomer, c.ID, ledger.EntityActionUpdate, diff)
		if err := tx.TransactionLogs().Create(ctx, log); err != nil {
			return fmt.Errorf("failed to write audit record: %w", err)
		}

		customer = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return customer, nil
}

// GetCustomer returns one customer by id
func (s *CustomerService) GetCustomer(ctx context.Context, customerID uuid.UUID) (*ledger.Customer, error) {
	return s.customers.FindByID(ctx, customerID)
}

// ListCustomers returns customers per the filter
func (s *CustomerService) ListCustomers(ctx context.Context, filter shared.Filter) ([]ledger.Customer, error) {
	return s.customers.FindAll(ctx, filter)
}

const passwordAlphabet = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// generatePassword draws from an alphabet without the easily confused
// characters (0/O, 1/l/I).
func generatePassword(length int) (string, error) {
	buf := make([]byte, length)
	max := big.NewInt(int64(len(passwordAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = passwordAlphabet[n.Int64()]
	}
	return string(buf), nil
}
