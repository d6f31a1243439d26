package ledger

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/bahikhata/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Operation identifies the business operation an audit record describes.
type Operation string

const (
	OperationCreateReceipt        Operation = "create receipt"
	OperationUpdateReceipt        Operation = "update receipt"
	OperationDeleteReceipt        Operation = "delete receipt"
	OperationCreateDeposit        Operation = "create deposit"
	OperationUpdateDeposit        Operation = "update deposit"
	OperationDeleteDeposit        Operation = "delete deposit"
	OperationCreateDepositReceipt Operation = "create deposit receipt"
	OperationUpdateDepositReceipt Operation = "update deposit receipt"
	OperationDeleteDepositReceipt Operation = "delete deposit receipt"
	OperationSettleDeposit        Operation = "settle deposit"
	OperationUnsettleDeposit      Operation = "unsettle deposit"
	OperationCreateCustomer       Operation = "create customer"
	OperationUpdateCustomer       Operation = "update customer"
)

// IsValid returns true if the operation is part of the enumerated set
func (o Operation) IsValid() bool {
	switch o {
	case OperationCreateReceipt, OperationUpdateReceipt, OperationDeleteReceipt,
		OperationCreateDeposit, OperationUpdateDeposit, OperationDeleteDeposit,
		OperationCreateDepositReceipt, OperationUpdateDepositReceipt, OperationDeleteDepositReceipt,
		OperationSettleDeposit, OperationUnsettleDeposit,
		OperationCreateCustomer, OperationUpdateCustomer:
		return true
	}
	return false
}

// String returns the string representation of Operation
func (o Operation) String() string {
	return string(o)
}

// EntityType names the kind of entity an audit entry refers to.
type EntityType string

const (
	EntityTypeReceipt  EntityType = "Receipt"
	EntityTypeDeposit  EntityType = "Deposit"
	EntityTypeCustomer EntityType = "Customer"
)

// EntityAction is the mutation applied to one entity within an operation.
type EntityAction string

const (
	EntityActionCreate EntityAction = "create"
	EntityActionUpdate EntityAction = "update"
	EntityActionDelete EntityAction = "delete"
)

// EntityChange records one entity touched by an operation, with its
// before/after field values.
type EntityChange struct {
	Type    EntityType   `json:"type"`
	ID      uuid.UUID    `json:"id"`
	Action  EntityAction `json:"action"`
	Changes FieldChanges `json:"changes"`
}

// EntityChanges is the ordered list of entities mutated by one operation.
// Order is insertion order of the mutations and is preserved verbatim for
// audit replay. Stored as JSONB.
type EntityChanges []EntityChange

// Value implements driver.Valuer for JSONB storage
func (e EntityChanges) Value() (driver.Value, error) {
	if e == nil {
		return "[]", nil
	}
	data, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner for JSONB storage
func (e *EntityChanges) Scan(value interface{}) error {
	if value == nil {
		*e = EntityChanges{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("unsupported type for EntityChanges")
	}
	return json.Unmarshal(data, e)
}

// RequestContext captures where an operation came from, for forensics.
type RequestContext struct {
	IP        string `json:"ip,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
}

// TransactionLog is an immutable audit record of one business operation.
// Once created it is never updated or deleted; corrections are recorded as
// new operations.
type TransactionLog struct {
	shared.BaseEntity
	UserID     uuid.UUID
	CustomerID uuid.UUID
	Operation  Operation
	Entities   EntityChanges
	Context    RequestContext
}

// NewTransactionLog creates an audit record for one operation. Entities are
// appended in mutation order via AddEntity before the record is persisted.
func NewTransactionLog(userID, customerID uuid.UUID, operation Operation) (*TransactionLog, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if !operation.IsValid() {
		return nil, shared.NewDomainError("INVALID_OPERATION", "Invalid audit operation")
	}
	return &TransactionLog{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		CustomerID: customerID,
		Operation:  operation,
		Entities:   EntityChanges{},
	}, nil
}

// WithContext attaches the request context to the record.
func (t *TransactionLog) WithContext(ctx RequestContext) *TransactionLog {
	t.Context = ctx
	return t
}

// AddEntity appends one mutated entity to the record, preserving order.
func (t *TransactionLog) AddEntity(entityType EntityType, id uuid.UUID, action EntityAction, changes FieldChanges) {
	t.Entities = append(t.Entities, EntityChange{
		Type:    entityType,
		ID:      id,
		Action:  action,
		Changes: changes,
	})
}

// TransactionLogFilter narrows audit listings.
type TransactionLogFilter struct {
	CustomerID *uuid.UUID
	From       *time.Time
	To         *time.Time
	Page       int
	PageSize   int
}
