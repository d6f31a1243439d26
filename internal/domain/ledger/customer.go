package ledger

import (
	"strings"

	"github.com/bahikhata/backend/internal/domain/shared"
	"github.com/google/uuid"
)

const (
	maxCustomerNameLength = 50
)

// Customer owns receipts and deposits. Identity is immutable once created;
// customers are never deleted by ledger operations.
type Customer struct {
	shared.BaseEntity
	CreatedBy    uuid.UUID // provenance only, never an access-control boundary
	Name         string
	Phone        string
	Address      string
	PasswordHash string
}

// NewCustomer creates a customer. Name uniqueness is enforced by the
// operation layer against the repository, not here.
func NewCustomer(createdBy uuid.UUID, name, phone, address, passwordHash string) (*Customer, error) {
	if createdBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "Creator ID cannot be empty")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	if len(name) > maxCustomerNameLength {
		return nil, shared.NewDomainError("INVALID_NAME", "Customer name is too long")
	}
	address = strings.TrimSpace(address)
	if address == "" {
		address = "unknown"
	}

	return &Customer{
		BaseEntity:   shared.NewBaseEntity(),
		CreatedBy:    createdBy,
		Name:         name,
		Phone:        strings.TrimSpace(phone),
		Address:      address,
		PasswordHash: passwordHash,
	}, nil
}

// CustomerPatch is the set of fields eligible for update and audit diffing.
type CustomerPatch struct {
	Name    *string
	Phone   *string
	Address *string
}

// Diff compares the patch against current state and returns the field-level
// changes. An empty diff means the update is a no-op and must be rejected.
func (c *Customer) Diff(p CustomerPatch) FieldChanges {
	d := NewFieldChanges()
	if p.Name != nil && strings.TrimSpace(*p.Name) != c.Name {
		d.Record("name", c.Name, strings.TrimSpace(*p.Name))
	}
	if p.Phone != nil && *p.Phone != c.Phone {
		d.Record("phone", c.Phone, *p.Phone)
	}
	if p.Address != nil && *p.Address != c.Address {
		d.Record("address", c.Address, *p.Address)
	}
	return d
}

// Apply mutates the customer with the diffed changes.
func (c *Customer) Apply(p CustomerPatch) {
	if p.Name != nil {
		c.Name = strings.TrimSpace(*p.Name)
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
	if p.Address != nil {
		c.Address = *p.Address
	}
}

// Snapshot returns the audit representation of the customer. The password
// hash is deliberately excluded.
func (c *Customer) Snapshot() map[string]any {
	return map[string]any{
		"name":    c.Name,
		"phone":   c.Phone,
		"address": c.Address,
	}
}
