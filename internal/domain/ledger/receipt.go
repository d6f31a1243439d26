package ledger

import (
	"strings"
	"time"

	"github.com/bahikhata/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	maxDescriptionLength = 150
	maxReceiptURLLength  = 100
)

// Receipt represents an amount owed by a customer. Due is the live
// outstanding balance and must never go negative.
type Receipt struct {
	shared.BaseEntity
	CustomerID  uuid.UUID
	Date        time.Time
	Amount      decimal.Decimal
	Due         decimal.Decimal
	Description string
	ReceiptURL  string // blob store key of the attached PDF, empty if none
}

// NewReceipt creates a receipt. Due defaults to the full amount; this is an
// explicit constructor rule, not a storage-level default.
func NewReceipt(customerID uuid.UUID, date time.Time, amount decimal.Decimal, description, receiptURL string) (*Receipt, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if date.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Receipt date is required")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	description = strings.TrimSpace(description)
	if len(description) > maxDescriptionLength {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Description is too long")
	}
	if len(receiptURL) > maxReceiptURLLength {
		return nil, shared.NewDomainError("INVALID_RECEIPT_URL", "Receipt URL is too long")
	}

	return &Receipt{
		BaseEntity:  shared.NewBaseEntity(),
		CustomerID:  customerID,
		Date:        date,
		Amount:      amount,
		Due:         amount,
		Description: description,
		ReceiptURL:  receiptURL,
	}, nil
}

// OwnedBy reports whether the receipt belongs to the given customer.
func (r *Receipt) OwnedBy(customerID uuid.UUID) bool {
	return r.CustomerID == customerID
}

// HasAttachment reports whether a PDF is attached.
func (r *Receipt) HasAttachment() bool {
	return r.ReceiptURL != ""
}

// ReceiptPatch is the set of fields eligible for update and audit diffing.
// Amount changes shift Due by the same delta; Due itself is never patched
// directly.
type ReceiptPatch struct {
	Date        *time.Time
	Amount      *decimal.Decimal
	Description *string
}

// Diff compares the patch against current state. Due and ReceiptURL changes
// are derived by the operation layer and recorded there, so they do not
// appear here.
func (r *Receipt) Diff(p ReceiptPatch) FieldChanges {
	d := NewFieldChanges()
	if p.Date != nil && !p.Date.Equal(r.Date) {
		d.Record("date", r.Date, *p.Date)
	}
	if p.Amount != nil && !p.Amount.Equal(r.Amount) {
		d.Record("amount", r.Amount, *p.Amount)
	}
	if p.Description != nil && strings.TrimSpace(*p.Description) != r.Description {
		d.Record("description", r.Description, strings.TrimSpace(*p.Description))
	}
	return d
}

// Apply mutates the receipt with the patch fields. Due adjustments go
// through the balance arithmetic separately.
func (r *Receipt) Apply(p ReceiptPatch) {
	if p.Date != nil {
		r.Date = *p.Date
	}
	if p.Amount != nil {
		r.Amount = *p.Amount
	}
	if p.Description != nil {
		r.Description = strings.TrimSpace(*p.Description)
	}
}

// Snapshot returns the audit representation of the receipt.
func (r *Receipt) Snapshot() map[string]any {
	return map[string]any{
		"customerId":  r.CustomerID,
		"date":        r.Date,
		"amount":      r.Amount,
		"due":         r.Due,
		"description": r.Description,
		"receiptUrl":  r.ReceiptURL,
	}
}

// RecentReceipt is a read-only projection for the recent-activity listing.
type RecentReceipt struct {
	ID           uuid.UUID       `json:"id"`
	Amount       decimal.Decimal `json:"amount"`
	Date         time.Time       `json:"date"`
	Description  string          `json:"description"`
	CustomerID   uuid.UUID       `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
}
