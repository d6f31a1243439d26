package ledger

import (
	"strings"
	"time"

	"github.com/bahikhata/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const maxByWhomLength = 50

// PaymentMode is the channel a deposit was paid through.
type PaymentMode string

const (
	PaymentModeCash   PaymentMode = "cash"
	PaymentModeUPI    PaymentMode = "upi"
	PaymentModeCheque PaymentMode = "cheque"
	PaymentModeOther  PaymentMode = "other"
)

// IsValid returns true if the payment mode is valid
func (m PaymentMode) IsValid() bool {
	switch m {
	case PaymentModeCash, PaymentModeUPI, PaymentModeCheque, PaymentModeOther:
		return true
	}
	return false
}

// String returns the string representation of PaymentMode
func (m PaymentMode) String() string {
	return string(m)
}

// DepositType distinguishes ordinary repayments from Lahna entries.
type DepositType string

const (
	DepositTypeNormal DepositType = "Normal"
	DepositTypeLahna  DepositType = "Lahna"
)

// IsValid returns true if the deposit type is valid
func (t DepositType) IsValid() bool {
	return t == DepositTypeNormal || t == DepositTypeLahna
}

// Deposit represents a payment. A nil ReceiptID means the deposit is
// unsettled; a settled deposit's amount is reflected exactly once in its
// receipt's due.
type Deposit struct {
	shared.BaseEntity
	CustomerID  uuid.UUID
	ReceiptID   *uuid.UUID
	Date        time.Time
	Amount      decimal.Decimal
	CreatedBy   uuid.UUID // provenance only
	ByWhom      string
	Mode        PaymentMode
	Type        DepositType
	Description string
}

// NewDeposit creates a deposit, pre-attached to a receipt when receiptID is
// non-nil. The due adjustment for a pre-attached deposit is the operation
// layer's responsibility.
func NewDeposit(
	customerID uuid.UUID,
	receiptID *uuid.UUID,
	date time.Time,
	amount decimal.Decimal,
	createdBy uuid.UUID,
	byWhom string,
	mode PaymentMode,
	depositType DepositType,
	description string,
) (*Deposit, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if createdBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "Creator ID cannot be empty")
	}
	if date.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Deposit date is required")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if mode == "" {
		mode = PaymentModeCash
	}
	if !mode.IsValid() {
		return nil, shared.NewDomainError("INVALID_MODE", "Invalid payment mode")
	}
	if depositType == "" {
		depositType = DepositTypeNormal
	}
	if !depositType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Invalid deposit type")
	}
	byWhom = strings.TrimSpace(byWhom)
	if len(byWhom) > maxByWhomLength {
		return nil, shared.NewDomainError("INVALID_BY_WHOM", "ByWhom is too long")
	}
	description = strings.TrimSpace(description)
	if len(description) > maxDescriptionLength {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Description is too long")
	}

	return &Deposit{
		BaseEntity:  shared.NewBaseEntity(),
		CustomerID:  customerID,
		ReceiptID:   receiptID,
		Date:        date,
		Amount:      amount,
		CreatedBy:   createdBy,
		ByWhom:      byWhom,
		Mode:        mode,
		Type:        depositType,
		Description: description,
	}, nil
}

// Settled reports whether the deposit is applied to a receipt.
func (d *Deposit) Settled() bool {
	return d.ReceiptID != nil
}

// SettledTo reports whether the deposit is applied to the given receipt.
func (d *Deposit) SettledTo(receiptID uuid.UUID) bool {
	return d.ReceiptID != nil && *d.ReceiptID == receiptID
}

// OwnedBy reports whether the deposit belongs to the given customer.
func (d *Deposit) OwnedBy(customerID uuid.UUID) bool {
	return d.CustomerID == customerID
}

// Settle attaches the deposit to a receipt. The receipt's due adjustment is
// handled by the operation layer inside the same transaction.
func (d *Deposit) Settle(receiptID uuid.UUID) error {
	if d.Settled() {
		return ErrDepositSettled
	}
	d.ReceiptID = &receiptID
	return nil
}

// Unsettle detaches the deposit from its receipt.
func (d *Deposit) Unsettle() {
	d.ReceiptID = nil
}

// DepositPatch is the set of fields eligible for update and audit diffing.
// CustomerID and ReceiptID are never patched; reattachment goes through
// settle/unsettle only.
type DepositPatch struct {
	Date        *time.Time
	Amount      *decimal.Decimal
	ByWhom      *string
	Mode        *PaymentMode
	Type        *DepositType
	Description *string
}

// Diff compares the patch against current state.
func (d *Deposit) Diff(p DepositPatch) FieldChanges {
	c := NewFieldChanges()
	if p.Date != nil && !p.Date.Equal(d.Date) {
		c.Record("date", d.Date, *p.Date)
	}
	if p.Amount != nil && !p.Amount.Equal(d.Amount) {
		c.Record("amount", d.Amount, *p.Amount)
	}
	if p.ByWhom != nil && strings.TrimSpace(*p.ByWhom) != d.ByWhom {
		c.Record("byWhom", d.ByWhom, strings.TrimSpace(*p.ByWhom))
	}
	if p.Mode != nil && *p.Mode != d.Mode {
		c.Record("mode", d.Mode, *p.Mode)
	}
	if p.Type != nil && *p.Type != d.Type {
		c.Record("type", d.Type, *p.Type)
	}
	if p.Description != nil && strings.TrimSpace(*p.Description) != d.Description {
		c.Record("description", d.Description, strings.TrimSpace(*p.Description))
	}
	return c
}

// Apply mutates the deposit with the patch fields.
func (d *Deposit) Apply(p DepositPatch) {
	if p.Date != nil {
		d.Date = *p.Date
	}
	if p.Amount != nil {
		d.Amount = *p.Amount
	}
	if p.ByWhom != nil {
		d.ByWhom = strings.TrimSpace(*p.ByWhom)
	}
	if p.Mode != nil {
		d.Mode = *p.Mode
	}
	if p.Type != nil {
		d.Type = *p.Type
	}
	if p.Description != nil {
		d.Description = strings.TrimSpace(*p.Description)
	}
}

// Snapshot returns the audit representation of the deposit.
func (d *Deposit) Snapshot() map[string]any {
	var receiptID any
	if d.ReceiptID != nil {
		receiptID = *d.ReceiptID
	}
	return map[string]any{
		"customerId":  d.CustomerID,
		"receiptId":   receiptID,
		"date":        d.Date,
		"amount":      d.Amount,
		"byWhom":      d.ByWhom,
		"mode":        d.Mode,
		"type":        d.Type,
		"description": d.Description,
	}
}

// RecentDeposit is a read-only projection for the recent-activity listing.
type RecentDeposit struct {
	ID           uuid.UUID       `json:"id"`
	Amount       decimal.Decimal `json:"amount"`
	ReceiptID    *uuid.UUID      `json:"receipt_id"`
	Date         time.Time       `json:"date"`
	CustomerID   uuid.UUID       `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
}
