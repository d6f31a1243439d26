package dto

import (
	"time"

	"github.com/bahikhata/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateCustomerRequest carries the fields for a new customer
type CreateCustomerRequest struct {
	Name    string `json:"name" binding:"required,max=50"`
	Phone   string `json:"phone" binding:"omitempty,max=20"`
	Address string `json:"address" binding:"omitempty,max=150"`
}

// UpdateCustomerRequest carries the patchable customer fields
type UpdateCustomerRequest struct {
	Name    *string `json:"name" binding:"omitempty,max=50"`
	Phone   *string `json:"phone" binding:"omitempty,max=20"`
	Address *string `json:"address" binding:"omitempty,max=150"`
}

// CustomerResponse is the wire representation of a customer
type CustomerResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreatedCustomerResponse additionally carries the one-time generated
// password
type CreatedCustomerResponse struct {
	CustomerResponse
	Password string `json:"password"`
}

// CustomerResponseFromDomain converts a domain customer to its wire form.
// The password hash never leaves the service.
func CustomerResponseFromDomain(c *ledger.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Phone:     c.Phone,
		Address:   c.Address,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// CreateReceiptRequest carries the multipart form fields for a new receipt.
// Images arrive as separate multipart files.
type CreateReceiptRequest struct {
	Date        time.Time `form:"date" binding:"required" time_format:"2006-01-02"`
	Amount      float64   `form:"amount" binding:"required,gt=0"`
	Description string    `form:"description" binding:"omitempty,max=150"`
}

// UpdateReceiptRequest carries the patchable receipt fields
type UpdateReceiptRequest struct {
	Date        *time.Time `form:"date" binding:"omitempty" time_format:"2006-01-02"`
	Amount      *float64   `form:"amount" binding:"omitempty,gt=0"`
	Description *string    `form:"description" binding:"omitempty,max=150"`
}

// ReceiptResponse is the wire representation of a receipt
type ReceiptResponse struct {
	ID          uuid.UUID       `json:"id"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Due         decimal.Decimal `json:"due"`
	Description string          `json:"description"`
	ReceiptURL  string          `json:"receipt_url,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ReceiptResponseFromDomain converts a domain receipt to its wire form
func ReceiptResponseFromDomain(r *ledger.Receipt) ReceiptResponse {
	return ReceiptResponse{
		ID:          r.ID,
		CustomerID:  r.CustomerID,
		Date:        r.Date,
		Amount:      r.Amount,
		Due:         r.Due,
		Description: r.Description,
		ReceiptURL:  r.ReceiptURL,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// ReceiptResponsesFromDomain converts a slice of domain receipts
func ReceiptResponsesFromDomain(receipts []ledger.Receipt) []ReceiptResponse {
	out := make([]ReceiptResponse, len(receipts))
	for i := range receipts {
		out[i] = ReceiptResponseFromDomain(&receipts[i])
	}
	return out
}

// CreateDepositRequest carries the fields for a new deposit
type CreateDepositRequest struct {
	Date        time.Time `json:"date" binding:"required" time_format:"2006-01-02"`
	Amount      float64   `json:"amount" binding:"required,gt=0"`
	ByWhom      string    `json:"by_whom" binding:"omitempty,max=50"`
	Mode        string    `json:"mode" binding:"omitempty,oneof=cash upi cheque other"`
	Type        string    `json:"type" binding:"omitempty,oneof=Normal Lahna"`
	Description string    `json:"description" binding:"omitempty,max=150"`
}

// UpdateDepositRequest carries the patchable deposit fields
type UpdateDepositRequest struct {
	Date        *time.Time `json:"date" binding:"omitempty" time_format:"2006-01-02"`
	Amount      *float64   `json:"amount" binding:"omitempty,gt=0"`
	ByWhom      *string    `json:"by_whom" binding:"omitempty,max=50"`
	Mode        *string    `json:"mode" binding:"omitempty,oneof=cash upi cheque other"`
	Type        *string    `json:"type" binding:"omitempty,oneof=Normal Lahna"`
	Description *string    `json:"description" binding:"omitempty,max=150"`
}

// SettleDepositRequest names the receipt a deposit is settled against
type SettleDepositRequest struct {
	ReceiptID string `json:"receipt_id" binding:"required,uuid"`
}

// DepositResponse is the wire representation of a deposit
type DepositResponse struct {
	ID          uuid.UUID       `json:"id"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	ReceiptID   *uuid.UUID      `json:"receipt_id,omitempty"`
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	ByWhom      string          `json:"by_whom"`
	Mode        string          `json:"mode"`
	Type        string          `json:"type"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// DepositResponseFromDomain converts a domain deposit to its wire form
func DepositResponseFromDomain(d *ledger.Deposit) DepositResponse {
	return DepositResponse{
		ID:          d.ID,
		CustomerID:  d.CustomerID,
		ReceiptID:   d.ReceiptID,
		Date:        d.Date,
		Amount:      d.Amount,
		ByWhom:      d.ByWhom,
		Mode:        d.Mode.String(),
		Type:        string(d.Type),
		Description: d.Description,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// DepositResponsesFromDomain converts a slice of domain deposits
func DepositResponsesFromDomain(deposits []ledger.Deposit) []DepositResponse {
	out := make([]DepositResponse, len(deposits))
	for i := range deposits {
		out[i] = DepositResponseFromDomain(&deposits[i])
	}
	return out
}

// TransactionLogListRequest narrows the audit listing
type TransactionLogListRequest struct {
	CustomerID string `form:"customer_id" binding:"omitempty,uuid"`
	From       string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To         string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// TransactionLogResponse is the wire representation of an audit record
type TransactionLogResponse struct {
	ID         uuid.UUID             `json:"id"`
	UserID     uuid.UUID             `json:"user_id"`
	CustomerID uuid.UUID             `json:"customer_id"`
	Operation  string                `json:"operation"`
	Entities   ledger.EntityChanges  `json:"entities"`
	Context    ledger.RequestContext `json:"context"`
	CreatedAt  time.Time             `json:"created_at"`
}

// TransactionLogResponseFromDomain converts a domain audit record
func TransactionLogResponseFromDomain(l *ledger.TransactionLog) TransactionLogResponse {
	return TransactionLogResponse{
		ID:         l.ID,
		UserID:     l.UserID,
		CustomerID: l.CustomerID,
		Operation:  l.Operation.String(),
		Entities:   l.Entities,
		Context:    l.Context,
		CreatedAt:  l.CreatedAt,
	}
}
