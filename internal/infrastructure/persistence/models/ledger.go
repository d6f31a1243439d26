package models

import (
	"time"

	"github.com/bahikhata/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CustomerModel is the persistence model for the Customer entity.
type CustomerModel struct {
	BaseModel
	CreatedBy    uuid.UUID `gorm:"type:uuid;not null;index"`
	Name         string    `gorm:"type:varchar(50);not null;uniqueIndex"`
	Phone        string    `gorm:"type:varchar(20)"`
	Address      string    `gorm:"type:varchar(200);not null;default:'unknown'"`
	PasswordHash string    `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer entity.
func (m *CustomerModel) ToDomain() *ledger.Customer {
	return &ledger.Customer{
		BaseEntity:   m.BaseModel.ToDomain(),
		CreatedBy:    m.CreatedBy,
		Name:         m.Name,
		Phone:        m.Phone,
		Address:      m.Address,
		PasswordHash: m.PasswordHash,
	}
}

// FromDomain populates the persistence model from a domain Customer entity.
func (m *CustomerModel) FromDomain(c *ledger.Customer) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.CreatedBy = c.CreatedBy
	m.Name = c.Name
	m.Phone = c.Phone
	m.Address = c.Address
	m.PasswordHash = c.PasswordHash
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer.
func CustomerModelFromDomain(c *ledger.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}

// ReceiptModel is the persistence model for the Receipt entity.
type ReceiptModel struct {
	BaseModel
	CustomerID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Date        time.Time       `gorm:"not null;index"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Due         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Description string          `gorm:"type:varchar(150)"`
	ReceiptURL  string          `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (ReceiptModel) TableName() string {
	return "receipts"
}

// ToDomain converts the persistence model to a domain Receipt entity.
func (m *ReceiptModel) ToDomain() *ledger.Receipt {
	return &ledger.Receipt{
		BaseEntity:  m.BaseModel.ToDomain(),
		CustomerID:  m.CustomerID,
		Date:        m.Date,
		Amount:      m.Amount,
		Due:         m.Due,
		Description: m.Description,
		ReceiptURL:  m.ReceiptURL,
	}
}

// FromDomain populates the persistence model from a domain Receipt entity.
func (m *ReceiptModel) FromDomain(r *ledger.Receipt) {
	m.FromDomainBaseEntity(r.BaseEntity)
	m.CustomerID = r.CustomerID
	m.Date = r.Date
	m.Amount = r.Amount
	m.Due = r.Due
	m.Description = r.Description
	m.ReceiptURL = r.ReceiptURL
}

// ReceiptModelFromDomain creates a new persistence model from a domain Receipt.
func ReceiptModelFromDomain(r *ledger.Receipt) *ReceiptModel {
	m := &ReceiptModel{}
	m.FromDomain(r)
	return m
}

// DepositModel is the persistence model for the Deposit entity.
type DepositModel struct {
	BaseModel
	CustomerID  uuid.UUID          `gorm:"type:uuid;not null;index"`
	ReceiptID   *uuid.UUID         `gorm:"type:uuid;index"`
	Date        time.Time          `gorm:"not null;index"`
	Amount      decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
	CreatedBy   uuid.UUID          `gorm:"type:uuid;not null"`
	ByWhom      string             `gorm:"type:varchar(50)"`
	Mode        ledger.PaymentMode `gorm:"type:varchar(10);not null;default:'cash'"`
	Type        ledger.DepositType `gorm:"type:varchar(10);not null;default:'Normal'"`
	Description string             `gorm:"type:varchar(150)"`
}

// TableName returns the table name for GORM
func (DepositModel) TableName() string {
	return "deposits"
}

// ToDomain converts the persistence model to a domain Deposit entity.
func (m *DepositModel) ToDomain() *ledger.Deposit {
	return &ledger.Deposit{
		BaseEntity:  m.BaseModel.ToDomain(),
		CustomerID:  m.CustomerID,
		ReceiptID:   m.ReceiptID,
		Date:        m.Date,
		Amount:      m.Amount,
		CreatedBy:   m.CreatedBy,
		ByWhom:      m.ByWhom,
		Mode:        m.Mode,
		Type:        m.Type,
		Description: m.Description,
	}
}

// FromDomain populates the persistence model from a domain Deposit entity.
func (m *DepositModel) FromDomain(d *ledger.Deposit) {
	m.FromDomainBaseEntity(d.BaseEntity)
	m.CustomerID = d.CustomerID
	m.ReceiptID = d.ReceiptID
	m.Date = d.Date
	m.Amount = d.Amount
	m.CreatedBy = d.CreatedBy
	m.ByWhom = d.ByWhom
	m.Mode = d.Mode
	m.Type = d.Type
	m.Description = d.Description
}

// DepositModelFromDomain creates a new persistence model from a domain Deposit.
func DepositModelFromDomain(d *ledger.Deposit) *DepositModel {
	m := &DepositModel{}
	m.FromDomain(d)
	return m
}

// TransactionLogModel is the persistence model for the TransactionLog entity.
// Audit records are append-only; there is no update path for this model.
type TransactionLogModel struct {
	BaseModel
	UserID     uuid.UUID            `gorm:"type:uuid;not null;index"`
	CustomerID uuid.UUID            `gorm:"type:uuid;not null;index"`
	Operation  ledger.Operation     `gorm:"type:varchar(30);not null"`
	Entities   ledger.EntityChanges `gorm:"type:jsonb;default:'[]'"`
	IP         string               `gorm:"type:varchar(45)"`
	UserAgent  string               `gorm:"type:varchar(300)"`
}

// TableName returns the table name for GORM
func (TransactionLogModel) TableName() string {
	return "transaction_logs"
}

// ToDomain converts the persistence model to a domain TransactionLog entity.
func (m *TransactionLogModel) ToDomain() *ledger.TransactionLog {
	return &ledger.TransactionLog{
		BaseEntity: m.BaseModel.ToDomain(),
		UserID:     m.UserID,
		CustomerID: m.CustomerID,
		Operation:  m.Operation,
		Entities:   m.Entities,
		Context: ledger.RequestContext{
			IP:        m.IP,
			UserAgent: m.UserAgent,
		},
	}
}

// FromDomain populates the persistence model from a domain TransactionLog entity.
func (m *TransactionLogModel) FromDomain(t *ledger.TransactionLog) {
	m.FromDomainBaseEntity(t.BaseEntity)
	m.UserID = t.UserID
	m.CustomerID = t.CustomerID
	m.Operation = t.Operation
	m.Entities = t.Entities
	m.IP = t.Context.IP
	m.UserAgent = t.Context.UserAgent
}

// TransactionLogModelFromDomain creates a new persistence model from a domain TransactionLog.
func TransactionLogModelFromDomain(t *ledger.TransactionLog) *TransactionLogModel {
	m := &TransactionLogModel{}
	m.FromDomain(t)
	return m
}
