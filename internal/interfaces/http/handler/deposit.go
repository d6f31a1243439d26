package handler

import (
	ledgerapp "github.com/bahikhata/backend/internal/application/ledger"
	"github.com/bahikhata/backend/internal/domain/ledger"
	"github.com/bahikhata/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DepositHandler handles deposit endpoints, both unsettled deposits and
// deposits settled directly against a receipt.
type DepositHandler struct {
	BaseHandler
	deposits *ledgerapp.DepositService
}

// NewDepositHandler creates a new DepositHandler
func NewDepositHandler(deposits *ledgerapp.DepositService) *DepositHandler {
	return &DepositHandler{deposits: deposits}
}

// RegisterRoutes registers deposit routes
func (h *DepositHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/deposits/recent", h.Recent)

	unsettled := rg.Group("/customers/:id/deposits")
	unsettled.POST("", h.Create)
	unsettled.GET("", h.ListUnsettled)
	unsettled.GET("/:depositId", h.Get)
	unsettled.PUT("/:depositId", h.Update)
	unsettled.DELETE("/:depositId", h.Delete)
	unsettled.POST("/:depositId/settle", h.Settle)

	settled := rg.Group("/customers/:id/receipts/:receiptId/deposits")
	settled.POST("", h.CreateOnReceipt)
	settled.GET("", h.ListByReceipt)
	settled.PUT("/:depositId", h.UpdateOnReceipt)
	settled.DELETE("/:depositId", h.DeleteOnReceipt)
	settled.POST("/:depositId/unsettle", h.Unsettle)
}

func (h *DepositHandler) bindCreate(c *gin.Context) (ledgerapp.CreateDepositInput, bool) {
	var req dto.CreateDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid deposit payload")
		return ledgerapp.CreateDepositInput{}, false
	}
	return ledgerapp.CreateDepositInput{
		Date:        req.Date,
		Amount:      toDecimal(req.Amount),
		ByWhom:      req.ByWhom,
		Mode:        ledger.PaymentMode(req.Mode),
		Type:        ledger.DepositType(req.Type),
		Description: req.Description,
	}, true
}

func (h *DepositHandler) bindUpdate(c *gin.Context) (ledgerapp.UpdateDepositInput, bool) {
	var req dto.UpdateDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid deposit payload")
		return ledgerapp.UpdateDepositInput{}, false
	}
	input := ledgerapp.UpdateDepositInput{
		Date:        req.Date,
		Amount:      toDecimalPtr(req.Amount),
		ByWhom:      req.ByWhom,
		Description: req.Description,
	}
	if req.Mode != nil {
		mode := ledger.PaymentMode(*req.Mode)
		input.Mode = &mode
	}
	if req.Type != nil {
		depositType := ledger.DepositType(*req.Type)
		input.Type = &depositType
	}
	return input, true
}

// ids pulls customer and deposit ids off the path, plus the receipt id when
// wantReceipt is set.
func (h *DepositHandler) ids(c *gin.Context, wantReceipt, wantDeposit bool) (customerID, receiptID, depositID uuid.UUID, ok bool) {
	customerID, ok = parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid customer id")
		return
	}
	if wantReceipt {
		receiptID, ok = parseUUIDParam(c, "receiptId")
		if !ok {
			h.BadRequest(c, "Invalid receipt id")
			return
		}
	}
	if wantDeposit {
		depositID, ok = parseUUIDParam(c, "depositId")
		if !ok {
			h.BadRequest(c, "Invalid deposit id")
			return
		}
	}
	return
}

// Create records an unsettled deposit
func (h *DepositHandler) Create(c *gin.Context) {
	customerID, _, _, ok := h.ids(c, false, false)
	if !ok {
		return
	}
	input, ok := h.bindCreate(c)
	if !ok {
		return
	}
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	deposit, err := h.deposits.CreateDeposit(c.Request.Context(), actor, customerID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.DepositResponseFromDomain(deposit))
}

// CreateOnReceipt records a deposit settled directly against a receipt
func (h *DepositHandler) CreateOnReceipt(c *gin.Context) {
	customerID, receiptID, _, ok := h.ids(c, true, false)
	if !ok {
		return
	}
	input, ok := h.bindCreate(c)
	if !ok {
		return
	}
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	deposit, err := h.deposits.CreateDepositOnReceipt(c.Request.Context(), actor, customerID, receiptID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.DepositResponseFromDomain(deposit))
}

// Get returns one deposit
func (h *DepositHandler) Get(c *gin.Context) {
	customerID, _, depositID, ok := h.ids(c, false, true)
	if !ok {
		return
	}

	deposit, err := h.deposits.GetDeposit(c.Request.Context(), customerID, depositID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.DepositResponseFromDomain(deposit))
}

// ListUnsettled returns a customer's deposits not applied to any receipt
func (h *DepositHandler) ListUnsettled(c *gin.Context) {
	customerID, _, _, ok := h.ids(c, false, false)
	if !ok {
		return
	}

	deposits, err := h.deposits.ListUnsettledDeposits(c.Request.Context(), customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.DepositResponsesFromDomain(deposits))
}

// ListByReceipt returns the deposits settled on a receipt
func (h *DepositHandler) ListByReceipt(c *gin.Context) {
	_, receiptID, _, ok := h.ids(c, true, false)
	if !ok {
		return
	}

	deposits, err := h.deposits.ListDepositsByReceipt(c.Request.Context(), receiptID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.DepositResponsesFromDomain(deposits))
}

// Update edits an unsettled deposit
func (h *DepositHandler) Update(c *gin.Context) {
	customerID, _, depositID, ok := h.ids(c, false, true)
	if !ok {
		return
	}
	input, ok := h.bindUpdate(c)
	if !ok {
		return
	}
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	deposit, err := h.deposits.UpdateDeposit(c.Request.Context(), actor, customerID, depositID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.DepositResponseFromDomain(deposit))
}

// UpdateOnReceipt edits a deposit settled on the given receipt
func (h *DepositHandler) UpdateOnReceipt(c *gin.Context) {
	customerID, receiptID, depositID, ok := h.ids(c, true, true)
	if !ok {
		return
	}
	input, ok := h.bindUpdate(c)
	if !ok {
		return
	}
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	deposit, err := h.deposits.UpdateDepositOnReceipt(c.Request.Context(), actor, customerID, receiptID, depositID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.DepositResponseFromDomain(deposit))
}

// Delete removes an unsettled deposit
func (h *DepositHandler) Delete(c *gin.Context) {
	customerID, _, depositID, ok := h.ids(c, false, true)
	if !ok {
		return
	}
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if err := h.deposits.DeleteDeposit(c.Request.Context(), actor, customerID, depositID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// DeleteOnReceipt removes a settled deposit, restoring the receipt's due
func (h *DepositHandler) DeleteOnReceipt(c *gin.Context) {
	customerID, receiptID, depositID, ok := h.ids(c, true, true)
	if !ok {
		return
	}
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if err := h.deposits.DeleteDepositOnReceipt(c.Request.Context(), actor, customerID, receiptID, depositID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Settle applies an unsettled deposit against a receipt
func (h *DepositHandler) Settle(c *gin.Context) {
	customerID, _, depositID, ok := h.ids(c, false, true)
	if !ok {
		return
	}

	var req dto.SettleDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid settle payload")
		return
	}
	receiptID, err := uuid.Parse(req.ReceiptID)
	if err != nil {
		h.BadRequest(c, "Invalid receipt id")
		return
	}

	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	deposit, err := h.deposits.SettleDeposit(c.Request.Context(), actor, customerID, depositID, receiptID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.DepositResponseFromDomain(deposit))
}

// Unsettle detaches a deposit from the receipt it is settled on
func (h *DepositHandler) Unsettle(c *gin.Context) {
	customerID, receiptID, depositID, ok := h.ids(c, true, true)
	if !ok {
		return
	}
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	deposit, err := h.deposits.UnsettleDeposit(c.Request.Context(), actor, customerID, depositID, receiptID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.DepositResponseFromDomain(deposit))
}

// Recent returns the ten most recently touched deposits
func (h *DepositHandler) Recent(c *gin.Context) {
	recent, err := h.deposits.RecentDeposits(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, recent)
}
