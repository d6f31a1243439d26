package handler

import (
	"net/http"

	ledgerapp "github.com/bahikhata/backend/internal/application/ledger"
	"github.com/bahikhata/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// imagesFormField is the multipart field carrying receipt images
const imagesFormField = "images"

// ReceiptHandler handles receipt endpoints. Create and update accept
// multipart forms so receipt images can ride along; the images are rendered
// into a single PDF attachment.
type ReceiptHandler struct {
	BaseHandler
	receipts *ledgerapp.ReceiptService
}

// NewReceiptHandler creates a new ReceiptHandler
func NewReceiptHandler(receipts *ledgerapp.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receipts: receipts}
}

// RegisterRoutes registers receipt routes
func (h *ReceiptHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/receipts/recent", h.Recent)
	rg.GET("/receipts/pdf", h.StreamPDF)

	group := rg.Group("/customers/:id/receipts")
	group.POST("", h.Create)
	group.GET("", h.List)
	group.GET("/:receiptId", h.Get)
	group.PUT("/:receiptId", h.Update)
	group.DELETE("/:receiptId", h.Delete)
}

// Create records a new receipt, optionally with attached images
func (h *ReceiptHandler) Create(c *gin.Context) {
	customerID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid customer id")
		return
	}

	var req dto.CreateReceiptRequest
	if err := c.ShouldBind(&req); err != nil {
		h.BadRequest(c, "Invalid receipt payload")
		return
	}

	images, err := h.formImages(c)
	if err != nil {
		h.BadRequest(c, "Invalid image upload")
		return
	}

	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	receipt, err := h.receipts.CreateReceipt(c.Request.Context(), actor, customerID, ledgerapp.CreateReceiptInput{
		Date:        req.Date,
		Amount:      toDecimal(req.Amount),
		Description: req.Description,
	}, images)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.ReceiptResponseFromDomain(receipt))
}

// List returns all receipts of a customer, newest date first
func (h *ReceiptHandler) List(c *gin.Context) {
	customerID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid customer id")
		return
	}

	receipts, err := h.receipts.ListReceipts(c.Request.Context(), customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ReceiptResponsesFromDomain(receipts))
}

// Get returns one receipt
func (h *ReceiptHandler) Get(c *gin.Context) {
	customerID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid customer id")
		return
	}
	receiptID, ok := parseUUIDParam(c, "receiptId")
	if !ok {
		h.BadRequest(c, "Invalid receipt id")
		return
	}

	receipt, err := h.receipts.GetReceipt(c.Request.Context(), customerID, receiptID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ReceiptResponseFromDomain(receipt))
}

// Update edits a receipt, optionally replacing its attachment
func (h *ReceiptHandler) Update(c *gin.Context) {
	customerID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid customer id")
		return
	}
	receiptID, ok := parseUUIDParam(c, "receiptId")
	if !ok {
		h.BadRequest(c, "Invalid receipt id")
		return
	}

	var req dto.UpdateReceiptRequest
	if err := c.ShouldBind(&req); err != nil {
		h.BadRequest(c, "Invalid receipt payload")
		return
	}

	images, err := h.formImages(c)
	if err != nil {
		h.BadRequest(c, "Invalid image upload")
		return
	}

	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	receipt, err := h.receipts.UpdateReceipt(c.Request.Context(), actor, customerID, receiptID, ledgerapp.UpdateReceiptInput{
		Date:        req.Date,
		Amount:      toDecimalPtr(req.Amount),
		Description: req.Description,
	}, images)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ReceiptResponseFromDomain(receipt))
}

// Delete removes a receipt, detaching its settled deposits
func (h *ReceiptHandler) Delete(c *gin.Context) {
	customerID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid customer id")
		return
	}
	receiptID, ok := parseUUIDParam(c, "receiptId")
	if !ok {
		h.BadRequest(c, "Invalid receipt id")
		return
	}

	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if err := h.receipts.DeleteReceipt(c.Request.Context(), actor, customerID, receiptID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Recent returns the ten most recently touched receipts
func (h *ReceiptHandler) Recent(c *gin.Context) {
	recent, err := h.receipts.RecentReceipts(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, recent)
}

// StreamPDF streams a receipt attachment out of the blob store
func (h *ReceiptHandler) StreamPDF(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		h.BadRequest(c, "Missing attachment key")
		return
	}

	data, err := h.receipts.GetReceiptPDF(c.Request.Context(), key)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/pdf", data)
}

func (h *ReceiptHandler) formImages(c *gin.Context) ([][]byte, error) {
	form, err := c.MultipartForm()
	if err != nil {
		// JSON or bare form bodies carry no images.
		return nil, nil
	}
	return readImages(form.File[imagesFormField])
}
