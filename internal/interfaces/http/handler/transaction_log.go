package handler

import (
	"time"

	ledgerapp "github.com/bahikhata/backend/internal/application/ledger"
	"github.com/bahikhata/backend/internal/domain/ledger"
	"github.com/bahikhata/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TransactionLogHandler exposes the read-only audit trail
type TransactionLogHandler struct {
	BaseHandler
	logs *ledgerapp.TransactionLogService
}

// NewTransactionLogHandler creates a new TransactionLogHandler
func NewTransactionLogHandler(logs *ledgerapp.TransactionLogService) *TransactionLogHandler {
	return &TransactionLogHandler{logs: logs}
}

// RegisterRoutes registers transaction log routes
func (h *TransactionLogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/transaction-logs", h.List)
}

// List returns audit records newest first
func (h *TransactionLogHandler) List(c *gin.Context) {
	var req dto.TransactionLogListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid list parameters")
		return
	}

	filter := ledger.TransactionLogFilter{
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if req.CustomerID != "" {
		id, err := uuid.Parse(req.CustomerID)
		if err != nil {
			h.BadRequest(c, "Invalid customer id")
			return
		}
		filter.CustomerID = &id
	}
	if req.From != "" {
		from, err := time.Parse("2006-01-02", req.From)
		if err != nil {
			h.BadRequest(c, "Invalid from date")
			return
		}
		filter.From = &from
	}
	if req.To != "" {
		to, err := time.Parse("2006-01-02", req.To)
		if err != nil {
			h.BadRequest(c, "Invalid to date")
			return
		}
		// Include the whole end day.
		end := to.Add(24*time.Hour - time.Nanosecond)
		filter.To = &end
	}

	page, err := h.logs.ListTransactionLogs(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	out := make([]dto.TransactionLogResponse, len(page.Items))
	for i := range page.Items {
		out[i] = dto.TransactionLogResponseFromDomain(&page.Items[i])
	}
	h.SuccessWithMeta(c, out, page.Total, page.Page, page.PageSize)
}
