package handler

import (
	ledgerapp "github.com/bahikhata/backend/internal/application/ledger"
	"github.com/bahikhata/backend/internal/domain/shared"
	"github.com/bahikhata/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// CustomerHandler handles customer endpoints. There is no delete: customers
// anchor the ledger history.
type CustomerHandler struct {
	BaseHandler
	customers *ledgerapp.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customers *ledgerapp.CustomerService) *CustomerHandler {
	return &CustomerHandler{customers: customers}
}

// RegisterRoutes registers customer routes
func (h *CustomerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/customers")
	group.POST("", h.Create)
	group.GET("", h.List)
	group.GET("/:id", h.Get)
	group.PUT("/:id", h.Update)
}

// Create registers a customer and returns the generated one-time password
func (h *CustomerHandler) Create(c *gin.Context) {
	var req dto.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid customer payload")
		return
	}

	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	res, err := h.customers.CreateCustomer(c.Request.Context(), actor, ledgerapp.CreateCustomerInput{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, dto.CreatedCustomerResponse{
		CustomerResponse: dto.CustomerResponseFromDomain(res.Customer),
		Password:         res.Password,
	})
}

// List returns customers with pagination and sorting
func (h *CustomerHandler) List(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid list parameters")
		return
	}
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	customers, err := h.customers.ListCustomers(c.Request.Context(), shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	out := make([]dto.CustomerResponse, len(customers))
	for i := range customers {
		out[i] = dto.CustomerResponseFromDomain(&customers[i])
	}
	h.Success(c, out)
}

// Get returns one customer
func (h *CustomerHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid customer id")
		return
	}

	customer, err := h.customers.GetCustomer(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.CustomerResponseFromDomain(customer))
}

// Update edits a customer's profile fields
func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid customer id")
		return
	}

	var req dto.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid customer payload")
		return
	}

	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	customer, err := h.customers.UpdateCustomer(c.Request.Context(), actor, id, ledgerapp.UpdateCustomerInput{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.CustomerResponseFromDomain(customer))
}
