package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/middleware"
	"github.com/BruksfildServices01/care-scheduler/internal/usecase/invoice"
)

type InvoiceHandler struct {
	generate *invoice.GenerateInvoice
	list     *invoice.ListInvoices
	status   *invoice.UpdateStatus
	send     *invoice.SendInvoice
	link     *invoice.CreatePaymentLink
}

func NewInvoiceHandler(
	generate *invoice.GenerateInvoice,
	list *invoice.ListInvoices,
	status *invoice.UpdateStatus,
	send *invoice.SendInvoice,
	link *invoice.CreatePaymentLink,
) *InvoiceHandler {
	return &InvoiceHandler{
		generate: generate,
		list:     list,
		status:   status,
		send:     send,
		link:     link,
	}
}

type GenerateInvoiceRequest struct {
	ClientID    uint             `json:"client_id" binding:"required"`
	PeriodStart string           `json:"period_start" binding:"required,ymd"`
	PeriodEnd   string           `json:"period_end" binding:"required,ymd"`
	HourlyRate  *decimal.Decimal `json:"hourly_rate"`
	DueDays     int              `json:"due_days" binding:"min=0,max=365"`
	Notes       string           `json:"notes"`
}

type InvoiceStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=paid cancelled"`
}

func (h *InvoiceHandler) Generate(c *gin.Context) {
	orgID, userID := middleware.Tenant(c)

	var req GenerateInvoiceRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.HourlyRate != nil && !req.HourlyRate.IsPositive() {
		httperr.BadRequest(c, "invalid_hourly_rate", "Hourly rate must be positive.")
		return
	}

	inv, err := h.generate.Execute(c.Request.Context(), invoice.GenerateInput{
		OrganizationID: orgID,
		UserID:         userID,
		ClientID:       req.ClientID,
		PeriodStart:    req.PeriodStart,
		PeriodEnd:      req.PeriodEnd,
		HourlyRate:     req.HourlyRate,
		DueDays:        req.DueDays,
		Notes:          req.Notes,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusCreated, inv)
}

func (h *InvoiceHandler) List(c *gin.Context) {
	orgID, _ := middleware.Tenant(c)

	list, err := h.list.Execute(c.Request.Context(), orgID, c.Query("status"), queryID(c, "client_id"))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Get returns the invoice with its line items.
func (h *InvoiceHandler) Get(c *gin.Context) {
	orgID, _ := middleware.Tenant(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	inv, err := h.list.Get(c.Request.Context(), orgID, id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (h *InvoiceHandler) UpdateStatus(c *gin.Context) {
	orgID, userID := middleware.Tenant(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req InvoiceStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	var err error
	var result any
	switch req.Status {
	case "paid":
		result, err = h.status.MarkPaid(ctx, orgID, userID, id)
	case "cancelled":
		result, err = h.status.Cancel(ctx, orgID, userID, id)
	}
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *InvoiceHandler) Send(c *gin.Context) {
	orgID, userID := middleware.Tenant(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	inv, err := h.send.Execute(c.Request.Context(), orgID, userID, id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (h *InvoiceHandler) PaymentLink(c *gin.Context) {
	orgID, userID := middleware.Tenant(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	inv, err := h.link.Execute(c.Request.Context(), orgID, userID, id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoice_id": inv.ID, "payment_url": inv.PaymentURL})
}
