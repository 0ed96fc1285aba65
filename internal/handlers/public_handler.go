package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/logger"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
	"github.com/BruksfildServices01/care-scheduler/internal/usecase/appointment"
	"github.com/BruksfildServices01/care-scheduler/internal/usecase/invitation"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

// PublicHandler serves unauthenticated routes: the booking page API, the
// payment webhook and invitation acceptance.
type PublicHandler struct {
	db           *gorm.DB
	availability *appointment.GetAvailability
	book         *appointment.CreatePublicAppointment
	pay          *appointment.PayAppointment
	confirmPay   *appointment.ConfirmPayment
	validate     *invitation.ValidateInvitation
	accept       *invitation.AcceptInvitation
}

type PublicDeps struct {
	Availability *appointment.GetAvailability
	Book         *appointment.CreatePublicAppointment
	Pay          *appointment.PayAppointment
	ConfirmPay   *appointment.ConfirmPayment
	Validate     *invitation.ValidateInvitation
	Accept       *invitation.AcceptInvitation
}

func NewPublicHandler(db *gorm.DB, d PublicDeps) *PublicHandler {
	return &PublicHandler{
		db:           db,
		availability: d.Availability,
		book:         d.Book,
		pay:          d.Pay,
		confirmPay:   d.ConfirmPay,
		validate:     d.Validate,
		accept:       d.Accept,
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type PublicCreateAppointmentRequest struct {
	Name    string          `json:"name" binding:"required"`
	Phone   string          `json:"phone" binding:"required"`
	Email   string          `json:"email" binding:"omitempty,email"`
	Service string          `json:"service" binding:"required"`
	Date    string          `json:"date" binding:"required,ymd"`
	Time    string          `json:"time" binding:"required,hhmm"`
	Notes   string          `json:"notes"`
	Price   decimal.Decimal `json:"price"`
}

type AcceptInvitationRequest struct {
	Name     string `json:"name"`
	Password string `json:"password" binding:"required"`
	Phone    string `json:"phone"`
}

// mpNotification covers both webhook shapes Mercado Pago sends.
type mpNotification struct {
	Type   string `json:"type"`
	Action string `json:"action"`
	Data   struct {
		ID string `json:"id"`
	} `json:"data"`
}

////////////////////////////////////////////////////////
// ORGANIZATION PAGE
////////////////////////////////////////////////////////

func (h *PublicHandler) Organization(c *gin.Context) {
	var org models.Organization
	err := h.db.WithContext(c.Request.Context()).
		Where("slug = ?", c.Param("slug")).
		First(&org).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.NotFound(c, "organization_not_found", "Organization not found.")
		return
	}
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	var hours []models.OpeningHours
	if err := h.db.WithContext(c.Request.Context()).
		Where("organization_id = ? AND active = ?", org.ID, true).
		Order("weekday ASC").
		Find(&hours).Error; err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"name":          org.Name,
		"slug":          org.Slug,
		"phone":         org.Phone,
		"email":         org.Email,
		"address":       org.Address,
		"timezone":      org.Timezone,
		"opening_hours": hours,
	})
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

func (h *PublicHandler) Availability(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "missing_params", "date is required.")
		return
	}

	slots, err := h.availability.Execute(c.Request.Context(), appointment.GetAvailabilityInput{
		Slug: c.Param("slug"),
		Date: date,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  date,
		"slots": slots,
	})
}

////////////////////////////////////////////////////////
// BOOKING
////////////////////////////////////////////////////////

func (h *PublicHandler) CreateAppointment(c *gin.Context) {
	var req PublicCreateAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	ap, err := h.book.Execute(c.Request.Context(), appointment.CreatePublicAppointmentInput{
		Slug:    c.Param("slug"),
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Service: req.Service,
		Date:    req.Date,
		Time:    req.Time,
		Notes:   req.Notes,
		Price:   req.Price,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":             ap.ID,
		"service":        ap.Service,
		"start_time":     ap.StartTime,
		"end_time":       ap.EndTime,
		"status":         ap.Status,
		"price":          ap.Price,
		"payment_status": ap.PaymentStatus,
	})
}

////////////////////////////////////////////////////////
// PAYMENT
////////////////////////////////////////////////////////

func (h *PublicHandler) PayAppointment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	ap, err := h.pay.Execute(c.Request.Context(), id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"appointment_id": ap.ID,
		"payment_status": ap.PaymentStatus,
		"payment_url":    ap.PaymentURL,
	})
}

// PaymentWebhook always answers 200 for events it cannot act on so the
// provider stops retrying them.
func (h *PublicHandler) PaymentWebhook(c *gin.Context) {
	var n mpNotification
	_ = c.ShouldBindJSON(&n)

	kind := firstNonEmpty(n.Type, c.Query("type"), c.Query("topic"))
	paymentID := firstNonEmpty(n.Data.ID, c.Query("data.id"), c.Query("id"))

	if kind != "payment" || paymentID == "" {
		c.Status(http.StatusOK)
		return
	}

	if _, err := h.confirmPay.Execute(c.Request.Context(), paymentID); err != nil {
		if httperr.IsBusiness(err, "appointment_not_found") {
			logger.FromGin(c).WithField("payment_id", paymentID).Warn("webhook for unknown appointment")
			c.Status(http.StatusOK)
			return
		}
		httperr.FromError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

func firstNonEmpty(v ...string) string {
	for _, s := range v {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

////////////////////////////////////////////////////////
// INVITATIONS
////////////////////////////////////////////////////////

func (h *PublicHandler) ValidateInvitation(c *gin.Context) {
	preview, err := h.validate.Execute(c.Request.Context(), c.Param("token"))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, preview)
}

func (h *PublicHandler) AcceptInvitation(c *gin.Context) {
	var req AcceptInvitationRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.accept.Execute(c.Request.Context(), invitation.AcceptInput{
		Token:    c.Param("token"),
		Name:     req.Name,
		Password: req.Password,
		Phone:    req.Phone,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
