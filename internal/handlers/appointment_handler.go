package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/middleware"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
	"github.com/BruksfildServices01/care-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	create  *appointment.CreatePrivateAppointment
	list    *appointment.ListAppointments
	confirm *appointment.ConfirmAppointment
	status  *appointment.ChangeAppointmentStatus
}

func NewAppointmentHandler(
	create *appointment.CreatePrivateAppointment,
	list *appointment.ListAppointments,
	confirm *appointment.ConfirmAppointment,
	status *appointment.ChangeAppointmentStatus,
) *AppointmentHandler {
	return &AppointmentHandler{
		create:  create,
		list:    list,
		confirm: confirm,
		status:  status,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	ClientName  string          `json:"client_name" binding:"required"`
	ClientPhone string          `json:"client_phone" binding:"required"`
	ClientEmail string          `json:"client_email" binding:"omitempty,email"`
	Service     string          `json:"service" binding:"required"`
	DurationMin int             `json:"duration_min" binding:"omitempty,min=5,max=720"`
	Price       decimal.Decimal `json:"price"`
	Date        string          `json:"date" binding:"required,ymd"`
	Time        string          `json:"time" binding:"required,hhmm"`
	Notes       string          `json:"notes"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	orgID, userID := middleware.Tenant(c)

	var req CreateAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Price.IsNegative() {
		httperr.BadRequest(c, "invalid_price", "Price cannot be negative.")
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), appointment.CreatePrivateAppointmentInput{
		OrganizationID: orgID,
		UserID:         userID,
		ClientName:     req.ClientName,
		ClientPhone:    req.ClientPhone,
		ClientEmail:    req.ClientEmail,
		Service:        req.Service,
		DurationMin:    req.DurationMin,
		Price:          req.Price,
		Date:           req.Date,
		Time:           req.Time,
		Notes:          req.Notes,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ap)
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	orgID, _ := middleware.Tenant(c)

	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "date must be YYYY-MM-DD.")
		return
	}

	list, err := h.list.ByDate(c.Request.Context(), orgID, date)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	orgID, _ := middleware.Tenant(c)

	year, errY := strconv.Atoi(c.Query("year"))
	month, errM := strconv.Atoi(c.Query("month"))
	if errY != nil || errM != nil || year < 2000 || month < 1 || month > 12 {
		httperr.BadRequest(c, "invalid_month", "year and month are required.")
		return
	}

	list, err := h.list.ByMonth(c.Request.Context(), orgID, year, month)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// ======================================================
// STATUS
// ======================================================

type appointmentAction func(c *gin.Context, orgID, userID, id uint) (*models.Appointment, error)

func (h *AppointmentHandler) run(c *gin.Context, fn appointmentAction) {
	orgID, userID := middleware.Tenant(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	ap, err := fn(c, orgID, userID, id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) Confirm(c *gin.Context) {
	h.run(c, func(c *gin.Context, orgID, userID, id uint) (*models.Appointment, error) {
		return h.confirm.Execute(c.Request.Context(), orgID, userID, id)
	})
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	h.run(c, func(c *gin.Context, orgID, userID, id uint) (*models.Appointment, error) {
		return h.status.Execute(c.Request.Context(), orgID, userID, id, appointment.TransitionCancel)
	})
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	h.run(c, func(c *gin.Context, orgID, userID, id uint) (*models.Appointment, error) {
		return h.status.Execute(c.Request.Context(), orgID, userID, id, appointment.TransitionComplete)
	})
}
