package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/care-scheduler/internal/audit"
	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/middleware"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
)

type StaffHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewStaffHandler(db *gorm.DB, audit *audit.Dispatcher) *StaffHandler {
	return &StaffHandler{db: db, audit: audit}
}

// --------- Requests ---------

type CreateStaffRequest struct {
	Name       string           `json:"name" binding:"required"`
	Email      string           `json:"email" binding:"omitempty,email"`
	Phone      string           `json:"phone"`
	Position   string           `json:"position"`
	HourlyRate *decimal.Decimal `json:"hourly_rate"`
}

type UpdateStaffRequest struct {
	Name       *string          `json:"name,omitempty"`
	Email      *string          `json:"email,omitempty" binding:"omitempty,email"`
	Phone      *string          `json:"phone,omitempty"`
	Position   *string          `json:"position,omitempty"`
	HourlyRate *decimal.Decimal `json:"hourly_rate,omitempty"`
	Status     *string          `json:"status,omitempty" binding:"omitempty,oneof=active inactive"`
}

// --------- Handlers ---------

func (h *StaffHandler) List(c *gin.Context) {
	orgID, _ := middleware.Tenant(c)

	q := h.db.WithContext(c.Request.Context()).Where("organization_id = ?", orgID)

	if status := strings.TrimSpace(c.Query("status")); status != "" {
		q = q.Where("status = ?", status)
	}
	if query := search(c); query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ?", like, like, like)
	}

	var staff []models.StaffMember
	if err := q.Order("name ASC, id ASC").Find(&staff).Error; err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, staff)
}

func (h *StaffHandler) Create(c *gin.Context) {
	orgID, _ := middleware.Tenant(c)

	var req CreateStaffRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.HourlyRate != nil && req.HourlyRate.IsNegative() {
		httperr.BadRequest(c, "invalid_hourly_rate", "Hourly rate cannot be negative.")
		return
	}

	member := models.StaffMember{
		OrganizationID: orgID,
		Name:           strings.TrimSpace(req.Name),
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:          req.Phone,
		Position:       req.Position,
		HourlyRate:     req.HourlyRate,
		Status:         "active",
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&member).Error; err != nil {
		httperr.FromError(c, err)
		return
	}

	writeAudit(c, h.audit, "staff_created", "staff", member.ID, nil)
	c.JSON(http.StatusCreated, member)
}

func (h *StaffHandler) load(c *gin.Context) (*models.StaffMember, bool) {
	orgID, _ := middleware.Tenant(c)
	id, ok := pathID(c, "id")
	if !ok {
		return nil, false
	}

	var member models.StaffMember
	err := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND organization_id = ?", id, orgID).
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.NotFound(c, "staff_not_found", "Staff member not found.")
		return nil, false
	}
	if err != nil {
		httperr.FromError(c, err)
		return nil, false
	}
	return &member, true
}

func (h *StaffHandler) Get(c *gin.Context) {
	member, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, member)
}

func (h *StaffHandler) Update(c *gin.Context) {
	member, ok := h.load(c)
	if !ok {
		return
	}

	var req UpdateStaffRequest
	if !bindJSON(c, &req) {
		return
	}

	if req.Name != nil {
		member.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		member.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Phone != nil {
		member.Phone = *req.Phone
	}
	if req.Position != nil {
		member.Position = *req.Position
	}
	if req.HourlyRate != nil {
		if req.HourlyRate.IsNegative() {
			httperr.BadRequest(c, "invalid_hourly_rate", "Hourly rate cannot be negative.")
			return
		}
		member.HourlyRate = req.HourlyRate
	}
	if req.Status != nil {
		member.Status = *req.Status
	}

	if err := h.db.WithContext(c.Request.Context()).Save(member).Error; err != nil {
		httperr.FromError(c, err)
		return
	}

	writeAudit(c, h.audit, "staff_updated", "staff", member.ID, nil)
	c.JSON(http.StatusOK, member)
}

// Deactivate is a soft delete; shifts keep pointing at the row.
func (h *StaffHandler) Deactivate(c *gin.Context) {
	member, ok := h.load(c)
	if !ok {
		return
	}

	member.Status = "inactive"
	if err := h.db.WithContext(c.Request.Context()).Save(member).Error; err != nil {
		httperr.FromError(c, err)
		return
	}

	writeAudit(c, h.audit, "staff_deactivated", "staff", member.ID, nil)
	c.JSON(http.StatusOK, member)
}
