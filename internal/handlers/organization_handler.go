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
	"github.com/BruksfildServices01/care-scheduler/internal/timezone"
)

type OrganizationHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewOrganizationHandler(db *gorm.DB, audit *audit.Dispatcher) *OrganizationHandler {
	return &OrganizationHandler{db: db, audit: audit}
}

type UpdateOrganizationRequest struct {
	Name              *string          `json:"name"`
	Phone             *string          `json:"phone"`
	Email             *string          `json:"email"`
	Address           *string          `json:"address"`
	Timezone          *string          `json:"timezone"`
	DefaultHourlyRate *decimal.Decimal `json:"default_hourly_rate"`
	MinAdvanceMinutes *int             `json:"min_advance_minutes"`
}

func (h *OrganizationHandler) load(c *gin.Context) (*models.Organization, bool) {
	orgID, _ := middleware.Tenant(c)

	var org models.Organization
	err := h.db.WithContext(c.Request.Context()).First(&org, orgID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.NotFound(c, "organization_not_found", "Organization not found.")
		return nil, false
	}
	if err != nil {
		httperr.FromError(c, err)
		return nil, false
	}
	return &org, true
}

func (h *OrganizationHandler) Get(c *gin.Context) {
	org, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, org)
}

func (h *OrganizationHandler) Update(c *gin.Context) {
	org, ok := h.load(c)
	if !ok {
		return
	}

	var req UpdateOrganizationRequest
	if !bindJSON(c, &req) {
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			httperr.BadRequest(c, "invalid_name", "Name cannot be empty.")
			return
		}
		org.Name = name
	}
	if req.Phone != nil {
		org.Phone = *req.Phone
	}
	if req.Email != nil {
		org.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Address != nil {
		org.Address = *req.Address
	}
	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			httperr.BadRequest(c, "invalid_timezone", "Unknown timezone.")
			return
		}
		org.Timezone = *req.Timezone
	}
	if req.DefaultHourlyRate != nil {
		if !req.DefaultHourlyRate.IsPositive() {
			httperr.BadRequest(c, "invalid_hourly_rate", "Hourly rate must be positive.")
			return
		}
		org.DefaultHourlyRate = req.DefaultHourlyRate.Round(2)
	}
	if req.MinAdvanceMinutes != nil {
		if *req.MinAdvanceMinutes < 0 {
			httperr.BadRequest(c, "invalid_min_advance", "Minimum advance must be zero or positive (minutes).")
			return
		}
		org.MinAdvanceMinutes = *req.MinAdvanceMinutes
	}

	if err := h.db.WithContext(c.Request.Context()).Save(org).Error; err != nil {
		httperr.FromError(c, err)
		return
	}

	writeAudit(c, h.audit, "organization_updated", "organization", org.ID, nil)
	c.JSON(http.StatusOK, org)
}
