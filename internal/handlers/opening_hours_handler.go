package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/care-scheduler/internal/audit"
	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/middleware"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
)

type OpeningHoursHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewOpeningHoursHandler(db *gorm.DB, audit *audit.Dispatcher) *OpeningHoursHandler {
	return &OpeningHoursHandler{db: db, audit: audit}
}

type OpeningDayConfig struct {
	Weekday    int    `json:"weekday" binding:"min=0,max=6"`
	Active     bool   `json:"active"`
	StartTime  string `json:"start_time" binding:"omitempty,hhmm"`
	EndTime    string `json:"end_time" binding:"omitempty,hhmm"`
	BreakStart string `json:"break_start" binding:"omitempty,hhmm"`
	BreakEnd   string `json:"break_end" binding:"omitempty,hhmm"`
	SlotMin    int    `json:"slot_min" binding:"omitempty,min=5,max=480"`
}

type OpeningHoursUpdateRequest struct {
	Days []OpeningDayConfig `json:"days" binding:"required,dive"`
}

func (h *OpeningHoursHandler) Get(c *gin.Context) {
	orgID, _ := middleware.Tenant(c)

	var hours []models.OpeningHours
	if err := h.db.WithContext(c.Request.Context()).
		Where("organization_id = ?", orgID).
		Order("weekday ASC").
		Find(&hours).Error; err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, hours)
}

// Update replaces the whole weekly schedule.
func (h *OpeningHoursHandler) Update(c *gin.Context) {
	orgID, _ := middleware.Tenant(c)

	var req OpeningHoursUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	seen := map[int]bool{}
	toCreate := make([]models.OpeningHours, 0, len(req.Days))
	for _, d := range req.Days {
		if seen[d.Weekday] {
			httperr.BadRequest(c, "duplicate_weekday", "Each weekday may appear once.")
			return
		}
		seen[d.Weekday] = true

		if d.Active && (d.StartTime == "" || d.EndTime <= d.StartTime) {
			httperr.BadRequest(c, "invalid_time", "End time must be after start time.")
			return
		}
		if (d.BreakStart == "") != (d.BreakEnd == "") || (d.BreakStart != "" && d.BreakEnd <= d.BreakStart) {
			httperr.BadRequest(c, "invalid_break", "Break needs a start before its end.")
			return
		}

		slot := d.SlotMin
		if slot == 0 {
			slot = 60
		}
		toCreate = append(toCreate, models.OpeningHours{
			OrganizationID: orgID,
			Weekday:        d.Weekday,
			Active:         d.Active,
			StartTime:      d.StartTime,
			EndTime:        d.EndTime,
			BreakStart:     d.BreakStart,
			BreakEnd:       d.BreakEnd,
			SlotMin:        slot,
		})
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("organization_id = ?", orgID).Delete(&models.OpeningHours{}).Error; err != nil {
			return err
		}
		if len(toCreate) == 0 {
			return nil
		}
		return tx.Create(&toCreate).Error
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	writeAudit(c, h.audit, "opening_hours_updated", "organization", orgID, map[string]any{"days": len(toCreate)})
	c.JSON(http.StatusOK, toCreate)
}
