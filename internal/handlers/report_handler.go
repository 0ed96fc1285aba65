package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/middleware"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
	"github.com/BruksfildServices01/care-scheduler/internal/reports"
)

const (
	mimeCSV  = "text/csv; charset=utf-8"
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type ReportHandler struct {
	db      *gorm.DB
	reports *reports.Service
}

func NewReportHandler(db *gorm.DB, svc *reports.Service) *ReportHandler {
	return &ReportHandler{db: db, reports: svc}
}

// Export serves /reports/:file where file is shifts or hours with a .csv
// or .xlsx extension.
func (h *ReportHandler) Export(c *gin.Context) {
	orgID, _ := middleware.Tenant(c)
	file := c.Param("file")
	ext := path.Ext(file)
	name := strings.TrimSuffix(file, ext)

	if ext != ".csv" && ext != ".xlsx" {
		httperr.NotFound(c, "report_not_found", "Unknown report format.")
		return
	}

	var org models.Organization
	if err := h.db.WithContext(c.Request.Context()).First(&org, orgID).Error; err != nil {
		httperr.FromError(c, err)
		return
	}

	from, to, ok := dateRange(c, &org)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	var buf bytes.Buffer
	var err error

	switch name {
	case "shifts":
		var rows []reports.ShiftRow
		if rows, err = h.reports.Shifts(ctx, orgID, from, to); err == nil {
			if ext == ".csv" {
				err = reports.WriteShiftsCSV(&buf, rows)
			} else {
				err = reports.WriteShiftsXLSX(&buf, rows)
			}
		}
	case "hours":
		rows, lerr := h.reports.StaffHours(ctx, orgID, from, to)
		if err = lerr; err == nil {
			if ext == ".csv" {
				err = reports.WriteHoursCSV(&buf, rows)
			} else {
				err = reports.WriteHoursXLSX(&buf, rows)
			}
		}
	default:
		httperr.NotFound(c, "report_not_found", "Unknown report.")
		return
	}
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	contentType := mimeCSV
	if ext == ".xlsx" {
		contentType = mimeXLSX
	}
	download := fmt.Sprintf("%s_%s_%s%s", name, from.Format("20060102"), to.Format("20060102"), ext)

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", download))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
