package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
	"github.com/BruksfildServices01/care-scheduler/internal/timezone"
)

// pathID parses a numeric path parameter, writing a 400 when it is not one.
func pathID(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		httperr.BadRequest(c, "invalid_"+name, "Invalid "+name+".")
		return 0, false
	}
	return uint(v), true
}

func queryID(c *gin.Context, name string) *uint {
	v, err := strconv.ParseUint(c.Query(name), 10, 64)
	if err != nil || v == 0 {
		return nil
	}
	id := uint(v)
	return &id
}

// paging reads page and limit with the defaults used across list endpoints.
func paging(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return page, limit
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(400, gin.H{
			"error_code": "invalid_request",
			"message":    "Invalid request body.",
			"details":    err.Error(),
		})
		return false
	}
	return true
}

func search(c *gin.Context) string {
	return strings.ToLower(strings.TrimSpace(c.Query("query")))
}

// dateRange reads from/to (YYYY-MM-DD) in the organization's timezone,
// defaulting to the current month.
func dateRange(c *gin.Context, org *models.Organization) (time.Time, time.Time, bool) {
	now := timezone.NowIn(org.Timezone)
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)

	if s := c.Query("from"); s != "" {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			httperr.BadRequest(c, "invalid_from", "from must be YYYY-MM-DD.")
			return time.Time{}, time.Time{}, false
		}
		from = d
	}
	if s := c.Query("to"); s != "" {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			httperr.BadRequest(c, "invalid_to", "to must be YYYY-MM-DD.")
			return time.Time{}, time.Time{}, false
		}
		to = d
	}
	if to.Before(from) {
		httperr.BadRequest(c, "invalid_period", "to is before from.")
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

func formID(c *gin.Context, name string) *uint {
	v, err := strconv.ParseUint(c.PostForm(name), 10, 64)
	if err != nil || v == 0 {
		return nil
	}
	id := uint(v)
	return &id
}
