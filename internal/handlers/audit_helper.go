package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/care-scheduler/internal/audit"
	"github.com/BruksfildServices01/care-scheduler/internal/middleware"
)

// writeAudit records a mutation made directly by a handler.
func writeAudit(
	c *gin.Context,
	d *audit.Dispatcher,
	action string,
	entity string,
	entityID uint,
	meta any,
) {
	orgID, userID := middleware.Tenant(c)

	d.Dispatch(audit.Event{
		OrganizationID: orgID,
		UserID:         &userID,
		Action:         action,
		Entity:         entity,
		EntityID:       audit.Ptr(entityID),
		Metadata:       meta,
	})
}
