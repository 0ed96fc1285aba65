package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/care-scheduler/internal/logger"
	"github.com/BruksfildServices01/care-scheduler/internal/middleware"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
	"github.com/BruksfildServices01/care-scheduler/internal/notify"
)

const heartbeatEvery = 25 * time.Second

type NotificationHandler struct {
	svc *notify.Service
}

func NewNotificationHandler(svc *notify.Service) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

func (h *NotificationHandler) List(c *gin.Context) {
	_, userID := middleware.Tenant(c)
	page, limit := paging(c)

	list, total, err := h.svc.List(c.Request.Context(), userID, c.Query("unread") == "true", page, limit)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.Page[models.Notification](c, list, page, limit, total)
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	_, userID := middleware.Tenant(c)

	n, err := h.svc.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": n})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	_, userID := middleware.Tenant(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	unread, err := h.svc.MarkRead(c.Request.Context(), userID, id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": unread})
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	_, userID := middleware.Tenant(c)

	n, err := h.svc.MarkAllRead(c.Request.Context(), userID)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": n, "unread": 0})
}

func (h *NotificationHandler) Delete(c *gin.Context) {
	_, userID := middleware.Tenant(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), userID, id); err != nil {
		httperr.FromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Stream holds a Server-Sent Events connection open. Events only tell the
// client something changed; it refetches through the REST endpoints.
func (h *NotificationHandler) Stream(c *gin.Context) {
	_, userID := middleware.Tenant(c)
	ctx := c.Request.Context()

	events := h.svc.Subscribe(ctx, userID)
	ticker := time.NewTicker(heartbeatEvery)
	defer ticker.Stop()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	logger.FromGin(c).Debug("notification stream opened")

	c.SSEvent("ready", gin.H{"user_id": userID})
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case payload, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent("notification", string(payload))
			return true
		case <-ticker.C:
			c.SSEvent("ping", time.Now().UTC().Unix())
			return true
		}
	})
}
