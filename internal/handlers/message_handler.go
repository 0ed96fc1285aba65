package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/care-scheduler/internal/middleware"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
	"github.com/BruksfildServices01/care-scheduler/internal/usecase/messaging"
)

type MessageHandler struct {
	svc *messaging.Service
}

func NewMessageHandler(svc *messaging.Service) *MessageHandler {
	return &MessageHandler{svc: svc}
}

type StartConversationRequest struct {
	Subject      string `json:"subject" binding:"max=150"`
	Participants []uint `json:"participants" binding:"required,min=1"`
	Body         string `json:"body"`
}

type SendMessageRequest struct {
	Body string `json:"body" binding:"required"`
}

func (h *MessageHandler) Start(c *gin.Context) {
	orgID, userID := middleware.Tenant(c)

	var req StartConversationRequest
	if !bindJSON(c, &req) {
		return
	}

	conv, err := h.svc.Start(c.Request.Context(), messaging.StartInput{
		OrganizationID: orgID,
		UserID:         userID,
		Subject:        req.Subject,
		Participants:   req.Participants,
		Body:           req.Body,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusCreated, conv)
}

func (h *MessageHandler) List(c *gin.Context) {
	orgID, userID := middleware.Tenant(c)

	list, err := h.svc.List(c.Request.Context(), orgID, userID)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, list)
}

func (h *MessageHandler) Messages(c *gin.Context) {
	orgID, userID := middleware.Tenant(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	page, limit := paging(c)

	list, total, err := h.svc.Messages(c.Request.Context(), orgID, userID, id, page, limit)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.Page[models.Message](c, list, page, limit, total)
}

func (h *MessageHandler) Send(c *gin.Context) {
	orgID, userID := middleware.Tenant(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req SendMessageRequest
	if !bindJSON(c, &req) {
		return
	}

	msg, err := h.svc.Send(c.Request.Context(), orgID, userID, id, req.Body)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

func (h *MessageHandler) MarkRead(c *gin.Context) {
	orgID, userID := middleware.Tenant(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.MarkRead(c.Request.Context(), orgID, userID, id); err != nil {
		httperr.FromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
