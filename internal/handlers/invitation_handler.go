package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/middleware"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
	"github.com/BruksfildServices01/care-scheduler/internal/usecase/invitation"
)

type InvitationHandler struct {
	send   *invitation.SendInvitation
	manage *invitation.ManageInvitations
}

func NewInvitationHandler(send *invitation.SendInvitation, manage *invitation.ManageInvitations) *InvitationHandler {
	return &InvitationHandler{send: send, manage: manage}
}

type SendInvitationRequest struct {
	Kind     string `json:"kind" binding:"required,oneof=client staff"`
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name"`
	TargetID *uint  `json:"target_id"`
}

// invitationView hides the token fingerprint.
func invitationView(inv *models.Invitation) gin.H {
	return gin.H{
		"id":          inv.ID,
		"kind":        inv.Kind,
		"email":       inv.Email,
		"name":        inv.Name,
		"status":      inv.Status,
		"target_id":   inv.TargetID,
		"expires_at":  inv.ExpiresAt,
		"accepted_at": inv.AcceptedAt,
		"created_at":  inv.CreatedAt,
	}
}

func (h *InvitationHandler) Send(c *gin.Context) {
	orgID, userID := middleware.Tenant(c)

	var req SendInvitationRequest
	if !bindJSON(c, &req) {
		return
	}

	inv, err := h.send.Execute(c.Request.Context(), invitation.SendInput{
		OrganizationID: orgID,
		UserID:         userID,
		Kind:           req.Kind,
		Email:          req.Email,
		Name:           req.Name,
		TargetID:       req.TargetID,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusCreated, invitationView(inv))
}

func (h *InvitationHandler) List(c *gin.Context) {
	orgID, _ := middleware.Tenant(c)

	list, err := h.manage.List(c.Request.Context(), orgID, c.Query("kind"), c.Query("status"))
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	out := make([]gin.H, 0, len(list))
	for i := range list {
		out = append(out, invitationView(&list[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *InvitationHandler) Resend(c *gin.Context) {
	orgID, userID := middleware.Tenant(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	inv, err := h.send.Resend(c.Request.Context(), orgID, userID, id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, invitationView(inv))
}

func (h *InvitationHandler) Revoke(c *gin.Context) {
	orgID, userID := middleware.Tenant(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	inv, err := h.manage.Revoke(c.Request.Context(), orgID, userID, id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, invitationView(inv))
}
