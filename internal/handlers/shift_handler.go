package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/care-scheduler/internal/domain/shift"
	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/middleware"
	"github.com/BruksfildServices01/care-scheduler/internal/usecase/shift"
)

// ======================================================
// HANDLER
// ======================================================

type ShiftHandler struct {
	repo    domain.Repository
	create  *shift.CreateShift
	update  *shift.UpdateShift
	respond *shift.RespondToShift
	status  *shift.ChangeShiftStatus
	list    *shift.ListShifts
}

func NewShiftHandler(
	repo domain.Repository,
	create *shift.CreateShift,
	update *shift.UpdateShift,
	respond *shift.RespondToShift,
	status *shift.ChangeShiftStatus,
	list *shift.ListShifts,
) *ShiftHandler {
	return &ShiftHandler{
		repo:    repo,
		create:  create,
		update:  update,
		respond: respond,
		status:  status,
		list:    list,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateShiftRequest struct {
	StaffID      uint   `json:"staff_id" binding:"required"`
	ClientID     uint   `json:"client_id" binding:"required"`
	Date         string `json:"shift_date" binding:"required,ymd"`
	StartTime    string `json:"start_time" binding:"required,hhmm"`
	EndTime      string `json:"end_time" binding:"required,hhmm"`
	BreakMinutes int    `json:"break_minutes" binding:"min=0"`
	Notes        string `json:"notes"`
}

type UpdateShiftRequest struct {
	StaffID      *uint   `json:"staff_id"`
	ClientID     *uint   `json:"client_id"`
	Date         *string `json:"shift_date" binding:"omitempty,ymd"`
	StartTime    *string `json:"start_time" binding:"omitempty,hhmm"`
	EndTime      *string `json:"end_time" binding:"omitempty,hhmm"`
	BreakMinutes *int    `json:"break_minutes" binding:"omitempty,min=0"`
	Notes        *string `json:"notes"`
}

type DeclineShiftRequest struct {
	Reason string `json:"reason" binding:"max=255"`
}

func listInput(c *gin.Context) shift.ListInput {
	return shift.ListInput{
		From:         c.Query("from"),
		To:           c.Query("to"),
		StaffID:      queryID(c, "staff_id"),
		ClientID:     queryID(c, "client_id"),
		Status:       c.Query("status"),
		Confirmation: c.Query("confirmation"),
	}
}

// ======================================================
// QUERIES
// ======================================================

func (h *ShiftHandler) List(c *gin.Context) {
	orgID, _ := middleware.Tenant(c)

	in := listInput(c)
	in.OrganizationID = orgID

	list, err := h.list.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Mine is the staff member's own roster.
func (h *ShiftHandler) Mine(c *gin.Context) {
	orgID, userID := middleware.Tenant(c)

	list, err := h.list.Mine(c.Request.Context(), orgID, userID, listInput(c))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *ShiftHandler) Get(c *gin.Context) {
	orgID, _ := middleware.Tenant(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	sh, err := h.repo.GetShift(c.Request.Context(), orgID, id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, shift.ToDTO(sh))
}

// ======================================================
// COMMANDS
// ======================================================

func (h *ShiftHandler) Create(c *gin.Context) {
	orgID, userID := middleware.Tenant(c)

	var req CreateShiftRequest
	if !bindJSON(c, &req) {
		return
	}

	sh, err := h.create.Execute(c.Request.Context(), shift.CreateShiftInput{
		OrganizationID: orgID,
		UserID:         userID,
		StaffID:        req.StaffID,
		ClientID:       req.ClientID,
		Date:           req.Date,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		BreakMinutes:   req.BreakMinutes,
		Notes:          req.Notes,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusCreated, shift.ToDTO(sh))
}

func (h *ShiftHandler) Update(c *gin.Context) {
	orgID, userID := middleware.Tenant(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateShiftRequest
	if !bindJSON(c, &req) {
		return
	}

	sh, err := h.update.Execute(c.Request.Context(), shift.UpdateShiftInput{
		OrganizationID: orgID,
		UserID:         userID,
		ShiftID:        id,
		StaffID:        req.StaffID,
		ClientID:       req.ClientID,
		Date:           req.Date,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		BreakMinutes:   req.BreakMinutes,
		Notes:          req.Notes,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, shift.ToDTO(sh))
}

func (h *ShiftHandler) Accept(c *gin.Context) {
	h.answer(c, true, "")
}

func (h *ShiftHandler) Decline(c *gin.Context) {
	var req DeclineShiftRequest
	// the body is optional
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}
	h.answer(c, false, req.Reason)
}

func (h *ShiftHandler) answer(c *gin.Context, accept bool, reason string) {
	orgID, userID := middleware.Tenant(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	sh, err := h.respond.Execute(c.Request.Context(), shift.RespondInput{
		OrganizationID: orgID,
		UserID:         userID,
		ShiftID:        id,
		Accept:         accept,
		Reason:         reason,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, shift.ToDTO(sh))
}

func (h *ShiftHandler) Cancel(c *gin.Context)   { h.transition(c, shift.TransitionCancel) }
func (h *ShiftHandler) Start(c *gin.Context)    { h.transition(c, shift.TransitionStart) }
func (h *ShiftHandler) Complete(c *gin.Context) { h.transition(c, shift.TransitionComplete) }

func (h *ShiftHandler) transition(c *gin.Context, t shift.Transition) {
	orgID, userID := middleware.Tenant(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	sh, err := h.status.Execute(c.Request.Context(), orgID, userID, id, t)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, shift.ToDTO(sh))
}
