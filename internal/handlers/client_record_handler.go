package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/care-scheduler/internal/audit"
	"github.com/BruksfildServices01/care-scheduler/internal/domain/reminder"
	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/infra/storage"
	"github.com/BruksfildServices01/care-scheduler/internal/middleware"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
)

// ClientRecordHandler serves the per-client sub-resources: notes, reminders,
// care plans and care logs. Every route is nested under /clients/:id.
type ClientRecordHandler struct {
	db    *gorm.DB
	files *storage.Service
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewClientRecordHandler(db *gorm.DB, files *storage.Service, audit *audit.Dispatcher) *ClientRecordHandler {
	return &ClientRecordHandler{db: db, files: files, audit: audit, now: time.Now}
}

// child loads a record of type T that belongs to the client in :id.
func child[T any](c *gin.Context, db *gorm.DB, client *models.Client, param, code string) (*T, bool) {
	id, ok := pathID(c, param)
	if !ok {
		return nil, false
	}

	var rec T
	err := db.WithContext(c.Request.Context()).
		Where("id = ? AND client_id = ? AND organization_id = ?", id, client.ID, client.OrganizationID).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.NotFound(c, code, "Record not found.")
		return nil, false
	}
	if err != nil {
		httperr.FromError(c, err)
		return nil, false
	}
	return &rec, true
}

// ======================================================
// NOTES
// ======================================================

type NoteRequest struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	Category *string `json:"category"`
	Pinned   *bool   `json:"pinned"`
}

func (h *ClientRecordHandler) ListNotes(c *gin.Context) {
	client, ok := loadClient(c, h.db)
	if !ok {
		return
	}

	var notes []models.ClientNote
	if err := h.db.WithContext(c.Request.Context()).
		Where("client_id = ?", client.ID).
		Order("pinned DESC, created_at DESC").
		Find(&notes).Error; err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, notes)
}

func (h *ClientRecordHandler) CreateNote(c *gin.Context) {
	client, ok := loadClient(c, h.db)
	if !ok {
		return
	}
	_, userID := middleware.Tenant(c)

	var req NoteRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Content == nil || strings.TrimSpace(*req.Content) == "" {
		httperr.BadRequest(c, "content_required", "Note content is required.")
		return
	}

	note := models.ClientNote{
		OrganizationID: client.OrganizationID,
		ClientID:       client.ID,
		AuthorID:       userID,
	}
	applyNote(&note, &req)

	if err := h.db.WithContext(c.Request.Context()).Create(&note).Error; err != nil {
		httperr.FromError(c, err)
		return
	}
	writeAudit(c, h.audit, "client_note_created", "client_note", note.ID, map[string]any{"client_id": client.ID})
	c.JSON(http.StatusCreated, note)
}

func (h *ClientRecordHandler) UpdateNote(c *gin.Context) {
	client, ok := loadClient(c, h.db)
	if !ok {
		return
	}
	note, ok := child[models.ClientNote](c, h.db, client, "noteId", "note_not_found")
	if !ok {
		return
	}

	var req NoteRequest
	if !bindJSON(c, &req) {
		return
	}
	applyNote(note, &req)

	if err := h.db.WithContext(c.Request.Context()).Save(note).Error; err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

func (h *ClientRecordHandler) DeleteNote(c *gin.Context) {
	client, ok := loadClient(c, h.db)
	if !ok {
		return
	}
	note, ok := child[models.ClientNote](c, h.db, client, "noteId", "note_not_found")
	if !ok {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Delete(note).Error; err != nil {
		httperr.FromError(c, err)
		return
	}
	writeAudit(c, h.audit, "client_note_deleted", "client_note", note.ID, nil)
	c.Status(http.StatusNoContent)
}

func applyNote(n *models.ClientNote, req *NoteRequest) {
	if req.Title != nil {
		n.Title = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		n.Content = *req.Content
	}
	if req.Category != nil {
		n.Category = *req.Category
	}
	if req.Pinned != nil {
		n.Pinned = *req.Pinned
	}
}

// ======================================================
// REMINDERS
// ======================================================

type ReminderRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	DueAt       *time.Time `json:"due_at"`
	Priority    *string    `json:"priority"`
}

// ListReminders returns pending reminders unless status=all|completed|overdue.
func (h *ClientRecordHandler) ListReminders(c *gin.Context) {
	client, ok := loadClient(c, h.db)
	if !ok {
		return
	}

	status := c.DefaultQuery("status", reminder.StatusPending)
	q := h.db.WithContext(c.Request.Context()).Where("client_id = ?", client.ID)
	switch status {
	case "all":
	case reminder.StatusCompleted:
		q = q.Where("status = ?", reminder.StatusCompleted)
	case reminder.StatusPending, "overdue":
		q = q.Where("status = ?", reminder.StatusPending)
	default:
		httperr.BadRequest(c, "invalid_status", "status must be pending, overdue, completed or all.")
		return
	}

	var list []models.ClientReminder
	if err := q.Order("due_at ASC, id ASC").Find(&list).Error; err != nil {
		httperr.FromError(c, err)
		return
	}

	if status == "overdue" {
		now := h.now()
		overdue := make([]models.ClientReminder, 0, len(list))
		for _, r := range list {
			if reminder.Overdue(&r, now) {
				overdue = append(overdue, r)
			}
		}
		list = overdue
	}
	c.JSON(http.StatusOK, list)
}

func (h *ClientRecordHandler) CreateReminder(c *gin.Context) {
	client, ok := loadClient(c, h.db)
	if !ok {
		return
	}
	_, userID := middleware.Tenant(c)

	var req ReminderRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Title == nil || strings.TrimSpace(*req.Title) == "" || req.DueAt == nil {
		httperr.BadRequest(c, "invalid_reminder", "Title and due_at are required.")
		return
	}

	r := models.ClientReminder{
		OrganizationID: client.OrganizationID,
		ClientID:       client.ID,
		CreatedBy:      userID,
		Priority:       "normal",
		Status:         reminder.StatusPending,
	}
	if !applyReminder(c, &r, &req) {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&r).Error; err != nil {
		httperr.FromError(c, err)
		return
	}
	writeAudit(c, h.audit, "client_reminder_created", "client_reminder", r.ID, map[string]any{"client_id": client.ID})
	c.JSON(http.StatusCreated, r)
}

func (h *ClientRecordHandler) UpdateReminder(c *gin.Context) {
	client, ok := loadClient(c, h.db)
	if !ok {
		return
	}
	r, ok := child[models.ClientReminder](c, h.db, client, "reminderId", "reminder_not_found")
	if !ok {
		return
	}

	var req ReminderRequest
	if !bindJSON(c, &req) {
		return
	}
	if !applyReminder(c, r, &req) {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Save(r).Error; err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *ClientRecordHandler) CompleteReminder(c *gin.Context) {
	client, ok := loadClient(c, h.db)
	if !ok {
		return
	}
	r, ok := child[models.ClientReminder](c, h.db, client, "reminderId", "reminder_not_found")
	if !ok {
		return
	}

	if err := reminder.Complete(r, h.now().UTC()); err != nil {
		httperr.FromError(c, err)
		return
	}
	if err := h.db.WithContext(c.Request.Context()).Save(r).Error; err != nil {
		httperr.FromError(c, err)
		return
	}

	writeAudit(c, h.audit, "client_reminder_completed", "client_reminder", r.ID, nil)
	c.JSON(http.StatusOK, r)
}

// ReopenReminder puts a completed reminder back on the pending list.
func (h *ClientRecordHandler) ReopenReminder(c *gin.Context) {
	client, ok := loadClient(c, h.db)
	if !ok {
		return
	}
	r, ok := child[models.ClientReminder](c, h.db, client, "reminderId", "reminder_not_found")
	if !ok {
		return
	}

	reminder.Reopen(r)
	if err := h.db.WithContext(c.Request.Context()).Save(r).Error; err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *ClientRecordHandler) DeleteReminder(c *gin.Context) {
	client, ok := loadClient(c, h.db)
	if !ok {
		return
	}
	r, ok := child[models.ClientReminder](c, h.db, client, "reminderId", "reminder_not_found")
	if !ok {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Delete(r).Error; err != nil {
		httperr.FromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func applyReminder(c *gin.Context, r *models.ClientReminder, req *ReminderRequest) bool {
	if req.Priority != nil {
		if !reminder.ValidPriority(*req.Priority) {
			httperr.BadRequest(c, "invalid_priority", "priority must be low, normal or high.")
			return false
		}
		r.Priority = *req.Priority
	}
	if req.Title != nil {
		r.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		r.Description = *req.Description
	}
	if req.DueAt != nil {
		r.DueAt = req.DueAt.UTC()
	}
	return true
}

// ======================================================
// CARE PLANS
// ======================================================

type CarePlanRequest struct {
	Title         *string `json:"title"`
	Goals         *string `json:"goals"`
	Interventions *string `json:"interventions"`
	StartDate     *string `json:"start_date" binding:"omitempty,ymd"`
	ReviewDate    *string `json:"review_date" binding:"omitempty,ymd"`
	Status        *string `json:"status" binding:"omitempty,oneof=active completed archived"`
}

func (h *ClientRecordHandler) ListCarePlans(c *gin.Context) {
	client, ok := loadClient(c, h.db)
	if !ok {
		return
	}

	q := h.db.WithContext(c.Request.Context()).Where("client_id = ?", client.ID)
	if c.Query("status") != "all" {
		q = q.Where("status <> ?", "archived")
	}

	var plans []models.CarePlan
	if err := q.Order("start_date DESC, id DESC").Find(&plans).Error; err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, plans)
}

func (h *ClientRecordHandler) CreateCarePlan(c *gin.Context) {
	client, ok := loadClient(c, h.db)
	if !ok {
		return
	}

	var req CarePlanRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Title == nil || strings.TrimSpace(*req.Title) == "" || req.StartDate == nil {
		httperr.BadRequest(c, "invalid_care_plan", "Title and start_date are required.")
		return
	}

	plan := models.CarePlan{
		OrganizationID: client.OrganizationID,
		ClientID:       client.ID,
		Status:         "active",
	}
	applyCarePlan(&plan, &req)

	if err := h.db.WithContext(c.Request.Context()).Create(&plan).Error; err != nil {
		httperr.FromError(c, err)
		return
	}
	writeAudit(c, h.audit, "care_plan_created", "care_plan", plan.ID, map[string]any{"client_id": client.ID})
	c.JSON(http.StatusCreated, plan)
}

func (h *ClientRecordHandler) UpdateCarePlan(c *gin.Context) {
	client, ok := loadClient(c, h.db)
	if !ok {
		return
	}
	plan, ok := child[models.CarePlan](c, h.db, client, "planId", "care_plan_not_found")
	if !ok {
		return
	}

	var req CarePlanRequest
	if !bindJSON(c, &req) {
		return
	}
	applyCarePlan(plan, &req)

	if err := h.db.WithContext(c.Request.Context()).Save(plan).Error; err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *ClientRecordHandler) ArchiveCarePlan(c *gin.Context) {
	client, ok := loadClient(c, h.db)
	if !ok {
		return
	}
	plan, ok := child[models.CarePlan](c, h.db, client, "planId", "care_plan_not_found")
	if !ok {
		return
	}

	plan.Status = "archived"
	if err := h.db.WithContext(c.Request.Context()).Save(plan).Error; err != nil {
		httperr.FromError(c, err)
		return
	}
	writeAudit(c, h.audit, "care_plan_archived", "care_plan", plan.ID, nil)
	c.JSON(http.StatusOK, plan)
}

// applyCarePlan assumes dates were checked by the ymd binding tag.
func applyCarePlan(p *models.CarePlan, req *CarePlanRequest) {
	if req.Title != nil {
		p.Title = strings.TrimSpace(*req.Title)
	}
	if req.Goals != nil {
		p.Goals = *req.Goals
	}
	if req.Interventions != nil {
		p.Interventions = *req.Interventions
	}
	if req.StartDate != nil {
		p.StartDate, _ = time.Parse("2006-01-02", *req.StartDate)
	}
	if req.ReviewDate != nil {
		if *req.ReviewDate == "" {
			p.ReviewDate = nil
		} else {
			d, _ := time.Parse("2006-01-02", *req.ReviewDate)
			p.ReviewDate = &d
		}
	}
	if req.Status != nil {
		p.Status = *req.Status
	}
}

// ======================================================
// CARE LOGS
// ======================================================

type CareLogRequest struct {
	StaffID    *uint      `json:"staff_id"`
	ShiftID    *uint      `json:"shift_id"`
	LoggedAt   *time.Time `json:"logged_at"`
	Mood       string     `json:"mood"`
	Activities string     `json:"activities"`
	Notes      string     `json:"notes"`
}

func (h *ClientRecordHandler) ListCareLogs(c *gin.Context) {
	client, ok := loadClient(c, h.db)
	if !ok {
		return
	}
	page, limit := paging(c)

	var logs []models.CareLog
	if err := h.db.WithContext(c.Request.Context()).
		Where("client_id = ?", client.ID).
		Order("logged_at DESC, id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&logs).Error; err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

func (h *ClientRecordHandler) CreateCareLog(c *gin.Context) {
	client, ok := loadClient(c, h.db)
	if !ok {
		return
	}

	var req CareLogRequest
	if !bindJSON(c, &req) {
		return
	}
	if strings.TrimSpace(req.Notes) == "" && strings.TrimSpace(req.Activities) == "" {
		httperr.BadRequest(c, "empty_care_log", "Notes or activities are required.")
		return
	}

	logged := h.now().UTC()
	if req.LoggedAt != nil {
		logged = req.LoggedAt.UTC()
	}

	entry := models.CareLog{
		OrganizationID: client.OrganizationID,
		ClientID:       client.ID,
		StaffID:        req.StaffID,
		ShiftID:        req.ShiftID,
		LoggedAt:       logged,
		Mood:           req.Mood,
		Activities:     req.Activities,
		Notes:          req.Notes,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&entry).Error; err != nil {
		httperr.FromError(c, err)
		return
	}

	writeAudit(c, h.audit, "care_log_created", "care_log", entry.ID, map[string]any{"client_id": client.ID})
	c.JSON(http.StatusCreated, entry)
}

// AttachToCareLog uploads a file into the care-logs bucket and links it.
func (h *ClientRecordHandler) AttachToCareLog(c *gin.Context) {
	client, ok := loadClient(c, h.db)
	if !ok {
		return
	}
	entry, ok := child[models.CareLog](c, h.db, client, "logId", "care_log_not_found")
	if !ok {
		return
	}
	_, userID := middleware.Tenant(c)

	name, data, ok := readUpload(c, storage.BucketCareLogs)
	if !ok {
		return
	}

	file, err := h.files.Upload(c.Request.Context(), storage.UploadInput{
		OrganizationID: client.OrganizationID,
		UploadedBy:     userID,
		Bucket:         storage.BucketCareLogs,
		FileName:       name,
		Data:           data,
		Entity:         "care_log",
		EntityID:       &entry.ID,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	entry.AttachmentKey = file.Key
	if err := h.db.WithContext(c.Request.Context()).
		Model(entry).
		Update("attachment_key", file.Key).Error; err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"care_log": entry, "file": file})
}
