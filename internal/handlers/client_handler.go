package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/care-scheduler/internal/audit"
	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/middleware"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
)

type ClientHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewClientHandler(db *gorm.DB, audit *audit.Dispatcher) *ClientHandler {
	return &ClientHandler{db: db, audit: audit}
}

type ClientRequest struct {
	Name             *string `json:"name"`
	Email            *string `json:"email" binding:"omitempty,email"`
	Phone            *string `json:"phone"`
	Address          *string `json:"address"`
	DateOfBirth      *string `json:"date_of_birth" binding:"omitempty,ymd"`
	EmergencyContact *string `json:"emergency_contact"`
	Status           *string `json:"status" binding:"omitempty,oneof=active inactive archived"`
}

// ======================================================
// LIST CLIENTS
// ======================================================
func (h *ClientHandler) List(c *gin.Context) {
	orgID, _ := middleware.Tenant(c)

	q := h.db.WithContext(c.Request.Context()).Where("organization_id = ?", orgID)

	switch status := strings.TrimSpace(c.Query("status")); status {
	case "":
		q = q.Where("status <> ?", "archived")
	case "all":
	default:
		q = q.Where("status = ?", status)
	}

	if query := search(c); query != "" {
		like := "%" + query + "%"
		q = q.Where(
			"LOWER(name) LIKE ? OR phone LIKE ? OR LOWER(email) LIKE ?",
			like, like, like,
		)
	}

	var clients []models.Client
	if err := q.Order("created_at DESC").Find(&clients).Error; err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, clients)
}

func (h *ClientHandler) Create(c *gin.Context) {
	orgID, _ := middleware.Tenant(c)

	var req ClientRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		httperr.BadRequest(c, "name_required", "Name is required.")
		return
	}

	client := models.Client{OrganizationID: orgID, Status: "active"}
	if !applyClient(c, &client, &req) {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&client).Error; err != nil {
		httperr.FromError(c, err)
		return
	}

	writeAudit(c, h.audit, "client_created", "client", client.ID, nil)
	c.JSON(http.StatusCreated, client)
}

func (h *ClientHandler) Get(c *gin.Context) {
	client, ok := loadClient(c, h.db)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, client)
}

func (h *ClientHandler) Update(c *gin.Context) {
	client, ok := loadClient(c, h.db)
	if !ok {
		return
	}

	var req ClientRequest
	if !bindJSON(c, &req) {
		return
	}
	if !applyClient(c, client, &req) {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Save(client).Error; err != nil {
		httperr.FromError(c, err)
		return
	}

	writeAudit(c, h.audit, "client_updated", "client", client.ID, nil)
	c.JSON(http.StatusOK, client)
}

// Archive hides the client from default lists; records and history stay.
func (h *ClientHandler) Archive(c *gin.Context) {
	client, ok := loadClient(c, h.db)
	if !ok {
		return
	}

	client.Status = "archived"
	if err := h.db.WithContext(c.Request.Context()).Save(client).Error; err != nil {
		httperr.FromError(c, err)
		return
	}

	writeAudit(c, h.audit, "client_archived", "client", client.ID, nil)
	c.JSON(http.StatusOK, client)
}

func applyClient(c *gin.Context, client *models.Client, req *ClientRequest) bool {
	if req.Name != nil {
		client.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		client.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Phone != nil {
		client.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		client.Address = *req.Address
	}
	if req.EmergencyContact != nil {
		client.EmergencyContact = *req.EmergencyContact
	}
	if req.Status != nil {
		client.Status = *req.Status
	}
	if req.DateOfBirth != nil {
		if *req.DateOfBirth == "" {
			client.DateOfBirth = nil
		} else {
			dob, err := time.Parse("2006-01-02", *req.DateOfBirth)
			if err != nil || dob.After(time.Now()) {
				httperr.BadRequest(c, "invalid_date_of_birth", "Invalid date of birth.")
				return false
			}
			client.DateOfBirth = &dob
		}
	}
	return true
}

// loadClient resolves :id to a client of the caller's organization.
func loadClient(c *gin.Context, db *gorm.DB) (*models.Client, bool) {
	orgID, _ := middleware.Tenant(c)
	id, ok := pathID(c, "id")
	if !ok {
		return nil, false
	}

	var client models.Client
	err := db.WithContext(c.Request.Context()).
		Where("id = ? AND organization_id = ?", id, orgID).
		First(&client).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.NotFound(c, "client_not_found", "Client not found.")
		return nil, false
	}
	if err != nil {
		httperr.FromError(c, err)
		return nil, false
	}
	return &client, true
}
