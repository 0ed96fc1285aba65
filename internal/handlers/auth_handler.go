package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/care-scheduler/internal/audit"
	"github.com/BruksfildServices01/care-scheduler/internal/auth"
	"github.com/BruksfildServices01/care-scheduler/internal/dto"
	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
	"github.com/BruksfildServices01/care-scheduler/internal/timezone"
	"github.com/BruksfildServices01/care-scheduler/internal/validators"
)

type AuthHandler struct {
	db          *gorm.DB
	issuer      *auth.Issuer
	audit       *audit.Dispatcher
	defaultRate decimal.Decimal

	// emailDomainOK is swapped out in tests to avoid DNS lookups.
	emailDomainOK func(string) bool
}

func NewAuthHandler(db *gorm.DB, issuer *auth.Issuer, audit *audit.Dispatcher, defaultRate decimal.Decimal) *AuthHandler {
	return &AuthHandler{
		db:            db,
		issuer:        issuer,
		audit:         audit,
		defaultRate:   defaultRate,
		emailDomainOK: validators.IsEmailDomainValid,
	}
}

// --------- Requests ---------

type RegisterRequest struct {
	OrganizationName  string `json:"organization_name" binding:"required"`
	OrganizationSlug  string `json:"organization_slug" binding:"required"`
	OrganizationPhone string `json:"organization_phone"`
	Timezone          string `json:"timezone"`

	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	slug := strings.ToLower(strings.TrimSpace(req.OrganizationSlug))
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if !h.emailDomainOK(email) {
		httperr.BadRequest(c, "invalid_email_domain", "The email domain does not look valid.")
		return
	}

	tz := strings.TrimSpace(req.Timezone)
	if tz == "" {
		tz = timezone.DefaultTimezone
	}
	if !timezone.IsValid(tz) {
		httperr.BadRequest(c, "invalid_timezone", "Unknown timezone.")
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Could not process password.")
		return
	}

	org := models.Organization{
		Name:              strings.TrimSpace(req.OrganizationName),
		Slug:              slug,
		Phone:             req.OrganizationPhone,
		Email:             email,
		Timezone:          tz,
		DefaultHourlyRate: h.defaultRate,
		MinAdvanceMinutes: 120,
	}
	user := models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hashed,
		Phone:        req.Phone,
		Role:         models.RoleOwner,
	}

	err = h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Organization{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return httperr.ErrBusiness("slug_already_exists")
		}
		if err := tx.Model(&models.User{}).Where("LOWER(email) = ?", email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return httperr.ErrBusiness("email_already_in_use")
		}

		if err := tx.Create(&org).Error; err != nil {
			return err
		}
		user.OrganizationID = org.ID
		return tx.Omit("Organization").Create(&user).Error
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	token, err := h.issuer.Issue(&user)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Could not issue token.")
		return
	}

	h.audit.Dispatch(audit.Event{
		OrganizationID: org.ID,
		UserID:         &user.ID,
		Action:         "organization_registered",
		Entity:         "organization",
		EntityID:       &org.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"token":        token,
		"user":         userDTO(&user),
		"organization": org,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	err := h.db.WithContext(c.Request.Context()).
		Preload("Organization").
		Where("LOWER(email) = ?", email).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.Unauthorized(c, "invalid_credentials", "Invalid email or password.")
		return
	}
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		httperr.Unauthorized(c, "invalid_credentials", "Invalid email or password.")
		return
	}

	token, err := h.issuer.Issue(&user)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Could not issue token.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":        token,
		"user":         userDTO(&user),
		"organization": user.Organization,
	})
}

func userDTO(u *models.User) dto.UserDTO {
	return dto.UserDTO{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}
