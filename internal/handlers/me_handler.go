package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/infra/storage"
	"github.com/BruksfildServices01/care-scheduler/internal/middleware"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
)

type MeHandler struct {
	db    *gorm.DB
	files *storage.Service
}

func NewMeHandler(db *gorm.DB, files *storage.Service) *MeHandler {
	return &MeHandler{db: db, files: files}
}

func (h *MeHandler) load(c *gin.Context) (*models.User, bool) {
	_, userID := middleware.Tenant(c)

	var user models.User
	err := h.db.WithContext(c.Request.Context()).Preload("Organization").First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.NotFound(c, "user_not_found", "User not found.")
		return nil, false
	}
	if err != nil {
		httperr.FromError(c, err)
		return nil, false
	}
	return &user, true
}

func (h *MeHandler) GetMe(c *gin.Context) {
	user, ok := h.load(c)
	if !ok {
		return
	}

	resp := gin.H{
		"user": gin.H{
			"id":              user.ID,
			"name":            user.Name,
			"email":           user.Email,
			"phone":           user.Phone,
			"role":            user.Role,
			"organization_id": user.OrganizationID,
		},
		"organization": gin.H{
			"id":       user.Organization.ID,
			"name":     user.Organization.Name,
			"slug":     user.Organization.Slug,
			"timezone": user.Organization.Timezone,
		},
	}

	if user.AvatarKey != "" {
		if url, err := h.files.URLForKey(c.Request.Context(), user.AvatarKey); err == nil {
			resp["avatar_url"] = url
		}
	}

	c.JSON(http.StatusOK, resp)
}

// UploadAvatar stores a profile image (normalised to webp) and points the
// user at it. The previous avatar is removed.
func (h *MeHandler) UploadAvatar(c *gin.Context) {
	user, ok := h.load(c)
	if !ok {
		return
	}

	name, data, ok := readUpload(c, storage.BucketProfileImages)
	if !ok {
		return
	}

	file, err := h.files.Upload(c.Request.Context(), storage.UploadInput{
		OrganizationID: user.OrganizationID,
		UploadedBy:     user.ID,
		Bucket:         storage.BucketProfileImages,
		FileName:       name,
		Data:           data,
		Entity:         "user",
		EntityID:       &user.ID,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	previous := user.AvatarKey
	if err := h.db.WithContext(c.Request.Context()).
		Model(&models.User{}).
		Where("id = ?", user.ID).
		Update("avatar_key", file.Key).Error; err != nil {
		httperr.FromError(c, err)
		return
	}

	if previous != "" {
		var old models.StoredFile
		if err := h.db.WithContext(c.Request.Context()).Where("key = ?", previous).First(&old).Error; err == nil {
			_ = h.files.Delete(c.Request.Context(), old.OrganizationID, old.ID)
		}
	}

	url, _ := h.files.URL(c.Request.Context(), file.OrganizationID, file.ID)
	c.JSON(http.StatusOK, gin.H{"file": file, "url": url})
}
