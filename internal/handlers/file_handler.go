package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/care-scheduler/internal/audit"
	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/infra/storage"
	"github.com/BruksfildServices01/care-scheduler/internal/middleware"
)

type FileHandler struct {
	files *storage.Service
	audit *audit.Dispatcher
}

func NewFileHandler(files *storage.Service, audit *audit.Dispatcher) *FileHandler {
	return &FileHandler{files: files, audit: audit}
}

// readUpload pulls the multipart "file" field, reading at most one byte past
// the bucket limit so oversize uploads are rejected without buffering them.
func readUpload(c *gin.Context, bucket string) (string, []byte, bool) {
	b, ok := storage.Lookup(bucket)
	if !ok {
		httperr.NotFound(c, "bucket_not_found", "Unknown bucket.")
		return "", nil, false
	}

	fh, err := c.FormFile("file")
	if err != nil {
		httperr.BadRequest(c, "file_required", "Multipart field \"file\" is required.")
		return "", nil, false
	}
	if fh.Size > b.MaxSize {
		httperr.FromError(c, httperr.ErrBusiness("file_too_large"))
		return "", nil, false
	}

	f, err := fh.Open()
	if err != nil {
		httperr.FromError(c, err)
		return "", nil, false
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, b.MaxSize+1))
	if err != nil {
		httperr.FromError(c, err)
		return "", nil, false
	}
	return fh.Filename, data, true
}

// Upload accepts a file into the bucket named in the path, optionally tied
// to an entity via the entity and entity_id form fields.
func (h *FileHandler) Upload(c *gin.Context) {
	orgID, userID := middleware.Tenant(c)
	bucket := c.Param("bucket")

	name, data, ok := readUpload(c, bucket)
	if !ok {
		return
	}

	file, err := h.files.Upload(c.Request.Context(), storage.UploadInput{
		OrganizationID: orgID,
		UploadedBy:     userID,
		Bucket:         bucket,
		FileName:       name,
		Data:           data,
		Entity:         c.PostForm("entity"),
		EntityID:       formID(c, "entity_id"),
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	writeAudit(c, h.audit, "file_uploaded", "file", file.ID, map[string]any{"bucket": bucket, "size": file.Size})
	c.JSON(http.StatusCreated, file)
}

func (h *FileHandler) URL(c *gin.Context) {
	orgID, _ := middleware.Tenant(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	url, err := h.files.URL(c.Request.Context(), orgID, id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (h *FileHandler) Delete(c *gin.Context) {
	orgID, _ := middleware.Tenant(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.files.Delete(c.Request.Context(), orgID, id); err != nil {
		httperr.FromError(c, err)
		return
	}

	writeAudit(c, h.audit, "file_deleted", "file", id, nil)
	c.Status(http.StatusNoContent)
}
