package httperr

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/care-scheduler/internal/logger"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

// statusByCode overrides the suffix-based defaults in StatusFor.
var statusByCode = map[string]int{
	"time_conflict":          http.StatusConflict,
	"invalid_state":          http.StatusConflict,
	"already_responded":      http.StatusConflict,
	"invitation_accepted":    http.StatusConflict,
	"invitation_revoked":     http.StatusConflict,
	"email_already_in_use":   http.StatusConflict,
	"slug_already_exists":    http.StatusConflict,
	"generation_in_progress": http.StatusConflict,
	"invoice_total_mismatch": http.StatusConflict,
	"invitation_expired":     http.StatusGone,
	"forbidden":              http.StatusForbidden,
	"not_shift_owner":        http.StatusForbidden,
	"not_participant":        http.StatusForbidden,
	"rate_limited":           http.StatusTooManyRequests,
	"payments_disabled":      http.StatusServiceUnavailable,
	"storage_disabled":       http.StatusServiceUnavailable,
	"file_too_large":         http.StatusRequestEntityTooLarge,
	"unsupported_file_type":  http.StatusUnsupportedMediaType,
}

// StatusFor maps a business error code to its HTTP status.
func StatusFor(code string) int {
	if st, ok := statusByCode[code]; ok {
		return st
	}
	if strings.HasSuffix(code, "_not_found") {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}

// FromError writes err as a JSON error. Business errors keep their code;
// anything else is logged and reported as internal_error.
func FromError(c *gin.Context, err error) {
	var be BusinessError
	if errors.As(err, &be) {
		Write(c, StatusFor(be.Code), be.Code, be.Message())
		return
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		NotFound(c, "not_found", "Resource not found.")
		return
	}

	logger.FromGin(c).WithError(err).Error("request failed")
	Internal(c, "internal_error", "Unexpected error.")
}
