package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"exiflyzer/internal/domain"
	"exiflyzer/internal/logging"
)

// ErrorResponse is the failure body of the upload and strip endpoints.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, ErrorResponse{Success: false, Error: msg, Code: code})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrMissingFile):
		return http.StatusBadRequest, "MISSING_FILE", "No file provided"
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "File type not supported"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "File exceeds maximum allowed size"
	case errors.Is(err, domain.ErrNoMetadata):
		return http.StatusNotFound, "NO_METADATA", "No metadata found in file"
	case errors.Is(err, domain.ErrStripUnsupported):
		return http.StatusUnsupportedMediaType, "STRIP_UNSUPPORTED", "Metadata removal is not supported for this file type"
	case errors.Is(err, domain.ErrToolNotFound):
		return http.StatusInternalServerError, "TOOL_NOT_FOUND", "ExifTool not found"
	case errors.Is(err, domain.ErrToolFailed):
		return http.StatusInternalServerError, "TOOL_FAILED", "ExifTool execution failed"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "Server error"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
// Server-side failures are reported as "<prefix>: <cause>".
func HandleError(c *gin.Context, err error, prefix string) {
	status, code, msg := MapDomainError(err)
	if status >= http.StatusInternalServerError {
		logging.WithContext(c.Request.Context()).Error("internal error", zap.String("code", code), zap.Error(err))
		msg = prefix + ": " + err.Error()
	}
	RespondError(c, status, code, msg)
}
