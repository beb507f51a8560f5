package handler

import (
	"errors"
	"mime"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"exiflyzer/internal/domain"
	"exiflyzer/internal/service"
)

// MetadataHandler serves the capability, extract and strip endpoints.
type MetadataHandler struct {
	svc service.MetadataService
}

// NewMetadataHandler creates a new MetadataHandler.
func NewMetadataHandler(svc service.MetadataService) *MetadataHandler {
	return &MetadataHandler{svc: svc}
}

// ExtractResponse is the success body of POST /upload.
type ExtractResponse struct {
	Success     bool                     `json:"success"`
	Metadata    *domain.MetadataDocument `json:"metadata"`
	RawMetadata map[string]any           `json:"raw_metadata"`
}

// SystemCheck handles GET /system-check
// @Summary Check the extraction tool
// @Description Report the extractor version and the accepted file extensions
// @Tags metadata
// @Produce json
// @Success 200 {object} domain.SystemStatus "Tool available"
// @Failure 404 {object} domain.SystemStatus "ExifTool not found"
// @Failure 500 {object} domain.SystemStatus "ExifTool error"
// @Router /system-check [get]
func (h *MetadataHandler) SystemCheck(c *gin.Context) {
	status, err := h.svc.SystemCheck(c.Request.Context())
	switch {
	case err == nil:
		c.JSON(http.StatusOK, status)
	case errors.Is(err, domain.ErrToolNotFound):
		c.JSON(http.StatusNotFound, domain.SystemStatus{Status: domain.StatusError, Message: "ExifTool not found"})
	default:
		c.JSON(http.StatusInternalServerError, domain.SystemStatus{Status: domain.StatusError, Message: "ExifTool error: " + err.Error()})
	}
}

// SupportedTypes handles GET /supported-types
// @Summary List accepted file types
// @Description Accepted extensions and the upload size limit in megabytes
// @Tags metadata
// @Produce json
// @Success 200 {object} domain.SupportedTypes
// @Router /supported-types [get]
func (h *MetadataHandler) SupportedTypes(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.SupportedTypes())
}

// Upload handles POST /upload
// @Summary Extract file metadata
// @Description Upload a file and receive its metadata grouped by category, plus the raw tag map
// @Tags metadata
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image or PDF to inspect"
// @Success 200 {object} ExtractResponse "Metadata extracted"
// @Failure 400 {object} ErrorResponse "Missing file or unsupported type"
// @Failure 404 {object} ErrorResponse "No metadata found in file"
// @Failure 413 {object} ErrorResponse "File too large"
// @Failure 500 {object} ErrorResponse "Failed to process file"
// @Router /upload [post]
func (h *MetadataHandler) Upload(c *gin.Context) {
	input, ok := readUpload(c)
	if !ok {
		return
	}
	defer closeUpload(input)

	result, err := h.svc.Extract(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, domain.ErrUnsupportedFileType) {
			h.respondUnsupported(c, input.Filename)
			return
		}
		HandleError(c, err, "Failed to process file")
		return
	}

	c.JSON(http.StatusOK, ExtractResponse{
		Success:     true,
		Metadata:    result.Metadata,
		RawMetadata: result.Raw,
	})
}

// RemoveMetadata handles POST /remove-metadata
// @Summary Remove file metadata
// @Description Upload a file and download a metadata-free copy named clean_<name>
// @Tags metadata
// @Accept multipart/form-data
// @Produce application/octet-stream
// @Param file formData file true "File to clean"
// @Success 200 {file} binary "Cleaned file"
// @Failure 400 {object} ErrorResponse "Missing file or invalid type"
// @Failure 415 {object} ErrorResponse "Removal not supported for this type"
// @Failure 500 {object} ErrorResponse "Failed to remove metadata"
// @Router /remove-metadata [post]
func (h *MetadataHandler) RemoveMetadata(c *gin.Context) {
	input, ok := readUpload(c)
	if !ok {
		return
	}
	defer closeUpload(input)

	artifact, err := h.svc.Strip(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, domain.ErrUnsupportedFileType) {
			RespondError(c, http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "Invalid file type")
			return
		}
		HandleError(c, err, "Failed to remove metadata")
		return
	}

	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": artifact.Filename}))
	c.Data(http.StatusOK, artifact.ContentType, artifact.Body)
}

func (h *MetadataHandler) respondUnsupported(c *gin.Context, filename string) {
	received := "unknown"
	if i := strings.LastIndex(filename, "."); i >= 0 {
		received = strings.ToLower(filename[i+1:])
	}
	c.JSON(http.StatusBadRequest, gin.H{
		"success":         false,
		"error":           "File type not supported",
		"code":            "UNSUPPORTED_FILE_TYPE",
		"supported_types": h.svc.SupportedTypes().SupportedExtensions,
		"received_type":   received,
	})
}

// readUpload pulls the "file" part out of the request. On failure the error
// response has already been written.
func readUpload(c *gin.Context) (service.UploadInput, bool) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "No file provided")
		return service.UploadInput{}, false
	}
	if header.Filename == "" {
		_ = file.Close()
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "No file selected")
		return service.UploadInput{}, false
	}
	return service.UploadInput{File: file, Filename: header.Filename, Size: header.Size}, true
}

func closeUpload(input service.UploadInput) {
	if closer, ok := input.File.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
}
