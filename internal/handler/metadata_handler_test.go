package handler_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"exiflyzer/internal/domain"
	"exiflyzer/internal/handler"
	"exiflyzer/internal/service"
	"exiflyzer/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func multipartRequest(t *testing.T, path, filename string, content []byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, _ = part.Write(content)
	require.NoError(t, writer.Close())

	req, _ := http.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestMetadataHandler_SystemCheck(t *testing.T) {
	tests := []struct {
		name       string
		status     *domain.SystemStatus
		err        error
		wantCode   int
		wantStatus string
		wantMsg    string
	}{
		{
			name:       "ok",
			status:     &domain.SystemStatus{Status: domain.StatusOK, ExiftoolVersion: "12.76", SupportedExtensions: []string{"jpg"}},
			wantCode:   http.StatusOK,
			wantStatus: "ok",
		},
		{
			name:       "tool missing",
			err:        domain.ErrToolNotFound,
			wantCode:   http.StatusNotFound,
			wantStatus: "error",
			wantMsg:    "ExifTool not found",
		},
		{
			name:       "tool error",
			err:        errors.New("exit status 2"),
			wantCode:   http.StatusInternalServerError,
			wantStatus: "error",
			wantMsg:    "ExifTool error: exit status 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mocks.MockMetadataService)
			h := handler.NewMetadataHandler(svc)
			if tt.err != nil {
				svc.On("SystemCheck", mock.Anything).Return(nil, tt.err)
			} else {
				svc.On("SystemCheck", mock.Anything).Return(tt.status, nil)
			}

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request, _ = http.NewRequest(http.MethodGet, "/system-check", http.NoBody)

			h.SystemCheck(c)

			assert.Equal(t, tt.wantCode, w.Code)
			body := decodeBody(t, w)
			assert.Equal(t, tt.wantStatus, body["status"])
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, body["message"])
			} else {
				assert.Equal(t, "12.76", body["exiftool_version"])
				assert.Equal(t, []any{"jpg"}, body["supported_extensions"])
			}
		})
	}
}

func TestMetadataHandler_SupportedTypes(t *testing.T) {
	svc := new(mocks.MockMetadataService)
	h := handler.NewMetadataHandler(svc)
	svc.On("SupportedTypes").Return(&domain.SupportedTypes{SupportedExtensions: []string{"jpg", "png"}, MaxFileSizeMB: 100})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/supported-types", http.NoBody)

	h.SupportedTypes(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"supported_extensions":["jpg","png"],"max_file_size_mb":100}`, w.Body.String())
}

func TestMetadataHandler_Upload_Success(t *testing.T) {
	svc := new(mocks.MockMetadataService)
	h := handler.NewMetadataHandler(svc)

	doc := &domain.MetadataDocument{}
	doc.Add("basic", "FileName", "photo.jpg")
	doc.Add("camera", "Make", "Canon")
	svc.On("Extract", mock.Anything, mock.MatchedBy(func(in service.UploadInput) bool {
		return in.Filename == "photo.jpg" && in.Size == 4
	})).Return(&service.ExtractResult{Metadata: doc, Raw: map[string]any{"Make": "Canon"}}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = multipartRequest(t, "/upload", "photo.jpg", []byte("jpeg"))

	h.Upload(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t,
		`{"success":true,"metadata":{"basic":{"FileName":"photo.jpg"},"camera":{"Make":"Canon"}},"raw_metadata":{"Make":"Canon"}}`,
		w.Body.String())
	assert.Less(t, bytes.Index(w.Body.Bytes(), []byte(`"basic"`)), bytes.Index(w.Body.Bytes(), []byte(`"camera"`)))
	svc.AssertExpectations(t)
}

func TestMetadataHandler_Upload_NoFile(t *testing.T) {
	svc := new(mocks.MockMetadataService)
	h := handler.NewMetadataHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/upload", http.NoBody)

	h.Upload(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "No file provided", body["error"])
	svc.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
}

func TestMetadataHandler_Upload_Unsupported(t *testing.T) {
	svc := new(mocks.MockMetadataService)
	h := handler.NewMetadataHandler(svc)
	svc.On("Extract", mock.Anything, mock.Anything).Return(nil, domain.ErrUnsupportedFileType)
	svc.On("SupportedTypes").Return(&domain.SupportedTypes{SupportedExtensions: []string{"jpg", "png"}})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = multipartRequest(t, "/upload", "notes.TXT", []byte("hello"))

	h.Upload(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "File type not supported", body["error"])
	assert.Equal(t, "txt", body["received_type"])
	assert.Equal(t, []any{"jpg", "png"}, body["supported_types"])
}

func TestMetadataHandler_Upload_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"no metadata", domain.ErrNoMetadata, http.StatusNotFound, "No metadata found in file"},
		{"too large", domain.ErrFileTooLarge, http.StatusRequestEntityTooLarge, "File exceeds maximum allowed size"},
		{"tool failure", errors.New("exiftool crashed"), http.StatusInternalServerError, "Failed to process file: exiftool crashed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mocks.MockMetadataService)
			h := handler.NewMetadataHandler(svc)
			svc.On("Extract", mock.Anything, mock.Anything).Return(nil, tt.err)

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = multipartRequest(t, "/upload", "photo.jpg", []byte("jpeg"))

			h.Upload(c)

			assert.Equal(t, tt.wantCode, w.Code)
			body := decodeBody(t, w)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.wantMsg, body["error"])
		})
	}
}

func TestMetadataHandler_RemoveMetadata_Success(t *testing.T) {
	svc := new(mocks.MockMetadataService)
	h := handler.NewMetadataHandler(svc)
	svc.On("Strip", mock.Anything, mock.Anything).Return(&domain.Artifact{
		Filename:    "clean_photo.jpg",
		ContentType: "image/jpeg",
		Body:        []byte("clean-bytes"),
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = multipartRequest(t, "/remove-metadata", "photo.jpg", []byte("jpeg"))

	h.RemoveMetadata(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/jpeg", w.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=clean_photo.jpg", w.Header().Get("Content-Disposition"))
	assert.Equal(t, "clean-bytes", w.Body.String())
}

func TestMetadataHandler_RemoveMetadata_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"invalid type", domain.ErrUnsupportedFileType, http.StatusBadRequest, "Invalid file type"},
		{"strip failure", errors.New("write failed"), http.StatusInternalServerError, "Failed to remove metadata: write failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mocks.MockMetadataService)
			h := handler.NewMetadataHandler(svc)
			svc.On("Strip", mock.Anything, mock.Anything).Return(nil, tt.err)

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = multipartRequest(t, "/remove-metadata", "photo.jpg", []byte("jpeg"))

			h.RemoveMetadata(c)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, tt.wantMsg, decodeBody(t, w)["error"])
		})
	}
}

func TestHealthHandler(t *testing.T) {
	svc := new(mocks.MockMetadataService)
	h := handler.NewHealthHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/healthz", http.NoBody)
	h.Liveness(c)
	assert.Equal(t, http.StatusOK, w.Code)

	svc.On("SystemCheck", mock.Anything).Return(nil, domain.ErrToolNotFound).Once()
	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/readyz", http.NoBody)
	h.Readiness(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	svc.On("SystemCheck", mock.Anything).Return(&domain.SystemStatus{Status: domain.StatusOK}, nil).Once()
	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/readyz", http.NoBody)
	h.Readiness(c)
	assert.Equal(t, http.StatusOK, w.Code)
}
