// Package apiclient talks to the metadata server's capability, extract and
// strip endpoints.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"exiflyzer/internal/domain"
	"exiflyzer/internal/logging"
)

// ServerError is a failure reported by the server with a non-success status
// or a false success flag. Message is empty when the server gave no reason.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// ErrMalformedResponse marks a response body that could not be decoded.
var ErrMalformedResponse = errors.New("malformed response body")

// Client is an HTTP client for the metadata server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Config holds client configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// New creates a new client.
func New(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        10,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
	}
}

// NewWithHTTPClient creates a client over an existing http.Client.
func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	return &Client{baseURL: baseURL, httpClient: hc}
}

type extractResponse struct {
	Success  bool                    `json:"success"`
	Metadata domain.MetadataDocument `json:"metadata"`
	Error    string                  `json:"error"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// SystemCheck fetches the capability set. An error status reported by the
// server (even with a 4xx/5xx code) is returned as a status, not an error.
func (c *Client) SystemCheck(ctx context.Context) (*domain.SystemStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/system-check", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var status domain.SystemStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil || status.Status == "" {
		if resp.StatusCode >= 300 {
			return nil, &ServerError{StatusCode: resp.StatusCode}
		}
		return nil, fmt.Errorf("system check: %w", ErrMalformedResponse)
	}
	return &status, nil
}

// SupportedTypes fetches the server's intake policy.
func (c *Client) SupportedTypes(ctx context.Context) (*domain.SupportedTypes, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/supported-types", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ServerError{StatusCode: resp.StatusCode}
	}
	var types domain.SupportedTypes
	if err := json.NewDecoder(resp.Body).Decode(&types); err != nil {
		return nil, fmt.Errorf("supported types: %w", ErrMalformedResponse)
	}
	return &types, nil
}

// Extract uploads the file to /upload and returns the categorized metadata.
func (c *Client) Extract(ctx context.Context, file *domain.CandidateFile) (*domain.MetadataDocument, error) {
	resp, err := c.postFile(ctx, "/upload", file)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var body extractResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, &ServerError{StatusCode: resp.StatusCode}
		}
		return nil, fmt.Errorf("extract: %w: %v", ErrMalformedResponse, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !body.Success {
		return nil, &ServerError{StatusCode: resp.StatusCode, Message: body.Error}
	}

	logging.WithContext(ctx).Debug("metadata received",
		zap.String("file", file.Name),
		zap.Int("categories", len(body.Metadata.Categories)),
		zap.Int("fields", body.Metadata.FieldCount()))
	return &body.Metadata, nil
}

// RemoveMetadata sends the file to /remove-metadata and returns the cleaned
// binary.
func (c *Client) RemoveMetadata(ctx context.Context, file *domain.CandidateFile) (*domain.Artifact, error) {
	resp, err := c.postFile(ctx, "/remove-metadata", file)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var body errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return nil, &ServerError{StatusCode: resp.StatusCode, Message: body.Error}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading cleaned file: %w", err)
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return &domain.Artifact{
		Filename:    file.CleanName(),
		ContentType: contentType,
		Body:        data,
	}, nil
}

// postFile sends the file as multipart field "file".
func (c *Client) postFile(ctx context.Context, path string, file *domain.CandidateFile) (*http.Response, error) {
	payload, contentType, err := multipartPayload(file)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, payload)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json, application/octet-stream")

	logging.WithContext(ctx).Debug("sending file",
		zap.String("path", path),
		zap.String("file", file.Name),
		zap.Int64("size", file.Size))

	return c.httpClient.Do(req)
}

func multipartPayload(file *domain.CandidateFile) (*bytes.Buffer, string, error) {
	src, err := file.Open()
	if err != nil {
		return nil, "", fmt.Errorf("opening %s: %w", file.Name, err)
	}
	defer src.Close()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", file.Name)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, src); err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", file.Name, err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return body, writer.FormDataContentType(), nil
}
