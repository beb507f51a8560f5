package domain

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// SystemStatus is the result of the capability probe.
type SystemStatus struct {
	Status              string   `json:"status"`
	Message             string   `json:"message,omitempty"`
	SupportedExtensions []string `json:"supported_extensions,omitempty"`
	ExiftoolVersion     string   `json:"exiftool_version,omitempty"`
}

// OK reports whether the server is usable.
func (s *SystemStatus) OK() bool {
	return s != nil && s.Status == StatusOK
}

// Supports reports whether ext (lower-case, no dot) is advertised.
func (s *SystemStatus) Supports(ext string) bool {
	if s == nil {
		return false
	}
	for _, e := range s.SupportedExtensions {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}

// SupportedTypes is the server's intake policy.
type SupportedTypes struct {
	SupportedExtensions []string `json:"supported_extensions"`
	MaxFileSizeMB       int64    `json:"max_file_size_mb"`
}

// CandidateFile is user-selected content for one workflow pass.
// The pointer identity is the file reference: strip requests must reuse the
// same *CandidateFile that was extracted.
type CandidateFile struct {
	Name string
	Size int64
	open func() (io.ReadCloser, error)
}

// NewCandidateFile wraps content that can be opened repeatedly.
func NewCandidateFile(name string, size int64, open func() (io.ReadCloser, error)) *CandidateFile {
	return &CandidateFile{Name: name, Size: size, open: open}
}

// CandidateFromBytes builds an in-memory candidate.
func CandidateFromBytes(name string, data []byte) *CandidateFile {
	return NewCandidateFile(name, int64(len(data)), func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	})
}

// CandidateFromPath builds a candidate backed by a file on disk.
func CandidateFromPath(path string) (*CandidateFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	return NewCandidateFile(filepath.Base(path), info.Size(), func() (io.ReadCloser, error) {
		return os.Open(path)
	}), nil
}

// Open returns a fresh reader over the content.
func (f *CandidateFile) Open() (io.ReadCloser, error) {
	return f.open()
}

// Extension returns the lower-cased suffix after the final dot, or the whole
// lower-cased name when there is no dot.
func (f *CandidateFile) Extension() string {
	name := strings.ToLower(f.Name)
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:]
	}
	return name
}

// HasDot reports whether the name carries an extension separator at all.
func (f *CandidateFile) HasDot() bool {
	return strings.Contains(f.Name, ".")
}

// CleanName is the download name of the stripped copy.
func (f *CandidateFile) CleanName() string {
	return "clean_" + f.Name
}

// Artifact is a binary body returned by the strip endpoint.
type Artifact struct {
	Filename    string
	ContentType string
	Body        []byte
}

// DownloadResult describes a saved clean copy.
type DownloadResult struct {
	Filename string
	Location string
	Bytes    int64
}

// WorkflowState is a snapshot of the controller's display state.
// Document and Err are only both set after a failed removal, when the
// extracted document is still shown.
type WorkflowState struct {
	Phase    Phase
	Document *MetadataDocument
	Err      *WorkflowError
	Busy     bool
}
