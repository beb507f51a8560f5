// Package validator gates every workflow action on the advertised capability set.
package validator

import (
	"fmt"
	"strings"

	"exiflyzer/internal/domain"
)

// StatusSource exposes the loaded SystemStatus (nil before the probe).
type StatusSource interface {
	Status() *domain.SystemStatus
}

// FileValidator checks candidate files against the capability set.
type FileValidator struct {
	source StatusSource
}

// New creates a FileValidator reading from source.
func New(source StatusSource) *FileValidator {
	return &FileValidator{source: source}
}

// Validate returns nil when the file may be submitted, otherwise a
// *domain.WorkflowError describing the rejection. It has no side effects.
func (v *FileValidator) Validate(file *domain.CandidateFile) error {
	status := v.source.Status()
	if status == nil {
		return domain.NewWorkflowError(domain.KindSystemUnavailable, domain.MsgNotReady, nil)
	}
	if !status.OK() {
		return domain.NewWorkflowError(domain.KindSystemUnavailable, status.Message, nil)
	}

	ext := file.Extension()
	if !file.HasDot() || !status.Supports(ext) {
		return domain.NewWorkflowError(domain.KindUnsupportedType, UnsupportedMessage(ext, status.SupportedExtensions), nil)
	}
	return nil
}

// UnsupportedMessage lists every supported extension so the user can pick
// another file.
func UnsupportedMessage(ext string, supported []string) string {
	return fmt.Sprintf("File type .%s is not supported. Supported types: %s", ext, strings.Join(supported, ", "))
}
