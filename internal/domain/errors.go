package domain

import "errors"

var (
	// Workflow failure kinds. A WorkflowError matches the sentinel of its kind via errors.Is.
	ErrSystemUnavailable = errors.New("metadata system unavailable")
	ErrUnsupportedType   = errors.New("unsupported file type")
	ErrExtractionFailed  = errors.New("metadata extraction failed")
	ErrRemovalFailed     = errors.New("metadata removal failed")

	ErrNoExtraction = errors.New("no successful extraction for this file")
	ErrBusy         = errors.New("another operation is in progress")
	ErrSuperseded   = errors.New("response superseded by a newer submission")

	// Server-side intake and tooling errors.
	ErrMissingFile         = errors.New("no file provided")
	ErrUnsupportedFileType = errors.New("file type not supported")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrToolNotFound        = errors.New("extraction tool not found")
	ErrToolFailed          = errors.New("extraction tool failed")
	ErrNoMetadata          = errors.New("no metadata found in file")
	ErrStripUnsupported    = errors.New("metadata removal not supported for this file type")
)

// WorkflowError is the single user-visible failure of a workflow pass.
type WorkflowError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// NewWorkflowError creates a WorkflowError of the given kind.
func NewWorkflowError(kind ErrorKind, msg string, cause error) *WorkflowError {
	return &WorkflowError{Kind: kind, Message: msg, Err: cause}
}

func (e *WorkflowError) Error() string {
	return e.Message
}

func (e *WorkflowError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for this error's kind.
func (e *WorkflowError) Is(target error) bool {
	return target == e.Kind.Sentinel()
}
