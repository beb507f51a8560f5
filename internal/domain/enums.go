package domain

// Status values reported by the capability probe.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// ErrorKind classifies a workflow failure.
type ErrorKind string

const (
	KindSystemUnavailable ErrorKind = "system_unavailable"
	KindUnsupportedType   ErrorKind = "unsupported_type"
	KindExtractionFailed  ErrorKind = "extraction_failed"
	KindRemovalFailed     ErrorKind = "removal_failed"
)

// Sentinel returns the package error matching the kind.
func (k ErrorKind) Sentinel() error {
	switch k {
	case KindSystemUnavailable:
		return ErrSystemUnavailable
	case KindUnsupportedType:
		return ErrUnsupportedType
	case KindExtractionFailed:
		return ErrExtractionFailed
	case KindRemovalFailed:
		return ErrRemovalFailed
	default:
		return nil
	}
}

// Phase is a step of the upload lifecycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseValidating
	PhaseUploading
	PhaseReady
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseValidating:
		return "validating"
	case PhaseUploading:
		return "uploading"
	case PhaseReady:
		return "ready"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Fallback messages used when the server gives no reason.
const (
	MsgExtractionFallback = "Failed to process file"
	MsgRemovalFallback    = "Failed to remove metadata"
	MsgConnectFailed      = "Failed to connect to server"
	MsgNotReady           = "System is not ready yet"
)
