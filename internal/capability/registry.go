// Package capability holds the server-advertised set of acceptable file
// extensions and the availability flag, fetched by a single probe.
package capability

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"exiflyzer/internal/domain"
	"exiflyzer/internal/logging"
)

// Prober issues the capability-check request.
type Prober interface {
	SystemCheck(ctx context.Context) (*domain.SystemStatus, error)
}

// Registry caches the most recent SystemStatus.
type Registry struct {
	prober Prober

	mu     sync.RWMutex
	status *domain.SystemStatus
}

// NewRegistry creates an empty registry. Nothing is loaded until Refresh.
func NewRegistry(prober Prober) *Registry {
	return &Registry{prober: prober}
}

// Refresh probes the server once. A transport failure is recorded as an error
// status with a diagnostic message; there is no automatic retry.
func (r *Registry) Refresh(ctx context.Context) *domain.SystemStatus {
	status, err := r.prober.SystemCheck(ctx)
	switch {
	case err != nil:
		logging.WithContext(ctx).Error("capability probe failed", zap.Error(err))
		status = &domain.SystemStatus{Status: domain.StatusError, Message: domain.MsgConnectFailed}
	case status == nil:
		status = &domain.SystemStatus{Status: domain.StatusError, Message: domain.MsgConnectFailed}
	case status.Status == domain.StatusOK:
		logging.WithContext(ctx).Debug("capability probe ok",
			zap.Strings("supported_extensions", status.SupportedExtensions),
			zap.String("exiftool_version", status.ExiftoolVersion))
	default:
		// Server-reported configuration failure; the message is kept verbatim.
		if status.Status != domain.StatusError {
			status.Status = domain.StatusError
		}
		logging.WithContext(ctx).Warn("metadata system reported error", zap.String("message", status.Message))
	}

	r.mu.Lock()
	r.status = status
	r.mu.Unlock()
	return status
}

// Status returns the loaded status, or nil before the first Refresh.
func (r *Registry) Status() *domain.SystemStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.status
}

// Loaded reports whether a probe has completed.
func (r *Registry) Loaded() bool {
	return r.Status() != nil
}

// Available reports whether uploads are allowed.
func (r *Registry) Available() bool {
	return r.Status().OK()
}

// Extensions returns the supported extensions in server order.
func (r *Registry) Extensions() []string {
	s := r.Status()
	if !s.OK() {
		return nil
	}
	out := make([]string, len(s.SupportedExtensions))
	copy(out, s.SupportedExtensions)
	return out
}
