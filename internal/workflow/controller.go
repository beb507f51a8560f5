// Package workflow drives one file through capability gating, metadata
// extraction and the strip-and-download flow.
package workflow

import (
	"bytes"
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"exiflyzer/internal/apiclient"
	"exiflyzer/internal/capability"
	"exiflyzer/internal/domain"
	"exiflyzer/internal/logging"
	"exiflyzer/internal/port"
	"exiflyzer/internal/validator"
)

// extraction is the file and document of the latest successful submission.
type extraction struct {
	file *domain.CandidateFile
	doc  *domain.MetadataDocument
}

// Controller owns the application state of a workflow session: the
// capability set, the current phase, the displayed document or error, and
// the file retained for stripping.
type Controller struct {
	api       port.MetadataAPI
	sink      port.ArtifactSink
	registry  *capability.Registry
	validator *validator.FileValidator

	mu        sync.Mutex
	phase     domain.Phase
	doc       *domain.MetadataDocument
	err       *domain.WorkflowError
	seq       uint64
	inflight  int // extraction requests still awaiting a response, superseded or not
	stripping bool
	retained  *extraction
}

// NewController creates a controller. Call Refresh before submitting files.
func NewController(api port.MetadataAPI, sink port.ArtifactSink) *Controller {
	registry := capability.NewRegistry(api)
	return &Controller{
		api:       api,
		sink:      sink,
		registry:  registry,
		validator: validator.New(registry),
		phase:     domain.PhaseIdle,
	}
}

// Refresh runs the capability probe.
func (c *Controller) Refresh(ctx context.Context) *domain.SystemStatus {
	return c.registry.Refresh(ctx)
}

// Registry exposes the capability registry.
func (c *Controller) Registry() *capability.Registry {
	return c.registry
}

// State returns a snapshot of the display state.
func (c *Controller) State() domain.WorkflowState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.WorkflowState{
		Phase:    c.phase,
		Document: c.doc,
		Err:      c.err,
		Busy:     c.busyLocked(),
	}
}

// Busy reports whether an extraction or strip is in flight. A superseded
// extraction counts until its response arrives.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busyLocked()
}

func (c *Controller) busyLocked() bool {
	return c.inflight > 0 || c.stripping
}

// Submit validates file and uploads it for extraction. A submission made
// while another is uploading supersedes it: the older call returns
// domain.ErrSuperseded when its response arrives and leaves state untouched.
// Submit is refused with domain.ErrBusy while a strip is running.
func (c *Controller) Submit(ctx context.Context, file *domain.CandidateFile) (*domain.MetadataDocument, error) {
	log := logging.WithContext(ctx)

	c.mu.Lock()
	if c.stripping {
		c.mu.Unlock()
		return nil, domain.ErrBusy
	}
	c.seq++
	seq := c.seq
	c.phase = domain.PhaseValidating
	c.doc = nil
	c.err = nil
	c.retained = nil

	// The validator also covers an unloaded or failed capability probe, so a
	// system error never reaches the network.
	if err := c.validator.Validate(file); err != nil {
		var werr *domain.WorkflowError
		if !errors.As(err, &werr) {
			werr = domain.NewWorkflowError(domain.KindUnsupportedType, err.Error(), err)
		}
		c.failLocked(werr)
		c.mu.Unlock()
		log.Info("file rejected", zap.String("file", file.Name), zap.String("reason", werr.Message))
		return nil, werr
	}
	c.phase = domain.PhaseUploading
	c.inflight++
	c.mu.Unlock()

	log.Info("uploading file", zap.String("file", file.Name), zap.Int64("size", file.Size), zap.Uint64("seq", seq))
	doc, err := c.api.Extract(ctx, file)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight--
	if seq != c.seq {
		log.Info("discarding stale extraction response", zap.String("file", file.Name), zap.Uint64("seq", seq))
		return nil, domain.ErrSuperseded
	}
	if err != nil {
		werr := domain.NewWorkflowError(domain.KindExtractionFailed, failureMessage(err, domain.MsgExtractionFallback), err)
		c.failLocked(werr)
		log.Warn("extraction failed", zap.String("file", file.Name), zap.Error(err))
		return nil, werr
	}
	if doc == nil {
		doc = &domain.MetadataDocument{}
	}

	c.phase = domain.PhaseReady
	c.doc = doc
	c.retained = &extraction{file: file, doc: doc}
	log.Info("metadata ready",
		zap.String("file", file.Name),
		zap.Int("categories", len(doc.Categories)),
		zap.Int("fields", doc.FieldCount()))
	return doc, nil
}

// StripAndDownload sends the retained file to the strip endpoint and saves
// the cleaned artifact as clean_<name>. file must be the reference passed to
// the last successful Submit, or nil for that same file. The displayed
// document is left as is, so it can be called repeatedly.
func (c *Controller) StripAndDownload(ctx context.Context, file *domain.CandidateFile) (*domain.DownloadResult, error) {
	log := logging.WithContext(ctx)

	c.mu.Lock()
	if c.busyLocked() {
		c.mu.Unlock()
		return nil, domain.ErrBusy
	}
	target := c.retained
	if target == nil || (file != nil && file != target.file) {
		c.mu.Unlock()
		return nil, domain.ErrNoExtraction
	}
	c.stripping = true
	c.mu.Unlock()

	result, err := c.stripAndSave(ctx, target.file)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.stripping = false
	if err != nil {
		// The extracted document stays on display next to the removal error.
		werr := domain.NewWorkflowError(domain.KindRemovalFailed, failureMessage(err, domain.MsgRemovalFallback), err)
		c.phase = domain.PhaseFailed
		c.doc = target.doc
		c.err = werr
		log.Warn("metadata removal failed", zap.String("file", target.file.Name), zap.Error(err))
		return nil, werr
	}

	// Clears a previous removal failure.
	c.phase = domain.PhaseReady
	c.doc = target.doc
	c.err = nil
	log.Info("clean copy saved",
		zap.String("file", result.Filename),
		zap.String("location", result.Location),
		zap.Int64("bytes", result.Bytes))
	return result, nil
}

func (c *Controller) stripAndSave(ctx context.Context, file *domain.CandidateFile) (*domain.DownloadResult, error) {
	artifact, err := c.api.RemoveMetadata(ctx, file)
	if err != nil {
		return nil, err
	}
	location, err := c.sink.Save(ctx, artifact.Filename, artifact.ContentType, bytes.NewReader(artifact.Body))
	if err != nil {
		return nil, err
	}
	return &domain.DownloadResult{
		Filename: artifact.Filename,
		Location: location,
		Bytes:    int64(len(artifact.Body)),
	}, nil
}

// failLocked moves to Failed and drops the displayed document.
func (c *Controller) failLocked(werr *domain.WorkflowError) {
	c.phase = domain.PhaseFailed
	c.doc = nil
	c.err = werr
}

// failureMessage returns the server-supplied reason, or fallback for
// transport and decoding failures.
func failureMessage(err error, fallback string) string {
	var serverErr *apiclient.ServerError
	if errors.As(err, &serverErr) && serverErr.Message != "" {
		return serverErr.Message
	}
	return fallback
}
