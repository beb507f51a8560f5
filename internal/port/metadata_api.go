package port

import (
	"context"

	"exiflyzer/internal/domain"
)

// MetadataAPI is the client side of the metadata server: capability check,
// extract and strip-and-return.
type MetadataAPI interface {
	SystemCheck(ctx context.Context) (*domain.SystemStatus, error)
	Extract(ctx context.Context, file *domain.CandidateFile) (*domain.MetadataDocument, error)
	RemoveMetadata(ctx context.Context, file *domain.CandidateFile) (*domain.Artifact, error)
}
