package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"exiflyzer/internal/domain"
)

// MockMetadataAPI is a mock implementation of port.MetadataAPI.
type MockMetadataAPI struct {
	mock.Mock
}

func (m *MockMetadataAPI) SystemCheck(ctx context.Context) (*domain.SystemStatus, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SystemStatus), args.Error(1)
}

func (m *MockMetadataAPI) Extract(ctx context.Context, file *domain.CandidateFile) (*domain.MetadataDocument, error) {
	args := m.Called(ctx, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MetadataDocument), args.Error(1)
}

func (m *MockMetadataAPI) RemoveMetadata(ctx context.Context, file *domain.CandidateFile) (*domain.Artifact, error) {
	args := m.Called(ctx, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Artifact), args.Error(1)
}
