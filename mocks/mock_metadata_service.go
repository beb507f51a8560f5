package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"exiflyzer/internal/domain"
	"exiflyzer/internal/service"
)

// MockMetadataService is a mock implementation of service.MetadataService.
type MockMetadataService struct {
	mock.Mock
}

func (m *MockMetadataService) SystemCheck(ctx context.Context) (*domain.SystemStatus, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SystemStatus), args.Error(1)
}

func (m *MockMetadataService) SupportedTypes() *domain.SupportedTypes {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*domain.SupportedTypes)
}

func (m *MockMetadataService) Extract(ctx context.Context, input service.UploadInput) (*service.ExtractResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExtractResult), args.Error(1)
}

func (m *MockMetadataService) Strip(ctx context.Context, input service.UploadInput) (*domain.Artifact, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Artifact), args.Error(1)
}
