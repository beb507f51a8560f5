package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockMetadataExtractor is a mock implementation of port.MetadataExtractor.
type MockMetadataExtractor struct {
	mock.Mock
}

func (m *MockMetadataExtractor) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockMetadataExtractor) Version(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockMetadataExtractor) Extract(ctx context.Context, path string) (map[string]any, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

// MockMetadataStripper is a mock implementation of port.MetadataStripper.
type MockMetadataStripper struct {
	mock.Mock
}

func (m *MockMetadataStripper) Strip(ctx context.Context, src, dst string) error {
	args := m.Called(ctx, src, dst)
	return args.Error(0)
}
