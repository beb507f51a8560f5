package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
)

// MockArtifactSink is a mock implementation of port.ArtifactSink.
type MockArtifactSink struct {
	mock.Mock
}

func (m *MockArtifactSink) Save(ctx context.Context, name, contentType string, body io.Reader) (string, error) {
	args := m.Called(ctx, name, contentType, body)
	return args.String(0), args.Error(1)
}
