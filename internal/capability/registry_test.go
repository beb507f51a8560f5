package capability_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"exiflyzer/internal/capability"
	"exiflyzer/internal/domain"
	"exiflyzer/mocks"
)

func TestRegistry_NotLoadedBeforeRefresh(t *testing.T) {
	r := capability.NewRegistry(new(mocks.MockMetadataAPI))

	assert.False(t, r.Loaded())
	assert.False(t, r.Available())
	assert.Nil(t, r.Status())
	assert.Nil(t, r.Extensions())
}

func TestRegistry_Refresh_OK(t *testing.T) {
	api := new(mocks.MockMetadataAPI)
	api.On("SystemCheck", mock.Anything).Return(&domain.SystemStatus{
		Status:              domain.StatusOK,
		SupportedExtensions: []string{"jpg", "png", "pdf"},
	}, nil).Once()

	r := capability.NewRegistry(api)
	status := r.Refresh(context.Background())

	assert.True(t, status.OK())
	assert.True(t, r.Loaded())
	assert.True(t, r.Available())
	assert.Equal(t, []string{"jpg", "png", "pdf"}, r.Extensions())
	api.AssertExpectations(t)
}

func TestRegistry_Refresh_ServerReportedError(t *testing.T) {
	api := new(mocks.MockMetadataAPI)
	api.On("SystemCheck", mock.Anything).Return(&domain.SystemStatus{
		Status:  domain.StatusError,
		Message: "ExifTool not found",
	}, nil)

	r := capability.NewRegistry(api)
	status := r.Refresh(context.Background())

	assert.False(t, status.OK())
	assert.Equal(t, "ExifTool not found", status.Message)
	assert.True(t, r.Loaded())
	assert.False(t, r.Available())
	assert.Nil(t, r.Extensions())
}

func TestRegistry_Refresh_TransportFailure(t *testing.T) {
	api := new(mocks.MockMetadataAPI)
	api.On("SystemCheck", mock.Anything).Return(nil, errors.New("dial tcp: connection refused")).Once()

	r := capability.NewRegistry(api)
	status := r.Refresh(context.Background())

	assert.Equal(t, domain.StatusError, status.Status)
	assert.Equal(t, domain.MsgConnectFailed, status.Message)
	assert.False(t, r.Available())
	// No automatic retry.
	api.AssertNumberOfCalls(t, "SystemCheck", 1)
}

func TestRegistry_Refresh_UnknownStatusIsError(t *testing.T) {
	api := new(mocks.MockMetadataAPI)
	api.On("SystemCheck", mock.Anything).Return(&domain.SystemStatus{Status: "degraded", Message: "partial"}, nil)

	r := capability.NewRegistry(api)
	status := r.Refresh(context.Background())

	assert.Equal(t, domain.StatusError, status.Status)
	assert.Equal(t, "partial", status.Message)
}
