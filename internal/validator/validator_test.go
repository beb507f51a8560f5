package validator_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exiflyzer/internal/domain"
	"exiflyzer/internal/validator"
)

type staticStatus struct {
	status *domain.SystemStatus
}

func (s staticStatus) Status() *domain.SystemStatus { return s.status }

func okStatus(exts ...string) staticStatus {
	return staticStatus{status: &domain.SystemStatus{Status: domain.StatusOK, SupportedExtensions: exts}}
}

func TestValidate_AcceptsCaseInsensitive(t *testing.T) {
	v := validator.New(okStatus("jpg", "png", "pdf"))
	assert.NoError(t, v.Validate(domain.CandidateFromBytes("photo.JPG", nil)))
	assert.NoError(t, v.Validate(domain.CandidateFromBytes("scan.v2.Pdf", nil)))
}

func TestValidate_RejectsUnsupportedWithFullList(t *testing.T) {
	v := validator.New(okStatus("jpg", "png", "pdf"))

	err := v.Validate(domain.CandidateFromBytes("notes.docx", nil))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnsupportedType))
	assert.Equal(t, "File type .docx is not supported. Supported types: jpg, png, pdf", err.Error())
}

func TestValidate_NoDotAlwaysRejected(t *testing.T) {
	// Even when the bare name equals a supported extension.
	v := validator.New(okStatus("jpg", "png", "pdf"))

	for _, name := range []string{"pdf", "README", ""} {
		err := v.Validate(domain.CandidateFromBytes(name, nil))
		assert.True(t, errors.Is(err, domain.ErrUnsupportedType), name)
	}
}

func TestValidate_NotReady(t *testing.T) {
	v := validator.New(staticStatus{})

	err := v.Validate(domain.CandidateFromBytes("photo.jpg", nil))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrSystemUnavailable))
	assert.Equal(t, domain.MsgNotReady, err.Error())
}

func TestValidate_SystemErrorBlocksEverything(t *testing.T) {
	v := validator.New(staticStatus{status: &domain.SystemStatus{Status: domain.StatusError, Message: "tool not found"}})

	err := v.Validate(domain.CandidateFromBytes("photo.jpg", nil))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrSystemUnavailable))
	assert.Equal(t, "tool not found", err.Error())
}

func TestValidate_Property(t *testing.T) {
	supported := []string{"jpg", "png", "pdf", "heic"}
	v := validator.New(okStatus(supported...))

	names := []string{
		"a.jpg", "a.JPG", "a.b.png", ".pdf", "a.", "a.jpeg", "a.pdf.exe",
		"heic", "x.HeIc", "no_extension", "a.tar.gz", "..png",
	}
	for _, name := range names {
		f := domain.CandidateFromBytes(name, nil)
		want := false
		if f.HasDot() {
			for _, s := range supported {
				if s == f.Extension() {
					want = true
				}
			}
		}
		assert.Equal(t, want, v.Validate(f) == nil, name)
	}
}
