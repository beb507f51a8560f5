package domain_test

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exiflyzer/internal/domain"
)

func TestMetadataDocument_UnmarshalKeepsOrder(t *testing.T) {
	body := `{"image":{"ImageWidth":640,"ImageHeight":480},"basic":{"FileName":"a.jpg","FileSize":"2048"},"xmp":{"XMPToolkit":{"b":1,"a":[1,2]}}}`

	var doc domain.MetadataDocument
	require.NoError(t, json.Unmarshal([]byte(body), &doc))

	require.Len(t, doc.Categories, 3)
	assert.Equal(t, "image", doc.Categories[0].Name)
	assert.Equal(t, "basic", doc.Categories[1].Name)
	assert.Equal(t, "xmp", doc.Categories[2].Name)

	assert.Equal(t, "ImageWidth", doc.Categories[0].Fields[0].Name)
	assert.Equal(t, json.Number("640"), doc.Categories[0].Fields[0].Value)
	assert.Equal(t, "2048", doc.Categories[1].Fields[1].Value)

	nested, ok := doc.Categories[2].Fields[0].Value.(json.RawMessage)
	require.True(t, ok)
	assert.JSONEq(t, `{"b":1,"a":[1,2]}`, string(nested))
	assert.Equal(t, 5, doc.FieldCount())
}

func TestMetadataDocument_MarshalRoundTripPreservesOrder(t *testing.T) {
	var doc domain.MetadataDocument
	doc.Add("gps", "GPSLatitude", json.Number("41.0082"))
	doc.Add("basic", "FileName", "photo.jpg")
	doc.Add("gps", "GPSLongitude", json.Number("28.9784"))

	out, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.Equal(t, `{"gps":{"GPSLatitude":41.0082,"GPSLongitude":28.9784},"basic":{"FileName":"photo.jpg"}}`, string(out))

	var back domain.MetadataDocument
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, doc, back)
}

func TestMetadataDocument_MarshalKeepsHTMLCharacters(t *testing.T) {
	var doc domain.MetadataDocument
	doc.Add("other", "Comment", "<a&b>")

	out, err := doc.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"other":{"Comment":"<a&b>"}}`, string(out))
}

func TestMetadataDocument_NullAndMalformed(t *testing.T) {
	var doc domain.MetadataDocument
	require.NoError(t, json.Unmarshal([]byte(`null`), &doc))
	assert.Empty(t, doc.Categories)

	assert.Error(t, json.Unmarshal([]byte(`{"basic":"oops"}`), &doc))
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &doc))
}

func TestMetadataDocument_CategoryLookup(t *testing.T) {
	var doc domain.MetadataDocument
	doc.Add("basic", "FileType", "JPEG")

	c, ok := doc.Category("basic")
	require.True(t, ok)
	v, ok := c.Get("FileType")
	assert.True(t, ok)
	assert.Equal(t, "JPEG", v)

	_, ok = c.Get("Missing")
	assert.False(t, ok)
	_, ok = doc.Category("pdf")
	assert.False(t, ok)
}

func TestCandidateFile_Extension(t *testing.T) {
	tests := []struct {
		name   string
		ext    string
		hasDot bool
	}{
		{"photo.JPG", "jpg", true},
		{"archive.tar.gz", "gz", true},
		{"README", "readme", false},
		{"trailing.", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := domain.CandidateFromBytes(tt.name, nil)
			assert.Equal(t, tt.ext, f.Extension())
			assert.Equal(t, tt.hasDot, f.HasDot())
		})
	}
}

func TestCandidateFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o600))

	f, err := domain.CandidateFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "scan.pdf", f.Name)
	assert.Equal(t, int64(8), f.Size)
	assert.Equal(t, "clean_scan.pdf", f.CleanName())

	// Content can be read more than once.
	for i := 0; i < 2; i++ {
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		assert.Equal(t, "%PDF-1.4", string(data))
	}

	_, err = domain.CandidateFromPath(filepath.Join(t.TempDir(), "missing.jpg"))
	assert.Error(t, err)
}

func TestWorkflowError_MatchesKindSentinel(t *testing.T) {
	cause := errors.New("connection refused")
	err := domain.NewWorkflowError(domain.KindExtractionFailed, "Failed to process file", cause)

	assert.True(t, errors.Is(err, domain.ErrExtractionFailed))
	assert.False(t, errors.Is(err, domain.ErrRemovalFailed))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "Failed to process file", err.Error())
}

func TestSystemStatus_Supports(t *testing.T) {
	s := &domain.SystemStatus{Status: domain.StatusOK, SupportedExtensions: []string{"JPG", "png"}}
	assert.True(t, s.OK())
	assert.True(t, s.Supports("jpg"))
	assert.False(t, s.Supports("gif"))

	var missing *domain.SystemStatus
	assert.False(t, missing.OK())
	assert.False(t, missing.Supports("jpg"))
}
