package port

import (
	"context"
	"io"
)

// ArtifactSink saves a downloaded artifact under a file name and returns
// where it ended up (a path or URL).
type ArtifactSink interface {
	Save(ctx context.Context, name, contentType string, body io.Reader) (string, error)
}
