package port

import "context"

// MetadataExtractor reads embedded metadata from a file on disk as a flat
// tag -> value map.
type MetadataExtractor interface {
	Name() string
	Version(ctx context.Context) (string, error)
	Extract(ctx context.Context, path string) (map[string]any, error)
}

// MetadataStripper writes a metadata-free copy of src to dst.
type MetadataStripper interface {
	Strip(ctx context.Context, src, dst string) error
}
