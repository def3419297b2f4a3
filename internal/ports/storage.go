package ports

import (
	"context"
	"io"
)

type PutObjectInput struct {
	ObjectKey   string
	ContentType string
	Reader      io.Reader
	Size        int64
}

type PutObjectOutput struct {
	ObjectKey string
	Size      int64
}

// PublishedAsset is a stored object reachable over public HTTPS.
type PublishedAsset struct {
	URL       string `json:"url"`
	ObjectKey string `json:"object_key"`
}

// ObjectStore abstracts the storage backend (minio, localfs, ...).
// Objects written through it are public-read; PublicURL must return a
// URL that dereferences without credentials.
type ObjectStore interface {
	Provider() string

	PutObject(ctx context.Context, in PutObjectInput) (PutObjectOutput, error)
	PublicURL(objectKey string) string
}
