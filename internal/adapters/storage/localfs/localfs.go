package localfs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"linewall/internal/ports"
)

// LocalFS implements ports.ObjectStore on the local filesystem.
// Objects land under a root directory; the API serves that root so
// published URLs resolve. Meant for development, not production.
type LocalFS struct {
	root          string
	publicBaseURL string
}

func New(root, publicBaseURL string) *LocalFS {
	return &LocalFS{
		root:          root,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

func (l *LocalFS) Provider() string { return "localfs" }

// Root returns the directory objects are written under.
func (l *LocalFS) Root() string { return l.root }

func (l *LocalFS) PutObject(ctx context.Context, in ports.PutObjectInput) (ports.PutObjectOutput, error) {
	if in.ObjectKey == "" {
		return ports.PutObjectOutput{}, fmt.Errorf("object_key is required")
	}
	if err := ctx.Err(); err != nil {
		return ports.PutObjectOutput{}, err
	}

	dst := filepath.Join(l.root, filepath.FromSlash(in.ObjectKey))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return ports.PutObjectOutput{}, err
	}

	outF, err := os.Create(dst)
	if err != nil {
		return ports.PutObjectOutput{}, err
	}
	defer outF.Close()

	n, err := io.Copy(outF, in.Reader)
	if err != nil {
		return ports.PutObjectOutput{}, err
	}

	return ports.PutObjectOutput{ObjectKey: in.ObjectKey, Size: n}, nil
}

func (l *LocalFS) PublicURL(objectKey string) string {
	return l.publicBaseURL + "/" + strings.TrimLeft(objectKey, "/")
}
