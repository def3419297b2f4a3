// Package miniostore implements the object store on any S3-compatible
// backend via the MinIO client.
package miniostore

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"linewall/internal/pkg/errors"
	"linewall/internal/ports"
)

// Client is the subset of minio.Client the store needs; narrowed for
// mocking in tests.
type Client interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// Store implements ports.ObjectStore against an S3-compatible bucket.
// The bucket is expected to carry a public-read policy so published
// URLs resolve without credentials.
type Store struct {
	client        Client
	bucket        string
	publicBaseURL string
}

// New connects to the backend. Fails fast with NOT_CONFIGURED when
// credentials are absent rather than producing a client that errors on
// first use.
func New(endpoint, accessKey, secretKey, bucket string, useSSL bool, publicBaseURL string) (*Store, error) {
	if endpoint == "" || accessKey == "" || secretKey == "" {
		return nil, errors.NotConfigured("object storage")
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	if publicBaseURL == "" {
		scheme := "http"
		if useSSL {
			scheme = "https"
		}
		publicBaseURL = fmt.Sprintf("%s://%s/%s", scheme, endpoint, bucket)
	}

	return NewWithClient(client, bucket, publicBaseURL), nil
}

// NewWithClient wires an existing client; used by tests.
func NewWithClient(client Client, bucket, publicBaseURL string) *Store {
	return &Store{
		client:        client,
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

func (s *Store) Provider() string { return "minio" }

func (s *Store) PutObject(ctx context.Context, in ports.PutObjectInput) (ports.PutObjectOutput, error) {
	if in.ObjectKey == "" {
		return ports.PutObjectOutput{}, fmt.Errorf("object_key is required")
	}

	info, err := s.client.PutObject(ctx, s.bucket, in.ObjectKey, in.Reader, in.Size,
		minio.PutObjectOptions{ContentType: in.ContentType})
	if err != nil {
		return ports.PutObjectOutput{}, err
	}

	return ports.PutObjectOutput{ObjectKey: info.Key, Size: info.Size}, nil
}

func (s *Store) PublicURL(objectKey string) string {
	return s.publicBaseURL + "/" + strings.TrimLeft(objectKey, "/")
}
