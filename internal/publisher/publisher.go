// Package publisher turns rendered image buffers into publicly
// reachable objects.
package publisher

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"linewall/internal/pkg/errors"
	"linewall/internal/pkg/logger"
	"linewall/internal/ports"
)

const keyPrefix = "wallpapers"

// Publisher uploads encoded images to the object store under fresh,
// collision-free keys. Publishing the same bytes twice produces two
// distinct objects; nothing is deduplicated.
type Publisher struct {
	store ports.ObjectStore
	log   *logger.Logger
}

func New(store ports.ObjectStore, log *logger.Logger) *Publisher {
	return &Publisher{
		store: store,
		log:   log.WithComponent("publisher"),
	}
}

// Publish stores data verbatim and returns its public HTTPS location.
// Fails with UPLOAD_FAILED on any backend error.
func (p *Publisher) Publish(ctx context.Context, data []byte, contentType, namingHint string) (ports.PublishedAsset, error) {
	if len(data) == 0 {
		return ports.PublishedAsset{}, errors.Validation("image payload is empty")
	}

	key := ObjectKey(namingHint, contentType)

	out, err := p.store.PutObject(ctx, ports.PutObjectInput{
		ObjectKey:   key,
		ContentType: contentType,
		Reader:      bytes.NewReader(data),
		Size:        int64(len(data)),
	})
	if err != nil {
		return ports.PublishedAsset{}, errors.UploadFailed(err, "object store rejected upload").
			WithField("object_key", key).
			WithField("provider", p.store.Provider())
	}
	if out.Size != int64(len(data)) {
		return ports.PublishedAsset{}, errors.New(errors.CodeUploadFailed, "upload truncated").
			WithField("object_key", key).
			WithField("expected_size", len(data)).
			WithField("stored_size", out.Size)
	}

	asset := ports.PublishedAsset{
		URL:       p.store.PublicURL(out.ObjectKey),
		ObjectKey: out.ObjectKey,
	}

	p.log.FromContext(ctx).Info("object published",
		"object_key", asset.ObjectKey,
		"size", out.Size,
		"provider", p.store.Provider(),
	)
	return asset, nil
}

// ObjectKey derives a globally unique key from the naming hint: the
// hint plus a nanosecond timestamp plus a random tail, so concurrent
// requests for the same recipient never collide.
func ObjectKey(namingHint, contentType string) string {
	hint := sanitizeHint(namingHint)
	if hint == "" {
		hint = "wallpaper"
	}
	return fmt.Sprintf("%s/%s_%d_%s%s",
		keyPrefix, hint, time.Now().UnixNano(), uuid.NewString()[:8], extFor(contentType))
}

func sanitizeHint(hint string) string {
	var b strings.Builder
	for _, r := range hint {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), "_")
}

func extFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	default:
		return ".bin"
	}
}
