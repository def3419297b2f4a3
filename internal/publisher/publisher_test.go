package publisher

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"linewall/internal/pkg/errors"
	"linewall/internal/pkg/logger"
	"linewall/internal/ports"
)

type fakeStore struct {
	calls   int
	keys    []string
	bodies  [][]byte
	putErr  error
	shortBy int64
}

func (f *fakeStore) Provider() string { return "fake" }

func (f *fakeStore) PutObject(ctx context.Context, in ports.PutObjectInput) (ports.PutObjectOutput, error) {
	f.calls++
	f.keys = append(f.keys, in.ObjectKey)
	body, _ := io.ReadAll(in.Reader)
	f.bodies = append(f.bodies, body)
	if f.putErr != nil {
		return ports.PutObjectOutput{}, f.putErr
	}
	return ports.PutObjectOutput{ObjectKey: in.ObjectKey, Size: int64(len(body)) - f.shortBy}, nil
}

func (f *fakeStore) PublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: "json", Output: io.Discard})
}

func TestPublishReturnsPublicAsset(t *testing.T) {
	store := &fakeStore{}
	p := New(store, testLogger())

	asset, err := p.Publish(context.Background(), []byte{0xFF, 0xD8, 0x01}, "image/jpeg", "wallpaper_U123")
	if err != nil {
		t.Fatalf("Publish error: %v", err)
	}

	if !strings.HasPrefix(asset.URL, "https://cdn.example.com/wallpapers/wallpaper_U123_") {
		t.Errorf("unexpected URL %s", asset.URL)
	}
	if !strings.HasSuffix(asset.ObjectKey, ".jpg") {
		t.Errorf("expected .jpg key, got %s", asset.ObjectKey)
	}
	if store.calls != 1 {
		t.Errorf("expected 1 upload, got %d", store.calls)
	}
	if string(store.bodies[0]) != string([]byte{0xFF, 0xD8, 0x01}) {
		t.Error("bytes not uploaded verbatim")
	}
}

func TestPublishSameBytesTwiceYieldsDistinctKeys(t *testing.T) {
	store := &fakeStore{}
	p := New(store, testLogger())

	data := []byte("identical")
	a1, err := p.Publish(context.Background(), data, "image/jpeg", "hint")
	if err != nil {
		t.Fatal(err)
	}
	a2, err := p.Publish(context.Background(), data, "image/jpeg", "hint")
	if err != nil {
		t.Fatal(err)
	}

	if a1.ObjectKey == a2.ObjectKey {
		t.Error("repeated publishes must not share an object key")
	}
	if a1.URL == a2.URL {
		t.Error("repeated publishes must not share a URL")
	}
	// Both objects carry the same content.
	if string(store.bodies[0]) != string(store.bodies[1]) {
		t.Error("both uploads should carry identical bytes")
	}
}

func TestPublishBackendError(t *testing.T) {
	store := &fakeStore{putErr: fmt.Errorf("quota exceeded")}
	p := New(store, testLogger())

	_, err := p.Publish(context.Background(), []byte("x"), "image/jpeg", "hint")
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.GetCode(err) != errors.CodeUploadFailed {
		t.Errorf("expected UPLOAD_FAILED, got %s", errors.GetCode(err))
	}
}

func TestPublishDetectsTruncation(t *testing.T) {
	store := &fakeStore{shortBy: 1}
	p := New(store, testLogger())

	_, err := p.Publish(context.Background(), []byte("abcdef"), "image/jpeg", "hint")
	if err == nil {
		t.Fatal("expected truncation error")
	}
	if errors.GetCode(err) != errors.CodeUploadFailed {
		t.Errorf("expected UPLOAD_FAILED, got %s", errors.GetCode(err))
	}
}

func TestPublishEmptyPayload(t *testing.T) {
	store := &fakeStore{}
	p := New(store, testLogger())

	_, err := p.Publish(context.Background(), nil, "image/jpeg", "hint")
	if !errors.IsValidation(err) {
		t.Errorf("expected VALIDATION_ERROR, got %v", err)
	}
	if store.calls != 0 {
		t.Error("no upload should happen for empty payload")
	}
}

func TestObjectKeySanitizesHint(t *testing.T) {
	key := ObjectKey("user/../../etc", "image/jpeg")
	if strings.Contains(key[len("wallpapers/"):], "/") {
		t.Errorf("hint separators must be sanitized, got %s", key)
	}

	key = ObjectKey("", "image/png")
	if !strings.HasPrefix(key, "wallpapers/wallpaper_") {
		t.Errorf("empty hint should fall back, got %s", key)
	}
	if !strings.HasSuffix(key, ".png") {
		t.Errorf("expected .png extension, got %s", key)
	}

	if !strings.HasSuffix(ObjectKey("h", "application/octet-stream"), ".bin") {
		t.Error("unknown content types should map to .bin")
	}
}
