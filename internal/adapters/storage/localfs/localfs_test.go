package localfs

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"linewall/internal/ports"
)

func TestPutObjectWritesBytesVerbatim(t *testing.T) {
	root := t.TempDir()
	l := New(root, "https://dev.example.com/objects")

	payload := []byte{0xFF, 0xD8, 0x01, 0x02, 0x03}
	out, err := l.PutObject(context.Background(), ports.PutObjectInput{
		ObjectKey:   "wallpapers/u123_1.jpg",
		ContentType: "image/jpeg",
		Reader:      bytes.NewReader(payload),
		Size:        int64(len(payload)),
	})
	if err != nil {
		t.Fatalf("PutObject error: %v", err)
	}
	if out.Size != int64(len(payload)) {
		t.Errorf("size = %d, want %d", out.Size, len(payload))
	}

	stored, err := os.ReadFile(filepath.Join(root, "wallpapers", "u123_1.jpg"))
	if err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
	if !bytes.Equal(stored, payload) {
		t.Error("stored bytes differ from input")
	}
}

func TestPutObjectRequiresKey(t *testing.T) {
	l := New(t.TempDir(), "https://dev.example.com")

	_, err := l.PutObject(context.Background(), ports.PutObjectInput{
		Reader: bytes.NewReader([]byte("x")),
	})
	if err == nil {
		t.Error("expected error for empty object key")
	}
}

func TestPutObjectHonorsCanceledContext(t *testing.T) {
	l := New(t.TempDir(), "https://dev.example.com")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := l.PutObject(ctx, ports.PutObjectInput{
		ObjectKey: "k",
		Reader:    bytes.NewReader([]byte("x")),
	})
	if err == nil {
		t.Error("expected error for canceled context")
	}
}

func TestPublicURL(t *testing.T) {
	l := New(t.TempDir(), "https://dev.example.com/objects/")

	got := l.PublicURL("wallpapers/a.jpg")
	want := "https://dev.example.com/objects/wallpapers/a.jpg"
	if got != want {
		t.Errorf("PublicURL = %s, want %s", got, want)
	}
}
