package compositor

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"io"
	"path/filepath"
	"sync"
	"testing"

	"github.com/disintegration/imaging"

	"linewall/internal/catalog"
	"linewall/internal/pkg/errors"
	"linewall/internal/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: "json", Output: io.Discard})
}

// writeAsset writes a solid-color JPEG backing image for a template.
func writeAsset(t *testing.T, dir, id string, w, h int) {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{R: 0x20, G: 0x40, B: 0x80, A: 0xff})
	if err := imaging.Save(img, filepath.Join(dir, id+".jpg")); err != nil {
		t.Fatalf("failed to write test asset: %v", err)
	}
}

func testTemplate(id string) catalog.Template {
	return catalog.Template{
		ID:           id,
		FontSizePt:   24,
		FontColorHex: "#FFFFFF",
		AnchorX:      60,
		AnchorY:      40,
	}
}

func TestRenderPreservesNativeDimensions(t *testing.T) {
	dir := t.TempDir()
	writeAsset(t, dir, "wallpaper_1", 120, 80)

	c := New(dir, filepath.Join(dir, "missing.ttf"), testLogger())

	out, err := c.Render(context.Background(), testTemplate("wallpaper_1"), "ALEX")
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}

	if out.Width != 120 || out.Height != 80 {
		t.Errorf("expected 120x80 output, got %dx%d", out.Width, out.Height)
	}
	if out.MimeType != "image/jpeg" {
		t.Errorf("expected image/jpeg, got %s", out.MimeType)
	}
	if len(out.Bytes) == 0 {
		t.Fatal("expected encoded bytes")
	}
	// JPEG SOI marker
	if !bytes.HasPrefix(out.Bytes, []byte{0xFF, 0xD8}) {
		t.Error("output is not a JPEG stream")
	}

	decoded, err := imaging.Decode(bytes.NewReader(out.Bytes))
	if err != nil {
		t.Fatalf("output does not decode: %v", err)
	}
	if decoded.Bounds() != image.Rect(0, 0, 120, 80) {
		t.Errorf("decoded bounds = %v", decoded.Bounds())
	}
}

func TestRenderActuallyDrawsText(t *testing.T) {
	dir := t.TempDir()
	writeAsset(t, dir, "wallpaper_1", 120, 80)

	c := New(dir, "nope.ttf", testLogger())
	tpl := testTemplate("wallpaper_1")

	blank, err := c.Render(context.Background(), tpl, " ")
	if err != nil {
		t.Fatal(err)
	}
	drawn, err := c.Render(context.Background(), tpl, "HELLO")
	if err != nil {
		t.Fatal(err)
	}

	if bytes.Equal(blank.Bytes, drawn.Bytes) {
		t.Error("rendering text should change the image")
	}
}

func TestRenderMissingAsset(t *testing.T) {
	dir := t.TempDir()

	c := New(dir, "nope.ttf", testLogger())

	_, err := c.Render(context.Background(), testTemplate("wallpaper_9"), "ALEX")
	if err == nil {
		t.Fatal("expected error for missing backing image")
	}
	if errors.GetCode(err) != errors.CodeAssetMissing {
		t.Errorf("expected ASSET_MISSING, got %s", errors.GetCode(err))
	}
}

func TestRenderCorruptAsset(t *testing.T) {
	dir := t.TempDir()
	if err := writeGarbage(filepath.Join(dir, "bad.jpg")); err != nil {
		t.Fatal(err)
	}

	c := New(dir, "nope.ttf", testLogger())

	_, err := c.Render(context.Background(), testTemplate("bad"), "ALEX")
	if err == nil {
		t.Fatal("expected error for corrupt backing image")
	}
	if errors.GetCode(err) != errors.CodeRenderFailed {
		t.Errorf("expected RENDER_FAILED, got %s", errors.GetCode(err))
	}
}

func TestMissingFontDegradesGracefully(t *testing.T) {
	dir := t.TempDir()
	writeAsset(t, dir, "wallpaper_1", 64, 64)

	// Unparsable font file: must warn and fall back, never abort.
	fontPath := filepath.Join(dir, "broken.ttf")
	if err := writeGarbage(fontPath); err != nil {
		t.Fatal(err)
	}

	c := New(dir, fontPath, testLogger())

	out, err := c.Render(context.Background(), testTemplate("wallpaper_1"), "สวัสดี")
	if err != nil {
		t.Fatalf("render with fallback face failed: %v", err)
	}
	if len(out.Bytes) == 0 {
		t.Error("expected rendered output with fallback face")
	}
}

func TestConcurrentRenders(t *testing.T) {
	dir := t.TempDir()
	writeAsset(t, dir, "wallpaper_1", 64, 64)
	writeAsset(t, dir, "wallpaper_2", 96, 48)

	c := New(dir, "nope.ttf", testLogger())

	var wg sync.WaitGroup
	errs := make(chan error, 20)

	for i := 0; i < 10; i++ {
		for _, id := range []string{"wallpaper_1", "wallpaper_2"} {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				if _, err := c.Render(context.Background(), testTemplate(id), "GO"); err != nil {
					errs <- err
				}
			}(id)
		}
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent render failed: %v", err)
	}
}
