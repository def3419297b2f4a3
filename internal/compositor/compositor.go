// Package compositor rasterizes user text onto wallpaper templates.
package compositor

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"linewall/internal/catalog"
	"linewall/internal/pkg/errors"
	"linewall/internal/pkg/logger"
)

// jpegQuality keeps the output near-lossless for phone wallpapers.
const jpegQuality = 95

// shadow offset in pixels, drawn under the text for legibility on
// light and dark backgrounds alike.
const (
	shadowOffsetX = 2
	shadowOffsetY = 2
	shadowAlpha   = 0.5
)

// RenderedImage is an encoded composited wallpaper. It is owned by the
// request that produced it and never cached.
type RenderedImage struct {
	Bytes    []byte
	MimeType string
	Width    int
	Height   int
}

// Compositor renders text onto template backing images. Safe for
// concurrent use: the only shared state is the bundled font, parsed
// exactly once on first use.
type Compositor struct {
	templateDir string
	fontPath    string
	log         *logger.Logger

	fontOnce sync.Once
	font     *truetype.Font
}

// New creates a Compositor reading backing images from templateDir and
// text glyphs from the TTF at fontPath.
func New(templateDir, fontPath string, log *logger.Logger) *Compositor {
	return &Compositor{
		templateDir: templateDir,
		fontPath:    fontPath,
		log:         log.WithComponent("compositor"),
	}
}

// Render composites text onto the template's backing image and returns
// the encoded JPEG. The anchor point is the visual center of the text
// block. Fails with ASSET_MISSING when the backing image is absent and
// RENDER_FAILED for any other rasterization error.
func (c *Compositor) Render(ctx context.Context, tpl catalog.Template, text string) (*RenderedImage, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.RenderFailed(err, "render canceled")
	}

	assetPath := filepath.Join(c.templateDir, tpl.ID+".jpg")

	base, err := imaging.Open(assetPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.AssetMissing(tpl.ID, assetPath)
		}
		return nil, errors.RenderFailed(err, "failed to load template asset")
	}

	bounds := base.Bounds()
	dc := gg.NewContextForImage(base)
	dc.SetFontFace(c.face(tpl.FontSizePt))

	// Shadow first, then the text itself on top.
	dc.SetRGBA(0, 0, 0, shadowAlpha)
	dc.DrawStringAnchored(text, tpl.AnchorX+shadowOffsetX, tpl.AnchorY+shadowOffsetY, 0.5, 0.5)

	dc.SetHexColor(tpl.FontColorHex)
	dc.DrawStringAnchored(text, tpl.AnchorX, tpl.AnchorY, 0.5, 0.5)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, dc.Image(), imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, errors.RenderFailed(err, "failed to encode composited image")
	}

	return &RenderedImage{
		Bytes:    buf.Bytes(),
		MimeType: "image/jpeg",
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
	}, nil
}

// face returns a font.Face at the requested size. Faces are cheap and
// not safe for concurrent use, so one is created per render from the
// once-parsed font. Falls back to the builtin bitmap face when the
// bundled font cannot be loaded; rendering degrades but never aborts.
func (c *Compositor) face(sizePt float64) font.Face {
	c.fontOnce.Do(c.loadFont)

	if c.font == nil {
		return basicfont.Face7x13
	}
	return truetype.NewFace(c.font, &truetype.Options{
		Size:    sizePt,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

func (c *Compositor) loadFont() {
	data, err := os.ReadFile(c.fontPath)
	if err != nil {
		c.log.Warn("bundled font unavailable, falling back to builtin face",
			"path", c.fontPath,
			"error", err.Error(),
		)
		return
	}

	f, err := truetype.Parse(data)
	if err != nil {
		c.log.Warn("bundled font unparsable, falling back to builtin face",
			"path", c.fontPath,
			"error", err.Error(),
		)
		return
	}

	c.font = f
	c.log.Info("bundled font registered", "path", c.fontPath)
}
