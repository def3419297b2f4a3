// Package catalog holds the read-only wallpaper template catalog.
// It is populated once at process start and never mutated afterwards.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"

	"linewall/internal/pkg/errors"
)

// Template is a catalog entry: a named background image plus fixed
// text-placement parameters in the image's native pixel space.
type Template struct {
	ID           string  `json:"id"`
	FontSizePt   float64 `json:"font_size_pt"`
	FontColorHex string  `json:"font_color_hex"`
	AnchorX      float64 `json:"anchor_x"`
	AnchorY      float64 `json:"anchor_y"`
}

var hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Validate checks a template entry for catalog-load errors.
func (t Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("template id is required")
	}
	if t.FontSizePt <= 0 {
		return fmt.Errorf("template %s: font_size_pt must be positive", t.ID)
	}
	if !hexColorRe.MatchString(t.FontColorHex) {
		return fmt.Errorf("template %s: font_color_hex %q is not #RRGGBB", t.ID, t.FontColorHex)
	}
	if t.AnchorX < 0 || t.AnchorY < 0 {
		return fmt.Errorf("template %s: anchor must be non-negative", t.ID)
	}
	return nil
}

// Catalog is an immutable template lookup table.
type Catalog struct {
	templates map[string]Template
	order     []string
}

// New builds a catalog from entries, rejecting invalid or duplicate ids.
func New(entries []Template) (*Catalog, error) {
	c := &Catalog{templates: make(map[string]Template, len(entries))}
	for _, t := range entries {
		if err := t.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.templates[t.ID]; dup {
			return nil, fmt.Errorf("duplicate template id: %s", t.ID)
		}
		c.templates[t.ID] = t
		c.order = append(c.order, t.ID)
	}
	return c, nil
}

// Default returns the built-in catalog of five wallpapers.
// Coordinates assume the stock 1080x2400 backing images.
func Default() *Catalog {
	c, err := New([]Template{
		{ID: "wallpaper_1", FontSizePt: 80, FontColorHex: "#FFFFFF", AnchorX: 540, AnchorY: 1920},
		{ID: "wallpaper_2", FontSizePt: 70, FontColorHex: "#000000", AnchorX: 540, AnchorY: 800},
		{ID: "wallpaper_3", FontSizePt: 90, FontColorHex: "#FFD700", AnchorX: 540, AnchorY: 1200},
		{ID: "wallpaper_4", FontSizePt: 75, FontColorHex: "#FFFFFF", AnchorX: 540, AnchorY: 1500},
		{ID: "wallpaper_5", FontSizePt: 85, FontColorHex: "#FF69B4", AnchorX: 540, AnchorY: 1000},
	})
	if err != nil {
		panic(err)
	}
	return c
}

// LoadFile reads a JSON array of templates from disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	var entries []Template
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse catalog file: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("catalog file %s contains no templates", path)
	}

	return New(entries)
}

// Load returns the catalog from path, or the built-in default when
// path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// Lookup returns the template for id, or a typed NOT_FOUND error.
func (c *Catalog) Lookup(id string) (Template, error) {
	t, ok := c.templates[id]
	if !ok {
		return Template{}, errors.NotFound("template", id)
	}
	return t, nil
}

// List returns all templates in catalog order.
func (c *Catalog) List() []Template {
	out := make([]Template, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.templates[id])
	}
	return out
}

// Len returns the number of templates.
func (c *Catalog) Len() int {
	return len(c.templates)
}
