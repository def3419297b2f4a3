package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"linewall/internal/pkg/errors"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	if c.Len() != 5 {
		t.Fatalf("expected 5 built-in templates, got %d", c.Len())
	}

	tpl, err := c.Lookup("wallpaper_1")
	if err != nil {
		t.Fatalf("Lookup(wallpaper_1) error: %v", err)
	}
	if tpl.FontSizePt != 80 || tpl.FontColorHex != "#FFFFFF" {
		t.Errorf("unexpected wallpaper_1 styling: %+v", tpl)
	}
	if tpl.AnchorX != 540 || tpl.AnchorY != 1920 {
		t.Errorf("unexpected wallpaper_1 anchor: %+v", tpl)
	}
}

func TestLookupUnknown(t *testing.T) {
	c := Default()

	_, err := c.Lookup("unknown_template")
	if err == nil {
		t.Fatal("expected error for unknown template")
	}
	if !errors.IsNotFound(err) {
		t.Errorf("expected NOT_FOUND, got %s", errors.GetCode(err))
	}
}

func TestNewRejectsInvalidEntries(t *testing.T) {
	tests := []struct {
		name    string
		entries []Template
	}{
		{
			name:    "missing id",
			entries: []Template{{FontSizePt: 80, FontColorHex: "#FFFFFF"}},
		},
		{
			name:    "zero font size",
			entries: []Template{{ID: "x", FontSizePt: 0, FontColorHex: "#FFFFFF"}},
		},
		{
			name:    "bad color",
			entries: []Template{{ID: "x", FontSizePt: 80, FontColorHex: "white"}},
		},
		{
			name:    "short hex color",
			entries: []Template{{ID: "x", FontSizePt: 80, FontColorHex: "#FFF"}},
		},
		{
			name: "duplicate id",
			entries: []Template{
				{ID: "x", FontSizePt: 80, FontColorHex: "#FFFFFF"},
				{ID: "x", FontSizePt: 70, FontColorHex: "#000000"},
			},
		},
		{
			name:    "negative anchor",
			entries: []Template{{ID: "x", FontSizePt: 80, FontColorHex: "#FFFFFF", AnchorX: -1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.entries); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.json")

	payload := `[
		{"id":"summer","font_size_pt":64,"font_color_hex":"#112233","anchor_x":500,"anchor_y":900},
		{"id":"winter","font_size_pt":72,"font_color_hex":"#FFFFFF","anchor_x":540,"anchor_y":1200}
	]`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if c.Len() != 2 {
		t.Errorf("expected 2 templates, got %d", c.Len())
	}

	list := c.List()
	if list[0].ID != "summer" || list[1].ID != "winter" {
		t.Errorf("catalog order not preserved: %v", list)
	}
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.json")
	_ = os.WriteFile(bad, []byte("{not json"), 0o644)
	if _, err := LoadFile(bad); err == nil {
		t.Error("expected error for malformed JSON")
	}

	empty := filepath.Join(dir, "empty.json")
	_ = os.WriteFile(empty, []byte("[]"), 0o644)
	if _, err := LoadFile(empty); err == nil {
		t.Error("expected error for empty catalog")
	}
}

func TestLoadEmptyPathUsesDefault(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}
	if c.Len() != Default().Len() {
		t.Error("empty path should produce the built-in catalog")
	}
}
