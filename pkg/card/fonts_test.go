package card

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func TestLoadFaceFallback(t *testing.T) {
	// missing file: embedded fallback at the requested size
	face := LoadFace(filepath.Join(t.TempDir(), "missing.ttf"), 24, goregular.TTF)
	if face == nil {
		t.Fatal("fallback face is nil")
	}

	// corrupt file: also falls back
	bad := filepath.Join(t.TempDir(), "bad.ttf")
	os.WriteFile(bad, []byte("definitely not a font"), 0644)
	if face := LoadFace(bad, 24, goregular.TTF); face == nil {
		t.Fatal("corrupt font should fall back, not fail")
	}
}

func TestLoadFaceFromFile(t *testing.T) {
	// a real TTF on disk is preferred over the fallback
	path := filepath.Join(t.TempDir(), "font.ttf")
	if err := os.WriteFile(path, goregular.TTF, 0644); err != nil {
		t.Fatal(err)
	}
	if face := LoadFace(path, 30, goregular.TTF); face == nil {
		t.Fatal("on-disk font did not load")
	}
}
