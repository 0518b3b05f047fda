package card

import (
	"os"
	"path/filepath"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// Font roles and their sizes on the card.
const (
	boldFontFile   = "bold.ttf"
	simpleFontFile = "simple.ttf"
	monoFontFile   = "mono.ttf"

	boldFontSize   = 30
	simpleFontSize = 28
	monoFontSize   = 24
	labelFontSize  = 14
)

// LoadFace loads a TTF font from path at the given size. If the file is
// missing, unreadable or does not parse, the embedded fallback TTF is used
// at the same size instead. LoadFace never fails; fallback must always be
// a valid TTF (the embedded Go fonts are).
func LoadFace(path string, size float64, fallback []byte) font.Face {
	data := fallback
	if path != "" {
		if b, err := os.ReadFile(path); err == nil {
			data = b
		}
	}
	f, err := truetype.Parse(data)
	if err != nil {
		f, _ = truetype.Parse(fallback)
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// faceSet bundles the three card faces resolved from a fonts directory.
type faceSet struct {
	bold   font.Face
	simple font.Face
	mono   font.Face
}

func loadFaces(dir string) faceSet {
	join := func(name string) string {
		if dir == "" {
			return ""
		}
		return filepath.Join(dir, name)
	}
	return faceSet{
		bold:   LoadFace(join(boldFontFile), boldFontSize, gobold.TTF),
		simple: LoadFace(join(simpleFontFile), simpleFontSize, goregular.TTF),
		mono:   LoadFace(join(monoFontFile), monoFontSize, gomono.TTF),
	}
}

// labelFace is the small face used for overlay label tags.
func labelFace() font.Face {
	return LoadFace("", labelFontSize, goregular.TTF)
}
