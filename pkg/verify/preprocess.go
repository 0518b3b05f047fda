package verify

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// prepare runs the light preprocessing chain that makes the rendered card
// legible to Tesseract: grayscale, contrast, upscale small images, then a
// global threshold.
func prepare(img image.Image) *image.NRGBA {
	gray := imaging.Grayscale(img)
	gray = imaging.AdjustContrast(gray, 15)
	if gray.Bounds().Dy() < 900 {
		gray = imaging.Resize(gray, 0, 1300, imaging.Lanczos)
	}
	bin := binarize(gray, 200)
	if mostlyDark(bin) {
		// card templates are dark; Tesseract wants dark text on light
		bin = imaging.Invert(bin)
	}
	return bin
}

// mostlyDark reports whether more than half of the sampled pixels are black.
func mostlyDark(img *image.NRGBA) bool {
	b := img.Bounds()
	dark, total := 0, 0
	for y := b.Min.Y; y < b.Max.Y; y += 8 {
		for x := b.Min.X; x < b.Max.X; x += 8 {
			if img.NRGBAAt(x, y).R == 0 {
				dark++
			}
			total++
		}
	}
	return total > 0 && dark*2 > total
}

// binarize performs a simple global threshold on a grayscale image.
func binarize(img image.Image, threshold uint8) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bb, _ := img.At(x, y).RGBA()
			gray := uint8((r + g + bb) / 3 >> 8)
			var v uint8 = 255
			if gray <= threshold {
				v = 0
			}
			out.Set(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return out
}
