package card

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io/fs"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
)

// Per-field outline colors for the calibration overlay.
var overlayColors = map[Field]color.NRGBA{
	FieldTime:    {R: 255, G: 80, B: 80, A: 255},
	FieldBattery: {R: 255, G: 180, B: 80, A: 255},
	FieldOpID:    {R: 80, G: 200, B: 255, A: 255},
	FieldAmount:  {R: 150, G: 255, B: 150, A: 255},
	FieldWallet:  {R: 200, G: 120, B: 255, A: 255},
}

var (
	labelTagFill = color.NRGBA{A: 170}
	labelTextCol = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

const labelPad = 3.0

// RenderOverlay draws every field rectangle with its outline color and a
// filled label tag above it, then writes the annotated image to outPath.
// It is a read-only consumer of the snapshot and is idempotent for an
// unchanged registry.
func RenderOverlay(templatePath string, boxes map[Field]Rect, outPath string) error {
	tpl, err := imaging.Open(templatePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrTemplateMissing, templatePath)
		}
		return fmt.Errorf("open template: %w", err)
	}
	b := tpl.Bounds()
	flat := imaging.New(b.Dx(), b.Dy(), color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	flat = imaging.Overlay(flat, tpl, image.Pt(0, 0), 1.0)

	dc := gg.NewContextForImage(flat)
	dc.SetFontFace(labelFace())
	for _, f := range FieldOrder {
		drawOverlayBox(dc, f, boxOr(boxes, f))
	}

	if err := imaging.Save(dc.Image(), outPath); err != nil {
		return fmt.Errorf("save overlay: %w", err)
	}
	return nil
}

func drawOverlayBox(dc *gg.Context, f Field, r Rect) {
	col, ok := overlayColors[f]
	if !ok {
		col = color.NRGBA{R: 255, A: 255}
	}
	dc.SetColor(col)
	dc.SetLineWidth(3)
	dc.DrawRectangle(float64(r.X), float64(r.Y), float64(r.W), float64(r.H))
	dc.Stroke()

	// label tag above the box, clamped so it never leaves the canvas
	label := fmt.Sprintf("%s  x=%d y=%d w=%d h=%d", f, r.X, r.Y, r.W, r.H)
	tw, th := dc.MeasureString(label)
	tagY := max(0.0, float64(r.Y)-th-2*labelPad)
	dc.SetColor(labelTagFill)
	dc.DrawRectangle(float64(r.X), tagY, tw+2*labelPad, th+2*labelPad)
	dc.Fill()
	dc.SetColor(labelTextCol)
	dc.DrawStringAnchored(label, float64(r.X)+labelPad, tagY+labelPad, 0, 1)
}
