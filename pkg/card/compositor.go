package card

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io/fs"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
)

// WalletWrapWidth is the hard-wrap chunk width for wallet addresses.
const WalletWrapWidth = 34

// walletMaxLines caps the wallet block; overflow is silently dropped.
const walletMaxLines = 2

const walletLineSpacing = 10.0

// amountTrailer is appended to the amount in the same draw call so there
// is no visual gap between the number and the unit label.
const amountTrailer = " TON на кошелёк:"

var (
	lightFill  = color.NRGBA{R: 240, G: 240, B: 245, A: 255}
	accentFill = color.NRGBA{R: 80, G: 160, B: 255, A: 255}
	mutedFill  = color.NRGBA{R: 150, G: 150, B: 155, A: 255}
)

// Values holds the four validated end-user fields.
type Values struct {
	Battery int
	Time    string
	Amount  string
	Wallet  string
}

// Renderer composites validated field values onto the card template.
type Renderer struct {
	TemplatePath string
	FontsDir     string
}

// Render draws the four fields plus the operation identifier onto the
// template at the given rectangles and writes an opaque PNG to outPath.
// A missing template is fatal to the call; there is no substitute image.
func (rd *Renderer) Render(boxes map[Field]Rect, v Values, opID, outPath string) error {
	dc, err := rd.newCanvas()
	if err != nil {
		return err
	}
	faces := loadFaces(rd.FontsDir)

	// time: bold, anchored at the box top-left
	dc.SetFontFace(faces.bold)
	dc.SetColor(lightFill)
	drawTopLeft(dc, boxOr(boxes, FieldTime), v.Time)

	// battery: bold, centered in its box
	drawCentered(dc, boxOr(boxes, FieldBattery), fmt.Sprintf("%d", v.Battery))

	// operation id: simple face, centered, accent color
	dc.SetFontFace(faces.simple)
	dc.SetColor(accentFill)
	drawCentered(dc, boxOr(boxes, FieldOpID), "#"+opID)

	// amount line: one unbroken string so the unit label has no gap
	dc.SetColor(mutedFill)
	drawTopLeft(dc, boxOr(boxes, FieldAmount), v.Amount+amountTrailer)

	// wallet: mono face, hard-wrapped block at the box top-left
	dc.SetFontFace(faces.mono)
	dc.SetColor(lightFill)
	wb := boxOr(boxes, FieldWallet)
	step := dc.FontHeight() + walletLineSpacing
	for i, line := range WrapWallet(v.Wallet, WalletWrapWidth) {
		dc.DrawStringAnchored(line, float64(wb.X), float64(wb.Y)+float64(i)*step, 0, 1)
	}

	if err := imaging.Save(dc.Image(), outPath); err != nil {
		return fmt.Errorf("save card: %w", err)
	}
	return nil
}

// newCanvas opens the template, flattens it over white and returns a
// drawing context of the same dimensions.
func (rd *Renderer) newCanvas() (*gg.Context, error) {
	tpl, err := imaging.Open(rd.TemplatePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrTemplateMissing, rd.TemplatePath)
		}
		return nil, fmt.Errorf("open template: %w", err)
	}
	b := tpl.Bounds()
	flat := imaging.New(b.Dx(), b.Dy(), color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	flat = imaging.Overlay(flat, tpl, image.Pt(0, 0), 1.0)
	return gg.NewContextForImage(flat), nil
}

// WrapWallet strips all whitespace from the address and hard-wraps it into
// chunks of width characters, keeping at most two lines. Overflow beyond
// that is dropped; this matches the space available on the template.
func WrapWallet(s string, width int) []string {
	t := strings.Join(strings.Fields(s), "")
	if t == "" || width < 1 {
		return nil
	}
	runes := []rune(t)
	var lines []string
	for len(runes) > 0 && len(lines) < walletMaxLines {
		n := min(width, len(runes))
		lines = append(lines, string(runes[:n]))
		runes = runes[n:]
	}
	return lines
}

func drawTopLeft(dc *gg.Context, r Rect, s string) {
	dc.DrawStringAnchored(s, float64(r.X), float64(r.Y), 0, 1)
}

func drawCentered(dc *gg.Context, r Rect, s string) {
	dc.DrawStringAnchored(s, float64(r.X)+float64(r.W)/2, float64(r.Y)+float64(r.H)/2, 0.5, 0.5)
}

// boxOr returns the snapshot rectangle for f, falling back to the built-in
// default when the snapshot is missing the field.
func boxOr(boxes map[Field]Rect, f Field) Rect {
	if r, ok := boxes[f]; ok {
		return r
	}
	return defaultBoxes[f]
}
