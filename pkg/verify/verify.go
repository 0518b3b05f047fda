// Package verify reads a rendered card back through Tesseract and checks
// that the composited amount line and operation identifier survived the
// render. It is a best-effort debugging aid: an OCR miss is reported as a
// mismatch, never a crash.
package verify

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
)

// ErrNoText is returned when OCR produces no usable text at all.
var ErrNoText = errors.New("no text recognized")

var (
	opIDRE   = regexp.MustCompile(`WD\d{7}`)
	amountRE = regexp.MustCompile(`\d+\.\d+|\d+`)
)

// Report is the outcome of one card check.
type Report struct {
	Text        string // normalized OCR text
	FoundOpID   string
	FoundAmount string
	OpIDOK      bool
	AmountOK    bool
}

// CheckCard OCRs the card at path and compares the recovered operation ID
// and amount against the expected values.
func CheckCard(path, wantAmount, wantOpID string) (Report, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return Report{}, fmt.Errorf("open card: %w", err)
	}

	tmp, err := os.CreateTemp("", "cardcheck-*.png")
	if err != nil {
		return Report{}, err
	}
	tmpName := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpName)
	if err := imaging.Save(prepare(img), tmpName); err != nil {
		return Report{}, fmt.Errorf("save preprocessed: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()
	_ = client.SetLanguage("eng")
	_ = client.SetWhitelist("0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz#.,: ")
	client.SetImage(tmpName)
	text, _ := client.Text()
	text = normalizeText(text)
	if text == "" {
		return Report{}, ErrNoText
	}
	return Evaluate(text, wantAmount, wantOpID), nil
}

// Evaluate compares normalized OCR text against the expected amount and
// operation ID. Split out from CheckCard so it is testable without a
// Tesseract installation.
func Evaluate(text, wantAmount, wantOpID string) Report {
	rep := Report{Text: text}
	rep.FoundOpID = opIDRE.FindString(text)
	rep.OpIDOK = rep.FoundOpID != "" && rep.FoundOpID == wantOpID
	rep.FoundAmount = matchAmount(text, wantAmount)
	rep.AmountOK = rep.FoundAmount != ""
	return rep
}

// matchAmount returns the OCR'd number equal to want, if any. Tesseract
// occasionally drops the decimal point, so a dotless rendition of want is
// accepted too.
func matchAmount(text, want string) string {
	if want == "" {
		return ""
	}
	dotless := strings.ReplaceAll(want, ".", "")
	for _, m := range amountRE.FindAllString(text, -1) {
		if m == want || m == dotless {
			return m
		}
	}
	return ""
}

// normalizeText collapses whitespace and newlines.
func normalizeText(t string) string {
	t = strings.ReplaceAll(t, "\n", " ")
	t = strings.ReplaceAll(t, "\t", " ")
	return strings.Join(strings.Fields(t), " ")
}
