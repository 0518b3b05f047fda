package card

import (
	"fmt"
	"os"
	"strings"
)

// SessionState tags the calibration protocol state.
type SessionState int

const (
	// StateChoosing: the operator is picking a field to adjust.
	StateChoosing SessionState = iota
	// StateAdjusting: a field is selected and being nudged.
	StateAdjusting
)

func (s SessionState) String() string {
	if s == StateAdjusting {
		return "adjusting"
	}
	return "choosing"
}

// Allowed adjustment step magnitudes per axis kind. Anything else is a
// command error, rejected before the registry is touched.
var (
	positionSteps = map[int]bool{1: true, 5: true, 10: true}
	sizeSteps     = map[int]bool{10: true}
)

// Session is a single operator's calibration session: a small state
// machine over the shared registry. Commands arrive one at a time; the
// transport layer serializes a session's events.
type Session struct {
	reg      *Registry
	state    SessionState
	selected Field

	configPath   string
	templatePath string
	token        string
}

// NewSession enters calibration in the choosing state.
func NewSession(reg *Registry, configPath, templatePath, token string) *Session {
	return &Session{
		reg:          reg,
		state:        StateChoosing,
		configPath:   configPath,
		templatePath: templatePath,
		token:        token,
	}
}

// State reports the current protocol state.
func (s *Session) State() SessionState { return s.state }

// Selected returns the field being adjusted, if any.
func (s *Session) Selected() (Field, bool) {
	if s.state != StateAdjusting {
		return "", false
	}
	return s.selected, true
}

// Select picks a field and moves to the adjusting state. An unknown name
// leaves the session choosing.
func (s *Session) Select(name string) (Field, error) {
	if s.state != StateChoosing {
		return "", ErrNotChoosing
	}
	f, err := ParseField(name)
	if err != nil {
		return "", err
	}
	s.selected = f
	s.state = StateAdjusting
	return f, nil
}

// Adjust nudges one axis of the selected field by delta and returns the
// clamped rectangle. Delta magnitude must be an allowed step size.
func (s *Session) Adjust(axis string, delta int) (Rect, error) {
	if s.state != StateAdjusting {
		return Rect{}, ErrNotAdjusting
	}
	a, err := ParseAxis(axis)
	if err != nil {
		return Rect{}, err
	}
	mag := delta
	if mag < 0 {
		mag = -mag
	}
	steps := positionSteps
	if a == AxisW || a == AxisH {
		steps = sizeSteps
	}
	if !steps[mag] {
		return Rect{}, fmt.Errorf("%w: %s by %d", ErrBadStep, a, delta)
	}
	return s.reg.Adjust(s.selected, a, delta)
}

// Apply persists the current snapshot (and token) to the config file.
// Valid in both states; the session state is unchanged. Saving the same
// snapshot twice yields the same file.
func (s *Session) Apply() error {
	if err := SaveConfig(s.configPath, s.token, s.reg.Snapshot()); err != nil {
		return fmt.Errorf("apply failed: %w", err)
	}
	return nil
}

// Download applies and returns the config file path for delivery.
func (s *Session) Download() (string, error) {
	if err := s.Apply(); err != nil {
		return "", err
	}
	return s.configPath, nil
}

// Overlay renders the calibration overlay to outPath. Fails with
// ErrTemplateMissing when the template asset is absent; the session state
// is unaffected either way.
func (s *Session) Overlay(outPath string) error {
	if _, err := os.Stat(s.templatePath); err != nil {
		return fmt.Errorf("%w: %s", ErrTemplateMissing, s.templatePath)
	}
	return RenderOverlay(s.templatePath, s.reg.Snapshot(), outPath)
}

// Back returns to the choosing state and clears the selection.
func (s *Session) Back() {
	s.selected = ""
	s.state = StateChoosing
}

// Describe renders the current-coordinates listing shown to the operator.
func (s *Session) Describe() string {
	var b strings.Builder
	b.WriteString("Current coordinates:\n")
	for _, f := range FieldOrder {
		r, _ := s.reg.Get(f)
		fmt.Fprintf(&b, "- %s (%s): x=%d y=%d w=%d h=%d\n", f.Label(), f, r.X, r.Y, r.W, r.H)
	}
	return b.String()
}
