package card

import (
	"fmt"
	"sync"
)

// Field identifies one of the five draw regions on the card template.
type Field string

const (
	FieldTime    Field = "time"
	FieldBattery Field = "battery"
	FieldOpID    Field = "opid"
	FieldAmount  Field = "amount"
	FieldWallet  Field = "wallet"
)

// FieldOrder is the fixed display/render order of the fields.
var FieldOrder = []Field{FieldTime, FieldBattery, FieldOpID, FieldAmount, FieldWallet}

var fieldLabels = map[Field]string{
	FieldTime:    "Time",
	FieldBattery: "Battery",
	FieldOpID:    "Operation ID",
	FieldAmount:  "Amount line",
	FieldWallet:  "Wallet",
}

// Label returns the human-readable label shown to the operator.
func (f Field) Label() string { return fieldLabels[f] }

// ParseField validates a raw field name from an external command.
func ParseField(s string) (Field, error) {
	f := Field(s)
	if _, ok := fieldLabels[f]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, s)
	}
	return f, nil
}

// Axis selects one component of a rectangle.
type Axis string

const (
	AxisX Axis = "x"
	AxisY Axis = "y"
	AxisW Axis = "w"
	AxisH Axis = "h"
)

// ParseAxis validates a raw axis name from an external command.
func ParseAxis(s string) (Axis, error) {
	switch a := Axis(s); a {
	case AxisX, AxisY, AxisW, AxisH:
		return a, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAxis, s)
}

// Rect is a field's draw region in template pixel space.
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Built-in defaults target the 946x2048 template.
var defaultBoxes = map[Field]Rect{
	FieldTime:    {X: 45, Y: 42, W: 120, H: 40},
	FieldBattery: {X: 842, Y: 42, W: 70, H: 40},
	FieldOpID:    {X: 310, Y: 1005, W: 330, H: 44},
	FieldAmount:  {X: 170, Y: 1360, W: 606, H: 50},
	FieldWallet:  {X: 170, Y: 1445, W: 606, H: 120},
}

// Registry is the live mapping of field -> rectangle. It is the single
// source of truth for where each field is drawn. Readers always take a
// Snapshot; only the calibration session mutates it.
type Registry struct {
	mu    sync.RWMutex
	boxes map[Field]Rect
}

// NewRegistry returns a registry seeded with the built-in defaults.
func NewRegistry() *Registry {
	boxes := make(map[Field]Rect, len(defaultBoxes))
	for f, r := range defaultBoxes {
		boxes[f] = r
	}
	return &Registry{boxes: boxes}
}

// Get returns the current rectangle for a field.
func (rg *Registry) Get(f Field) (Rect, error) {
	rg.mu.RLock()
	defer rg.mu.RUnlock()
	r, ok := rg.boxes[f]
	if !ok {
		return Rect{}, fmt.Errorf("%w: %q", ErrUnknownField, f)
	}
	return r, nil
}

// Adjust adds delta to one component of a field's rectangle and re-clamps:
// w and h never drop below 1, x and y never below 0. There is no upper
// bound; a field pushed off-canvas is caught visually via the overlay.
// Fails before any mutation on an unknown field or axis.
func (rg *Registry) Adjust(f Field, a Axis, delta int) (Rect, error) {
	rg.mu.Lock()
	defer rg.mu.Unlock()
	r, ok := rg.boxes[f]
	if !ok {
		return Rect{}, fmt.Errorf("%w: %q", ErrUnknownField, f)
	}
	switch a {
	case AxisX:
		r.X = max(0, r.X+delta)
	case AxisY:
		r.Y = max(0, r.Y+delta)
	case AxisW:
		r.W = max(1, r.W+delta)
	case AxisH:
		r.H = max(1, r.H+delta)
	default:
		return Rect{}, fmt.Errorf("%w: %q", ErrUnknownAxis, a)
	}
	rg.boxes[f] = r
	return r, nil
}

// Snapshot returns a defensive copy of all rectangles, decoupling reader
// lifetime from registry mutation.
func (rg *Registry) Snapshot() map[Field]Rect {
	rg.mu.RLock()
	defer rg.mu.RUnlock()
	out := make(map[Field]Rect, len(rg.boxes))
	for f, r := range rg.boxes {
		out[f] = r
	}
	return out
}

// Restore installs a persisted snapshot. Names outside the fixed set are
// ignored; fields absent from the snapshot keep their current rectangle.
func (rg *Registry) Restore(boxes map[Field]Rect) {
	rg.mu.Lock()
	defer rg.mu.Unlock()
	for f, r := range boxes {
		if _, ok := rg.boxes[f]; !ok {
			continue
		}
		if r.W < 1 {
			r.W = 1
		}
		if r.H < 1 {
			r.H = 1
		}
		if r.X < 0 {
			r.X = 0
		}
		if r.Y < 0 {
			r.Y = 0
		}
		rg.boxes[f] = r
	}
}
