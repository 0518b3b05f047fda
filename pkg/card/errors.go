package card

import "errors"

// ErrUnknownField is returned when a field name is outside the fixed set.
var ErrUnknownField = errors.New("unknown field")

// ErrUnknownAxis is returned when an axis is not one of x, y, w, h.
var ErrUnknownAxis = errors.New("unknown axis")

// ErrBadStep is returned when an adjustment delta is not an allowed step size.
var ErrBadStep = errors.New("step size not allowed")

// ErrTemplateMissing is returned when the template image cannot be found.
var ErrTemplateMissing = errors.New("template image missing")

// ErrNotAdjusting is returned for adjust commands issued with no field selected.
var ErrNotAdjusting = errors.New("no field selected")

// ErrNotChoosing is returned for select commands issued while already adjusting.
var ErrNotChoosing = errors.New("already adjusting a field")
