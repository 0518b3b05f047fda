package card

import (
	"errors"
	"testing"
)

func TestAdjustClampsAndReflects(t *testing.T) {
	rg := NewRegistry()
	start, err := rg.Get(FieldTime)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	r, err := rg.Adjust(FieldTime, AxisX, 5)
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if r.X != start.X+5 {
		t.Fatalf("expected x=%d got %d", start.X+5, r.X)
	}
	got, _ := rg.Get(FieldTime)
	if got != r {
		t.Fatalf("get does not reflect adjust: %+v vs %+v", got, r)
	}
}

func TestAdjustClampLowerBounds(t *testing.T) {
	rg := NewRegistry()
	// drive x to its floor
	for i := 0; i < 20; i++ {
		if _, err := rg.Adjust(FieldTime, AxisX, -10); err != nil {
			t.Fatalf("adjust x: %v", err)
		}
	}
	if r, _ := rg.Get(FieldTime); r.X != 0 {
		t.Fatalf("x should clamp to 0, got %d", r.X)
	}
	// w clamps to 1, never 0 or negative
	rg.Restore(map[Field]Rect{FieldWallet: {X: 10, Y: 10, W: 5, H: 5}})
	r, err := rg.Adjust(FieldWallet, AxisW, -10)
	if err != nil {
		t.Fatalf("adjust w: %v", err)
	}
	if r.W != 1 {
		t.Fatalf("w should clamp to 1, got %d", r.W)
	}
	if r, _ = rg.Adjust(FieldWallet, AxisH, -10); r.H != 1 {
		t.Fatalf("h should clamp to 1, got %d", r.H)
	}
}

func TestUnknownFieldAndAxis(t *testing.T) {
	rg := NewRegistry()
	if _, err := rg.Get(Field("nope")); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	before := rg.Snapshot()
	if _, err := rg.Adjust(Field("nope"), AxisX, 1); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if _, err := ParseAxis("q"); !errors.Is(err, ErrUnknownAxis) {
		t.Fatalf("expected ErrUnknownAxis, got %v", err)
	}
	after := rg.Snapshot()
	for f, r := range before {
		if after[f] != r {
			t.Fatalf("failed adjust mutated %s: %+v vs %+v", f, r, after[f])
		}
	}
}

func TestSnapshotIsDefensiveCopy(t *testing.T) {
	rg := NewRegistry()
	snap := rg.Snapshot()
	snap[FieldTime] = Rect{X: 1, Y: 1, W: 1, H: 1}
	if r, _ := rg.Get(FieldTime); r == snap[FieldTime] {
		t.Fatal("snapshot aliases live registry state")
	}
	if len(snap) != len(FieldOrder) {
		t.Fatalf("snapshot has %d fields, want %d", len(snap), len(FieldOrder))
	}
}

func TestRestoreRoundTrip(t *testing.T) {
	rg := NewRegistry()
	rg.Adjust(FieldOpID, AxisY, 10)
	snap := rg.Snapshot()

	other := NewRegistry()
	other.Restore(snap)
	got := other.Snapshot()
	for f, r := range snap {
		if got[f] != r {
			t.Fatalf("restore mismatch for %s: %+v vs %+v", f, got[f], r)
		}
	}

	// unknown names are ignored, invalid geometry re-clamped
	other.Restore(map[Field]Rect{Field("bogus"): {X: 1, Y: 1, W: 1, H: 1}})
	if len(other.Snapshot()) != len(FieldOrder) {
		t.Fatal("restore grew the field set")
	}
	other.Restore(map[Field]Rect{FieldTime: {X: -4, Y: -4, W: 0, H: 0}})
	r, _ := other.Get(FieldTime)
	if r.X != 0 || r.Y != 0 || r.W != 1 || r.H != 1 {
		t.Fatalf("restore did not clamp: %+v", r)
	}
}

func TestParseField(t *testing.T) {
	for _, f := range FieldOrder {
		got, err := ParseField(string(f))
		if err != nil || got != f {
			t.Fatalf("ParseField(%q) = %v, %v", f, got, err)
		}
		if f.Label() == "" {
			t.Fatalf("field %q has no label", f)
		}
	}
	if _, err := ParseField("battery2"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}
