package card

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func newTestSession(t *testing.T) (*Session, *Registry, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.json")
	tpl := writeTemplate(t, dir, 200, 300)
	rg := NewRegistry()
	return NewSession(rg, cfg, tpl, "tok"), rg, cfg
}

func TestSessionSelectAndBack(t *testing.T) {
	s, _, _ := newTestSession(t)
	if s.State() != StateChoosing {
		t.Fatalf("new session should be choosing, got %v", s.State())
	}

	if _, err := s.Select("sidebar"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if s.State() != StateChoosing {
		t.Fatal("failed select must leave the session choosing")
	}

	f, err := s.Select("wallet")
	if err != nil || f != FieldWallet {
		t.Fatalf("select wallet: %v, %v", f, err)
	}
	if s.State() != StateAdjusting {
		t.Fatalf("expected adjusting, got %v", s.State())
	}
	if sel, ok := s.Selected(); !ok || sel != FieldWallet {
		t.Fatalf("selected = %v, %v", sel, ok)
	}

	// selecting again while adjusting is a protocol error
	if _, err := s.Select("time"); !errors.Is(err, ErrNotChoosing) {
		t.Fatalf("expected ErrNotChoosing, got %v", err)
	}

	s.Back()
	if s.State() != StateChoosing {
		t.Fatal("back should return to choosing")
	}
	if _, ok := s.Selected(); ok {
		t.Fatal("back should clear the selection")
	}
}

func TestSessionAdjustSteps(t *testing.T) {
	s, _, _ := newTestSession(t)

	if _, err := s.Adjust("x", 5); !errors.Is(err, ErrNotAdjusting) {
		t.Fatalf("adjust before select should fail, got %v", err)
	}

	if _, err := s.Select("time"); err != nil {
		t.Fatal(err)
	}
	for _, d := range []int{1, -1, 5, -5, 10, -10} {
		if _, err := s.Adjust("x", d); err != nil {
			t.Fatalf("position step %d rejected: %v", d, err)
		}
	}
	if _, err := s.Adjust("x", 3); !errors.Is(err, ErrBadStep) {
		t.Fatalf("expected ErrBadStep for 3, got %v", err)
	}
	if _, err := s.Adjust("x", 0); !errors.Is(err, ErrBadStep) {
		t.Fatalf("expected ErrBadStep for 0, got %v", err)
	}
	if _, err := s.Adjust("w", 5); !errors.Is(err, ErrBadStep) {
		t.Fatalf("size steps are 10 only, got %v", err)
	}
	if _, err := s.Adjust("w", 10); err != nil {
		t.Fatalf("size step 10 rejected: %v", err)
	}
	if _, err := s.Adjust("diag", 5); !errors.Is(err, ErrUnknownAxis) {
		t.Fatalf("expected ErrUnknownAxis, got %v", err)
	}
}

func TestSessionApplyPersistsClampedValue(t *testing.T) {
	s, rg, cfgPath := newTestSession(t)
	rg.Restore(map[Field]Rect{FieldWallet: {X: 10, Y: 10, W: 5, H: 50}})

	if _, err := s.Select("wallet"); err != nil {
		t.Fatal(err)
	}
	r, err := s.Adjust("w", -10)
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if r.W != 1 {
		t.Fatalf("width should clamp to 1, got %d", r.W)
	}
	if err := s.Apply(); err != nil {
		t.Fatalf("apply: %v", err)
	}

	cfg := LoadConfig(cfgPath)
	if cfg.Coords[FieldWallet].W != 1 {
		t.Fatalf("persisted wallet width = %d, want clamped 1", cfg.Coords[FieldWallet].W)
	}
	if cfg.Token != "tok" {
		t.Fatalf("token not persisted: %q", cfg.Token)
	}

	// apply is idempotent
	if err := s.Apply(); err != nil {
		t.Fatalf("second apply: %v", err)
	}
	again := LoadConfig(cfgPath)
	if again.Coords[FieldWallet] != cfg.Coords[FieldWallet] {
		t.Fatal("second apply changed the persisted snapshot")
	}
}

func TestSessionDownloadAndDescribe(t *testing.T) {
	s, _, cfgPath := newTestSession(t)
	path, err := s.Download()
	if err != nil || path != cfgPath {
		t.Fatalf("download: %q, %v", path, err)
	}
	if cfg := LoadConfig(path); len(cfg.Coords) != len(FieldOrder) {
		t.Fatalf("download should persist all fields, got %d", len(cfg.Coords))
	}

	desc := s.Describe()
	for _, f := range FieldOrder {
		if !strings.Contains(desc, string(f)) {
			t.Fatalf("describe missing %q:\n%s", f, desc)
		}
	}
}

func TestSessionOverlayMissingTemplate(t *testing.T) {
	dir := t.TempDir()
	s := NewSession(NewRegistry(), filepath.Join(dir, "c.json"), filepath.Join(dir, "gone.png"), "")
	err := s.Overlay(filepath.Join(dir, "overlay.png"))
	if !errors.Is(err, ErrTemplateMissing) {
		t.Fatalf("expected ErrTemplateMissing, got %v", err)
	}
	if s.State() != StateChoosing {
		t.Fatal("overlay failure must not change session state")
	}
}
