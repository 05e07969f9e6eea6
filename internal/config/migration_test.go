package config

import (
	"image/color"
	"strings"
	"testing"
)

func TestMigrateToLuaRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Puzzle.Cells = 14
	cfg.Puzzle.Seed = 7
	cfg.Window.Title = `It's a "test" \ here`
	cfg.Window.Resizable = false
	cfg.Display.ShowStatus = false
	cfg.Colors.Background = color.RGBA{R: 10, G: 20, B: 30, A: 255}
	cfg.Colors.Status = color.RGBA{R: 10, G: 20, B: 30, A: 40}

	for _, opts := range [][]MigratorOption{
		nil,
		{WithComments(false)},
		{WithDefaults(true)},
	} {
		out, err := NewMigrator(opts...).MigrateToLua(&cfg)
		if err != nil {
			t.Fatalf("MigrateToLua failed: %v", err)
		}

		p := newTestLuaParser(t)
		got, err := p.Parse(out)
		if err != nil {
			t.Fatalf("Parse of migrated Lua failed: %v\n%s", err, out)
		}
		if *got != cfg {
			t.Errorf("round trip = %+v\nwant %+v\n%s", *got, cfg, out)
		}
	}
}

func TestMigrateToLuaOmitsDefaults(t *testing.T) {
	cfg := DefaultConfig()
	out, err := NewMigrator(WithComments(false)).MigrateToLua(&cfg)
	if err != nil {
		t.Fatalf("MigrateToLua failed: %v", err)
	}
	if got := string(out); got != "cozzle.config = {\n}\n" {
		t.Errorf("MigrateToLua(defaults) = %q", got)
	}

	out, err = NewMigrator(WithComments(false), WithDefaults(true)).MigrateToLua(&cfg)
	if err != nil {
		t.Fatalf("MigrateToLua failed: %v", err)
	}
	for _, key := range []string{"cells = 10", "tps = 60", "title = 'Cozzle'", "selection_color = 'white'"} {
		if !strings.Contains(string(out), key) {
			t.Errorf("output missing %q:\n%s", key, out)
		}
	}
}

func TestMigrateToLuaComments(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Colors.Selection = colorNames["red"]
	out, err := NewMigrator().MigrateToLua(&cfg)
	if err != nil {
		t.Fatalf("MigrateToLua failed: %v", err)
	}
	if !strings.HasPrefix(string(out), "-- go-cozzle Lua configuration") {
		t.Errorf("missing header:\n%s", out)
	}
	if !strings.Contains(string(out), "-- Colors") {
		t.Errorf("missing colors section:\n%s", out)
	}
}

func TestMigrateContentFromYAML(t *testing.T) {
	out, err := MigrateContent([]byte("puzzle:\n  cells: 5\ncolors:\n  background: navy\n"))
	if err == nil {
		t.Fatalf("unknown color name accepted:\n%s", out)
	}

	out, err = MigrateContent([]byte("puzzle:\n  cells: 5\ncolors:\n  background: '#000080'\n"))
	if err != nil {
		t.Fatalf("MigrateContent failed: %v", err)
	}
	if !isLuaConfig(out) {
		t.Errorf("output is not Lua:\n%s", out)
	}
	if !strings.Contains(string(out), "cells = 5") || !strings.Contains(string(out), "background_color = '#000080'") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestMigrateNil(t *testing.T) {
	if _, err := NewMigrator().MigrateToLua(nil); err == nil {
		t.Error("MigrateToLua(nil) should fail")
	}
	if _, err := MigrateFile("/nonexistent/cozzle.yaml"); err == nil {
		t.Error("MigrateFile of missing file should fail")
	}
}
