//go:build integration

// Package integration provides end-to-end tests for go-cozzle: sample
// configurations are parsed, validated and played through the public API
// with the headless front end, so no display is needed.
package integration

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/opd-ai/go-cozzle/internal/config"
	"github.com/opd-ai/go-cozzle/pkg/cozzle"
)

// getTestConfigsDir returns the path to the test configs directory.
// It calls t.Fatal if runtime.Caller fails.
func getTestConfigsDir(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("runtime.Caller failed to get current file path")
	}
	return filepath.Join(filepath.Dir(file), "..", "configs")
}

func parseSample(t *testing.T, name string) *config.Config {
	t.Helper()
	parser, err := config.NewParser()
	if err != nil {
		t.Fatalf("NewParser failed: %v", err)
	}
	defer parser.Close()

	cfg, err := parser.ParseFile(filepath.Join(getTestConfigsDir(t), name))
	if err != nil {
		t.Fatalf("ParseFile(%s) failed: %v", name, err)
	}
	return cfg
}

// TestLuaAndYAMLAgree checks that the two sample formats describe the same
// configuration.
func TestLuaAndYAMLAgree(t *testing.T) {
	fromYAML := parseSample(t, "basic.yaml")
	fromLua := parseSample(t, "basic.lua")

	if *fromYAML != *fromLua {
		t.Errorf("configs differ:\nyaml: %+v\nlua:  %+v", *fromYAML, *fromLua)
	}
	if fromYAML.Puzzle.Cells != 10 || fromYAML.Puzzle.Seed != 2024 {
		t.Errorf("puzzle = %+v", fromYAML.Puzzle)
	}
}

func TestSampleValidation(t *testing.T) {
	tests := []struct {
		file         string
		wantValid    bool
		wantWarnings bool
	}{
		{"basic.yaml", true, false},
		{"basic.lua", true, false},
		{"minimal.yaml", true, false},
		{"computed.lua", true, false},
		{"env.yaml", true, false},
		{"wide.yaml", true, true},
		{"invalid.yaml", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			cfg := parseSample(t, tt.file)
			result := config.NewValidator().Validate(cfg)
			if result.IsValid() != tt.wantValid {
				t.Errorf("IsValid() = %v, want %v: %v", result.IsValid(), tt.wantValid, result.Error())
			}
			if (len(result.Warnings) > 0) != tt.wantWarnings {
				t.Errorf("warnings = %v, want present=%v", result.Warnings, tt.wantWarnings)
			}
		})
	}
}

func TestComputedLuaConfig(t *testing.T) {
	cfg := parseSample(t, "computed.lua")
	if cfg.Puzzle.Cells != 12 || cfg.Window.Width != 720 {
		t.Errorf("cells=%d width=%d, want 12 and 720", cfg.Puzzle.Cells, cfg.Window.Width)
	}
	if cfg.Window.Title != "Cozzle 12x1" {
		t.Errorf("title = %q", cfg.Window.Title)
	}
	if !cfg.Display.ShowStatus {
		t.Error("show_status = 'yes' should enable the status line")
	}
}

func TestEnvExpansion(t *testing.T) {
	cfg := parseSample(t, "env.yaml")
	t.Setenv("COZZLE_TITLE", "")
	config.ExpandEnvConfig(cfg)
	if cfg.Window.Title != "Cozzle from env" {
		t.Errorf("title = %q, want the default", cfg.Window.Title)
	}

	cfg = parseSample(t, "env.yaml")
	t.Setenv("COZZLE_TITLE", "Night Shift")
	config.ExpandEnvConfig(cfg)
	if cfg.Window.Title != "Night Shift" {
		t.Errorf("title = %q, want Night Shift", cfg.Window.Title)
	}
}

// TestMigrationRoundTrip converts every valid sample to Lua and parses the
// result back.
func TestMigrationRoundTrip(t *testing.T) {
	for _, name := range []string{"basic.yaml", "basic.lua", "minimal.yaml", "computed.lua", "wide.yaml"} {
		t.Run(name, func(t *testing.T) {
			original := parseSample(t, name)

			lua, err := config.MigrateFile(filepath.Join(getTestConfigsDir(t), name))
			if err != nil {
				t.Fatalf("MigrateFile failed: %v", err)
			}

			parser, err := config.NewParser()
			if err != nil {
				t.Fatal(err)
			}
			defer parser.Close()
			back, err := parser.Parse(lua)
			if err != nil {
				t.Fatalf("migrated config does not parse: %v\n%s", err, lua)
			}
			if *back != *original {
				t.Errorf("round trip changed the config:\nbefore: %+v\nafter:  %+v", *original, *back)
			}
		})
	}
}

func waitForEvent(t *testing.T, ch <-chan cozzle.Event, typ cozzle.EventType) {
	t.Helper()
	timeout := time.After(3 * time.Second)
	for {
		select {
		case e := <-ch:
			if e.Type == typ {
				return
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %s", typ)
		}
	}
}

// TestPlayThroughAPI solves the basic sample's board through Select and
// checks that a new puzzle is dealt.
func TestPlayThroughAPI(t *testing.T) {
	c, err := cozzle.New(filepath.Join(getTestConfigsDir(t), "basic.yaml"), &cozzle.Options{
		Frontend: cozzle.FrontendHeadless,
		Metrics:  cozzle.NewMetrics(),
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	events := make(chan cozzle.Event, 64)
	c.SetEventHandler(func(e cozzle.Event) { events <- e })

	if err := c.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer c.Stop()

	snap, err := c.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Current) != 10 {
		t.Fatalf("board has %d cells, want 10", len(snap.Current))
	}
	if snap.Current[0] != snap.Solution[0] || snap.Current[9] != snap.Solution[9] {
		t.Error("endpoints are not pinned")
	}

	seen := make(map[[3]uint8]bool)
	for _, col := range snap.Solution {
		key := [3]uint8{col.R, col.G, col.B}
		if seen[key] {
			t.Skip("solution has duplicate 8-bit colors")
		}
		seen[key] = true
	}

	cur := append(snap.Current[:0:0], snap.Current...)
	for i := 1; i < len(cur)-1; i++ {
		if cur[i] == snap.Solution[i] {
			continue
		}
		j := i + 1
		for cur[j] != snap.Solution[i] {
			j++
		}
		if err := c.Select(i); err != nil {
			t.Fatalf("Select(%d): %v", i, err)
		}
		if err := c.Select(j); err != nil {
			t.Fatalf("Select(%d): %v", j, err)
		}
		cur[i], cur[j] = cur[j], cur[i]
	}

	waitForEvent(t, events, cozzle.EventPuzzleSolved)

	next, _ := c.Snapshot()
	if next.Wins != 1 || next.Moves != 0 {
		t.Errorf("after solve: wins=%d moves=%d", next.Wins, next.Moves)
	}
	if next.IsSolved() {
		t.Error("new board is already solved")
	}
	if got := c.Metrics().Snapshot().PuzzlesSolved; got != 1 {
		t.Errorf("PuzzlesSolved = %d, want 1", got)
	}
}

// TestHotReload edits a copy of a sample while the instance runs.
func TestHotReload(t *testing.T) {
	content, err := os.ReadFile(filepath.Join(getTestConfigsDir(t), "minimal.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "cozzle.yaml")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := cozzle.New(path, &cozzle.Options{
		Frontend:      cozzle.FrontendHeadless,
		Metrics:       cozzle.NewMetrics(),
		WatchConfig:   true,
		WatchDebounce: 50 * time.Millisecond,
	})
	if err != nil {
		t.Fatal(err)
	}
	events := make(chan cozzle.Event, 64)
	c.SetEventHandler(func(e cozzle.Event) { events <- e })
	if err := c.Start(); err != nil {
		t.Fatal(err)
	}
	defer c.Stop()

	time.Sleep(100 * time.Millisecond)
	updated := strings.Replace(string(content), "cells: 5", "cells: 7", 1)
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		t.Fatal(err)
	}

	waitForEvent(t, events, cozzle.EventConfigReloaded)
	snap, err := c.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Current) != 7 {
		t.Errorf("board has %d cells after reload, want 7", len(snap.Current))
	}
}
