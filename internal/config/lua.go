// Package config provides configuration parsing for go-cozzle.
// This file implements the Lua configuration parser.

package config

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"sync"

	"github.com/arnodel/golua/lib"
	rt "github.com/arnodel/golua/runtime"
)

// Lua execution limits for configuration scripts.
const (
	luaCPULimit    = 10_000_000
	luaMemoryLimit = 50 * 1024 * 1024 // 50 MB
)

// LuaConfigParser parses Lua configuration scripts. The script runs in a
// Golua runtime with a pre-created cozzle.config table; the values it
// leaves there override the defaults.
type LuaConfigParser struct {
	runtime *rt.Runtime
	cleanup func()
	mu      sync.Mutex
}

// NewLuaConfigParser creates a new LuaConfigParser with a fresh Lua runtime.
func NewLuaConfigParser() (*LuaConfigParser, error) {
	return NewLuaConfigParserWithOutput(io.Discard)
}

// NewLuaConfigParserWithOutput creates a LuaConfigParser whose print
// output goes to stdout.
func NewLuaConfigParserWithOutput(stdout io.Writer) (*LuaConfigParser, error) {
	if stdout == nil {
		stdout = os.Stdout
	}

	runtime := rt.New(stdout)
	cleanup := lib.LoadAll(runtime)

	return &LuaConfigParser{
		runtime: runtime,
		cleanup: cleanup,
	}, nil
}

// Parse executes a Lua configuration script and extracts cozzle.config.
func (p *LuaConfigParser) Parse(content []byte) (*Config, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.runtime == nil {
		return nil, fmt.Errorf("lua parser is closed")
	}

	p.initCozzleGlobal()

	closure, err := p.runtime.CompileAndLoadLuaChunk(
		"config",
		content,
		rt.TableValue(p.runtime.GlobalEnv()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compile Lua configuration: %w", err)
	}

	ctx := rt.RuntimeContextDef{
		HardLimits: rt.RuntimeResources{
			Cpu:    luaCPULimit,
			Memory: luaMemoryLimit,
		},
	}
	p.runtime.PushContext(ctx)
	defer p.runtime.PopContext()

	thread := p.runtime.MainThread()
	if _, err := rt.Call1(thread, rt.FunctionValue(closure)); err != nil {
		return nil, fmt.Errorf("failed to execute Lua configuration: %w", err)
	}

	return p.extractConfig()
}

// initCozzleGlobal installs a fresh cozzle table so settings from a
// previous Parse call do not leak into this one.
func (p *LuaConfigParser) initCozzleGlobal() {
	cozzleTable := rt.NewTable()
	cozzleTable.Set(rt.StringValue("config"), rt.TableValue(rt.NewTable()))
	p.runtime.GlobalEnv().Set(rt.StringValue("cozzle"), rt.TableValue(cozzleTable))
}

func (p *LuaConfigParser) extractConfig() (*Config, error) {
	cfg := DefaultConfig()

	cozzleVal := p.runtime.GlobalEnv().Get(rt.StringValue("cozzle"))
	if cozzleVal == rt.NilValue {
		return &cfg, nil
	}

	cozzleTable, ok := cozzleVal.TryTable()
	if !ok {
		return nil, fmt.Errorf("cozzle is not a table")
	}

	configVal := cozzleTable.Get(rt.StringValue("config"))
	if configVal == rt.NilValue {
		return &cfg, nil
	}
	configTable, ok := configVal.TryTable()
	if !ok {
		return nil, fmt.Errorf("cozzle.config is not a table")
	}
	if err := p.extractConfigTable(&cfg, configTable); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// extractConfigTable copies recognised keys from cozzle.config into cfg.
func (p *LuaConfigParser) extractConfigTable(cfg *Config, table *rt.Table) error {
	if val := getTableInt(table, "cells"); val != nil {
		cfg.Puzzle.Cells = *val
	}
	if val := getTableInt(table, "seed"); val != nil {
		if *val < 0 {
			return fmt.Errorf("invalid seed: %d is negative", *val)
		}
		cfg.Puzzle.Seed = uint64(*val)
	}

	if val := getTableInt(table, "window_width"); val != nil {
		cfg.Window.Width = *val
	}
	if val := getTableInt(table, "window_height"); val != nil {
		cfg.Window.Height = *val
	}
	if val := getTableString(table, "title"); val != nil {
		cfg.Window.Title = *val
	}
	if val := getTableBool(table, "resizable"); val != nil {
		cfg.Window.Resizable = *val
	}

	if val := getTableInt(table, "tps"); val != nil {
		cfg.Display.TPS = *val
	}
	if val := getTableInt(table, "cell_margin"); val != nil {
		cfg.Display.CellMargin = *val
	}
	if val := getTableInt(table, "border_width"); val != nil {
		cfg.Display.BorderWidth = *val
	}
	if val := getTableBool(table, "show_status"); val != nil {
		cfg.Display.ShowStatus = *val
	}

	return p.extractColors(cfg, table)
}

func (p *LuaConfigParser) extractColors(cfg *Config, table *rt.Table) error {
	colorFields := []struct {
		key    string
		target *color.RGBA
	}{
		{"background_color", &cfg.Colors.Background},
		{"selection_color", &cfg.Colors.Selection},
		{"status_color", &cfg.Colors.Status},
	}

	for _, cf := range colorFields {
		if val := getTableString(table, cf.key); val != nil {
			c, err := ParseColor(*val)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", cf.key, err)
			}
			*cf.target = c
		}
	}

	return nil
}

// Close releases resources associated with the parser's Lua runtime.
func (p *LuaConfigParser) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cleanup != nil {
		p.cleanup()
		p.cleanup = nil
	}
	p.runtime = nil
	return nil
}

// getTableBool retrieves a boolean value from a Lua table.
// Returns nil if the key doesn't exist or is not a boolean.
func getTableBool(table *rt.Table, key string) *bool {
	val := table.Get(rt.StringValue(key))
	if val == rt.NilValue {
		return nil
	}

	if b, ok := val.TryBool(); ok {
		return &b
	}

	if s, ok := val.TryString(); ok {
		b := parseBool(s)
		return &b
	}

	return nil
}

// getTableString retrieves a string value from a Lua table.
// Returns nil if the key doesn't exist or is not a string.
func getTableString(table *rt.Table, key string) *string {
	val := table.Get(rt.StringValue(key))
	if val == rt.NilValue {
		return nil
	}

	if s, ok := val.TryString(); ok {
		return &s
	}

	return nil
}

// getTableInt retrieves an int value from a Lua table. Floats are
// truncated. Returns nil if the key doesn't exist or is not a number.
func getTableInt(table *rt.Table, key string) *int {
	val := table.Get(rt.StringValue(key))
	if val == rt.NilValue {
		return nil
	}

	if n, ok := val.TryInt(); ok {
		i := int(n)
		return &i
	}

	if f, ok := val.TryFloat(); ok {
		i := int(f)
		return &i
	}

	return nil
}
