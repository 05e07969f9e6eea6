// Package config provides configuration parsing and migration for go-cozzle.
// This file converts any supported configuration into a Lua script.
package config

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"strings"
)

// Migrator converts configurations into the Lua format.
type Migrator struct {
	// includeComments adds explanatory comments to the output.
	includeComments bool
	// preserveDefaults includes settings even when they match defaults.
	preserveDefaults bool
}

// MigratorOption is a functional option for configuring a Migrator.
type MigratorOption func(*Migrator)

// WithComments enables adding explanatory comments to the Lua output.
func WithComments(include bool) MigratorOption {
	return func(m *Migrator) {
		m.includeComments = include
	}
}

// WithDefaults includes settings that match default values in the output.
func WithDefaults(preserve bool) MigratorOption {
	return func(m *Migrator) {
		m.preserveDefaults = preserve
	}
}

// NewMigrator creates a new Migrator with the given options.
func NewMigrator(opts ...MigratorOption) *Migrator {
	m := &Migrator{
		includeComments:  true,
		preserveDefaults: false,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// MigrateToLua renders cfg as a Lua script that LuaConfigParser reads
// back into an equal Config.
func (m *Migrator) MigrateToLua(cfg *Config) ([]byte, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	var buf bytes.Buffer

	if m.includeComments {
		buf.WriteString("-- go-cozzle Lua configuration\n")
		buf.WriteString("-- Generated by cozzle -convert\n\n")
	}

	buf.WriteString("cozzle.config = {\n")
	m.writeConfigTable(&buf, cfg)
	buf.WriteString("}\n")

	return buf.Bytes(), nil
}

func (m *Migrator) writeConfigTable(buf *bytes.Buffer, cfg *Config) {
	defaults := DefaultConfig()

	if m.includeComments {
		buf.WriteString("    -- Puzzle\n")
	}
	if m.preserveDefaults || cfg.Puzzle.Cells != defaults.Puzzle.Cells {
		m.writeInt(buf, "cells", cfg.Puzzle.Cells)
	}
	if m.preserveDefaults || cfg.Puzzle.Seed != defaults.Puzzle.Seed {
		fmt.Fprintf(buf, "    seed = %d,\n", cfg.Puzzle.Seed)
	}

	if m.includeComments {
		buf.WriteString("\n    -- Window\n")
	}
	if m.preserveDefaults || cfg.Window.Width != defaults.Window.Width {
		m.writeInt(buf, "window_width", cfg.Window.Width)
	}
	if m.preserveDefaults || cfg.Window.Height != defaults.Window.Height {
		m.writeInt(buf, "window_height", cfg.Window.Height)
	}
	if m.preserveDefaults || cfg.Window.Title != defaults.Window.Title {
		m.writeString(buf, "title", cfg.Window.Title)
	}
	if m.preserveDefaults || cfg.Window.Resizable != defaults.Window.Resizable {
		m.writeBool(buf, "resizable", cfg.Window.Resizable)
	}

	if m.includeComments {
		buf.WriteString("\n    -- Display\n")
	}
	if m.preserveDefaults || cfg.Display.TPS != defaults.Display.TPS {
		m.writeInt(buf, "tps", cfg.Display.TPS)
	}
	if m.preserveDefaults || cfg.Display.CellMargin != defaults.Display.CellMargin {
		m.writeInt(buf, "cell_margin", cfg.Display.CellMargin)
	}
	if m.preserveDefaults || cfg.Display.BorderWidth != defaults.Display.BorderWidth {
		m.writeInt(buf, "border_width", cfg.Display.BorderWidth)
	}
	if m.preserveDefaults || cfg.Display.ShowStatus != defaults.Display.ShowStatus {
		m.writeBool(buf, "show_status", cfg.Display.ShowStatus)
	}

	if m.preserveDefaults || cfg.Colors != defaults.Colors {
		if m.includeComments {
			buf.WriteString("\n    -- Colors\n")
		}
		m.writeColor(buf, "background_color", cfg.Colors.Background, defaults.Colors.Background)
		m.writeColor(buf, "selection_color", cfg.Colors.Selection, defaults.Colors.Selection)
		m.writeColor(buf, "status_color", cfg.Colors.Status, defaults.Colors.Status)
	}
}

func (m *Migrator) writeBool(buf *bytes.Buffer, name string, value bool) {
	fmt.Fprintf(buf, "    %s = %t,\n", name, value)
}

func (m *Migrator) writeString(buf *bytes.Buffer, name, value string) {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, "'", `\'`)
	escaped = strings.ReplaceAll(escaped, "\n", `\n`)
	fmt.Fprintf(buf, "    %s = '%s',\n", name, escaped)
}

func (m *Migrator) writeInt(buf *bytes.Buffer, name string, value int) {
	fmt.Fprintf(buf, "    %s = %d,\n", name, value)
}

func (m *Migrator) writeColor(buf *bytes.Buffer, name string, c, def color.RGBA) {
	if !m.preserveDefaults && c == def {
		return
	}
	m.writeString(buf, name, FormatColor(c))
}

// MigrateFile reads a configuration file in any supported format and
// converts it to Lua.
func MigrateFile(path string, opts ...MigratorOption) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return MigrateContent(content, opts...)
}

// MigrateContent converts configuration content in any supported format
// to Lua.
func MigrateContent(content []byte, opts ...MigratorOption) ([]byte, error) {
	parser, err := NewParser()
	if err != nil {
		return nil, err
	}
	defer parser.Close()

	cfg, err := parser.Parse(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return NewMigrator(opts...).MigrateToLua(cfg)
}
