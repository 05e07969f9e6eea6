// Package config provides configuration parsing for go-cozzle.
// This file implements the YAML configuration parser.

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// yamlDocument mirrors the YAML configuration layout. Colors stay strings
// so named and hex forms go through ParseColor.
type yamlDocument struct {
	Puzzle struct {
		Cells int    `yaml:"cells"`
		Seed  uint64 `yaml:"seed"`
	} `yaml:"puzzle"`
	Window struct {
		Width     int    `yaml:"width"`
		Height    int    `yaml:"height"`
		Title     string `yaml:"title"`
		Resizable bool   `yaml:"resizable"`
	} `yaml:"window"`
	Display struct {
		TPS         int  `yaml:"tps"`
		CellMargin  int  `yaml:"cell_margin"`
		BorderWidth int  `yaml:"border_width"`
		ShowStatus  bool `yaml:"show_status"`
	} `yaml:"display"`
	Colors struct {
		Background string `yaml:"background"`
		Selection  string `yaml:"selection"`
		Status     string `yaml:"status"`
	} `yaml:"colors"`
}

// YAMLConfigParser parses YAML configuration documents. Unknown keys are
// rejected so typos surface instead of silently keeping defaults.
type YAMLConfigParser struct{}

// NewYAMLConfigParser creates a new YAMLConfigParser.
func NewYAMLConfigParser() *YAMLConfigParser {
	return &YAMLConfigParser{}
}

// Parse parses a YAML configuration document. Keys that are absent keep
// their default values; an empty document yields the defaults.
func (p *YAMLConfigParser) Parse(content []byte) (*Config, error) {
	doc := newYAMLDocument(DefaultConfig())

	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML configuration: %w", err)
	}

	return doc.toConfig()
}

// newYAMLDocument seeds a document with cfg so the decoder only
// overwrites keys present in the input.
func newYAMLDocument(cfg Config) yamlDocument {
	var doc yamlDocument
	doc.Puzzle.Cells = cfg.Puzzle.Cells
	doc.Puzzle.Seed = cfg.Puzzle.Seed
	doc.Window.Width = cfg.Window.Width
	doc.Window.Height = cfg.Window.Height
	doc.Window.Title = cfg.Window.Title
	doc.Window.Resizable = cfg.Window.Resizable
	doc.Display.TPS = cfg.Display.TPS
	doc.Display.CellMargin = cfg.Display.CellMargin
	doc.Display.BorderWidth = cfg.Display.BorderWidth
	doc.Display.ShowStatus = cfg.Display.ShowStatus
	doc.Colors.Background = FormatColor(cfg.Colors.Background)
	doc.Colors.Selection = FormatColor(cfg.Colors.Selection)
	doc.Colors.Status = FormatColor(cfg.Colors.Status)
	return doc
}

func (doc *yamlDocument) toConfig() (*Config, error) {
	cfg := Config{
		Window: WindowConfig{
			Width:     doc.Window.Width,
			Height:    doc.Window.Height,
			Title:     doc.Window.Title,
			Resizable: doc.Window.Resizable,
		},
		Puzzle: PuzzleConfig{
			Cells: doc.Puzzle.Cells,
			Seed:  doc.Puzzle.Seed,
		},
		Display: DisplayConfig{
			TPS:         doc.Display.TPS,
			CellMargin:  doc.Display.CellMargin,
			BorderWidth: doc.Display.BorderWidth,
			ShowStatus:  doc.Display.ShowStatus,
		},
	}

	var err error
	if cfg.Colors.Background, err = ParseColor(doc.Colors.Background); err != nil {
		return nil, fmt.Errorf("invalid colors.background: %w", err)
	}
	if cfg.Colors.Selection, err = ParseColor(doc.Colors.Selection); err != nil {
		return nil, fmt.Errorf("invalid colors.selection: %w", err)
	}
	if cfg.Colors.Status, err = ParseColor(doc.Colors.Status); err != nil {
		return nil, fmt.Errorf("invalid colors.status: %w", err)
	}
	return &cfg, nil
}

// MarshalYAML renders cfg as a YAML document accepted by YAMLConfigParser.
func MarshalYAML(cfg *Config) ([]byte, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	doc := newYAMLDocument(*cfg)
	return yaml.Marshal(&doc)
}
