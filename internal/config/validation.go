// Package config provides configuration parsing and validation for go-cozzle.
// This file implements validation for configuration values.
package config

import (
	"fmt"
	"strings"
)

// Validation limits.
const (
	// MinCells is the shortest board with at least one swappable cell.
	MinCells = 3
	// MaxRecommendedCells is the point past which cells get hard to tell apart.
	MaxRecommendedCells = 64
	// MinTPS and MaxTPS bound the update rate.
	MinTPS = 1
	MaxTPS = 240
	// MinCellWidth is the narrowest cell, in pixels, that is still clickable.
	MinCellWidth = 4
	// MaxWindowDimension is the size past which a warning is emitted.
	MaxWindowDimension = 10000
)

// ValidationError represents a configuration validation error.
// It contains the field name and a description of the issue.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (ve ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ve.Field, ve.Message)
}

// ValidationResult holds the results of a configuration validation.
type ValidationResult struct {
	// Errors contains all validation errors found.
	Errors []ValidationError
	// Warnings contains non-fatal issues such as very long boards.
	Warnings []ValidationError
}

// IsValid returns true if there are no validation errors.
func (vr *ValidationResult) IsValid() bool {
	return len(vr.Errors) == 0
}

// Error returns a combined error message if there are errors, nil otherwise.
func (vr *ValidationResult) Error() error {
	if len(vr.Errors) == 0 {
		return nil
	}

	messages := make([]string, 0, len(vr.Errors))
	for _, e := range vr.Errors {
		messages = append(messages, e.Error())
	}
	return fmt.Errorf("validation failed: %s", strings.Join(messages, "; "))
}

// AddError adds a validation error.
func (vr *ValidationResult) AddError(field, message string) {
	vr.Errors = append(vr.Errors, ValidationError{Field: field, Message: message})
}

// AddWarning adds a validation warning.
func (vr *ValidationResult) AddWarning(field, message string) {
	vr.Warnings = append(vr.Warnings, ValidationError{Field: field, Message: message})
}

// Merge combines another ValidationResult into this one.
func (vr *ValidationResult) Merge(other *ValidationResult) {
	if other == nil {
		return
	}
	vr.Errors = append(vr.Errors, other.Errors...)
	vr.Warnings = append(vr.Warnings, other.Warnings...)
}

// Validator checks a Config for values that would break the game or make
// it unplayable.
type Validator struct {
	// strictMode promotes warnings to errors.
	strictMode bool
}

// NewValidator creates a new Validator with default settings.
func NewValidator() *Validator {
	return &Validator{}
}

// WithStrictMode makes every warning an error.
func (v *Validator) WithStrictMode(strict bool) *Validator {
	v.strictMode = strict
	return v
}

// Validate performs validation of a Config.
func (v *Validator) Validate(cfg *Config) *ValidationResult {
	result := &ValidationResult{}

	v.validatePuzzle(&cfg.Puzzle, result)
	v.validateWindow(&cfg.Window, result)
	v.validateDisplay(&cfg.Display, result)
	v.validateLayout(cfg, result)

	if v.strictMode && len(result.Warnings) > 0 {
		result.Errors = append(result.Errors, result.Warnings...)
		result.Warnings = nil
	}
	return result
}

func (v *Validator) validatePuzzle(pc *PuzzleConfig, result *ValidationResult) {
	if pc.Cells < MinCells {
		result.AddError("puzzle.cells", fmt.Sprintf("must be at least %d, got %d", MinCells, pc.Cells))
	} else if pc.Cells > MaxRecommendedCells {
		result.AddWarning("puzzle.cells", fmt.Sprintf("%d cells exceeds recommended maximum of %d", pc.Cells, MaxRecommendedCells))
	}
}

func (v *Validator) validateWindow(wc *WindowConfig, result *ValidationResult) {
	if wc.Width <= 0 {
		result.AddError("window.width", fmt.Sprintf("must be positive, got %d", wc.Width))
	} else if wc.Width > MaxWindowDimension {
		result.AddWarning("window.width", fmt.Sprintf("%d exceeds %d pixels", wc.Width, MaxWindowDimension))
	}

	if wc.Height <= 0 {
		result.AddError("window.height", fmt.Sprintf("must be positive, got %d", wc.Height))
	} else if wc.Height > MaxWindowDimension {
		result.AddWarning("window.height", fmt.Sprintf("%d exceeds %d pixels", wc.Height, MaxWindowDimension))
	}
}

func (v *Validator) validateDisplay(dc *DisplayConfig, result *ValidationResult) {
	if dc.TPS < MinTPS || dc.TPS > MaxTPS {
		result.AddError("display.tps", fmt.Sprintf("must be between %d and %d, got %d", MinTPS, MaxTPS, dc.TPS))
	}
	if dc.CellMargin < 0 {
		result.AddError("display.cell_margin", fmt.Sprintf("must not be negative, got %d", dc.CellMargin))
	}
	if dc.BorderWidth < 0 {
		result.AddError("display.border_width", fmt.Sprintf("must not be negative, got %d", dc.BorderWidth))
	}
}

// validateLayout warns when the window leaves cells too thin to click.
func (v *Validator) validateLayout(cfg *Config, result *ValidationResult) {
	if cfg.Puzzle.Cells < MinCells || cfg.Window.Width <= 0 || cfg.Display.CellMargin < 0 {
		return
	}
	usable := cfg.Window.Width - cfg.Display.CellMargin*(cfg.Puzzle.Cells+1)
	if usable/cfg.Puzzle.Cells < MinCellWidth {
		result.AddWarning("window.width", fmt.Sprintf("cells would be narrower than %d pixels", MinCellWidth))
	}
}

// ValidateConfig is a convenience function to validate a Config with default settings.
// Returns nil if the config is valid, or an error describing validation failures.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	return NewValidator().Validate(cfg).Error()
}

// ValidateConfigStrict validates a Config with warnings treated as errors.
func ValidateConfigStrict(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	return NewValidator().WithStrictMode(true).Validate(cfg).Error()
}
