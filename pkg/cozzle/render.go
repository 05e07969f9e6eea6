//go:build !noebiten

package cozzle

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/opd-ai/go-cozzle/internal/config"
	"github.com/opd-ai/go-cozzle/internal/puzzle"
	"github.com/opd-ai/go-cozzle/internal/render"
)

// errWindowUsed is returned when a second window front end is requested.
// Ebiten runs at most one game loop per process.
var errWindowUsed = errors.New("window front end already used by this process")

var windowClaimed atomic.Bool

// windowFrontend adapts render.Game to the instance.
type windowFrontend struct {
	*render.Game
}

// applyConfig hot-applies display settings from cfg.
func (w *windowFrontend) applyConfig(cfg *config.Config, titleOverride string) {
	w.SetConfig(renderConfig(cfg, titleOverride))
}

// renderConfig maps the file configuration onto render settings.
func renderConfig(cfg *config.Config, titleOverride string) render.Config {
	rc := render.DefaultConfig()
	if cfg.Window.Width > 0 {
		rc.Width = cfg.Window.Width
	}
	if cfg.Window.Height > 0 {
		rc.Height = cfg.Window.Height
	}
	if cfg.Window.Title != "" {
		rc.Title = cfg.Window.Title
	}
	if titleOverride != "" {
		rc.Title = titleOverride
	}
	rc.Resizable = cfg.Window.Resizable
	if cfg.Display.TPS > 0 {
		rc.TPS = cfg.Display.TPS
	}
	rc.CellMargin = cfg.Display.CellMargin
	rc.BorderWidth = cfg.Display.BorderWidth
	rc.ShowStatus = cfg.Display.ShowStatus
	rc.BackgroundColor = cfg.Colors.Background
	rc.SelectionColor = cfg.Colors.Selection
	rc.StatusColor = cfg.Colors.Status
	return rc
}

// newWindowFrontend creates the Ebiten game for state. The returned run
// function blocks until the window is closed, Escape is pressed or the
// context is cancelled.
func (c *cozzleImpl) newWindowFrontend(cfg *config.Config, state *puzzle.State) (frontend, runFunc, error) {
	if !windowClaimed.CompareAndSwap(false, true) {
		return nil, nil, errWindowUsed
	}

	game := render.NewGame(renderConfig(cfg, c.opts.WindowTitle), state)
	game.SetSolvedHandler(c.handleSolved)
	game.SetSwapHandler(c.handleSwap)

	run := func(ctx context.Context) error {
		game.SetContext(ctx)
		if err := game.Run(); err != nil && !errors.Is(err, render.ErrGameTerminated) {
			return err
		}
		return nil
	}
	return &windowFrontend{Game: game}, run, nil
}
