//go:build noebiten

package cozzle

import (
	"github.com/opd-ai/go-cozzle/internal/config"
	"github.com/opd-ai/go-cozzle/internal/puzzle"
)

// newWindowFrontend falls back to a headless board in noebiten builds.
func (c *cozzleImpl) newWindowFrontend(cfg *config.Config, state *puzzle.State) (frontend, runFunc, error) {
	c.logWarn("window front end not built, running headless")
	front, run := c.newHeadlessFrontend(state)
	return front, run, nil
}
