// Package cozzle provides the public API for embedding the go-cozzle
// gradient puzzle. It runs the puzzle in a window, in a terminal, or
// headless, with full lifecycle management and configuration hot reload.
//
// # Basic Usage
//
//	c, err := cozzle.New("/path/to/cozzle.yaml", nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer c.Stop()
//
//	if err := c.Start(); err != nil {
//		log.Fatal(err)
//	}
//
// # Configuration Sources
//
//   - Disk file: Use [New] to load a Lua or YAML file
//   - Embedded FS: Use [NewFromFS] to load from an [io/fs.FS]
//   - io.Reader: Use [NewFromReader] with [FormatLua] or [FormatYAML]
//   - Defaults: Use [NewDefault] when no configuration file exists
//
// # Front Ends
//
// [Options.Frontend] selects how the puzzle is presented. [FrontendWindow]
// opens an Ebiten window, [FrontendTerminal] draws into the terminal, and
// [FrontendHeadless] presents nothing: the board is driven only through
// [Cozzle.Select] and observed through [Cozzle.Snapshot].
//
//	c, _ := cozzle.NewDefault(&cozzle.Options{Frontend: cozzle.FrontendHeadless})
//	c.Start()
//	snap, _ := c.Snapshot()
//	c.Select(1)
//
// # Events
//
// Lifecycle changes and solved puzzles are reported through [EventHandler]:
//
//	c.SetEventHandler(func(e cozzle.Event) {
//		if e.Type == cozzle.EventPuzzleSolved {
//			log.Print(e.Message)
//		}
//	})
//
// Handlers are called asynchronously; do not block in them.
package cozzle
