package cozzle

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultWatchDebounce is the default debounce interval for file watch events.
const DefaultWatchDebounce = 500 * time.Millisecond

// reloadOps are the operations that can change a watched file's content.
// Rename and Create cover editors that save by writing a temporary file
// and renaming it over the original.
const reloadOps = fsnotify.Write | fsnotify.Create | fsnotify.Rename

// configWatcher reloads the configuration when its file changes on disk.
type configWatcher struct {
	watcher  *fsnotify.Watcher
	absPath  string
	baseName string
	debounce time.Duration
	onReload func() error
	onError  func(error)

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// newConfigWatcher watches filePath. onReload runs once per burst of
// changes, debounce after the last one; onError receives watcher errors and
// reload failures.
func newConfigWatcher(filePath string, debounce time.Duration, onReload func() error, onError func(error)) (*configWatcher, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", filePath, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// The directory is watched so the file can be replaced atomically.
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		watcher.Close()
		return nil, err
	}

	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}

	return &configWatcher{
		watcher:  watcher,
		absPath:  absPath,
		baseName: filepath.Base(absPath),
		debounce: debounce,
		onReload: onReload,
		onError:  onError,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching in a goroutine. It is a no-op when already started.
func (cw *configWatcher) Start() {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	if cw.running {
		return
	}
	cw.running = true
	go cw.watchLoop()
}

// Stop ends the watch loop and waits for it to exit. Only the first call
// after Start has any effect.
func (cw *configWatcher) Stop() {
	cw.mu.Lock()
	if !cw.running {
		cw.mu.Unlock()
		return
	}
	cw.running = false
	cw.mu.Unlock()

	close(cw.stopCh)
	<-cw.doneCh
}

// matches reports whether event concerns the watched file.
func (cw *configWatcher) matches(event fsnotify.Event) bool {
	if event.Op&reloadOps == 0 {
		return false
	}
	if filepath.Base(event.Name) == cw.baseName {
		return true
	}
	abs, err := filepath.Abs(event.Name)
	return err == nil && abs == cw.absPath
}

func (cw *configWatcher) watchLoop() {
	defer close(cw.doneCh)
	defer cw.watcher.Close()

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-cw.stopCh:
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if !cw.matches(event) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(cw.debounce)
			fire = timer.C

		case <-fire:
			timer, fire = nil, nil
			if cw.onReload == nil {
				continue
			}
			if err := cw.onReload(); err != nil {
				cw.report(err)
			}

		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			cw.report(fmt.Errorf("watch %s: %w", cw.absPath, err))
		}
	}
}

func (cw *configWatcher) report(err error) {
	if cw.onError != nil {
		cw.onError(err)
	}
}
