// Package profiling writes pprof CPU and heap profiles for a cozzle run.
package profiling

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/pprof"
	"sync"
)

var (
	// ErrAlreadyRunning is returned by Start on a started Profiler.
	ErrAlreadyRunning = errors.New("profiler is already running")
	// ErrNotRunning is returned by Stop on a Profiler that was not started.
	ErrNotRunning = errors.New("profiler is not running")
)

// Config names the profile output files. An empty path disables that
// profile.
type Config struct {
	CPUProfilePath string
	MemProfilePath string
}

// Enabled returns true if any profile is requested.
func (c Config) Enabled() bool {
	return c.CPUProfilePath != "" || c.MemProfilePath != ""
}

// Profiler records a CPU profile between Start and Stop and writes a heap
// profile on Stop.
type Profiler struct {
	config  Config
	cpuFile *os.File
	running bool
	mu      sync.Mutex
}

// New creates a Profiler. Call Start to begin profiling.
func New(config Config) *Profiler {
	return &Profiler{config: config}
}

// Config returns the profiler's configuration.
func (p *Profiler) Config() Config {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.config
}

// Start begins CPU profiling if a CPU profile path is configured.
func (p *Profiler) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return ErrAlreadyRunning
	}

	if path := p.config.CPUProfilePath; path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create CPU profile file: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			return fmt.Errorf("failed to start CPU profile: %w", err)
		}
		p.cpuFile = f
	}

	p.running = true
	return nil
}

// Stop ends CPU profiling and writes the heap profile if configured. All
// failures are joined into the returned error.
func (p *Profiler) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return ErrNotRunning
	}
	p.running = false

	var errs []error
	if p.cpuFile != nil {
		pprof.StopCPUProfile()
		if err := p.cpuFile.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close CPU profile file: %w", err))
		}
		p.cpuFile = nil
	}

	if path := p.config.MemProfilePath; path != "" {
		if err := writeHeapProfileFile(path); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// IsRunning returns true between Start and Stop.
func (p *Profiler) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// WriteHeapProfile writes a heap profile to w after forcing a garbage
// collection, so the profile reflects live objects only.
func WriteHeapProfile(w io.Writer) error {
	runtime.GC()
	if err := pprof.WriteHeapProfile(w); err != nil {
		return fmt.Errorf("failed to write memory profile: %w", err)
	}
	return nil
}

func writeHeapProfileFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create memory profile file: %w", err)
	}
	if err := WriteHeapProfile(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
