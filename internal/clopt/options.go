// Package clopt holds the command-line options shared by all five
// pipeline tools (csg, bsp, vis, rad, ripent), mirroring the original's
// shared global option set but behind a mutex-guarded struct per the
// teacher's internal/config convention instead of package-level globals.
package clopt

import "sync"

// DevLevel is the verbosity/strictness level, mirroring the original's
// -dev <n> flag.
type DevLevel int

const (
	DevNone    DevLevel = 0
	DevWarning DevLevel = 1
	DevNormal  DevLevel = 2
	DevVerbose DevLevel = 3
	DevExtra   DevLevel = 4
)

func (l DevLevel) String() string {
	switch l {
	case DevNone:
		return "none"
	case DevWarning:
		return "warning"
	case DevNormal:
		return "normal"
	case DevVerbose:
		return "verbose"
	case DevExtra:
		return "extra"
	default:
		return "unknown"
	}
}

// Options is the option set every stage reads from, set once at startup
// by the owning cobra command and read concurrently by worker goroutines
// thereafter (hence RWMutex, guarding against a future stage adding a
// runtime override).
type Options struct {
	mu sync.RWMutex

	Threads  int
	Dev      DevLevel
	Verbose  bool
	NoLog    bool
	LowPriority bool
	Estimate bool
	Chart    bool

	// WadDirs lists directories searched for texture WADs (C8).
	WadDirs []string
}

var global = &Options{Threads: 0, Dev: DevNormal}

// Global returns the shared option set every cmd/* entrypoint configures
// from its flags and every internal package reads from.
func Global() *Options { return global }

// Get returns a snapshot copy, safe to read without further locking.
func (o *Options) Get() Options {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return Options{
		Threads:     o.Threads,
		Dev:         o.Dev,
		Verbose:     o.Verbose,
		NoLog:       o.NoLog,
		LowPriority: o.LowPriority,
		Estimate:    o.Estimate,
		Chart:       o.Chart,
		WadDirs:     append([]string(nil), o.WadDirs...),
	}
}

// SetThreads sets the worker-pool size (0 means runtime.NumCPU()).
func (o *Options) SetThreads(n int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Threads = n
}

// SetDev sets the developer verbosity level.
func (o *Options) SetDev(l DevLevel) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Dev = l
}
