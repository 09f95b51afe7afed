package processor

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"xorbatch/pkg/xorkey"
)

// State is a step of the engine's run lifecycle.
type State int

const (
	StateIdle State = iota
	StateScanning
	StatePreparing
	StateRunning
	StateCompleted
	StateAborted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateScanning:
		return "scanning"
	case StatePreparing:
		return "preparing"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateAborted:
		return "aborted"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether s ends a run.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateAborted || s == StateFailed
}

// Settings is the caller-supplied description of one run. The engine copies
// it on entry and never mutates it.
type Settings struct {
	InputDir    string
	OutputDir   string
	Masks       []string
	DeleteInput bool
	Overwrite   bool
	Key         xorkey.Key
}

// Validate checks what can be checked before a run starts.
func (s Settings) Validate() error {
	if strings.TrimSpace(s.InputDir) == "" {
		return &ConfigError{Field: "input", Err: ErrMissingPath}
	}
	if strings.TrimSpace(s.OutputDir) == "" {
		return &ConfigError{Field: "output", Err: ErrMissingPath}
	}
	info, err := os.Stat(s.InputDir)
	if err != nil {
		return &ConfigError{Field: "input", Err: ErrDirectoryNotFound}
	}
	if !info.IsDir() {
		return &ConfigError{Field: "input", Err: ErrDirectoryNotFound}
	}
	for _, m := range s.Masks {
		if _, err := filepath.Match(m, ""); err != nil {
			return &ConfigError{Field: "mask", Err: ErrBadMask}
		}
	}
	return nil
}

// Result summarises a finished run.
type Result struct {
	State     State
	Total     int
	Processed int
	Failed    int
	Deleted   int
	Bytes     int64
	Duration  time.Duration
}

// Percent is the overall progress of the run, processed*100/total.
func (r Result) Percent() int {
	return percent(r.Processed, r.Total)
}

func percent(done, total int) int {
	if total <= 0 {
		return 0
	}
	return done * 100 / total
}
