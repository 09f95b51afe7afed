package processor

import (
	"errors"
	"fmt"
)

// Sentinel errors. Use errors.Is to test for them; the typed errors below
// unwrap to both the sentinel and the underlying OS error.
var (
	// Configuration
	ErrMissingPath = errors.New("path not specified")
	ErrBadMask     = errors.New("malformed file mask")

	// Fatal to a run
	ErrDirectoryNotFound = errors.New("input directory not found")
	ErrOutputDirectory   = errors.New("cannot create output directory")

	// Per file
	ErrInputOpen  = errors.New("cannot open input file")
	ErrOutputOpen = errors.New("cannot open output file")
	ErrRead       = errors.New("read failed")
	ErrWrite      = errors.New("write failed")
	ErrShortWrite = errors.New("short write")
	ErrSamePath   = errors.New("output path resolves to input path")
	ErrDelete     = errors.New("cannot delete input file")

	// ErrAborted is returned when cancellation was honoured. It is an
	// expected outcome, not a failure.
	ErrAborted = errors.New("processing aborted")
)

// ConfigError is a settings problem detected before a run starts.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// FileError is a filesystem failure. Kind is one of the sentinels above.
type FileError struct {
	Kind error
	Op   string // "open", "create", "read", "write", "mkdir", "readdir", "remove"
	Path string
	Err  error
}

func (e *FileError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v: %s %s: %v", e.Kind, e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%v: %s %s", e.Kind, e.Op, e.Path)
}

func (e *FileError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newFileError(kind error, op, path string, err error) *FileError {
	return &FileError{Kind: kind, Op: op, Path: path, Err: err}
}

// IsFatal reports whether err ends a run rather than a single file.
func IsFatal(err error) bool {
	return errors.Is(err, ErrDirectoryNotFound) || errors.Is(err, ErrOutputDirectory)
}

// IsAborted reports whether err is the cancellation outcome.
func IsAborted(err error) bool {
	return errors.Is(err, ErrAborted)
}
