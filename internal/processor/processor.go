package processor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// Engine runs one batch at a time. A zero Engine is ready to use. The engine
// keeps no state between runs and does not guard against concurrent Run calls;
// that is the caller's job.
type Engine struct {
	// ChunkSize is the transform buffer size; DefaultChunkSize when zero.
	ChunkSize int
	// Logger receives a record of every status and error; nop when nil.
	Logger *zap.Logger
}

// run is the per-invocation state. It never outlives Run.
type run struct {
	ctx       context.Context
	settings  Settings
	sink      Sink
	log       *zap.Logger
	chunkSize int

	state        State
	lastProgress int
	result       Result
}

// Run enumerates settings.InputDir, transforms every matching file into
// settings.OutputDir and reports through sink. Cancelling ctx stops the run
// at the next chunk or file boundary; that ends in StateAborted with a nil
// error. A non-nil error is returned only when the run failed as a whole.
func (e *Engine) Run(ctx context.Context, settings Settings, sink Sink) (Result, error) {
	if sink == nil {
		sink = discard{}
	}
	logger := e.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	settings.Masks = append([]string(nil), settings.Masks...)

	r := &run{
		ctx:          ctx,
		settings:     settings,
		sink:         sink,
		log:          logger.With(zap.String("input", settings.InputDir), zap.String("output", settings.OutputDir)),
		chunkSize:    e.ChunkSize,
		lastProgress: -1,
	}

	start := time.Now()
	err := r.execute()
	r.result.Duration = time.Since(start)
	r.result.State = r.state

	r.log.Info("run finished",
		zap.Stringer("state", r.state),
		zap.Int("processed", r.result.Processed),
		zap.Int("total", r.result.Total),
		zap.Int("failed", r.result.Failed),
		zap.Int64("bytes", r.result.Bytes),
		zap.Duration("elapsed", r.result.Duration),
	)
	r.emit(Event{Kind: EventFinished, State: r.state, Result: r.result})
	return r.result, err
}

func (r *run) execute() error {
	r.transition(StateScanning)
	r.status("searching for files...")

	files, err := Enumerate(r.settings.InputDir, r.settings.Masks)
	if err != nil {
		return r.fail(err)
	}

	r.result.Total = len(files)
	if len(files) == 0 {
		r.status("no files found")
		r.transition(StateCompleted)
		return nil
	}

	r.transition(StatePreparing)
	r.status(fmt.Sprintf("found %d file(s)", len(files)))

	outDir, err := filepath.Abs(r.settings.OutputDir)
	if err != nil {
		return r.fail(newFileError(ErrOutputDirectory, "mkdir", r.settings.OutputDir, err))
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return r.fail(newFileError(ErrOutputDirectory, "mkdir", outDir, err))
	}

	r.transition(StateRunning)
	for _, inPath := range files {
		if r.ctx.Err() != nil {
			r.abort()
			return nil
		}

		if aborted := r.processFile(inPath, outDir); aborted {
			r.abort()
			return nil
		}

		r.progress(percent(r.result.Processed, r.result.Total))
	}

	r.status(fmt.Sprintf("finished: processed %d of %d", r.result.Processed, r.result.Total))
	if r.lastProgress != 100 {
		r.progress(100)
	}
	r.transition(StateCompleted)
	return nil
}

// processFile handles one input. It reports true when cancellation was
// observed inside the transform.
func (r *run) processFile(inPath, outDir string) bool {
	name := filepath.Base(inPath)
	outPath := ResolveOutputPath(filepath.Join(outDir, name), r.settings.Overwrite)

	if samePath(inPath, outPath) {
		r.fileError(newFileError(ErrSamePath, "create", outPath, nil))
		return false
	}

	r.status("processing: " + name)
	r.log.Debug("transform", zap.String("src", inPath), zap.String("dst", outPath))

	n, err := TransformFile(r.ctx, inPath, outPath, r.settings.Key, TransformOptions{
		ChunkSize:  r.chunkSize,
		OnProgress: r.fileProgress(inPath),
	})
	if err != nil {
		if errors.Is(err, ErrAborted) {
			r.log.Info("transform interrupted", zap.String("file", inPath), zap.Int64("written", n))
			return true
		}
		r.fileError(err)
		return false
	}

	r.result.Processed++
	r.result.Bytes += n

	if r.settings.DeleteInput {
		if err := os.Remove(inPath); err != nil {
			r.fileError(newFileError(ErrDelete, "remove", inPath, err))
		} else {
			r.result.Deleted++
		}
	}
	return false
}

// fileProgress returns a per-chunk callback that reports intra-file progress
// for inputs above LargeFileThreshold, once per percentage step.
func (r *run) fileProgress(path string) func(done, total int64) {
	last := -1
	return func(done, total int64) {
		if total <= LargeFileThreshold {
			return
		}
		p := int(done * 100 / total)
		if p > 100 {
			p = 100
		}
		if p == last {
			return
		}
		last = p
		r.emit(Event{Kind: EventFileProgress, Path: path, Percent: p})
	}
}

func (r *run) abort() {
	r.status("interrupted by user")
	r.transition(StateAborted)
}

func (r *run) fail(err error) error {
	r.log.Error("run failed", zap.Error(err))
	r.emit(Event{Kind: EventError, Err: err, Fatal: true, Message: err.Error()})
	r.transition(StateFailed)
	return err
}

func (r *run) fileError(err error) {
	r.result.Failed++
	var fe *FileError
	path := ""
	if errors.As(err, &fe) {
		path = fe.Path
	}
	r.log.Warn("file failed", zap.String("file", path), zap.Error(err))
	r.emit(Event{Kind: EventError, Err: err, Path: path, Message: err.Error()})
}

func (r *run) transition(s State) {
	r.state = s
	r.log.Debug("state", zap.Stringer("state", s))
	r.emit(Event{Kind: EventState, State: s})
}

func (r *run) status(msg string) {
	r.log.Info(msg)
	r.emit(Event{Kind: EventStatus, Message: msg})
}

func (r *run) progress(p int) {
	r.lastProgress = p
	r.emit(Event{Kind: EventProgress, Percent: p})
}

func (r *run) emit(ev Event) {
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	if ev.Kind != EventState && ev.Kind != EventFinished {
		ev.State = r.state
	}
	r.sink.Emit(ev)
}
