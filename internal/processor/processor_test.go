package processor

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func settingsFor(in, out string) Settings {
	return Settings{
		InputDir:  in,
		OutputDir: out,
		Masks:     []string{"*"},
		Overwrite: true,
		Key:       testKey,
	}
}

func TestRunCollisionAndProgress(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	writeFile(t, in, "a.bin", pattern(10))
	writeFile(t, in, "b.bin", pattern(20))
	writeFile(t, in, "c.bin", pattern(30))
	writeFile(t, out, "b.bin", []byte("already here"))

	s := settingsFor(in, out)
	s.Overwrite = false

	rec := &recorder{}
	var e Engine
	res, err := e.Run(context.Background(), s, rec)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if res.State != StateCompleted || res.Processed != 3 || res.Total != 3 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if got := rec.progress(); !reflect.DeepEqual(got, []int{33, 66, 100}) {
		t.Fatalf("progress = %v, want [33 66 100]", got)
	}

	for _, name := range []string{"a.bin", "b.bin", "b_1.bin", "c.bin"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Fatalf("expected output %s: %v", name, err)
		}
	}
	if got := readFile(t, filepath.Join(out, "b.bin")); string(got) != "already here" {
		t.Fatalf("existing output was overwritten: %q", got)
	}

	restored := transformBytes(t, readFile(t, filepath.Join(out, "b_1.bin")), testKey, 8)
	if !bytes.Equal(restored, pattern(20)) {
		t.Fatal("b_1.bin does not decode to b.bin input")
	}

	wantStates := []State{StateScanning, StatePreparing, StateRunning, StateCompleted}
	if got := rec.states(); !reflect.DeepEqual(got, wantStates) {
		t.Fatalf("states = %v, want %v", got, wantStates)
	}

	finished := rec.kind(EventFinished)
	if len(finished) != 1 || finished[0].Result.Processed != 3 {
		t.Fatalf("expected one finished event, got %+v", finished)
	}
	if rec.events[len(rec.events)-1].Kind != EventFinished {
		t.Fatal("finished event must be last")
	}

	statuses := rec.statuses()
	if statuses[0] != "searching for files..." || statuses[1] != "found 3 file(s)" {
		t.Fatalf("unexpected leading statuses: %q", statuses)
	}
	if last := statuses[len(statuses)-1]; last != "finished: processed 3 of 3" {
		t.Fatalf("unexpected final status %q", last)
	}
}

func TestRunOverwriteReplacesExisting(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	writeFile(t, in, "a.txt", []byte("abc"))
	writeFile(t, out, "a.txt", []byte("stale content"))

	var e Engine
	if _, err := e.Run(context.Background(), settingsFor(in, out), nil); err != nil {
		t.Fatalf("run: %v", err)
	}

	got := readFile(t, filepath.Join(out, "a.txt"))
	if len(got) != 3 {
		t.Fatalf("expected overwritten output of 3 bytes, got %d", len(got))
	}
	if _, err := os.Stat(filepath.Join(out, "a_1.txt")); !os.IsNotExist(err) {
		t.Fatal("overwrite mode must not create suffixed names")
	}
}

func TestRunMasksFilterInputs(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	writeFile(t, in, "keep.txt", []byte("1"))
	writeFile(t, in, "skip.log", []byte("2"))

	s := settingsFor(in, out)
	s.Masks = []string{"*.txt"}

	var e Engine
	res, err := e.Run(context.Background(), s, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Total != 1 || res.Processed != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
	if _, err := os.Stat(filepath.Join(out, "skip.log")); !os.IsNotExist(err) {
		t.Fatal("unmatched file was processed")
	}
}

func TestRunNoFiles(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "never-created")

	rec := &recorder{}
	var e Engine
	res, err := e.Run(context.Background(), settingsFor(in, out), rec)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.State != StateCompleted || res.Processed != 0 || res.Total != 0 {
		t.Fatalf("unexpected result %+v", res)
	}
	if got := rec.statuses(); got[len(got)-1] != "no files found" {
		t.Fatalf("statuses = %q", got)
	}
	if len(rec.progress()) != 0 {
		t.Fatalf("no progress expected, got %v", rec.progress())
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatal("output directory should not be created when there is nothing to do")
	}
}

func TestRunCreatesNestedOutputDirectory(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "x", "y", "z")
	writeFile(t, in, "a.bin", pattern(5))

	var e Engine
	if _, err := e.Run(context.Background(), settingsFor(in, out), nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "a.bin")); err != nil {
		t.Fatalf("expected output in nested dir: %v", err)
	}
}

func TestRunOutputDirectoryFailureIsFatal(t *testing.T) {
	in := t.TempDir()
	writeFile(t, in, "a.bin", pattern(5))
	writeFile(t, in, "b.bin", pattern(5))
	blocker := writeFile(t, t.TempDir(), "blocker", []byte("regular file"))

	rec := &recorder{}
	var e Engine
	res, err := e.Run(context.Background(), settingsFor(in, blocker), rec)
	if !errors.Is(err, ErrOutputDirectory) {
		t.Fatalf("expected ErrOutputDirectory, got %v", err)
	}
	if res.State != StateFailed || res.Processed != 0 {
		t.Fatalf("unexpected result %+v", res)
	}

	errs := rec.kind(EventError)
	if len(errs) != 1 || !errs[0].Fatal {
		t.Fatalf("expected a single fatal error event, got %+v", errs)
	}
	if len(rec.kind(EventFinished)) != 1 {
		t.Fatal("expected a finished event after the fatal error")
	}
	for _, s := range rec.statuses() {
		if strings.HasPrefix(s, "processing:") {
			t.Fatalf("no file should be processed, saw %q", s)
		}
	}
}

func TestRunMissingInputIsFatal(t *testing.T) {
	rec := &recorder{}
	var e Engine
	res, err := e.Run(context.Background(), settingsFor(filepath.Join(t.TempDir(), "gone"), t.TempDir()), rec)
	if !errors.Is(err, ErrDirectoryNotFound) {
		t.Fatalf("expected ErrDirectoryNotFound, got %v", err)
	}
	if res.State != StateFailed {
		t.Fatalf("state = %v", res.State)
	}
	if got := rec.states(); !reflect.DeepEqual(got, []State{StateScanning, StateFailed}) {
		t.Fatalf("states = %v", got)
	}
}

func TestRunCancelBetweenFiles(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	names := []string{"1.bin", "2.bin", "3.bin", "4.bin"}
	for _, n := range names {
		writeFile(t, in, n, pattern(64))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rec := &recorder{}
	rec.onEmit = func(ev Event) {
		if ev.Kind == EventProgress && ev.Percent > 0 {
			cancel()
		}
	}

	var e Engine
	res, err := e.Run(ctx, settingsFor(in, out), rec)
	if err != nil {
		t.Fatalf("abort must not be an error: %v", err)
	}
	if res.State != StateAborted {
		t.Fatalf("state = %v, want aborted", res.State)
	}
	if res.Processed != 1 || res.Processed >= res.Total {
		t.Fatalf("unexpected counts %+v", res)
	}
	if _, err := os.Stat(filepath.Join(out, "1.bin")); err != nil {
		t.Fatalf("first output missing: %v", err)
	}
	for _, n := range names[1:] {
		if _, err := os.Stat(filepath.Join(out, n)); !os.IsNotExist(err) {
			t.Fatalf("%s written after cancellation", n)
		}
	}

	statuses := rec.statuses()
	if statuses[len(statuses)-1] != "interrupted by user" {
		t.Fatalf("statuses = %q", statuses)
	}
	if len(rec.kind(EventError)) != 0 {
		t.Fatal("cancellation must not emit error events")
	}
	if p := rec.progress(); p[len(p)-1] == 100 {
		t.Fatal("aborted run must not force progress to 100")
	}
}

func TestRunCancelInsideTransform(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	writeFile(t, in, "big.bin", pattern(8*KiB))
	writeFile(t, in, "next.bin", pattern(10))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rec := &recorder{}
	rec.onEmit = func(ev Event) {
		if ev.Kind == EventStatus && ev.Message == "processing: big.bin" {
			cancel()
		}
	}

	e := Engine{ChunkSize: KiB}
	res, err := e.Run(ctx, settingsFor(in, out), rec)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.State != StateAborted || res.Processed != 0 {
		t.Fatalf("unexpected result %+v", res)
	}
	if _, err := os.Stat(filepath.Join(out, "next.bin")); !os.IsNotExist(err) {
		t.Fatal("file after the cancellation point was written")
	}
	if len(rec.kind(EventError)) != 0 {
		t.Fatal("cancellation must not emit error events")
	}
}

func TestRunPerFileFailureContinues(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	writeFile(t, in, "a.bin", pattern(4))
	writeFile(t, in, "b.bin", pattern(4))
	writeFile(t, in, "c.bin", pattern(4))
	if err := os.Mkdir(filepath.Join(out, "b.bin"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	rec := &recorder{}
	var e Engine
	res, err := e.Run(context.Background(), settingsFor(in, out), rec)
	if err != nil {
		t.Fatalf("per-file errors must not fail the run: %v", err)
	}
	if res.State != StateCompleted || res.Processed != 2 || res.Failed != 1 {
		t.Fatalf("unexpected result %+v", res)
	}

	errs := rec.kind(EventError)
	if len(errs) != 1 || errs[0].Fatal || !errors.Is(errs[0].Err, ErrOutputOpen) {
		t.Fatalf("expected one non-fatal ErrOutputOpen event, got %+v", errs)
	}
	if !strings.Contains(errs[0].Message, "b.bin") {
		t.Fatalf("error should name the file: %q", errs[0].Message)
	}

	if got := rec.progress(); !reflect.DeepEqual(got, []int{33, 33, 66, 100}) {
		t.Fatalf("progress = %v", got)
	}
}

func TestRunDeleteInput(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	src := writeFile(t, in, "a.bin", pattern(12))

	s := settingsFor(in, out)
	s.DeleteInput = true

	var e Engine
	res, err := e.Run(context.Background(), s, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Deleted != 1 {
		t.Fatalf("deleted = %d", res.Deleted)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatal("input should have been removed")
	}
	if _, err := os.Stat(filepath.Join(out, "a.bin")); err != nil {
		t.Fatalf("output missing: %v", err)
	}
}

func TestRunKeepsInputWhenTransformFails(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	src := writeFile(t, in, "a.bin", pattern(12))
	if err := os.Mkdir(filepath.Join(out, "a.bin"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	s := settingsFor(in, out)
	s.DeleteInput = true

	var e Engine
	if _, err := e.Run(context.Background(), s, nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, err := os.Stat(src); err != nil {
		t.Fatal("a failed input must not be deleted")
	}
}

func TestRunSameDirectoryWithOverwriteRefusesTruncation(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "a.bin", pattern(16))

	rec := &recorder{}
	var e Engine
	res, err := e.Run(context.Background(), settingsFor(dir, dir), rec)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Failed != 1 || res.Processed != 0 {
		t.Fatalf("unexpected result %+v", res)
	}
	if errs := rec.kind(EventError); len(errs) != 1 || !errors.Is(errs[0].Err, ErrSamePath) {
		t.Fatalf("expected ErrSamePath, got %+v", errs)
	}
	if !bytes.Equal(readFile(t, src), pattern(16)) {
		t.Fatal("input was modified")
	}
}

func TestRunSameDirectoryWithoutOverwrite(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.bin", pattern(16))

	s := settingsFor(dir, dir)
	s.Overwrite = false

	var e Engine
	res, err := e.Run(context.Background(), s, nil)
	if err != nil || res.Processed != 1 {
		t.Fatalf("run: %+v %v", res, err)
	}
	if _, err := os.Stat(filepath.Join(dir, "a_1.bin")); err != nil {
		t.Fatalf("expected a_1.bin: %v", err)
	}
}

func TestRunLargeFileProgress(t *testing.T) {
	if testing.Short() {
		t.Skip("writes an 11 MiB file")
	}

	in := t.TempDir()
	out := t.TempDir()
	writeFile(t, in, "big.bin", make([]byte, LargeFileThreshold+MiB))
	writeFile(t, in, "small.bin", make([]byte, 10))

	rec := &recorder{}
	var e Engine
	if _, err := e.Run(context.Background(), settingsFor(in, out), rec); err != nil {
		t.Fatalf("run: %v", err)
	}

	fp := rec.kind(EventFileProgress)
	if len(fp) != 11 {
		t.Fatalf("expected 11 file progress events (one per MiB), got %d", len(fp))
	}
	last := -1
	for _, ev := range fp {
		if filepath.Base(ev.Path) != "big.bin" {
			t.Fatalf("file progress for unexpected file %q", ev.Path)
		}
		if ev.Percent <= last {
			t.Fatalf("file progress not increasing: %d after %d", ev.Percent, last)
		}
		last = ev.Percent
	}
	if last != 100 {
		t.Fatalf("final file progress %d, want 100", last)
	}
}

func TestSettingsValidate(t *testing.T) {
	in := t.TempDir()
	file := writeFile(t, in, "f", nil)

	tests := []struct {
		name  string
		s     Settings
		field string
		err   error
	}{
		{"missing input", Settings{OutputDir: "out"}, "input", ErrMissingPath},
		{"missing output", Settings{InputDir: in}, "output", ErrMissingPath},
		{"input not found", Settings{InputDir: filepath.Join(in, "nope"), OutputDir: "out"}, "input", ErrDirectoryNotFound},
		{"input is a file", Settings{InputDir: file, OutputDir: "out"}, "input", ErrDirectoryNotFound},
		{"bad mask", Settings{InputDir: in, OutputDir: "out", Masks: []string{"[x"}}, "mask", ErrBadMask},
	}

	for _, tt := range tests {
		err := tt.s.Validate()
		var cfg *ConfigError
		if !errors.As(err, &cfg) || cfg.Field != tt.field || !errors.Is(err, tt.err) {
			t.Errorf("%s: got %v", tt.name, err)
		}
	}

	if err := settingsFor(in, "out").Validate(); err != nil {
		t.Fatalf("valid settings rejected: %v", err)
	}
}
