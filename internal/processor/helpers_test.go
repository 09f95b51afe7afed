package processor

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return data
}

func pattern(n int) []byte {
	var buf bytes.Buffer
	for i := 0; i < n; i++ {
		buf.WriteByte(byte(i*7 + 3))
	}
	return buf.Bytes()
}

// recorder is a Sink that keeps every event. onEmit, if set, runs inside Emit.
type recorder struct {
	mu     sync.Mutex
	events []Event
	onEmit func(Event)
}

func (r *recorder) Emit(ev Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
	if r.onEmit != nil {
		r.onEmit(ev)
	}
}

func (r *recorder) kind(k EventKind) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Event
	for _, ev := range r.events {
		if ev.Kind == k {
			out = append(out, ev)
		}
	}
	return out
}

func (r *recorder) progress() []int {
	var out []int
	for _, ev := range r.kind(EventProgress) {
		out = append(out, ev.Percent)
	}
	return out
}

func (r *recorder) states() []State {
	var out []State
	for _, ev := range r.kind(EventState) {
		out = append(out, ev.State)
	}
	return out
}

func (r *recorder) statuses() []string {
	var out []string
	for _, ev := range r.kind(EventStatus) {
		out = append(out, ev.Message)
	}
	return out
}
