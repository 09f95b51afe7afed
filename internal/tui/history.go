package tui

import (
	"fmt"
	"sync"
	"time"

	"xorbatch/internal/processor"
)

const errorPrefix = "ERROR: "

// Line is one timestamped history entry.
type Line struct {
	Time time.Time
	Text string
}

func (l Line) String() string {
	return fmt.Sprintf("[%s] %s", l.Time.Format("15:04:05"), l.Text)
}

// History is the running log of status and error messages, plus the result
// of every finished run.
type History struct {
	mu      sync.Mutex
	Lines   []Line
	Errors  []string
	Results []processor.Result
}

// Record appends ev if it carries something worth keeping and returns the
// line it added, if any.
func (h *History) Record(ev processor.Event) (Line, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ts := ev.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	var text string
	switch ev.Kind {
	case processor.EventStatus:
		text = ev.Message
	case processor.EventError:
		text = errorPrefix + ev.Message
		h.Errors = append(h.Errors, ev.Message)
	case processor.EventFinished:
		h.Results = append(h.Results, ev.Result)
		return Line{}, false
	default:
		return Line{}, false
	}

	line := Line{Time: ts, Text: text}
	h.Lines = append(h.Lines, line)
	return line, true
}

// Tail returns up to n most recent lines.
func (h *History) Tail(n int) []Line {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.Lines) <= n {
		return append([]Line(nil), h.Lines...)
	}
	return append([]Line(nil), h.Lines[len(h.Lines)-n:]...)
}

// Totals sums the results of all recorded runs.
func (h *History) Totals() processor.Result {
	h.mu.Lock()
	defer h.mu.Unlock()

	var sum processor.Result
	for _, r := range h.Results {
		sum.Total += r.Total
		sum.Processed += r.Processed
		sum.Failed += r.Failed
		sum.Deleted += r.Deleted
		sum.Bytes += r.Bytes
		sum.Duration += r.Duration
		sum.State = r.State
	}
	return sum
}
