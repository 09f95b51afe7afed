package tui

import (
	"fmt"
	"io"

	"xorbatch/internal/processor"
)

// Plain prints events as timestamped lines. It is used when the output is
// not a terminal.
type Plain struct {
	out     io.Writer
	history *History
	last    int
}

func NewPlain(out io.Writer) *Plain {
	return &Plain{out: out, history: &History{}, last: -1}
}

// Consume prints every event from events until the channel is closed.
func (p *Plain) Consume(events <-chan processor.Event) *History {
	for ev := range events {
		p.Handle(ev)
	}
	return p.history
}

// Handle prints a single event.
func (p *Plain) Handle(ev processor.Event) {
	if line, ok := p.history.Record(ev); ok {
		fmt.Fprintln(p.out, line.String())
		return
	}

	switch ev.Kind {
	case processor.EventState:
		if ev.State == processor.StateScanning {
			p.last = -1
		}
	case processor.EventProgress:
		if ev.Percent != p.last {
			p.last = ev.Percent
			fmt.Fprintf(p.out, "[%s] progress: %d%%\n", ev.Time.Format("15:04:05"), ev.Percent)
		}
	}
}

func (p *Plain) History() *History {
	return p.history
}
