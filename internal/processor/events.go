package processor

import "time"

// EventKind identifies what an Event carries.
type EventKind int

const (
	// EventState marks a lifecycle transition; State is set.
	EventState EventKind = iota + 1
	// EventStatus is a human-readable status line; Message is set.
	EventStatus
	// EventProgress is overall progress; Percent is 0-100.
	EventProgress
	// EventFileProgress is progress within one large file; Path and Percent are set.
	EventFileProgress
	// EventError reports a failure; Err is set and Fatal tells whether the run stops.
	EventError
	// EventFinished is the last event of every run; Result is set.
	EventFinished
)

func (k EventKind) String() string {
	switch k {
	case EventState:
		return "state"
	case EventStatus:
		return "status"
	case EventProgress:
		return "progress"
	case EventFileProgress:
		return "file-progress"
	case EventError:
		return "error"
	case EventFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Event is a notification from the engine to its caller.
type Event struct {
	Kind    EventKind
	Time    time.Time
	State   State
	Percent int
	Message string
	Path    string
	Err     error
	Fatal   bool
	Result  Result
}

// Sink receives engine events. Emit is called synchronously on the engine's
// goroutine, in order.
type Sink interface {
	Emit(Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event)

func (f SinkFunc) Emit(ev Event) { f(ev) }

type chanSink chan<- Event

func (c chanSink) Emit(ev Event) { c <- ev }

// ChannelSink delivers events on ch. Sends block, so the consumer must keep
// draining ch until the run finishes.
func ChannelSink(ch chan<- Event) Sink {
	return chanSink(ch)
}

type discard struct{}

func (discard) Emit(Event) {}
