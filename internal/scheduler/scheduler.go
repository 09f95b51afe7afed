// Package scheduler is the caller-side driver for the processing engine. It
// installs settings, starts runs in the background, forwards engine events on
// a channel and optionally re-invokes the engine on a fixed interval.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"xorbatch/internal/processor"
)

var (
	ErrNotConfigured  = errors.New("scheduler: settings not configured")
	ErrAlreadyRunning = errors.New("scheduler: a session is already running")
)

// Runner is anything that can execute one batch. *processor.Engine
// satisfies it.
type Runner interface {
	Run(ctx context.Context, settings processor.Settings, sink processor.Sink) (processor.Result, error)
}

// Scheduler owns the session lifecycle: at most one session is active, and
// within a session at most one run is in flight.
type Scheduler struct {
	runner Runner
	log    *zap.Logger

	// EventBuffer sizes the channel returned by Start.
	EventBuffer int

	mu         sync.Mutex
	settings   processor.Settings
	interval   time.Duration
	configured bool
	cancel     context.CancelFunc
	done       chan struct{}
	results    []processor.Result

	active  atomic.Bool
	running atomic.Bool
}

// New returns a Scheduler driving runner. A nil logger disables logging.
func New(runner Runner, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		runner:      runner,
		log:         logger,
		EventBuffer: 64,
	}
}

// Configure validates settings and installs them for the next run. An
// interval above zero selects timer mode. Calling Configure during a timer
// session changes what the next tick runs.
func (s *Scheduler) Configure(settings processor.Settings, interval time.Duration) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	settings.Masks = append([]string(nil), settings.Masks...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	s.interval = interval
	s.configured = true
	return nil
}

// Start begins a session and returns its event stream. The channel is closed
// once the session is over: after the single run, or in timer mode after
// RequestStop (or ctx cancellation) and the last run has finished.
func (s *Scheduler) Start(ctx context.Context) (<-chan processor.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.configured {
		return nil, ErrNotConfigured
	}
	if !s.active.CompareAndSwap(false, true) {
		return nil, ErrAlreadyRunning
	}

	sessionCtx, cancel := context.WithCancel(ctx)
	events := make(chan processor.Event, s.EventBuffer)
	done := make(chan struct{})

	s.cancel = cancel
	s.done = done
	s.results = nil

	interval := s.interval
	go s.session(sessionCtx, interval, events, done)

	s.log.Info("session started", zap.Duration("interval", interval))
	return events, nil
}

// RequestStop asks the current session to stop. It does not wait; use Wait
// or drain the event channel to observe the end.
func (s *Scheduler) RequestStop() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()

	if cancel != nil {
		s.log.Info("stop requested")
		cancel()
	}
}

// Wait blocks until the current session, if any, has ended.
func (s *Scheduler) Wait() {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()

	if done != nil {
		<-done
	}
}

// Active reports whether a session is in progress.
func (s *Scheduler) Active() bool {
	return s.active.Load()
}

// Running reports whether a run is in flight right now.
func (s *Scheduler) Running() bool {
	return s.running.Load()
}

// Results returns the results of the runs of the current or last session.
func (s *Scheduler) Results() []processor.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]processor.Result(nil), s.results...)
}

func (s *Scheduler) session(ctx context.Context, interval time.Duration, events chan processor.Event, done chan struct{}) {
	var wg sync.WaitGroup
	sink := processor.ChannelSink(events)

	defer func() {
		wg.Wait()
		close(events)

		s.mu.Lock()
		s.cancel()
		s.cancel = nil
		s.mu.Unlock()

		s.active.Store(false)
		close(done)
		s.log.Info("session ended")
	}()

	trigger := func() {
		if !s.running.CompareAndSwap(false, true) {
			s.log.Debug("tick skipped, previous run still active")
			return
		}

		s.mu.Lock()
		settings := s.settings
		s.mu.Unlock()

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer s.running.Store(false)

			res, err := s.runner.Run(ctx, settings, sink)
			if err != nil {
				s.log.Warn("run failed", zap.Error(err))
			}

			s.mu.Lock()
			s.results = append(s.results, res)
			s.mu.Unlock()
		}()
	}

	trigger()

	if interval <= 0 {
		wg.Wait()
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if ctx.Err() != nil {
				return
			}
			trigger()
		}
	}
}
