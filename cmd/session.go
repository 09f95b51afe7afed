package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"xorbatch/internal/logging"
	"xorbatch/internal/processor"
	"xorbatch/internal/scheduler"
	"xorbatch/internal/tui"
)

// runSession configures a scheduler, starts it and presents its events until
// the session ends. interval <= 0 means a single run.
func runSession(cmd *cobra.Command, f *settingsFlags, settings processor.Settings, interval time.Duration) error {
	stderr := cmd.ErrOrStderr()
	interactive := !f.plain && term.IsTerminal(int(os.Stdout.Fd()))

	logger, closeLog, err := logging.New(logOptions(f, interactive, stderr))
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer closeLog()

	engine := &processor.Engine{Logger: logger}
	sched := scheduler.New(engine, logger)
	if err := sched.Configure(settings, interval); err != nil {
		return err
	}

	events, err := sched.Start(cmd.Context())
	if err != nil {
		return err
	}

	stopSignals := watchSignals(sched, stderr)
	defer stopSignals()

	var history *tui.History
	if interactive {
		history = presentInteractive(sched, events, title(settings, interval))
	} else {
		history = tui.NewPlain(stderr).Consume(events)
	}
	sched.Wait()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, tui.RenderSummary(tui.SummaryRows(history)))
	if len(history.Results) == 0 {
		return nil
	}

	last := history.Results[len(history.Results)-1]
	fmt.Fprintln(out, tui.StateLine(last.State))
	if abs, err := filepath.Abs(settings.OutputDir); err == nil && last.Processed > 0 {
		fmt.Fprintf(out, "Output written to: %s\n", abs)
	}
	if last.State == processor.StateFailed {
		if n := len(history.Errors); n > 0 {
			return fmt.Errorf("run failed: %s", history.Errors[n-1])
		}
		return fmt.Errorf("run failed")
	}
	return nil
}

// logOptions picks the log destination: --log-file when given, otherwise
// stderr, except under the interactive view where stderr belongs to the UI.
func logOptions(f *settingsFlags, interactive bool, stderr io.Writer) logging.Options {
	opts := logging.Options{Verbose: f.verbose, File: f.logFile}
	if opts.File == "" && !interactive {
		opts.Writer = stderr
	}
	return opts
}

func presentInteractive(sched *scheduler.Scheduler, events <-chan processor.Event, heading string) *tui.History {
	model := tui.NewModel(heading, events, sched.RequestStop)
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		// The view could not start; stop cleanly and keep what was recorded.
		sched.RequestStop()
		h := model.History()
		for ev := range events {
			h.Record(ev)
		}
		return h
	}
	return final.(tui.Model).History()
}

// watchSignals turns SIGINT/SIGTERM into a stop request.
func watchSignals(sched *scheduler.Scheduler, stderr io.Writer) func() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		select {
		case <-sigChan:
			fmt.Fprintln(stderr, "\nStopping...")
			sched.RequestStop()
		case <-done:
		}
	}()

	return func() {
		signal.Stop(sigChan)
		close(done)
	}
}

func title(s processor.Settings, interval time.Duration) string {
	t := fmt.Sprintf("xorbatch  %s -> %s", s.InputDir, s.OutputDir)
	if interval > 0 {
		t += fmt.Sprintf("  (every %s)", interval)
	}
	return t
}
