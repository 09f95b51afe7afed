package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"xorbatch/internal/config"
	"xorbatch/internal/processor"
)

const (
	minInterval     = time.Second
	maxInterval     = time.Hour
	defaultInterval = 5 * time.Second
)

// settingsFlags are shared by every command that describes a run.
type settingsFlags struct {
	profile     string
	input       string
	output      string
	masks       string
	key         string
	deleteInput bool
	noOverwrite bool
	interval    time.Duration

	plain   bool
	logFile string
	verbose bool
}

func (f *settingsFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.input, "input", "i", "", "directory to read files from")
	fl.StringVarP(&f.output, "output", "o", "", "directory to write transformed files to (created if missing)")
	fl.StringVarP(&f.masks, "mask", "m", "*", `file masks separated by ";" (e.g. "*.txt;*.log")`)
	fl.StringVarP(&f.key, "key", "k", config.DefaultKey, "16 hex character XOR key")
	fl.BoolVar(&f.deleteInput, "delete-input", false, "delete each input after it was transformed")
	fl.BoolVarP(&f.noOverwrite, "no-overwrite", "n", false, "add a _N suffix instead of overwriting existing outputs")
	fl.StringVarP(&f.profile, "config", "c", "", "YAML settings profile; explicit flags take precedence")
}

func (f *settingsFlags) registerOutput(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.BoolVar(&f.plain, "plain", false, "print log lines instead of the interactive view")
	fl.StringVar(&f.logFile, "log-file", "", "append a detailed log to this file")
	fl.BoolVarP(&f.verbose, "verbose", "v", false, "log debug detail")
}

// profile merges the --config file (if any) with explicitly set flags.
func (f *settingsFlags) merged(cmd *cobra.Command) (config.Profile, error) {
	var p config.Profile
	if f.profile != "" {
		loaded, err := config.Load(f.profile)
		if err != nil {
			return p, err
		}
		p = loaded
	}

	changed := func(name string) bool {
		fl := cmd.Flags().Lookup(name)
		return fl != nil && fl.Changed
	}

	if changed("input") || p.Input == "" {
		p.Input = f.input
	}
	if changed("output") || p.Output == "" {
		p.Output = f.output
	}
	if changed("mask") || p.Masks == "" {
		p.Masks = f.masks
	}
	if changed("key") || p.Key == "" {
		p.Key = f.key
	}
	if changed("delete-input") || p.DeleteInput == nil {
		v := f.deleteInput
		p.DeleteInput = &v
	}
	if changed("no-overwrite") || p.Overwrite == nil {
		v := !f.noOverwrite
		p.Overwrite = &v
	}
	if changed("interval") || p.Interval == 0 {
		p.Interval = f.interval
	}
	return p, nil
}

func (f *settingsFlags) settings(cmd *cobra.Command) (processor.Settings, time.Duration, error) {
	p, err := f.merged(cmd)
	if err != nil {
		return processor.Settings{}, 0, err
	}
	s, err := p.Settings()
	if err != nil {
		return processor.Settings{}, 0, err
	}
	return s, p.Interval, nil
}

func checkInterval(d time.Duration) error {
	if d < minInterval || d > maxInterval {
		return fmt.Errorf("interval must be between %s and %s, got %s", minInterval, maxInterval, d)
	}
	return nil
}
