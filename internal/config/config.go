// Package config loads optional YAML settings profiles.
//
// A profile mirrors the command-line flags:
//
//	input: /data/incoming
//	output: /data/processed
//	masks: "*.txt; *.csv"
//	key: 0123456789ABCDEF
//	delete_input: false
//	overwrite: true
//	interval: 5s
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"xorbatch/internal/processor"
	"xorbatch/pkg/xorkey"
)

// DefaultKey is used when neither the profile nor the flags name a key.
const DefaultKey = "0123456789ABCDEF"

// Profile is the on-disk form of a run configuration. Pointer fields
// distinguish "absent" from the zero value so flags can be layered on top.
type Profile struct {
	Input       string        `yaml:"input,omitempty"`
	Output      string        `yaml:"output,omitempty"`
	Masks       string        `yaml:"masks,omitempty"`
	Key         string        `yaml:"key,omitempty"`
	DeleteInput *bool         `yaml:"delete_input,omitempty"`
	Overwrite   *bool         `yaml:"overwrite,omitempty"`
	Interval    time.Duration `yaml:"interval,omitempty"`
}

// Load reads and decodes a profile. Unknown keys are rejected so typos do not
// silently fall back to defaults.
func Load(path string) (Profile, error) {
	var p Profile

	f, err := os.Open(path)
	if err != nil {
		return p, fmt.Errorf("open profile: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return p, nil
		}
		return p, fmt.Errorf("decode profile %s: %w", path, err)
	}
	return p, nil
}

// Settings converts the profile into engine settings. Missing values take the
// defaults: all files, overwrite on, keep inputs, DefaultKey.
func (p Profile) Settings() (processor.Settings, error) {
	var s processor.Settings

	masks, err := processor.ParseMasks(p.Masks)
	if err != nil {
		return s, err
	}

	keyText := strings.TrimSpace(p.Key)
	if keyText == "" {
		keyText = DefaultKey
	}
	key, err := xorkey.Parse(keyText)
	if err != nil {
		return s, &processor.ConfigError{Field: "key", Err: err}
	}

	s = processor.Settings{
		InputDir:  p.Input,
		OutputDir: p.Output,
		Masks:     masks,
		Overwrite: true,
		Key:       key,
	}
	if p.DeleteInput != nil {
		s.DeleteInput = *p.DeleteInput
	}
	if p.Overwrite != nil {
		s.Overwrite = *p.Overwrite
	}
	return s, nil
}

// Save writes p as YAML.
func Save(path string, p Profile) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
