package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Settings is the merged scsctl configuration: config file values
// overridden by explicitly set flags. Zero durations defer to the
// library defaults.
type Settings struct {
	Port         string
	Baud         int
	Echo         bool
	NoWriteAck   bool
	Timeout      time.Duration
	EchoTimeout  time.Duration
	ProbeTimeout time.Duration
}

func defaultSettings() Settings {
	return Settings{
		Baud: 1000000,
	}
}

type fileConfig struct {
	Port         string `toml:"port"`
	Baud         int    `toml:"baud"`
	Echo         bool   `toml:"echo"`
	NoWriteAck   bool   `toml:"no_write_ack"`
	Timeout      string `toml:"timeout"`
	EchoTimeout  string `toml:"echo_timeout"`
	ProbeTimeout string `toml:"probe_timeout"`
}

func loadSettings(path string) (Settings, error) {
	cfg := defaultSettings()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Settings{}, fmt.Errorf("load scsctl config: %w", err)
	}

	if meta.IsDefined("port") {
		cfg.Port = strings.TrimSpace(raw.Port)
	}

	if meta.IsDefined("baud") {
		cfg.Baud = raw.Baud
	}

	if meta.IsDefined("echo") {
		cfg.Echo = raw.Echo
	}

	if meta.IsDefined("no_write_ack") {
		cfg.NoWriteAck = raw.NoWriteAck
	}

	if meta.IsDefined("timeout") {
		d, err := parseDuration(raw.Timeout)
		if err != nil {
			return Settings{}, fmt.Errorf("parse timeout: %w", err)
		}
		cfg.Timeout = d
	}

	if meta.IsDefined("echo_timeout") {
		d, err := parseDuration(raw.EchoTimeout)
		if err != nil {
			return Settings{}, fmt.Errorf("parse echo_timeout: %w", err)
		}
		cfg.EchoTimeout = d
	}

	if meta.IsDefined("probe_timeout") {
		d, err := parseDuration(raw.ProbeTimeout)
		if err != nil {
			return Settings{}, fmt.Errorf("parse probe_timeout: %w", err)
		}
		cfg.ProbeTimeout = d
	}

	return cfg, nil
}

func parseDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %s", d)
	}
	return d, nil
}
