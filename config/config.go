// Package config finds, loads and normalizes the yaml configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
	"time"

	c "git.cmcode.dev/cmcode/gamble-tracker-tui/constants"
	m "git.cmcode.dev/cmcode/gamble-tracker-tui/models"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfig          = "config.yml"
	DefaultConfigParentDir = c.AppName
	// ExampleConfig is the name of the embedded fallback config.
	ExampleConfig = "example.yml"

	DefaultServer             = "http://127.0.0.1:5000"
	DefaultReplaySettleMillis = 50
	DefaultLogFileName        = "gamble-tracker.log"
	DefaultLogLevel           = "info"
)

// Dirs are the base directories searched for a config file.
type Dirs struct {
	ConfigHome string
	Home       string
}

// XDGDirs returns the user's XDG config directory and home directory.
func XDGDirs() Dirs {
	return Dirs{ConfigHome: xdg.ConfigHome, Home: xdg.Home}
}

// Attempts to load from a specific location.
//
// The "t" parameter is the map of translations.
func loadConfFrom(file string, t map[string]string) (m.Config, string, error) {
	conf := m.Config{}

	b, err := os.ReadFile(file)
	if err != nil {
		return conf, "", fmt.Errorf("%v %v: %w", t["ConfigFailedToLoadConfig"], file, err)
	}

	err = yaml.Unmarshal(b, &conf)
	if err != nil {
		return conf, "", fmt.Errorf("%v %v: %w", t["ConfigFailedToUnmarshalConfig"], file, err)
	}

	return conf, file, nil
}

func loadConfFromEmbed(file string, emb fs.FS, t map[string]string) (m.Config, string, error) {
	conf := m.Config{}

	b, err := fs.ReadFile(emb, file)
	if err != nil {
		return conf, "", fmt.Errorf("%v %v: %w", t["ConfigFailedToLoadEmbeddedConfig"], file, err)
	}

	err = yaml.Unmarshal(b, &conf)
	if err != nil {
		return conf, "", fmt.Errorf("%v %v: %w", t["ConfigFailedToUnmarshalEmbeddedConfig"], file, err)
	}

	return conf, file, nil
}

func fileExists(name string) (bool, error) {
	_, err := os.Stat(name)
	if err == nil {
		return true, nil
	}

	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}

	return false, err
}

// Load looks for a config in this order: the "file" path if one was given,
// the xdg config dir, then ~/.gamble-tracker-tui. When none exists the
// embedded example config is used.
//
// The second return value is the path the config was loaded from, or the
// name of the embedded example.
//
// The "t" parameter is the map of translations.
func Load(file string, dirs Dirs, t map[string]string, example fs.FS) (m.Config, string, error) {
	var conf m.Config

	if file != "" {
		exists, err := fileExists(file)
		if err != nil {
			return conf, file, fmt.Errorf("failed to check if file %v exists: %w", file, err)
		}

		if !exists {
			return conf, file, fmt.Errorf("%v %v: %w", t["ConfigFailedToLoadConfig"], file, os.ErrNotExist)
		}

		return loadConfFrom(file, t)
	}

	candidates := []string{}

	if dirs.ConfigHome != "" {
		candidates = append(candidates, path.Join(dirs.ConfigHome, DefaultConfigParentDir, DefaultConfig))
	}

	if dirs.Home != "" {
		candidates = append(candidates, path.Join(dirs.Home, "."+DefaultConfigParentDir, DefaultConfig))
	}

	for _, candidate := range candidates {
		exists, err := fileExists(candidate)
		if err != nil {
			return conf, candidate, fmt.Errorf("failed to check if file %v exists: %w", candidate, err)
		}

		if !exists {
			continue
		}

		conf, file, err = loadConfFrom(candidate, t)
		if err != nil {
			return conf, file, fmt.Errorf("failed to load config from existing config file %v: %w", candidate, err)
		}

		return conf, file, nil
	}

	conf, file, err := loadConfFromEmbed(ExampleConfig, example, t)
	if err != nil {
		return conf, file, fmt.Errorf("failed to load config from template config %v: %w", file, err)
	}

	return conf, file, nil
}

// Overrides are values given on the command line. Empty fields leave the
// loaded config alone.
type Overrides struct {
	Server   string
	Theme    string
	LogLevel string
	LogFile  string
	Page     string
}

// Process applies command line overrides and fills in defaults. Use it after
// Load.
func Process(conf *m.Config, o Overrides) error {
	if conf == nil {
		return fmt.Errorf("config is nil")
	}

	if o.Server != "" {
		conf.Server = o.Server
	}

	if o.Theme != "" {
		conf.Theme = o.Theme
	}

	if o.LogLevel != "" {
		conf.LogLevel = o.LogLevel
	}

	if o.LogFile != "" {
		conf.LogFile = o.LogFile
	}

	if o.Page != "" {
		conf.StartPage = o.Page
	}

	if strings.TrimSpace(conf.Server) == "" {
		conf.Server = DefaultServer
	}

	if conf.LogLevel == "" {
		conf.LogLevel = DefaultLogLevel
	}

	if conf.ReplaySettleMillis == nil {
		d := DefaultReplaySettleMillis
		conf.ReplaySettleMillis = &d
	}

	if *conf.ReplaySettleMillis < 0 {
		return fmt.Errorf("replaySettleMillis must not be negative, got %d", *conf.ReplaySettleMillis)
	}

	if conf.RequestTimeoutSeconds < 0 {
		return fmt.Errorf("requestTimeoutSeconds must not be negative, got %d", conf.RequestTimeoutSeconds)
	}

	switch strings.ToLower(conf.StartPage) {
	case "", m.KindGambles:
		conf.StartPage = m.KindGambles
	case m.KindBank:
		conf.StartPage = m.KindBank
	default:
		return fmt.Errorf("unknown start page %q, expected %v or %v", conf.StartPage, m.KindGambles, m.KindBank)
	}

	if conf.Keybindings == nil {
		conf.Keybindings = map[string][]string{}
	}

	if conf.Version == "" {
		conf.Version = c.CONFIG_VERSION
	}

	return nil
}

// SettleDelay returns the processed replay settle delay.
func SettleDelay(conf m.Config) time.Duration {
	if conf.ReplaySettleMillis == nil {
		return DefaultReplaySettleMillis * time.Millisecond
	}

	return time.Duration(*conf.ReplaySettleMillis) * time.Millisecond
}

// RequestTimeout returns the per-request timeout; 0 means none.
func RequestTimeout(conf m.Config) time.Duration {
	return time.Duration(conf.RequestTimeoutSeconds) * time.Second
}

// DefaultLogFile returns the log file path under the xdg state dir, creating
// the parent directory.
func DefaultLogFile() (string, error) {
	p, err := xdg.StateFile(path.Join(DefaultConfigParentDir, DefaultLogFileName))
	if err != nil {
		return "", fmt.Errorf("failed to resolve log file path: %w", err)
	}

	return p, nil
}
