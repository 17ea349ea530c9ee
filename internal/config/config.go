// Package config loads and saves the aws-tui settings file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/creasty/defaults"
	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"
)

const (
	appName  = "aws-tui"
	fileName = "config.yaml"

	maxPageSize = 1000
)

// ErrInvalidConfig is matched by every ValidationError
var ErrInvalidConfig = errors.New("invalid config")

// Config is the persisted settings file
type Config struct {
	Profile        string `yaml:"profile,omitempty"`
	Region         string `yaml:"region,omitempty"`
	PageSize       int    `yaml:"pageSize" default:"50"`
	RefreshSeconds int    `yaml:"refreshSeconds" default:"30"`
}

// Default returns the settings used when no file exists
func Default() Config {
	var c Config
	if err := defaults.Set(&c); err != nil {
		// struct tags are static
		panic(err)
	}
	return c
}

// ValidationError lists every problem found in a config file
type ValidationError struct {
	Path     string
	Problems []string
}

func (e *ValidationError) Error() string {
	where := "config"
	if e.Path != "" {
		where = e.Path
	}
	return fmt.Sprintf("%s: %s", where, strings.Join(e.Problems, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// Validate checks the numeric settings
func (c Config) Validate() error {
	var problems []string
	if c.PageSize <= 0 || c.PageSize > maxPageSize {
		problems = append(problems, fmt.Sprintf("pageSize must be between 1 and %d, got %d", maxPageSize, c.PageSize))
	}
	if c.RefreshSeconds <= 0 {
		problems = append(problems, fmt.Sprintf("refreshSeconds must be positive, got %d", c.RefreshSeconds))
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// Dir returns the XDG config directory of the application
func Dir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", goerr.Wrap(err, "failed to resolve home directory")
	}

	return filepath.Join(homeDir, ".config", appName), nil
}

// Path returns the default location of the settings file
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// Load reads the settings file at path. A missing file yields Default().
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, goerr.Wrap(err, "failed to read config", goerr.V("path", path))
	}

	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, &ValidationError{Path: path, Problems: []string{err.Error()}}
	}

	if err := cfg.Validate(); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			verr.Path = path
		}
		return Config{}, err
	}
	return cfg, nil
}

// Save writes cfg to path through a temporary file and a rename
func Save(path string, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return goerr.Wrap(err, "failed to encode config")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return goerr.Wrap(err, "failed to create config directory", goerr.V("dir", dir))
	}

	tmp, err := os.CreateTemp(dir, fileName+".*")
	if err != nil {
		return goerr.Wrap(err, "failed to create temp config", goerr.V("dir", dir))
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return goerr.Wrap(err, "failed to write config", goerr.V("path", tmp.Name()))
	}
	if err := tmp.Close(); err != nil {
		return goerr.Wrap(err, "failed to write config", goerr.V("path", tmp.Name()))
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return goerr.Wrap(err, "failed to replace config", goerr.V("path", path))
	}
	return nil
}

// Settings is the effective configuration after environment overrides
type Settings struct {
	Profile        string
	Region         string
	PageSize       int
	RefreshSeconds int
}

// Resolve layers the environment over the file. AWS_PROFILE wins over
// AWS_DEFAULT_PROFILE and AWS_REGION over AWS_DEFAULT_REGION.
func Resolve(getenv func(string) string, file Config) Settings {
	fallback := Default()
	s := Settings{
		Profile:        file.Profile,
		Region:         file.Region,
		PageSize:       file.PageSize,
		RefreshSeconds: file.RefreshSeconds,
	}
	if s.PageSize <= 0 {
		s.PageSize = fallback.PageSize
	}
	if s.RefreshSeconds <= 0 {
		s.RefreshSeconds = fallback.RefreshSeconds
	}
	if p := firstNonEmpty(getenv("AWS_PROFILE"), getenv("AWS_DEFAULT_PROFILE")); p != "" {
		s.Profile = p
	}
	if r := firstNonEmpty(getenv("AWS_REGION"), getenv("AWS_DEFAULT_REGION")); r != "" {
		s.Region = r
	}
	return s
}

// File returns the persisted form of s
func (s Settings) File() Config {
	return Config{
		Profile:        s.Profile,
		Region:         s.Region,
		PageSize:       s.PageSize,
		RefreshSeconds: s.RefreshSeconds,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
