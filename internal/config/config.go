// Package config resolves penilai's settings from defaults, an optional YAML
// file and PENILAI_* environment variables. Command-line flags are applied on
// top by cmd.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/penilai/internal/lessonplan"
	"github.com/abhisek/penilai/internal/llm"
	"github.com/abhisek/penilai/internal/rubric"
)

// Config holds all penilai configuration.
type Config struct {
	// DBPath is the SQLite file. Empty resolves to the XDG data directory.
	DBPath       string            `yaml:"db_path"`
	LogLevel     string            `yaml:"log_level"`
	KeywordsFile string            `yaml:"keywords_file"`
	Server       ServerConfig      `yaml:"server"`
	LLM          llm.Config        `yaml:"llm"`
	LessonPlan   lessonplan.Config `yaml:"lesson_plan"`
}

// ServerConfig controls `penilai serve`.
type ServerConfig struct {
	Addr           string        `yaml:"addr"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	CORSOrigins    []string      `yaml:"cors_origins"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel: "info",
		Server: ServerConfig{
			Addr:           "127.0.0.1:8080",
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   2 * time.Minute,
			RequestTimeout: 100 * time.Second,
			CORSOrigins:    []string{"*"},
		},
		LLM:        llm.DefaultConfig(),
		LessonPlan: lessonplan.DefaultConfig(),
	}
}

// EnvConfig names the variable holding the config file path.
const EnvConfig = "PENILAI_CONFIG"

// Load resolves the configuration. An empty path falls back to
// $PENILAI_CONFIG, then to $XDG_CONFIG_HOME/penilai/config.yaml if it exists.
// A path given explicitly must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = os.Getenv(EnvConfig)
		explicit = path != ""
	}
	if !explicit {
		path = defaultPath()
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist) && !explicit:
		default:
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.LLM.Discover()
	return cfg, nil
}

func defaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "penilai", "config.yaml")
}

func (c *Config) applyEnv() {
	set := func(name string, dst *string) {
		if v := os.Getenv(llm.EnvPrefix + name); v != "" {
			*dst = v
		}
	}
	set("DB", &c.DBPath)
	set("LOG_LEVEL", &c.LogLevel)
	set("KEYWORDS", &c.KeywordsFile)
	set("ADDR", &c.Server.Addr)
	llm.ApplyEnv(&c.LLM)
}

// Keywords returns the extractor vocabulary: the defaults, or the YAML file
// named by KeywordsFile.
func (c Config) Keywords() (rubric.Keywords, error) {
	if c.KeywordsFile == "" {
		return rubric.DefaultKeywords(), nil
	}
	return rubric.LoadKeywords(c.KeywordsFile)
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return l, nil
}

// NewLogger returns a text logger writing to w at the configured level.
func (c Config) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}
