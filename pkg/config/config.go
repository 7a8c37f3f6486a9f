// Package config loads the remotelayout configuration file.
//
// The file is TOML and is looked up at $XDG_CONFIG_HOME/remotelayout/remotelayout.toml
// (falling back to ~/.config/remotelayout/remotelayout.toml) unless a path is
// given explicitly. Every key is optional:
//
//	[editor]
//	inset = { width = 8, height = 4 }
//	max_size = { width = 0, height = 0 }   # zero uses the parent's content area
//
//	[editor.min_size]
//	button = { width = 22, height = 22 }
//	buttonGroup = { width = 44, height = 22 }
//
//	[store]
//	backend = "file"                       # file, memory, redis or mongo
//	dir = "~/.local/share/remotelayout/layouts"
//	ttl = "0s"
//
//	[store.redis]
//	addr = "localhost:6379"
//	prefix = "remotelayout:"
//
//	[store.mongo]
//	uri = "mongodb://localhost:27017"
//	database = "remotelayout"
//	collection = "layouts"
//
//	[server]
//	addr = ":8080"
//	read_timeout = "10s"
//	write_timeout = "30s"
//
//	[log]
//	level = "info"
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/remotelayout/pkg/editor"
	"github.com/matzehuels/remotelayout/pkg/geom"
	"github.com/matzehuels/remotelayout/pkg/model"
	"github.com/matzehuels/remotelayout/pkg/store"
)

const (
	appName  = "remotelayout"
	fileName = appName + ".toml"
)

// ErrUnknownKey is returned by [Load] when the file contains keys that do
// not map to a configuration field.
var ErrUnknownKey = errors.New("unknown configuration key")

// Config is the decoded configuration file.
type Config struct {
	Editor EditorConfig `toml:"editor"`
	Store  store.Config `toml:"store"`
	Server ServerConfig `toml:"server"`
	Log    LogConfig    `toml:"log"`
}

// Size is a width and height pair.
type Size struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

func (s Size) geom() geom.Size { return geom.Size{Width: s.Width, Height: s.Height} }

// EditorConfig configures the constraint editor.
type EditorConfig struct {
	Inset   Size            `toml:"inset"`
	MinSize map[string]Size `toml:"min_size"`
	MaxSize Size            `toml:"max_size"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Addr         string        `toml:"addr"`
	ReadTimeout  time.Duration `toml:"read_timeout"`
	WriteTimeout time.Duration `toml:"write_timeout"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	dir, err := DataDir()
	if err != nil {
		dir = filepath.Join(os.TempDir(), appName)
	}
	return Config{
		Store: store.Config{
			Backend: store.BackendFile,
			Dir:     filepath.Join(dir, "layouts"),
			Redis:   store.RedisConfig{Addr: "localhost:6379", Prefix: appName + ":"},
			Mongo: store.MongoConfig{
				URI:        "mongodb://localhost:27017",
				Database:   appName,
				Collection: "layouts",
			},
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads the configuration at path on top of [Default]. An empty path
// uses [Path]; a missing default file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, os.ErrNotExist) && !explicit {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("load %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("load %s: %w: %s", path, ErrUnknownKey, strings.Join(keys, ", "))
	}
	cfg.Store.Dir = expandHome(cfg.Store.Dir)
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("load %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges and names.
func (c Config) Validate() error {
	if !slices.Contains(store.Backends, c.Store.Backend) {
		return fmt.Errorf("%w: %q (want one of %s)", store.ErrUnknownBackend, c.Store.Backend, strings.Join(store.Backends, ", "))
	}
	if c.Store.Backend == store.BackendFile && c.Store.Dir == "" {
		return errors.New("store.dir is required for the file backend")
	}
	if c.Store.TTL < 0 {
		return fmt.Errorf("store.ttl must not be negative, got %s", c.Store.TTL)
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 {
		return errors.New("server timeouts must not be negative")
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Editor.Inset.Width < 0 || c.Editor.Inset.Height < 0 {
		return errors.New("editor.inset must not be negative")
	}
	if c.Editor.MaxSize.Width < 0 || c.Editor.MaxSize.Height < 0 {
		return errors.New("editor.max_size must not be negative")
	}
	for name, size := range c.Editor.MinSize {
		if _, err := model.ParseKind(name); err != nil {
			return fmt.Errorf("editor.min_size: %w", err)
		}
		if size.Width <= 0 || size.Height <= 0 {
			return fmt.Errorf("editor.min_size.%s must be positive", name)
		}
	}
	return nil
}

// LogLevel returns the configured log level, defaulting to info.
func (c Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// EditorOptions converts the editor section into [editor.Options].
func (c Config) EditorOptions(logger *log.Logger) editor.Options {
	opts := editor.Options{
		Logger:       logger,
		ContentInset: c.Editor.Inset.geom(),
	}
	if len(c.Editor.MinSize) > 0 {
		opts.MinSizes = make(map[model.Kind]geom.Size, len(c.Editor.MinSize))
		for name, size := range c.Editor.MinSize {
			if kind, err := model.ParseKind(name); err == nil {
				opts.MinSizes[kind] = size.geom()
			}
		}
	}
	if limit := c.Editor.MaxSize; limit.Width > 0 || limit.Height > 0 {
		opts.MaxSize = func(_ *model.Element, content geom.Box) geom.Size {
			size := content.Size()
			if limit.Width > 0 {
				size.Width = min(size.Width, limit.Width)
			}
			if limit.Height > 0 {
				size.Height = min(size.Height, limit.Height)
			}
			return size
		}
	}
	return opts
}

// Path returns the default configuration file path using the XDG standard.
func Path() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName, fileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, fileName), nil
}

// DataDir returns the data directory using the XDG standard
// (~/.local/share/remotelayout/).
func DataDir() (string, error) {
	if home := os.Getenv("XDG_DATA_HOME"); home != "" {
		return filepath.Join(home, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appName), nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
