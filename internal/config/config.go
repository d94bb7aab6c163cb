package config

import (
	"fmt"
	"os"
	"path/filepath"

	"moviesort/internal/errors"

	"gopkg.in/yaml.v3"
)

// Default values used when the config file is absent or leaves a field unset.
const (
	DefaultInterpreter = "python"
	DefaultScript      = "python/organize_movies.py"
	DefaultTitle       = "Movie Organizer"
	DefaultWidth       = 800
	DefaultHeight      = 600
	DefaultBusyText    = "Processing..."
	DefaultDebounceMS  = 2000
)

// DefaultWatchPatterns matches the movie containers the organizer handles.
var DefaultWatchPatterns = []string{"*.{mkv,mp4,avi,mov,m4v,wmv}"}

// Config represents the application configuration structure.
type Config struct {
	Organizer struct {
		Interpreter string            `yaml:"interpreter"` // Executable that runs the script
		Script      string            `yaml:"script"`      // Path of the organizing script
		Env         map[string]string `yaml:"env"`         // Extra environment for the task
	} `yaml:"organizer"`
	Window struct {
		Title  string `yaml:"title"`
		Width  int    `yaml:"width"`
		Height int    `yaml:"height"`
	} `yaml:"window"`
	Status struct {
		BusyText string `yaml:"busy_text"` // Text shown while a task runs
	} `yaml:"status"`
	Watch struct {
		Enabled     bool     `yaml:"enabled"`     // Organize watched directories automatically
		Directories []string `yaml:"directories"` // Directories to watch
		Patterns    []string `yaml:"patterns"`    // Glob patterns that trigger a run
		DebounceMS  int      `yaml:"debounce_ms"` // Quiet period before a run starts
	} `yaml:"watch"`
	Log struct {
		Debug bool `yaml:"debug"`
		JSON  bool `yaml:"json"`
	} `yaml:"log"`
}

// Dir returns the configuration directory (~/.config/moviesort).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "moviesort"), nil
}

// DefaultPath returns the default configuration file location.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// LoadConfig loads configuration from the default location
// (~/.config/moviesort/config.yaml).
func LoadConfig() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadConfigFile(path)
}

// LoadConfigFile loads configuration from a specific file path.
// If the file doesn't exist, returns default configuration.
func LoadConfigFile(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Unmarshal into a temporary config to preserve defaults for unset fields
	var tempCfg Config
	if err := yaml.Unmarshal(data, &tempCfg); err != nil {
		return nil, errors.NewConfigError("error parsing config file", path, errors.InvalidConfig, err)
	}

	if tempCfg.Organizer.Interpreter != "" {
		cfg.Organizer.Interpreter = tempCfg.Organizer.Interpreter
	}
	if tempCfg.Organizer.Script != "" {
		cfg.Organizer.Script = tempCfg.Organizer.Script
	}
	for k, v := range tempCfg.Organizer.Env {
		cfg.Organizer.Env[k] = v
	}

	if tempCfg.Window.Title != "" {
		cfg.Window.Title = tempCfg.Window.Title
	}
	if tempCfg.Window.Width != 0 {
		cfg.Window.Width = tempCfg.Window.Width
	}
	if tempCfg.Window.Height != 0 {
		cfg.Window.Height = tempCfg.Window.Height
	}

	if tempCfg.Status.BusyText != "" {
		cfg.Status.BusyText = tempCfg.Status.BusyText
	}

	cfg.Watch.Enabled = tempCfg.Watch.Enabled
	if len(tempCfg.Watch.Directories) > 0 {
		cfg.Watch.Directories = tempCfg.Watch.Directories
	}
	if len(tempCfg.Watch.Patterns) > 0 {
		cfg.Watch.Patterns = tempCfg.Watch.Patterns
	}
	if tempCfg.Watch.DebounceMS != 0 {
		cfg.Watch.DebounceMS = tempCfg.Watch.DebounceMS
	}

	cfg.Log = tempCfg.Log

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// RequireFile reports a ConfigNotFound error when path does not exist. It is
// used for paths given explicitly, where falling back to defaults would hide
// a typo.
func RequireFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return errors.NewConfigError("config file not found", path, errors.ConfigNotFound, err)
		}
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// defaultConfig returns the default configuration.
func defaultConfig() *Config {
	cfg := &Config{}

	cfg.Organizer.Interpreter = DefaultInterpreter
	cfg.Organizer.Script = DefaultScript
	cfg.Organizer.Env = map[string]string{}

	cfg.Window.Title = DefaultTitle
	cfg.Window.Width = DefaultWidth
	cfg.Window.Height = DefaultHeight

	cfg.Status.BusyText = DefaultBusyText

	cfg.Watch.Enabled = false
	cfg.Watch.Directories = []string{}
	cfg.Watch.Patterns = append([]string(nil), DefaultWatchPatterns...)
	cfg.Watch.DebounceMS = DefaultDebounceMS

	return cfg
}

// SaveConfig saves the configuration to the specified file.
// It creates parent directories if they don't exist.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return errors.NewConfigError("nil config", "", errors.InvalidConfig, nil)
	}

	if c.Organizer.Interpreter == "" {
		return errors.NewConfigError("interpreter is required", "organizer.interpreter", errors.InvalidConfig, nil)
	}
	if c.Organizer.Script == "" {
		return errors.NewConfigError("script is required", "organizer.script", errors.InvalidConfig, nil)
	}

	if c.Window.Width < 1 {
		return errors.NewConfigError("width must be positive", "window.width", errors.InvalidConfig, nil)
	}
	if c.Window.Height < 1 {
		return errors.NewConfigError("height must be positive", "window.height", errors.InvalidConfig, nil)
	}

	if c.Watch.DebounceMS < 0 {
		return errors.NewConfigError("debounce must be >= 0", "watch.debounce_ms", errors.InvalidConfig, nil)
	}
	for i, dir := range c.Watch.Directories {
		if dir == "" {
			return errors.NewConfigError(fmt.Sprintf("directory %d is empty", i), "watch.directories", errors.InvalidConfig, nil)
		}
	}
	for i, p := range c.Watch.Patterns {
		if p == "" {
			return errors.NewConfigError(fmt.Sprintf("pattern %d is empty", i), "watch.patterns", errors.InvalidConfig, nil)
		}
	}
	if c.Watch.Enabled && len(c.Watch.Directories) == 0 {
		return errors.NewConfigError("watch enabled without directories", "watch.directories", errors.InvalidConfig, nil)
	}

	return nil
}

// NewTestConfig creates a configuration instance for testing purposes.
func NewTestConfig() *Config {
	cfg := defaultConfig()
	cfg.Organizer.Interpreter = "sh"
	cfg.Organizer.Script = "organize.sh"
	cfg.Watch.DebounceMS = 50
	return cfg
}

// New creates a new configuration instance with default values.
func New() *Config {
	return defaultConfig()
}

// ScriptPath resolves the organizer script. Relative paths are taken
// relative to base, usually the executable's directory.
func (c *Config) ScriptPath(base string) string {
	if filepath.IsAbs(c.Organizer.Script) || base == "" {
		return c.Organizer.Script
	}
	return filepath.Join(base, c.Organizer.Script)
}
