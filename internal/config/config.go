// File: internal/config/config.go
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Interface defines the contract for accessing application configuration.
// This allows for dependency injection and mocking in tests.
type Interface interface {
	Logger() LoggerConfig
	Engine() EngineConfig
	Grid() GridConfig
	Media() MediaConfig

	// Media setters, driven by CLI flags.
	SetMediaWidth(int)
	SetMediaHeight(int)
	SetMediaColorScheme(string)
	SetMediaTrueColor(bool)
}

// Config holds the entire application configuration. Sections are exported
// for viper; callers go through the Interface getters.
type Config struct {
	LoggerCfg LoggerConfig `mapstructure:"logger" yaml:"logger"`
	EngineCfg EngineConfig `mapstructure:"engine" yaml:"engine"`
	GridCfg   GridConfig   `mapstructure:"grid" yaml:"grid"`
	MediaCfg  MediaConfig  `mapstructure:"media" yaml:"media"`
}

// --- Interface Method Implementations (Getters) ---

func (c *Config) Logger() LoggerConfig { return c.LoggerCfg }
func (c *Config) Engine() EngineConfig { return c.EngineCfg }
func (c *Config) Grid() GridConfig     { return c.GridCfg }
func (c *Config) Media() MediaConfig   { return c.MediaCfg }

// --- Interface Method Implementations (Setters) ---

func (c *Config) SetMediaWidth(w int)          { c.MediaCfg.Width = w }
func (c *Config) SetMediaHeight(h int)         { c.MediaCfg.Height = h }
func (c *Config) SetMediaColorScheme(s string) { c.MediaCfg.ColorScheme = s }
func (c *Config) SetMediaTrueColor(b bool)     { c.MediaCfg.TrueColor = b }

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// EngineConfig tunes the cascade resolver.
type EngineConfig struct {
	// MaxVariableDepth bounds var() indirection before a reference is left
	// unresolved.
	MaxVariableDepth int `mapstructure:"max_variable_depth" yaml:"max_variable_depth"`
	// Inheritable lists extra properties that pass from parent to child.
	Inheritable []string `mapstructure:"inheritable" yaml:"inheritable"`
}

// GridConfig tunes the grid layout engine.
type GridConfig struct {
	MaxAutoRows int `mapstructure:"max_auto_rows" yaml:"max_auto_rows"`
	DefaultGap  int `mapstructure:"default_gap" yaml:"default_gap"`
}

// MediaConfig describes the terminal @media queries are evaluated against
// when nothing is passed on the command line.
type MediaConfig struct {
	Width       int    `mapstructure:"width" yaml:"width"`
	Height      int    `mapstructure:"height" yaml:"height"`
	ColorScheme string `mapstructure:"color_scheme" yaml:"color_scheme"`
	TrueColor   bool   `mapstructure:"true_color" yaml:"true_color"`
}

// EnvPrefix is the prefix for environment overrides, e.g. TERMSTYLE_MEDIA_WIDTH.
const EnvPrefix = "TERMSTYLE"

// NewDefaultConfig creates a new configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for various configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "termstyle")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.dpanic", "magenta")
	v.SetDefault("logger.colors.panic", "magenta")
	v.SetDefault("logger.colors.fatal", "magenta")

	// -- Engine --
	v.SetDefault("engine.max_variable_depth", 32)
	v.SetDefault("engine.inheritable", []string{})

	// -- Grid --
	v.SetDefault("grid.max_auto_rows", 1000)
	v.SetDefault("grid.default_gap", 0)

	// -- Media --
	v.SetDefault("media.width", 80)
	v.SetDefault("media.height", 24)
	v.SetDefault("media.color_scheme", "dark")
	v.SetDefault("media.true_color", false)
}

// ConfigureSources points v at termstyle.yaml in the working directory or
// in $HOME/.termstyle, and enables TERMSTYLE_ environment overrides.
func ConfigureSources(v *viper.Viper) error {
	v.SetConfigName("termstyle")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	home, err := homedir.Dir()
	if err != nil {
		return fmt.Errorf("could not resolve home directory: %w", err)
	}
	v.AddConfigPath(filepath.Join(home, ".termstyle"))

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return nil
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if c.EngineCfg.MaxVariableDepth <= 0 {
		return fmt.Errorf("engine.max_variable_depth must be a positive integer")
	}
	if c.GridCfg.MaxAutoRows <= 0 {
		return fmt.Errorf("grid.max_auto_rows must be a positive integer")
	}
	if c.GridCfg.DefaultGap < 0 {
		return fmt.Errorf("grid.default_gap must not be negative")
	}
	if err := c.MediaCfg.Validate(); err != nil {
		return fmt.Errorf("media configuration invalid: %w", err)
	}
	return nil
}

// Validate checks the MediaConfig settings.
func (m *MediaConfig) Validate() error {
	if m.Width < 0 || m.Height < 0 {
		return fmt.Errorf("width and height must not be negative")
	}
	switch m.ColorScheme {
	case "", "dark", "light":
		return nil
	}
	return fmt.Errorf("color_scheme must be dark or light, got %q", m.ColorScheme)
}
