// Package config loads go-mode settings from a YAML file and GOMODE_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables that override file
// settings, e.g. GOMODE_LOGGING_LEVEL.
const EnvPrefix = "GOMODE"

// Config represents the application configuration
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Serial  SerialConfig  `mapstructure:"serial"`
	Console ConsoleConfig `mapstructure:"console"`
	State   StateConfig   `mapstructure:"state"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// SerialConfig selects the serial driver and maps COMn names to devices.
type SerialConfig struct {
	// Driver is "native" (termios or Win32 comm API) or "portable"
	// (go.bug.st/serial).
	Driver string `mapstructure:"driver"`
	// PortTemplate builds a device path from a port number. {n} is the
	// port number and {index} is the port number minus one.
	PortTemplate string `mapstructure:"port_template"`
	// Ports overrides the template for individual ports, e.g.
	// COM3: /dev/ttyUSB0.
	Ports map[string]string `mapstructure:"ports"`
}

// ConsoleConfig represents console collaborator configuration
type ConsoleConfig struct {
	KeyboardDevice string `mapstructure:"keyboard_device"`
	XtermResize    bool   `mapstructure:"xterm_resize"`
}

// StateConfig locates the device state file.
type StateConfig struct {
	Path string `mapstructure:"path"`
}

var (
	validLevels  = []string{"debug", "info", "warn", "error"}
	validFormats = []string{"console", "json"}
	validDrivers = []string{"native", "portable"}
)

// Load reads configuration from path, or from the default location when
// path is empty. A missing default file is not an error; a missing explicit
// file is.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		if dir, err := defaultDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Logging stays quiet so command output matches MODE.COM.
	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stderr")
	v.SetDefault("logging.max_size", 10)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age", 28)
	v.SetDefault("logging.compress", false)

	v.SetDefault("serial.driver", "native")
	v.SetDefault("serial.port_template", "")
	v.SetDefault("serial.ports", map[string]string{})

	v.SetDefault("console.keyboard_device", "/dev/tty0")
	v.SetDefault("console.xterm_resize", true)

	statePath := ""
	if dir, err := defaultDir(); err == nil {
		statePath = filepath.Join(dir, "state.yaml")
	}
	v.SetDefault("state.path", statePath)
}

// defaultDir returns the per-user go-mode configuration directory.
func defaultDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "go-mode"), nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if !slices.Contains(validLevels, c.Logging.Level) {
		return fmt.Errorf("logging.level must be one of: %v", validLevels)
	}
	if !slices.Contains(validFormats, c.Logging.Format) {
		return fmt.Errorf("logging.format must be one of: %v", validFormats)
	}
	if c.Logging.Output == "" {
		return fmt.Errorf("logging.output is required")
	}
	if !slices.Contains(validDrivers, c.Serial.Driver) {
		return fmt.Errorf("serial.driver must be one of: %v", validDrivers)
	}
	for name := range c.Serial.Ports {
		if !strings.HasPrefix(strings.ToUpper(name), "COM") {
			return fmt.Errorf("serial.ports: %q is not a COM port name", name)
		}
	}
	return nil
}
