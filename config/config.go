// Package config provides YAML-based configuration loading with environment
// variable expansion and per-section validation.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

var hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Config represents the application configuration.
type Config struct {
	App      AppConfig      `yaml:"app"`
	Video    VideoConfig    `yaml:"video"`
	Keyboard KeyboardConfig `yaml:"keyboard"`
	Tile     TileConfig     `yaml:"tile"`
	Render   RenderConfig   `yaml:"render"`
	HTTP     HTTPConfig     `yaml:"http"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Video.Validate(); err != nil {
		return err
	}
	if err := c.Keyboard.Validate(); err != nil {
		return err
	}
	if err := c.Tile.Validate(); err != nil {
		return err
	}
	if err := c.Render.Validate(); err != nil {
		return err
	}
	return c.HTTP.Validate()
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	LogLevel string `yaml:"log_level"`
}

// SlogLevel maps the configured level name onto a slog.Level.
// Unknown names fall back to info.
func (c AppConfig) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// VideoConfig holds output video dimensions and frame rate.
type VideoConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	FPS    int `yaml:"fps"`
}

// Validate validates the video configuration.
func (c VideoConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Width, validation.Required, validation.Min(1)),
		validation.Field(&c.Height, validation.Required, validation.Min(1)),
		validation.Field(&c.FPS, validation.Required, validation.Min(1)),
	)
}

// KeyboardConfig holds the keyboard strip proportions.
//
// Ratio is the fraction of the video height reserved for the keyboard and
// must be in [0,1). Ratio 0 collapses the keyboard to a line; tiles are
// consumed at the bottom edge of the frame.
type KeyboardConfig struct {
	Ratio float64 `yaml:"ratio"`
}

// Validate validates the keyboard configuration.
func (c KeyboardConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Ratio, validation.Min(0.0), validation.Max(1.0).Exclusive()),
	)
}

// TileConfig holds falling-tile appearance settings.
type TileConfig struct {
	Velocity     float64 `yaml:"velocity"`
	Color        string  `yaml:"color"`
	ShowVelocity bool    `yaml:"show_velocity"`
}

// Validate validates the tile configuration.
func (c TileConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Velocity, validation.Required, validation.Min(0.0).Exclusive()),
		validation.Field(&c.Color, validation.Required, validation.Match(hexColorRe)),
	)
}

// RenderConfig holds intermediate render output settings.
type RenderConfig struct {
	FramesDir string `yaml:"frames_dir"`
}

// Validate validates the render configuration.
func (c RenderConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.FramesDir, validation.Required),
	)
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c HTTPConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// NewDefault returns a new Config with sensible default values.
func NewDefault() *Config {
	return &Config{
		App: AppConfig{
			LogLevel: "info",
		},
		Video: VideoConfig{
			Width:  1280,
			Height: 720,
			FPS:    30,
		},
		Keyboard: KeyboardConfig{
			Ratio: 0.125,
		},
		Tile: TileConfig{
			Velocity: 128,
			Color:    "#2bd465",
		},
		Render: RenderConfig{
			FramesDir: "_frames",
		},
		HTTP: HTTPConfig{
			Port: 8888,
		},
	}
}

// Load loads configuration from a YAML file with environment variable
// expansion, then validates the result.
func Load(filename string, target *Config) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", filename, err)
	}

	expanded := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expanded), target); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", filename, err)
	}

	if err := target.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}

// LoadOrDefault loads configuration from filename when it exists and keeps
// the passed-in defaults when it does not. The result is validated either way.
func LoadOrDefault(filename string, target *Config) error {
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		if err := target.Validate(); err != nil {
			return fmt.Errorf("config validation failed: %w", err)
		}
		return nil
	}
	return Load(filename, target)
}
