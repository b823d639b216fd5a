// Package config loads the YAML configuration file for the oxyfront executable.
//
// Every field is optional; a missing field keeps its Default value.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

// Present mode names accepted in the renderer section.
const (
	PresentModeVSync    = "vsync"
	PresentModeUncapped = "uncapped"
)

// Config is the root of the configuration file.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Renderer RendererConfig `yaml:"renderer"`
	Engine   EngineConfig   `yaml:"engine"`
	Log      LogConfig      `yaml:"log"`
	Scene    SceneConfig    `yaml:"scene"`
}

// WindowConfig sizes and titles the window.
type WindowConfig struct {
	Title         string `yaml:"title"`
	Width         int    `yaml:"width"`
	Height        int    `yaml:"height"`
	CloseOnEscape bool   `yaml:"close_on_escape"`
	// Size limits applied while the user resizes.
	MinWidth  int `yaml:"min_width"`
	MinHeight int `yaml:"min_height"`
	MaxWidth  int `yaml:"max_width"`
	MaxHeight int `yaml:"max_height"`
}

// RendererConfig selects GPU context options.
type RendererConfig struct {
	PresentMode string `yaml:"present_mode"`
	MSAA        int    `yaml:"msaa"`
	Software    bool   `yaml:"software"`
	// ClearColor is RGBA in [0,1].
	ClearColor [4]float64 `yaml:"clear_color"`
	// Shader is an optional WGSL file replacing the built-in shader.
	Shader  string `yaml:"shader"`
	Workers int    `yaml:"workers"`
}

// EngineConfig controls the frame loop.
type EngineConfig struct {
	// FrameLimit caps frames per second; 0 is uncapped.
	FrameLimit float64 `yaml:"frame_limit"`
	Profiling  bool    `yaml:"profiling"`
}

// LogConfig controls the text log handler.
type LogConfig struct {
	Level string `yaml:"level"`
}

// SceneConfig shapes the demo quad grid.
type SceneConfig struct {
	Columns    int     `yaml:"columns"`
	Rows       int     `yaml:"rows"`
	Spacing    float32 `yaml:"spacing"`
	OrbitSpeed float32 `yaml:"orbit_speed"`
	// Spin turns every tile about the vertical axis, in radians per second.
	Spin float32 `yaml:"spin"`
	// Textures are image files; empty means generated checkerboards.
	Textures []string `yaml:"textures"`
	// Model is an optional .gltf or .glb file drawn instead of the quad.
	Model string `yaml:"model"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:         "oxy-front",
			Width:         1280,
			Height:        720,
			CloseOnEscape: true,
			MinWidth:      320,
			MinHeight:     200,
			MaxWidth:      3840,
			MaxHeight:     2160,
		},
		Renderer: RendererConfig{
			PresentMode: PresentModeVSync,
			MSAA:        1,
			ClearColor:  [4]float64{0.1, 0.2, 0.3, 1},
		},
		Log: LogConfig{Level: "info"},
		Scene: SceneConfig{
			Columns:    10,
			Rows:       10,
			Spacing:    3,
			OrbitSpeed: 0.5,
		},
	}
}

// Load reads the file at path over Default and validates the result.
// Unknown keys are rejected.
//
// Parameters:
//   - path: the YAML file to read
//
// Returns:
//   - Config: the merged configuration
//   - error: a read, parse or validation error
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML bytes over Default and validates the result.
//
// Parameters:
//   - data: YAML document bytes
//
// Returns:
//   - Config: the merged configuration
//   - error: a parse or validation error
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges and enumerations.
func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Window.MinWidth <= 0 || c.Window.MinHeight <= 0 ||
		c.Window.MinWidth > c.Window.MaxWidth || c.Window.MinHeight > c.Window.MaxHeight {
		errs = append(errs, fmt.Errorf("window limits %dx%d..%dx%d are invalid",
			c.Window.MinWidth, c.Window.MinHeight, c.Window.MaxWidth, c.Window.MaxHeight))
	}
	switch strings.ToLower(c.Renderer.PresentMode) {
	case PresentModeVSync, PresentModeUncapped:
	default:
		errs = append(errs, fmt.Errorf("unknown present mode %q", c.Renderer.PresentMode))
	}
	switch c.Renderer.MSAA {
	case 1, 4, 8, 16:
	default:
		errs = append(errs, fmt.Errorf("msaa must be 1, 4, 8 or 16, got %d", c.Renderer.MSAA))
	}
	for i, v := range c.Renderer.ClearColor {
		if v < 0 || v > 1 {
			errs = append(errs, fmt.Errorf("clear_color[%d] = %v out of [0,1]", i, v))
		}
	}
	if c.Renderer.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", c.Renderer.Workers))
	}
	if c.Engine.FrameLimit < 0 {
		errs = append(errs, fmt.Errorf("frame_limit must not be negative, got %v", c.Engine.FrameLimit))
	}
	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}
	if c.Scene.Columns < 0 || c.Scene.Rows < 0 {
		errs = append(errs, fmt.Errorf("scene grid %dx%d must not be negative", c.Scene.Columns, c.Scene.Rows))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// LogLevel parses Log.Level ("debug", "info", "warn", "error").
func (c Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level: %w", err)
	}
	return level, nil
}

// Uncapped reports whether the renderer section asks for the immediate present mode.
func (c Config) Uncapped() bool {
	return strings.ToLower(c.Renderer.PresentMode) == PresentModeUncapped
}
