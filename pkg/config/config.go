package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

// FileName is the config file name searched for when no explicit path is given
const FileName = "raytracer"

// EnvPrefix prefixes environment overrides, e.g. RAYTRACER_RENDER_WIDTH
const EnvPrefix = "RAYTRACER"

// Config is the complete application configuration
type Config struct {
	Scene  string         `mapstructure:"scene" yaml:"scene"`
	Render RenderSettings `mapstructure:"render" yaml:"render"`
	Camera CameraSettings `mapstructure:"camera" yaml:"camera"`
	Window WindowSettings `mapstructure:"window" yaml:"window"`
	Output OutputSettings `mapstructure:"output" yaml:"output"`
	Server ServerSettings `mapstructure:"server" yaml:"server"`
}

// RenderSettings controls frame size, projection and parallelism
type RenderSettings struct {
	Width    int     `mapstructure:"width" yaml:"width"`
	Height   int     `mapstructure:"height" yaml:"height"`
	FOV      float64 `mapstructure:"fov" yaml:"fov"` // vertical, degrees
	TileSize int     `mapstructure:"tile_size" yaml:"tile_size"`
	Workers  int     `mapstructure:"workers" yaml:"workers"` // 0 = one per CPU
}

// CameraSettings holds the initial eye position and movement step
type CameraSettings struct {
	X     float64 `mapstructure:"x" yaml:"x"`
	Y     float64 `mapstructure:"y" yaml:"y"`
	Z     float64 `mapstructure:"z" yaml:"z"`
	Speed float64 `mapstructure:"speed" yaml:"speed"`
}

// WindowSettings controls the interactive viewer
type WindowSettings struct {
	TPS   int `mapstructure:"tps" yaml:"tps"`
	Scale int `mapstructure:"scale" yaml:"scale"`
}

// OutputSettings controls where headless renders are written
type OutputSettings struct {
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// ServerSettings controls the web server
type ServerSettings struct {
	Port int `mapstructure:"port" yaml:"port"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Scene: "default",
		Render: RenderSettings{
			Width:    800,
			Height:   600,
			FOV:      90,
			TileSize: 32,
			Workers:  0,
		},
		Camera: CameraSettings{Speed: 0.1},
		Window: WindowSettings{TPS: 60, Scale: 1},
		Output: OutputSettings{Dir: "output"},
		Server: ServerSettings{Port: 8080},
	}
}

// SetDefaults registers every key with its default value. Keys must be known
// to viper for environment overrides to reach Unmarshal.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("scene", d.Scene)
	v.SetDefault("render.width", d.Render.Width)
	v.SetDefault("render.height", d.Render.Height)
	v.SetDefault("render.fov", d.Render.FOV)
	v.SetDefault("render.tile_size", d.Render.TileSize)
	v.SetDefault("render.workers", d.Render.Workers)
	v.SetDefault("camera.x", d.Camera.X)
	v.SetDefault("camera.y", d.Camera.Y)
	v.SetDefault("camera.z", d.Camera.Z)
	v.SetDefault("camera.speed", d.Camera.Speed)
	v.SetDefault("window.tps", d.Window.TPS)
	v.SetDefault("window.scale", d.Window.Scale)
	v.SetDefault("output.dir", d.Output.Dir)
	v.SetDefault("server.port", d.Server.Port)
}

// New creates a viper instance with defaults, the config file location and
// environment overrides set up. An empty configFile searches ., ./configs
// and $HOME/.raytracer for raytracer.yaml.
func New(configFile string) *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if homeDir, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(homeDir, ".raytracer"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the config file (if any), applies overrides and validates the
// result. A missing file in the search paths is not an error; a missing
// explicit file is.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Validate checks ranges that would otherwise produce an unusable camera
func (c *Config) Validate() error {
	if c.Scene == "" {
		return fmt.Errorf("scene cannot be empty")
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return fmt.Errorf("render size must be positive, got %dx%d", c.Render.Width, c.Render.Height)
	}
	if c.Render.FOV <= 0 || c.Render.FOV >= 180 {
		return fmt.Errorf("fov must be in (0, 180) degrees, got %g", c.Render.FOV)
	}
	if c.Render.Workers < 0 {
		return fmt.Errorf("workers cannot be negative, got %d", c.Render.Workers)
	}
	if c.Render.TileSize < 0 {
		return fmt.Errorf("tile size cannot be negative, got %d", c.Render.TileSize)
	}
	if c.Camera.Speed <= 0 {
		return fmt.Errorf("camera speed must be positive, got %g", c.Camera.Speed)
	}
	if c.Window.TPS <= 0 || c.Window.Scale <= 0 {
		return fmt.Errorf("window tps and scale must be positive")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}

// VFov returns the vertical field of view in radians
func (c *Config) VFov() float64 {
	return c.Render.FOV * math.Pi / 180
}

// Eye returns the initial camera position
func (c *Config) Eye() core.Vec3 {
	return core.NewVec3(c.Camera.X, c.Camera.Y, c.Camera.Z)
}

// CameraConfig builds the renderer camera configuration
func (c *Config) CameraConfig() renderer.CameraConfig {
	return renderer.CameraConfig{
		Eye:    c.Eye(),
		Width:  c.Render.Width,
		Height: c.Render.Height,
		VFov:   c.VFov(),
	}
}

// RenderConfig builds the renderer frame configuration
func (c *Config) RenderConfig() renderer.RenderConfig {
	return renderer.RenderConfig{
		TileSize:   c.Render.TileSize,
		NumWorkers: c.Render.Workers,
	}
}

// WriteDefault writes the default configuration as YAML. An existing file is
// only replaced when force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file %s already exists", path)
		}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
