package app

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config represents the command-line parameters for the application.
type Config struct {
	Scene    string `yaml:"scene"`
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
	Scale    int    `yaml:"scale"`
	TPS      int    `yaml:"tps"`
	Seed     int64  `yaml:"seed"`
	Rules    string `yaml:"rules"`
	Watch    bool   `yaml:"watch"`
	LogLevel string `yaml:"log_level"`
	Ticks    int    `yaml:"ticks"`

	// File is the YAML config file the other fields were loaded from.
	File string `yaml:"-"`
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Scene:    "sandbox",
		Width:    200,
		Height:   150,
		Scale:    4,
		TPS:      60,
		Seed:     42,
		LogLevel: "info",
		Ticks:    300,
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Scene, "scene", c.Scene, "scene to run")
	fs.IntVar(&c.Width, "w", c.Width, "grid width in cells")
	fs.IntVar(&c.Height, "h", c.Height, "grid height in cells")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second (0 runs headless ticks unpaced)")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for simulation reset")
	fs.StringVar(&c.Rules, "rules", c.Rules, "directory of rule documents loaded over the defaults")
	fs.BoolVar(&c.Watch, "watch", c.Watch, "reload rule documents when they change")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level: debug, info, warn or error")
	fs.IntVar(&c.Ticks, "ticks", c.Ticks, "ticks to run headless before printing a snapshot")
	fs.StringVar(&c.File, "config", c.File, "YAML file with defaults for these flags")
}

// LoadFile overlays the YAML file at path onto c. Fields missing from the
// file keep their current values.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("app: read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("app: unmarshal %s: %w", path, err)
	}
	c.File = path
	return nil
}

// Parse binds c to fs and parses args. When -config is given the file is
// loaded first and the flags are parsed again, so explicit flags win.
func (c *Config) Parse(fs *flag.FlagSet, args []string) error {
	c.Bind(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if c.File == "" {
		return nil
	}
	if err := c.LoadFile(c.File); err != nil {
		return err
	}
	return fs.Parse(args)
}

// SceneConfig converts the grid settings into the scene factory's map.
func (c *Config) SceneConfig() map[string]string {
	cfg := map[string]string{
		"w":    strconv.Itoa(c.Width),
		"h":    strconv.Itoa(c.Height),
		"seed": strconv.FormatInt(c.Seed, 10),
	}
	if c.Rules != "" {
		cfg["rules"] = c.Rules
	}
	return cfg
}
