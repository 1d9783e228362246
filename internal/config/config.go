package config

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// DefaultFile is the config file read when none is named
const DefaultFile = "cardring.hcl"

// Config represents the complete cardring configuration
type Config struct {
	Game GameSettings `hcl:"game,block"`
}

// GameSettings contains the settings for a single run. A zero Players or an
// empty Pack means the value has to come from the command line or a prompt.
type GameSettings struct {
	Players   int    `hcl:"players,optional"`
	Pack      string `hcl:"pack,optional"`
	OutputDir string `hcl:"output_dir,optional"`
	Seed      int64  `hcl:"seed,optional"`
	Timeout   string `hcl:"timeout,optional"`
	LogLevel  string `hcl:"log_level,optional"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Game: GameSettings{
			OutputDir: ".",
			LogLevel:  "info",
		},
	}
}

// Load reads configuration from an HCL file. A missing file yields the
// defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	if config.Game.OutputDir == "" {
		config.Game.OutputDir = "."
	}
	if config.Game.LogLevel == "" {
		config.Game.LogLevel = "info"
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return &config, nil
}

// Validate checks the configuration for values no run could use
func (c *Config) Validate() error {
	if c.Game.Players != 0 && c.Game.Players < 2 {
		return fmt.Errorf("invalid players: %d (need at least 2)", c.Game.Players)
	}
	if _, err := c.Timeout(); err != nil {
		return err
	}
	if _, err := log.ParseLevel(c.Game.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Game.LogLevel, err)
	}
	return nil
}

// Timeout returns the watchdog timeout, zero when unset
func (c *Config) Timeout() (time.Duration, error) {
	if c.Game.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Game.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", c.Game.Timeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid timeout %q: must not be negative", c.Game.Timeout)
	}
	return d, nil
}
