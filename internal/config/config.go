package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

type Config struct {
	Crawler    Crawler    `yaml:"crawler"`
	Signal     Signal     `yaml:"signal"`
	Export     Export     `yaml:"export"`
	Thresholds Thresholds `yaml:"thresholds"`
	Output     Output     `yaml:"output"`
	Server     Server     `yaml:"server"`
	Logging    Logging    `yaml:"logging"`
}

type Crawler struct {
	// RootDir is the directory tree to scan for asset folders.
	RootDir string `yaml:"root_dir"`
}

type Signal struct {
	// Policy selects the derivation priority: "control-first" or
	// "probability-only".
	Policy string `yaml:"policy"`
}

type Export struct {
	// Dir receives last_known_signals.csv; empty means the data dir.
	Dir string `yaml:"dir"`
}

// Thresholds are the display cutoffs for probability highlighting,
// carried over from the historical settings dialog.
type Thresholds struct {
	Up   int `yaml:"up"`
	Down int `yaml:"down"`
}

type Output struct {
	DataDir string `yaml:"data_dir"`
}

type Server struct {
	Port int `yaml:"port"`
}

type Logging struct {
	Level string `yaml:"level"`
}

// ConfigDir returns the XDG config directory for sentimon.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "sentimon")
}

// DataDir returns the XDG data directory for sentimon.
func DataDir() string {
	return filepath.Join(homeDir(), ".local", "share", "sentimon")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/sentimon/config.yaml > ./config.yaml
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", fmt.Errorf(
		"no config file found; searched:\n  %s\n  ./config.yaml\n\nRun 'sentimon init' to create a default config",
		xdgConfig,
	)
}

// Load reads and parses a config YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

// parse parses YAML bytes into a Config, applying defaults.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		Crawler:    Crawler{RootDir: "."},
		Signal:     Signal{Policy: "control-first"},
		Thresholds: Thresholds{Up: 50, Down: 50},
		Server:     Server{Port: 8000},
		Logging:    Logging{Level: "INFO"},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// GetDataDir returns the effective data directory from config or XDG default.
func (c *Config) GetDataDir() string {
	if c.Output.DataDir != "" {
		return c.Output.DataDir
	}
	return DataDir()
}

// GetExportDir returns the CSV export directory, defaulting to the
// data directory.
func (c *Config) GetExportDir() string {
	if c.Export.Dir != "" {
		return c.Export.Dir
	}
	return c.GetDataDir()
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
