package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

type Config struct {
	Server    Server    `yaml:"server"`
	Storage   Storage   `yaml:"storage"`
	Reminders Reminders `yaml:"reminders"`
}

type Server struct {
	Addr string `yaml:"addr"`
	// UseDiskStatic serves the widget from the static/ directory instead
	// of the embedded copy (dev mode).
	UseDiskStatic bool   `yaml:"use_disk_static"`
	StaticDir     string `yaml:"static_dir"`
}

type Storage struct {
	Driver  string `yaml:"driver"` // file | sqlite
	DataDir string `yaml:"data_dir"`
	DBPath  string `yaml:"db_path"` // sqlite driver only
}

type Reminders struct {
	Enabled         bool `yaml:"enabled"`
	IntervalSeconds int  `yaml:"interval_seconds"`
	WindowHours     int  `yaml:"window_hours"`
}

func Default() *Config {
	return &Config{
		Server: Server{
			Addr:      ":8484",
			StaticDir: "static",
		},
		Storage: Storage{
			Driver:  DriverFile,
			DataDir: "data",
			DBPath:  "data/tasks.db",
		},
		Reminders: Reminders{
			Enabled:         true,
			IntervalSeconds: 60,
			WindowHours:     24,
		},
	}
}

// Load reads the yaml config at path over the defaults. A missing file
// is not an error; the defaults apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case DriverFile, DriverSQLite:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Reminders.IntervalSeconds <= 0 {
		c.Reminders.IntervalSeconds = 60
	}
	if c.Reminders.WindowHours <= 0 {
		c.Reminders.WindowHours = 24
	}
	return nil
}
