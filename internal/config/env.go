package config

import (
	"os"
	"strconv"
)

// FromEnv applies environment overrides on top of a loaded config.
func FromEnv(cfg *Config) *Config {
	if v := os.Getenv("SMARTTODO_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("SMARTTODO_STATIC_DIR"); v != "" {
		cfg.Server.StaticDir = v
	}
	if v := os.Getenv("SMARTTODO_USE_DISK_STATIC"); v != "" {
		cfg.Server.UseDiskStatic = v == "1" || v == "true"
	}
	if v := os.Getenv("SMARTTODO_STORAGE_DRIVER"); v != "" {
		cfg.Storage.Driver = v
	}
	if v := os.Getenv("SMARTTODO_DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}
	if v := os.Getenv("SMARTTODO_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := getEnvInt("SMARTTODO_REMINDER_INTERVAL_SECONDS"); v > 0 {
		cfg.Reminders.IntervalSeconds = v
	}
	if v := getEnvInt("SMARTTODO_REMINDER_WINDOW_HOURS"); v > 0 {
		cfg.Reminders.WindowHours = v
	}
	if v := os.Getenv("SMARTTODO_REMINDERS_ENABLED"); v != "" {
		cfg.Reminders.Enabled = v == "1" || v == "true"
	}
	return cfg
}

func getEnvInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}
