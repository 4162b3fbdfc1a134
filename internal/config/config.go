package config

import "github.com/spf13/viper"

// Config holds all runtime configuration for a linaje session.
// Values are populated from .linaje.yaml, LINAJE_* env vars, and CLI flags.
type Config struct {
	DataDir      string `mapstructure:"data_dir"`      // watched directory of .ged files
	SnapshotFile string `mapstructure:"snapshot_file"` // registry snapshot document
	ArchiveDB    string `mapstructure:"archive_db"`    // sqlite snapshot archive
	Verbose      bool   `mapstructure:"verbose"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() Config {
	viper.SetDefault("data_dir", ".")
	viper.SetDefault("snapshot_file", "linaje.json")
	viper.SetDefault("archive_db", "linaje-archive.db")
	viper.SetDefault("verbose", false)

	var cfg Config
	_ = viper.Unmarshal(&cfg)
	return cfg
}
