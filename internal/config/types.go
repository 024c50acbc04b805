// Package config provides configuration for the sqldash server and CLI.
//
// Configuration is layered from defaults, an optional YAML file,
// SQLDASH_-prefixed environment variables, and command-line flags, in
// increasing order of precedence.
package config

// Default configuration values.
const (
	DefaultHost      = "0.0.0.0"
	DefaultPort      = 5000
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
	DefaultDataDir   = "./data"
)

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// SeedConfig controls dataset provisioning.
type SeedConfig struct {
	OnStart bool `koanf:"on_start"`
}

// DatabaseConfig describes one database served by the backend. When the
// config file lists no databases, the bundled datasets are registered as
// sqlite files under DataDir.
type DatabaseConfig struct {
	Name   string `koanf:"name"`
	Driver string `koanf:"driver"`
	DSN    string `koanf:"dsn"`
}

// Config holds all configuration options.
type Config struct {
	Server    ServerConfig     `koanf:"server"`
	Log       LogConfig        `koanf:"log"`
	DataDir   string           `koanf:"data_dir"`
	Seed      SeedConfig       `koanf:"seed"`
	Databases []DatabaseConfig `koanf:"databases"`
}

// Default returns a Config populated with the default values.
func Default() *Config {
	return &Config{
		Server:  ServerConfig{Host: DefaultHost, Port: DefaultPort},
		Log:     LogConfig{Level: DefaultLogLevel, Format: DefaultLogFormat},
		DataDir: DefaultDataDir,
		Seed:    SeedConfig{OnStart: true},
	}
}
