package cli

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds CLI defaults loaded from the user config file. Command-line
// flags take precedence over config values, which take precedence over the
// built-in defaults.
type Config struct {
	// ModelURL is the default prediction endpoint for deployed models.
	ModelURL string `toml:"model_url"`

	// Targets names the default model output columns.
	Targets []string `toml:"targets"`

	// CacheTTLHours is the cache lifetime in hours. Zero means the built-in
	// default; negative disables caching.
	CacheTTLHours int `toml:"cache_ttl_hours"`

	Server ServerConfig `toml:"server"`
	Redis  RedisConfig  `toml:"redis"`
	Mongo  MongoConfig  `toml:"mongo"`
}

// ServerConfig holds defaults for the serve command.
type ServerConfig struct {
	Addr  string `toml:"addr"`
	Store string `toml:"store"` // memory, file, redis, or mongo
}

// RedisConfig holds the redis store backend settings. The password is never
// read from the config file; set SKATER_REDIS_PASSWORD instead.
type RedisConfig struct {
	Addr string `toml:"addr"`
	DB   int    `toml:"db"`
}

// MongoConfig holds the mongo store backend settings. A SKATER_MONGO_URI
// environment variable overrides the file value, so credentials can stay
// out of the config file.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// configPath returns the config file location using the XDG standard
// (~/.config/skater/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// LoadConfig reads and parses the config file at path.
func LoadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.applyEnv()
	return cfg, nil
}

// LoadConfigOrDefault loads the user config file, falling back to built-in
// defaults when the file is missing or unreadable.
func LoadConfigOrDefault() *Config {
	path, err := configPath()
	if err != nil {
		return defaultConfig()
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		cfg = defaultConfig()
		cfg.applyEnv()
	}
	return cfg
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:  ":8080",
			Store: "file",
		},
	}
}

// applyEnv overlays environment variables onto the config. Only values that
// identify external services are read from the environment.
func (c *Config) applyEnv() {
	if v := os.Getenv("SKATER_MODEL_URL"); v != "" {
		c.ModelURL = v
	}
	if v := os.Getenv("SKATER_REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("SKATER_MONGO_URI"); v != "" {
		c.Mongo.URI = v
	}
}

// CacheTTL returns the configured cache lifetime.
func (c *Config) CacheTTL() time.Duration {
	if c.CacheTTLHours == 0 {
		return defaultCacheTTL
	}
	return time.Duration(c.CacheTTLHours) * time.Hour
}

// RedisPassword returns the redis password from the environment.
func (c *Config) RedisPassword() string {
	return os.Getenv("SKATER_REDIS_PASSWORD")
}
