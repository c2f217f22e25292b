// Package config loads service settings from defaults, an optional YAML
// file and environment variables, in that order. Command flags are applied
// on top by each binary.
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"venue-guide/internal/geo"
)

// Config holds all service settings
type Config struct {
	Port       int    `yaml:"port"`
	DBPath     string `yaml:"db"`
	StaticDir  string `yaml:"static_dir"`
	BackendURL string `yaml:"backend_url"`
	MapAPIKey  string `yaml:"map_api_key"`
	LogLevel   string `yaml:"log_level"`
	LogDev     bool   `yaml:"log_dev"`

	Observer geo.Point `yaml:"observer"`

	Geocoder GeocoderConfig `yaml:"geocoder"`
	Routing  RoutingConfig  `yaml:"routing"`
	Sync     SyncConfig     `yaml:"sync"`
}

// GeocoderConfig controls Nominatim lookups
type GeocoderConfig struct {
	URL          string `yaml:"url"`
	CountryCodes string `yaml:"country_codes"`
	// Geocode venues missing coordinates during sync
	FillMissing bool          `yaml:"fill_missing"`
	Delay       time.Duration `yaml:"delay"`
}

// RoutingConfig controls Valhalla travel times on venue detail
type RoutingConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Costing string `yaml:"costing"`
}

// SyncConfig controls the periodic catalog refresh
type SyncConfig struct {
	Interval time.Duration `yaml:"interval"`
	// Bearer token for backends that guard the events listing
	Token string `yaml:"token"`
}

// Default returns the built-in settings
func Default() Config {
	return Config{
		Port:       8080,
		DBPath:     "data/venue-guide.db",
		StaticDir:  "web/static",
		BackendURL: "http://localhost:3000/api",
		LogLevel:   "info",
		Observer:   geo.Observer,
		Geocoder: GeocoderConfig{
			CountryCodes: "hk",
			Delay:        time.Second,
		},
		Routing: RoutingConfig{
			Costing: "auto",
		},
		Sync: SyncConfig{
			Interval: 30 * time.Minute,
		},
	}
}

// Load reads the YAML file at path (skipped when empty) and then applies
// environment overrides
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	float := func(key string, dst *float64) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = f
		return nil
	}

	str("BACKEND_API_URL", &c.BackendURL)
	str("MAP_API_KEY", &c.MapAPIKey)
	str("VENUE_DB", &c.DBPath)
	str("LOG_LEVEL", &c.LogLevel)
	str("NOMINATIM_URL", &c.Geocoder.URL)
	str("VALHALLA_URL", &c.Routing.URL)
	str("BACKEND_TOKEN", &c.Sync.Token)

	if v, ok := lookup("PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT: %w", err)
		}
		c.Port = port
	}
	if err := float("OBSERVER_LAT", &c.Observer.Lat); err != nil {
		return err
	}
	if err := float("OBSERVER_LNG", &c.Observer.Lng); err != nil {
		return err
	}

	return nil
}

// Validate checks settings that would otherwise fail much later
func (c Config) Validate() error {
	if c.BackendURL == "" {
		return fmt.Errorf("backend URL is required")
	}
	if !c.Observer.Valid() || c.Observer.Lat < -90 || c.Observer.Lat > 90 || c.Observer.Lng < -180 || c.Observer.Lng > 180 {
		return fmt.Errorf("observer coordinate out of range: %v", c.Observer)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.Sync.Interval <= 0 {
		return fmt.Errorf("sync interval must be positive")
	}
	return nil
}

// RegisterFlags defines the override flags shared by the binaries and
// returns the config file flag
func RegisterFlags(fs *flag.FlagSet) *string {
	d := Default()
	path := fs.String("config", os.Getenv("VENUE_CONFIG"), "Path to YAML config file")
	fs.Int("port", d.Port, "Port to listen on")
	fs.String("db", d.DBPath, "Path to SQLite database")
	fs.String("static", d.StaticDir, "Static files directory")
	fs.String("backend", d.BackendURL, "Backend API base URL")
	fs.String("log-level", d.LogLevel, "Log level (debug, info, warn, error)")
	fs.Bool("log-dev", d.LogDev, "Human-readable console logs")
	fs.Float64("observer-lat", d.Observer.Lat, "Observer latitude")
	fs.Float64("observer-lng", d.Observer.Lng, "Observer longitude")
	fs.Bool("routing", d.Routing.Enabled, "Include drive times on venue detail")
	fs.Bool("geocode-missing", d.Geocoder.FillMissing, "Geocode venues without coordinates during sync")
	fs.Duration("interval", d.Sync.Interval, "Catalog sync interval")
	return path
}

// ApplyFlags copies the flags explicitly set on fs into c
func (c *Config) ApplyFlags(fs *flag.FlagSet) error {
	fs.Visit(func(f *flag.Flag) {
		getter, ok := f.Value.(flag.Getter)
		if !ok {
			return
		}
		v := getter.Get()
		switch f.Name {
		case "port":
			c.Port = v.(int)
		case "db":
			c.DBPath = v.(string)
		case "static":
			c.StaticDir = v.(string)
		case "backend":
			c.BackendURL = v.(string)
		case "log-level":
			c.LogLevel = v.(string)
		case "log-dev":
			c.LogDev = v.(bool)
		case "observer-lat":
			c.Observer.Lat = v.(float64)
		case "observer-lng":
			c.Observer.Lng = v.(float64)
		case "routing":
			c.Routing.Enabled = v.(bool)
		case "geocode-missing":
			c.Geocoder.FillMissing = v.(bool)
		case "interval":
			c.Sync.Interval = v.(time.Duration)
		}
	})
	return c.Validate()
}
