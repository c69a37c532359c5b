package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"hems-sim/internal/model"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML or TOML, chosen by extension).
type Config struct {
	Server ServerConfig `yaml:"server" toml:"server"`

	// Optional: load battery parameters from a preset file (e.g. examples/batteries/*.yaml).
	// If both BatteryFile and Battery are provided, Battery overrides BatteryFile.
	BatteryFile string        `yaml:"battery_file" toml:"battery_file"`
	Battery     BatteryConfig `yaml:"battery" toml:"battery"`
	PresetsDir  string        `yaml:"presets_dir" toml:"presets_dir"`

	// DatasetSeed seeds every synthetic dashboard dataset.
	DatasetSeed uint64 `yaml:"dataset_seed" toml:"dataset_seed"`

	Live  LiveConfig  `yaml:"live" toml:"live"`
	MQTT  MQTTConfig  `yaml:"mqtt" toml:"mqtt"`
	Log   LogConfig   `yaml:"log" toml:"log"`
	Cache CacheConfig `yaml:"cache" toml:"cache"`
}

type ServerConfig struct {
	Port        string   `yaml:"port" toml:"port"`
	Env         string   `yaml:"env" toml:"env"`
	StaticDir   string   `yaml:"static_dir" toml:"static_dir"`
	CORSOrigins []string `yaml:"cors_origins" toml:"cors_origins"`
}

type BatteryConfig struct {
	Name            string  `yaml:"name" toml:"name"`
	CapacityKWh     float64 `yaml:"capacity_kwh" toml:"capacity_kwh"`
	Efficiency      float64 `yaml:"efficiency" toml:"efficiency"`
	InitialSOCRatio float64 `yaml:"initial_soc_ratio" toml:"initial_soc_ratio"`
}

// LiveConfig drives the simulated live demand feed.
type LiveConfig struct {
	Interval   time.Duration `yaml:"interval" toml:"interval"`
	BufferSize int           `yaml:"buffer_size" toml:"buffer_size"`
	Seed       uint64        `yaml:"seed" toml:"seed"`
	BaseMW     float64       `yaml:"base_mw" toml:"base_mw"`
	NoiseMW    float64       `yaml:"noise_mw" toml:"noise_mw"`
}

// MQTTConfig enables publishing when Broker is set (e.g. "tcp://localhost:1883").
type MQTTConfig struct {
	Broker   string `yaml:"broker" toml:"broker"`
	Topic    string `yaml:"topic" toml:"topic"`
	ClientID string `yaml:"client_id" toml:"client_id"`
}

type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"` // "text" or "json"
}

type CacheConfig struct {
	TTL time.Duration `yaml:"ttl" toml:"ttl"`
}

// Default returns the built-in configuration: the 5 kWh / 95% / 50% battery
// of the home energy dashboard and a 100-point live buffer ticking every 5s.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:      "8080",
			Env:       "development",
			StaticDir: "./web/dist",
		},
		Battery: BatteryConfig{
			Name:            "default",
			CapacityKWh:     5,
			Efficiency:      0.95,
			InitialSOCRatio: 0.5,
		},
		PresetsDir:  "./examples/batteries",
		DatasetSeed: 42,
		Live: LiveConfig{
			Interval:   5 * time.Second,
			BufferSize: 100,
			Seed:       7,
			BaseMW:     1200,
			NoiseMW:    40,
		},
		MQTT: MQTTConfig{
			Topic:    "hems/live",
			ClientID: "hems-sim",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Cache: CacheConfig{
			TTL: time.Hour,
		},
	}
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	ApplyEnv(c)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads a config over Default() and merges the battery preset,
// but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	c := Default()
	if err := decodeFile(path, c); err != nil {
		return nil, err
	}
	// If battery_file is set, load it and merge in any explicit overrides from c.Battery.
	if c.BatteryFile != "" {
		batteryPath := c.BatteryFile
		if !filepath.IsAbs(batteryPath) {
			// Prefer interpreting relative paths as relative to the config file directory,
			// but fall back to the provided path (relative to cwd) if that doesn't exist.
			cand := filepath.Join(filepath.Dir(path), batteryPath)
			if _, err := os.Stat(cand); err == nil {
				batteryPath = cand
			}
		}
		loaded, err := LoadBatteryFile(batteryPath)
		if err != nil {
			return nil, err
		}
		// Defaults must not mask the preset, so only the file's own battery section overrides it.
		override, err := explicitBattery(path)
		if err != nil {
			return nil, err
		}
		c.Battery = MergeBattery(loaded, override)
	}
	return c, nil
}

// ApplyEnv overlays API_PORT, API_ENV, PRESETS_DIR, MQTT_BROKER and LOG_LEVEL.
func ApplyEnv(c *Config) {
	if v := os.Getenv("API_PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("API_ENV"); v != "" {
		c.Server.Env = v
	}
	if v := os.Getenv("PRESETS_DIR"); v != "" {
		c.PresetsDir = v
	}
	if v := os.Getenv("MQTT_BROKER"); v != "" {
		c.MQTT.Broker = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if strings.TrimSpace(c.Server.Port) == "" {
		return errors.New("server.port is required")
	}
	if err := c.Battery.ToModelParams().Validate(); err != nil {
		return fmt.Errorf("battery config invalid: %w", err)
	}
	if c.Live.Interval <= 0 {
		return errors.New("live.interval must be > 0")
	}
	if c.Live.BufferSize <= 0 {
		return errors.New("live.buffer_size must be > 0")
	}
	if c.MQTT.Broker != "" && c.MQTT.Topic == "" {
		return errors.New("mqtt.topic is required when mqtt.broker is set")
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// Production reports whether the server runs with API_ENV=production semantics.
func (c *Config) Production() bool {
	return c.Server.Env == "production"
}

func (b BatteryConfig) ToModelParams() model.BatteryParams {
	return model.BatteryParams{
		CapacityKWh:     b.CapacityKWh,
		Efficiency:      b.Efficiency,
		InitialSOCRatio: b.InitialSOCRatio,
	}
}

type batteryFileWrapper struct {
	Battery BatteryConfig `yaml:"battery" toml:"battery"`
}

// LoadBatteryFile reads a preset wrapped in a top-level "battery:" section.
func LoadBatteryFile(path string) (BatteryConfig, error) {
	var w batteryFileWrapper
	if err := decodeFile(path, &w); err != nil {
		return BatteryConfig{}, err
	}
	return w.Battery, nil
}

// MergeBattery overlays non-zero fields from override onto base.
// This is used when loading a battery file and then applying overrides from the request.
func MergeBattery(base, override BatteryConfig) BatteryConfig {
	out := base
	if override.Name != "" {
		out.Name = override.Name
	}
	if override.CapacityKWh != 0 {
		out.CapacityKWh = override.CapacityKWh
	}
	if override.Efficiency != 0 {
		out.Efficiency = override.Efficiency
	}
	// Note: a ratio of 0 is valid but cannot be expressed as an override; set it in the preset.
	if override.InitialSOCRatio != 0 {
		out.InitialSOCRatio = override.InitialSOCRatio
	}
	return out
}

func explicitBattery(path string) (BatteryConfig, error) {
	var w batteryFileWrapper
	if err := decodeFile(path, &w); err != nil {
		return BatteryConfig{}, err
	}
	return w.Battery, nil
}

func decodeFile(path string, into any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(raw), into); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, into); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config format %q (want .yaml, .yml or .toml)", filepath.Ext(path))
	}
	return nil
}
