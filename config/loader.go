package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the global application configuration
var Config AppConfig

// Defaults applied to unset fields
const (
	DefaultPort            = 16181
	DefaultTimeoutMS       = 10000
	DefaultIntervalMS      = 120000
	DefaultSteps           = 4
	DefaultLookbackMinutes = 24 * 60
	DefaultDTSeconds       = 120
	DefaultCodespace       = "SEASCAPE"
	DefaultRedisPrefix     = "seascape"
)

// LoadAppConfig loads and validates the application configuration from the
// first config.yml found on the search path.
func LoadAppConfig() error {
	paths := []string{"config.yml", "./seascape/config.yml"}
	var err error
	for _, p := range paths {
		var cfg AppConfig
		cfg, err = Load(p)
		if err == nil {
			Config = cfg
			return nil
		}
		if !os.IsNotExist(err) {
			return err
		}
	}
	return err
}

// Load reads, defaults and validates the configuration at path.
func Load(path string) (AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return AppConfig{}, err
	}
	return Parse(data)
}

// Parse decodes a YAML document into a validated AppConfig.
func Parse(data []byte) (AppConfig, error) {
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.applyDefaults()
	if err := validator.New().Struct(cfg); err != nil {
		return AppConfig{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *AppConfig) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Encoding == "" {
		c.Logging.Encoding = "json"
	}
	if c.Source.Kind == "" {
		c.Source.Kind = SourceJSON
	}
	if c.Source.TimeoutMS == 0 {
		c.Source.TimeoutMS = DefaultTimeoutMS
	}
	if c.Pacing.IntervalMS == 0 {
		c.Pacing.IntervalMS = DefaultIntervalMS
	}
	if c.Pacing.Steps == 0 {
		c.Pacing.Steps = DefaultSteps
	}
	if c.Replay.LookbackMinutes == 0 {
		c.Replay.LookbackMinutes = DefaultLookbackMinutes
	}
	if c.Replay.DTSeconds == 0 {
		c.Replay.DTSeconds = DefaultDTSeconds
	}
	if c.Render.Codespace == "" {
		c.Render.Codespace = DefaultCodespace
	}
	if c.Render.Redis.Prefix == "" {
		c.Render.Redis.Prefix = DefaultRedisPrefix
	}
}

// SelectFleet chooses a fleet by name; fallback to first. The fleet's
// non-empty source fields override the top-level source. With no fleets
// configured the name is returned as given.
func SelectFleet(name string) (string, SourceConfig) {
	return Config.SelectFleet(name)
}

// SelectFleet is the method form of the package-level SelectFleet.
func (c AppConfig) SelectFleet(name string) (string, SourceConfig) {
	var fleet *Fleet
	for i := range c.Fleets {
		if c.Fleets[i].Name == name {
			fleet = &c.Fleets[i]
			break
		}
	}
	if fleet == nil && name == "" && len(c.Fleets) > 0 {
		fleet = &c.Fleets[0]
	}
	if fleet == nil {
		return name, c.Source
	}

	src := c.Source
	o := fleet.Source
	if o.Kind != "" {
		src.Kind = o.Kind
	}
	if o.BaseURL != "" {
		src.BaseURL = o.BaseURL
	}
	if o.VehiclePositionsURL != "" {
		src.VehiclePositionsURL = o.VehiclePositionsURL
	}
	if o.TimeoutMS != 0 {
		src.TimeoutMS = o.TimeoutMS
	}
	return fleet.Name, src
}

// Interval is the pacing interval as a duration.
func (p PacingConfig) Interval() time.Duration {
	return time.Duration(p.IntervalMS) * time.Millisecond
}

// Lookback is the replay window length.
func (r ReplayConfig) Lookback() time.Duration {
	return time.Duration(r.LookbackMinutes) * time.Minute
}

// DT is the replay sampling step.
func (r ReplayConfig) DT() time.Duration {
	return time.Duration(r.DTSeconds) * time.Second
}

// Timeout is the per-request source timeout.
func (s SourceConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutMS) * time.Millisecond
}
