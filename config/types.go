package config

// ServerConfig contains server configuration
type ServerConfig struct {
	Port int `yaml:"port" validate:"gte=0"`
}

// LoggingConfig selects the zap level and encoder.
type LoggingConfig struct {
	Level    string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Encoding string `yaml:"encoding" validate:"omitempty,oneof=json console"`
}

// Source kinds
const (
	SourceJSON   = "json"
	SourceGTFSRT = "gtfsrt"
)

// SourceConfig describes where snapshots and tracks come from. BaseURL
// serves the JSON snapshot and tracking endpoints; it may also be a local
// directory. VehiclePositionsURL is only used by the gtfsrt kind.
type SourceConfig struct {
	Kind                string `yaml:"kind" validate:"omitempty,oneof=json gtfsrt"`
	BaseURL             string `yaml:"baseURL"`
	VehiclePositionsURL string `yaml:"vehiclePositionsURL"`
	TimeoutMS           int    `yaml:"timeoutMS" validate:"gte=0"`
}

// Fleet is a named fleet with optional source overrides
type Fleet struct {
	Name   string       `yaml:"name" validate:"required"`
	Source SourceConfig `yaml:"source"`
}

// PacingConfig drives the live window scheduler
type PacingConfig struct {
	IntervalMS   int  `yaml:"intervalMS" validate:"gte=0"`
	Steps        int  `yaml:"steps" validate:"gte=0"`
	FetchOnStart bool `yaml:"fetchOnStart"`
}

// ReplayConfig controls the historical bootstrap
type ReplayConfig struct {
	Enabled         bool `yaml:"enabled"`
	LookbackMinutes int  `yaml:"lookbackMinutes" validate:"gte=0"`
	DTSeconds       int  `yaml:"dtSeconds" validate:"gte=0"`
}

// RedisConfig configures the Redis render adapter
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr" validate:"required_if=Enabled true"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db" validate:"gte=0"`
	Prefix   string `yaml:"prefix"`
}

// RenderConfig enables render adapters
type RenderConfig struct {
	WebSocket bool        `yaml:"websocket"`
	SIRI      bool        `yaml:"siri"`
	Codespace string      `yaml:"codespace"`
	Redis     RedisConfig `yaml:"redis"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	Source  SourceConfig  `yaml:"source"`
	Fleets  []Fleet       `yaml:"fleets" validate:"dive"`
	Pacing  PacingConfig  `yaml:"pacing"`
	Replay  ReplayConfig  `yaml:"replay"`
	Render  RenderConfig  `yaml:"render"`
}
