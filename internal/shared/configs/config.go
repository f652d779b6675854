package configs

// Config holds all configuration for the telemetry service.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Log       LogConfig       `mapstructure:"log" validate:"required"`
	Telemetry TelemetryConfig `mapstructure:"telemetry" validate:"required"`
	Device    DeviceConfig    `mapstructure:"device" validate:"required"`
	Storage   StorageConfig   `mapstructure:"storage" validate:"required"`
}

// ServerConfig holds the export HTTP server configuration.
type ServerConfig struct {
	Port              int `mapstructure:"port" validate:"required,min=1,max=65535"`
	ReadHeaderTimeout int `mapstructure:"read_header_timeout" validate:"required,min=1"` // seconds
	ReadTimeout       int `mapstructure:"read_timeout" validate:"required,min=1"`        // seconds (headers+body)
	WriteTimeout      int `mapstructure:"write_timeout" validate:"required,min=1"`       // seconds (response)
	IdleTimeout       int `mapstructure:"idle_timeout" validate:"required,min=1"`        // seconds (keep-alive)
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required"`
}

// TelemetryConfig holds the collection and delivery pipeline configuration.
type TelemetryConfig struct {
	BatchSize        int            `mapstructure:"batch_size" validate:"required,min=1"`
	FlushIntervalMs  int            `mapstructure:"flush_interval_ms" validate:"required,min=1"`
	SampleIntervalMs int            `mapstructure:"sample_interval_ms" validate:"required,min=1"`
	Delivery         DeliveryConfig `mapstructure:"delivery" validate:"required"`
}

// DeliveryConfig selects and configures the delivery strategy.
type DeliveryConfig struct {
	Mode          string      `mapstructure:"mode" validate:"required,oneof=remote local"`
	Endpoint      string      `mapstructure:"endpoint" validate:"required_if=Mode remote,omitempty,url"`
	TimeoutMs     int         `mapstructure:"timeout_ms" validate:"required,min=1"`
	LocalCapacity int         `mapstructure:"local_capacity" validate:"required,min=1"`
	Retry         RetryConfig `mapstructure:"retry"`
}

// RetryConfig hardens delivery failures beyond the default requeue-forever
// behavior. Disabled by default.
type RetryConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	MaxAttempts       int     `mapstructure:"max_attempts" validate:"omitempty,min=1"`
	BackoffInitialMs  int     `mapstructure:"backoff_initial_ms" validate:"omitempty,min=1"`
	BackoffMaxMs      int     `mapstructure:"backoff_max_ms" validate:"omitempty,min=1"`
	BackoffMultiplier float64 `mapstructure:"backoff_multiplier" validate:"omitempty,gt=1"`
	BackoffJitterPct  float64 `mapstructure:"backoff_jitter_pct" validate:"omitempty,min=0,max=1"`
}

// DeviceConfig holds the device identity the embedding application reports.
// There is no ambient browser environment, so these are supplied up front and
// captured once per session.
type DeviceConfig struct {
	UserAgent      string `mapstructure:"user_agent" validate:"required"`
	ScreenWidth    int    `mapstructure:"screen_width" validate:"omitempty,min=1"`
	ScreenHeight   int    `mapstructure:"screen_height" validate:"omitempty,min=1"`
	ConnectionType string `mapstructure:"connection_type"`
	EffectiveType  string `mapstructure:"effective_type"`
}

// StorageConfig holds session snapshot persistence configuration.
type StorageConfig struct {
	RootDir string `mapstructure:"root_dir" validate:"required"`
}
