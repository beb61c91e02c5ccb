package config

import "time"

// ServerConfig is the root configuration for awareness-server.
type ServerConfig struct {
	App        AppSection        `koanf:"app"`
	Server     ServerSection     `koanf:"server"`
	Token      TokenSection      `koanf:"token"`
	Session    SessionSection    `koanf:"session"`
	Storage    StorageSection    `koanf:"storage"`
	Experience ExperienceSection `koanf:"experience"`
	Log        LogSection        `koanf:"log"`
	Telemetry  TelemetrySection  `koanf:"telemetry"`
}

// AppSection holds deployment-wide settings.
type AppSection struct {
	// Environment is "development" or "production".
	Environment string `koanf:"environment"`
}

// IsProduction reports whether the server runs in production mode.
func (a AppSection) IsProduction() bool {
	return a.Environment == EnvProduction
}

// ServerSection configures server endpoints.
type ServerSection struct {
	HTTP HTTPConfig `koanf:"http"`
	CORS CORSConfig `koanf:"cors"`
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Address      string        `koanf:"address"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"`

	// TLSCertFile and TLSKeyFile enable HTTPS when both are set. The pair is
	// reloaded when either file changes.
	TLSCertFile string `koanf:"tls_cert_file"`
	TLSKeyFile  string `koanf:"tls_key_file"`
}

// CORSConfig lists browser origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string `koanf:"allowed_origins"`
}

// TokenSection configures the progress token codec.
type TokenSection struct {
	// Secret is the HMAC-SHA256 key. Required in production.
	Secret string `koanf:"secret"`

	StartTTL      time.Duration `koanf:"start_ttl"`
	ProgressTTL   time.Duration `koanf:"progress_ttl"`
	CompletionTTL time.Duration `koanf:"completion_ttl"`
}

// SessionSection configures the session registry.
type SessionSection struct {
	IdleTimeout       time.Duration `koanf:"idle_timeout"`
	SweepInterval     time.Duration `koanf:"sweep_interval"`
	MinCompletionStep int           `koanf:"min_completion_step"`
}

// StorageSection selects the session store.
type StorageSection struct {
	// Backend is "memory" or "redis".
	Backend string      `koanf:"backend"`
	Redis   RedisConfig `koanf:"redis"`
}

// RedisConfig configures the Redis session store.
type RedisConfig struct {
	Address   string `koanf:"address"`
	Password  string `koanf:"password"`
	DB        int    `koanf:"db"`
	KeyPrefix string `koanf:"key_prefix"`

	// TLS dials Redis over TLS, trusting the system roots plus CAFile.
	TLS    bool   `koanf:"tls"`
	CAFile string `koanf:"ca_file"`
}

// ExperienceSection holds user-facing copy.
type ExperienceSection struct {
	WelcomeMessage    string `koanf:"welcome_message"`
	CompletionMessage string `koanf:"completion_message"`
	RedirectURL       string `koanf:"redirect_url"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// TelemetrySection configures metrics and tracing.
type TelemetrySection struct {
	MetricsEnabled bool `koanf:"metrics_enabled"`

	// TracingEndpoint is an OTLP/HTTP collector address. Empty disables
	// tracing.
	TracingEndpoint string `koanf:"tracing_endpoint"`
}
