package config

import "time"

// Environments.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Storage backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// DevSecret is the fallback HMAC key outside production.
const DevSecret = "dev-secret-key-change-in-production"

// MinSecretLength is the shortest secret accepted in production.
const MinSecretLength = 32

// Default configuration values.
const (
	DefaultHTTPAddr     = "0.0.0.0:3001"
	DefaultReadTimeout  = 10 * time.Second
	DefaultWriteTimeout = 10 * time.Second
	DefaultIdleTimeout  = 60 * time.Second

	DefaultStartTTL      = 10 * time.Minute
	DefaultProgressTTL   = 5 * time.Minute
	DefaultCompletionTTL = 1 * time.Minute

	DefaultSessionIdleTimeout = 15 * time.Minute
	DefaultSweepInterval      = 5 * time.Minute
	DefaultMinCompletionStep  = 2

	DefaultRedisAddr      = "127.0.0.1:6379"
	DefaultRedisKeyPrefix = "awareness"

	DefaultWelcomeMessage    = "Welcome to Syncron Security Awareness Month 2025!"
	DefaultCompletionMessage = "🎉 Congratulations! You've completed Syncron Security Awareness Month 2025!"
	DefaultRedirectURL       = "https://syncron.atlassian.net/wiki/x/UwDPZg"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		App: AppSection{
			Environment: EnvDevelopment,
		},
		Server: ServerSection{
			HTTP: HTTPConfig{
				Address:      DefaultHTTPAddr,
				ReadTimeout:  DefaultReadTimeout,
				WriteTimeout: DefaultWriteTimeout,
				IdleTimeout:  DefaultIdleTimeout,
			},
			CORS: CORSConfig{
				AllowedOrigins: []string{"http://localhost:3000"},
			},
		},
		Token: TokenSection{
			StartTTL:      DefaultStartTTL,
			ProgressTTL:   DefaultProgressTTL,
			CompletionTTL: DefaultCompletionTTL,
		},
		Session: SessionSection{
			IdleTimeout:       DefaultSessionIdleTimeout,
			SweepInterval:     DefaultSweepInterval,
			MinCompletionStep: DefaultMinCompletionStep,
		},
		Storage: StorageSection{
			Backend: BackendMemory,
			Redis: RedisConfig{
				Address:   DefaultRedisAddr,
				KeyPrefix: DefaultRedisKeyPrefix,
			},
		},
		Experience: ExperienceSection{
			WelcomeMessage:    DefaultWelcomeMessage,
			CompletionMessage: DefaultCompletionMessage,
			RedirectURL:       DefaultRedirectURL,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Telemetry: TelemetrySection{
			MetricsEnabled: true,
		},
	}
}

// ApplyDevSecret fills in DevSecret when no secret is configured outside
// production. It reports whether the fallback was used.
func ApplyDevSecret(cfg *ServerConfig) bool {
	if cfg.Token.Secret != "" || cfg.App.IsProduction() {
		return false
	}
	cfg.Token.Secret = DevSecret
	return true
}
