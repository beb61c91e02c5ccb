package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/syncron/awareness-go/internal/telemetry/logger"
)

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if err := verifyApp(&cfg.App); err != nil {
		return err
	}
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if err := verifyToken(&cfg.Token, cfg.App.IsProduction()); err != nil {
		return err
	}
	if err := verifySession(&cfg.Session); err != nil {
		return err
	}
	if err := verifyStorage(&cfg.Storage); err != nil {
		return err
	}
	if err := verifyExperience(&cfg.Experience); err != nil {
		return err
	}
	return verifyLog(&cfg.Log)
}

func verifyApp(cfg *AppSection) error {
	switch cfg.Environment {
	case EnvDevelopment, EnvProduction:
		return nil
	default:
		return fmt.Errorf("app.environment must be %q or %q, got %q", EnvDevelopment, EnvProduction, cfg.Environment)
	}
}

func verifyServer(cfg *ServerSection) error {
	if _, _, err := net.SplitHostPort(cfg.HTTP.Address); err != nil {
		return fmt.Errorf("server.http.address %q: %w", cfg.HTTP.Address, err)
	}
	for name, d := range map[string]time.Duration{
		"server.http.read_timeout":  cfg.HTTP.ReadTimeout,
		"server.http.write_timeout": cfg.HTTP.WriteTimeout,
		"server.http.idle_timeout":  cfg.HTTP.IdleTimeout,
	} {
		if d < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}
	if (cfg.HTTP.TLSCertFile == "") != (cfg.HTTP.TLSKeyFile == "") {
		return errors.New("server.http.tls_cert_file and server.http.tls_key_file must be set together")
	}
	return nil
}

func verifyToken(cfg *TokenSection, production bool) error {
	if cfg.Secret == "" {
		return errors.New("token.secret is required")
	}
	if production {
		if cfg.Secret == DevSecret {
			return errors.New("token.secret must not be the development secret in production")
		}
		if len(cfg.Secret) < MinSecretLength {
			return fmt.Errorf("token.secret must be at least %d bytes in production", MinSecretLength)
		}
	}

	for name, d := range map[string]time.Duration{
		"token.start_ttl":      cfg.StartTTL,
		"token.progress_ttl":   cfg.ProgressTTL,
		"token.completion_ttl": cfg.CompletionTTL,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	return nil
}

func verifySession(cfg *SessionSection) error {
	if cfg.IdleTimeout <= 0 {
		return errors.New("session.idle_timeout must be positive")
	}
	if cfg.SweepInterval <= 0 {
		return errors.New("session.sweep_interval must be positive")
	}
	if cfg.MinCompletionStep < 0 {
		return errors.New("session.min_completion_step must not be negative")
	}
	return nil
}

func verifyStorage(cfg *StorageSection) error {
	switch cfg.Backend {
	case BackendMemory:
		return nil
	case BackendRedis:
		if cfg.Redis.Address == "" {
			return errors.New("storage.redis.address is required for the redis backend")
		}
		if cfg.Redis.DB < 0 {
			return errors.New("storage.redis.db must not be negative")
		}
		if cfg.Redis.CAFile != "" && !cfg.Redis.TLS {
			return errors.New("storage.redis.ca_file requires storage.redis.tls")
		}
		return nil
	default:
		return fmt.Errorf("storage.backend must be %q or %q, got %q", BackendMemory, BackendRedis, cfg.Backend)
	}
}

func verifyExperience(cfg *ExperienceSection) error {
	if cfg.RedirectURL == "" {
		return nil
	}
	u, err := url.Parse(cfg.RedirectURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("experience.redirect_url %q is not an absolute URL", cfg.RedirectURL)
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	if !logger.ValidLevel(cfg.Level) {
		return fmt.Errorf("log.level %q is not a valid level", cfg.Level)
	}
	switch cfg.Format {
	case "json", "text":
		return nil
	default:
		return fmt.Errorf("log.format must be json or text, got %q", cfg.Format)
	}
}
