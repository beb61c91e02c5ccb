package confloader

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type testConfig struct {
	App struct {
		Environment string `koanf:"environment"`
	} `koanf:"app"`
	Server struct {
		HTTP struct {
			Address     string        `koanf:"address"`
			ReadTimeout time.Duration `koanf:"read_timeout"`
		} `koanf:"http"`
		CORS struct {
			AllowedOrigins []string `koanf:"allowed_origins"`
		} `koanf:"cors"`
	} `koanf:"server"`
	Token struct {
		Secret   string        `koanf:"secret"`
		StartTTL time.Duration `koanf:"start_ttl"`
	} `koanf:"token"`
	Storage struct {
		Redis struct {
			DB int `koanf:"db"`
		} `koanf:"redis"`
	} `koanf:"storage"`
	Log struct {
		Level string `koanf:"level"`
	} `koanf:"log"`
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestNewLoader(t *testing.T) {
	l := NewLoader()
	if l.envPrefix != DefaultEnvPrefix {
		t.Errorf("envPrefix = %q, want %q", l.envPrefix, DefaultEnvPrefix)
	}
	if !l.legacy {
		t.Error("legacy aliases should be enabled by default")
	}

	l = NewLoader(WithEnvPrefix("TEST_"), WithConfigFile("/etc/awareness.yaml"), WithoutLegacyEnv())
	if l.envPrefix != "TEST_" || l.filePath != "/etc/awareness.yaml" || l.legacy {
		t.Errorf("options not applied: %+v", l)
	}
}

func TestLoader_LoadFile(t *testing.T) {
	path := writeConfig(t, `
server:
  http:
    address: "0.0.0.0:4000"
token:
  start_ttl: 20m
`)

	l := NewLoader()
	if err := l.LoadFile(path); err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if addr := l.GetString("server.http.address"); addr != "0.0.0.0:4000" {
		t.Errorf("server.http.address = %q, want %q", addr, "0.0.0.0:4000")
	}

	if err := l.LoadFile("/nonexistent/config.yaml"); err == nil {
		t.Error("LoadFile() should return error for nonexistent file")
	}
	if err := l.LoadFile(""); err != nil {
		t.Errorf("LoadFile(\"\") should not error, got: %v", err)
	}
}

func TestLoader_LoadEnv(t *testing.T) {
	t.Setenv("AWARENESS_SERVER__HTTP__ADDRESS", "127.0.0.1:8080")
	t.Setenv("AWARENESS_TOKEN__START_TTL", "15m")
	t.Setenv("AWARENESS_SERVER__CORS__ALLOWED_ORIGINS", "https://a.example, https://b.example,")

	l := NewLoader()
	if err := l.LoadEnv(); err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}

	if addr := l.GetString("server.http.address"); addr != "127.0.0.1:8080" {
		t.Errorf("server.http.address = %q", addr)
	}
	if ttl := l.GetString("token.start_ttl"); ttl != "15m" {
		t.Errorf("token.start_ttl = %q, want 15m", ttl)
	}
	origins := l.GetStrings("server.cors.allowed_origins")
	if len(origins) != 2 || origins[0] != "https://a.example" || origins[1] != "https://b.example" {
		t.Errorf("allowed_origins = %v", origins)
	}
}

func TestLoader_EnvKey(t *testing.T) {
	l := NewLoader()
	tests := []struct {
		in   string
		want string
	}{
		{"AWARENESS_TOKEN__SECRET", "token.secret"},
		{"AWARENESS_SESSION__MIN_COMPLETION_STEP", "session.min_completion_step"},
		{"AWARENESS_STORAGE__REDIS__KEY_PREFIX", "storage.redis.key_prefix"},
	}
	for _, tt := range tests {
		if got := l.envKey(tt.in); got != tt.want {
			t.Errorf("envKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoader_LegacyEnv(t *testing.T) {
	t.Setenv("HMAC_SECRET", "legacy-secret")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("NODE_ENV", "production")

	t.Run("aliases applied", func(t *testing.T) {
		var cfg testConfig
		if err := NewLoader().Load(&cfg); err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Token.Secret != "legacy-secret" || cfg.Log.Level != "debug" || cfg.App.Environment != "production" {
			t.Errorf("cfg = %+v", cfg)
		}
	})

	t.Run("prefixed variables win", func(t *testing.T) {
		t.Setenv("AWARENESS_TOKEN__SECRET", "prefixed-secret")
		var cfg testConfig
		if err := NewLoader().Load(&cfg); err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Token.Secret != "prefixed-secret" {
			t.Errorf("Secret = %q, want prefixed-secret", cfg.Token.Secret)
		}
	})

	t.Run("disabled", func(t *testing.T) {
		var cfg testConfig
		if err := NewLoader(WithoutLegacyEnv()).Load(&cfg); err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Token.Secret != "" {
			t.Errorf("Secret = %q, want empty", cfg.Token.Secret)
		}
	})
}

func TestLoader_Load_Priority(t *testing.T) {
	path := writeConfig(t, `
server:
  http:
    address: "0.0.0.0:4000"
    read_timeout: 3s
token:
  secret: from-file
`)
	t.Setenv("AWARENESS_TOKEN__SECRET", "from-env")
	t.Setenv("AWARENESS_STORAGE__REDIS__DB", "3")

	cfg := testConfig{}
	cfg.Log.Level = "info"
	cfg.Token.StartTTL = 10 * time.Minute

	l := NewLoader(WithConfigFile(path), WithoutLegacyEnv())
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !l.IsLoaded() {
		t.Error("IsLoaded() should be true after Load")
	}

	if cfg.Server.HTTP.Address != "0.0.0.0:4000" {
		t.Errorf("Address = %q, file value expected", cfg.Server.HTTP.Address)
	}
	if cfg.Server.HTTP.ReadTimeout != 3*time.Second {
		t.Errorf("ReadTimeout = %v, want 3s", cfg.Server.HTTP.ReadTimeout)
	}
	if cfg.Token.Secret != "from-env" {
		t.Errorf("Secret = %q, env should override file", cfg.Token.Secret)
	}
	if cfg.Storage.Redis.DB != 3 {
		t.Errorf("Redis.DB = %d, want 3", cfg.Storage.Redis.DB)
	}
	if cfg.Log.Level != "info" || cfg.Token.StartTTL != 10*time.Minute {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoader_LoadMap(t *testing.T) {
	l := NewLoader()
	if err := l.LoadMap(map[string]any{
		"session": map[string]any{"min_completion_step": 3},
	}); err != nil {
		t.Fatalf("LoadMap() error = %v", err)
	}
	if got := l.GetInt("session.min_completion_step"); got != 3 {
		t.Errorf("min_completion_step = %d, want 3", got)
	}
	if len(l.Keys()) != 1 {
		t.Errorf("Keys() = %v", l.Keys())
	}
}

func TestMapProvider_ReadBytes(t *testing.T) {
	if _, err := mapProvider(nil).ReadBytes(); err != ErrReadBytesNotSupported {
		t.Errorf("ReadBytes() error = %v, want ErrReadBytesNotSupported", err)
	}
}
