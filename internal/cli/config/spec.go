package config

// CLIConfig is the configuration for awareness-cli.
type CLIConfig struct {
	// Server is the awareness-server base URL.
	Server string `koanf:"server" yaml:"server"`

	// Output is the default output format: table, json or yaml.
	Output string `koanf:"output" yaml:"output"`
}

// State is the session the CLI is currently driving.
type State struct {
	SessionID string `koanf:"session_id" yaml:"session_id"`
	Token     string `koanf:"token" yaml:"token"`
	Step      int    `koanf:"step" yaml:"step"`
}

// DefaultServer matches the server's default listen address.
const DefaultServer = "http://localhost:3001"

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		Server: DefaultServer,
		Output: "table",
	}
}
