package command

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/syncron/awareness-go/internal/cli/config"
	"github.com/syncron/awareness-go/internal/cli/connection"
	"github.com/syncron/awareness-go/internal/cli/output"
	"github.com/syncron/awareness-go/internal/infra/buildinfo"
)

const (
	metaConfig     = "cliConfig"
	requestTimeout = 30 * time.Second
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "awareness-cli",
		Usage:   "Drive the security awareness experience from a terminal",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			SessionCommand(),
			SystemCommand(),
		},
		Before: func(c *cli.Context) error {
			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return err
			}
			if c.App.Metadata == nil {
				c.App.Metadata = map[string]any{}
			}
			c.App.Metadata[metaConfig] = cfg
			return nil
		},
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "awareness-server address (e.g., localhost:3001)",
			EnvVars: []string{"AWARENESS_SERVER"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
		},
		&cli.StringFlag{
			Name:  "config",
			Usage: "CLI config file",
			Value: config.DefaultConfigPath(),
		},
		&cli.StringFlag{
			Name:    "state",
			Usage:   "Session state file",
			EnvVars: []string{"AWARENESS_STATE"},
			Value:   config.DefaultStatePath(),
		},
	}
}

// GlobalFlags defines flags available to all commands, after the config
// file has filled in whatever was not given explicitly.
type GlobalFlags struct {
	Server    string
	Output    output.Format
	StatePath string
}

// ParseGlobalFlags extracts global flags from context.
func ParseGlobalFlags(c *cli.Context) (*GlobalFlags, error) {
	cfg, ok := c.App.Metadata[metaConfig].(*config.CLIConfig)
	if !ok {
		cfg = config.Default()
	}

	server := c.String("server")
	if server == "" {
		server = cfg.Server
	}
	format := c.String("output")
	if format == "" {
		format = cfg.Output
	}
	parsed, err := output.ParseFormat(format)
	if err != nil {
		return nil, err
	}

	return &GlobalFlags{
		Server:    server,
		Output:    parsed,
		StatePath: c.String("state"),
	}, nil
}

// env bundles what an action needs.
type env struct {
	flags  *GlobalFlags
	client *connection.Client
	out    output.Formatter
}

func newEnv(c *cli.Context) (*env, error) {
	flags, err := ParseGlobalFlags(c)
	if err != nil {
		return nil, err
	}
	return &env{
		flags:  flags,
		client: connection.NewClient(flags.Server),
		out:    output.NewFormatter(flags.Output),
	}, nil
}

func (e *env) print(c *cli.Context, v any) error {
	return e.out.Format(c.App.Writer, v)
}

// requestContext bounds one command's calls to the server.
func requestContext(c *cli.Context) (context.Context, context.CancelFunc) {
	parent := c.Context
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, requestTimeout)
}

// printNote writes a human-oriented line, suppressed for machine formats.
func (e *env) printNote(c *cli.Context, format string, args ...any) {
	if e.flags.Output == output.FormatTable {
		fmt.Fprintf(c.App.Writer, format+"\n", args...)
	}
}
