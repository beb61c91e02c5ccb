package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/syncron/awareness-go/internal/infra/buildinfo"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

var configFlag = &cli.StringFlag{
	Name:    "config",
	Aliases: []string{"c"},
	Usage:   "Path to configuration file",
	EnvVars: []string{"AWARENESS_CONFIG"},
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "awareness-server",
		Usage:   "Security awareness progress service",
		Version: buildinfo.String(),
		Commands: []*cli.Command{
			serveCommand(),
			versionCommand(),
			tokenCommand(),
		},
		DefaultCommand: "serve",
	}
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show version information",
		Action: func(c *cli.Context) error {
			info := buildinfo.Get()
			fmt.Fprintf(c.App.Writer, "awareness-server %s (commit: %s, built: %s, %s)\n",
				info.Version, info.Commit, info.BuildTime, info.GoVersion)
			return nil
		},
	}
}
