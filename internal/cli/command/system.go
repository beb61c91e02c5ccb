package command

import (
	"github.com/urfave/cli/v2"
)

// SystemCommand returns the system subcommand group.
func SystemCommand() *cli.Command {
	return &cli.Command{
		Name:    "system",
		Aliases: []string{"sys"},
		Usage:   "Server probes",
		Subcommands: []*cli.Command{
			{
				Name:   "health",
				Usage:  "Check server health",
				Action: systemHealth,
			},
			{
				Name:   "ready",
				Usage:  "Check server readiness",
				Action: systemReady,
			},
		},
	}
}

func systemHealth(c *cli.Context) error {
	e, err := newEnv(c)
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	res, err := e.client.Health(ctx)
	if err != nil {
		return err
	}
	return e.print(c, res)
}

func systemReady(c *cli.Context) error {
	e, err := newEnv(c)
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := e.client.Ready(ctx); err != nil {
		return err
	}
	e.printNote(c, "server %s is ready", e.client.BaseURL())
	return nil
}
