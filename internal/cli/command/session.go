package command

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/syncron/awareness-go/internal/cli/config"
	"github.com/syncron/awareness-go/internal/cli/connection"
)

// SessionCommand returns the session subcommand group.
func SessionCommand() *cli.Command {
	sessionFlag := &cli.StringFlag{
		Name:  "session",
		Usage: "Session ID (defaults to the saved session)",
	}
	tokenFlag := &cli.StringFlag{
		Name:  "token",
		Usage: "Progress token (defaults to the saved token)",
	}

	return &cli.Command{
		Name:    "session",
		Aliases: []string{"sess"},
		Usage:   "Start and advance awareness sessions",
		Subcommands: []*cli.Command{
			{
				Name:   "start",
				Usage:  "Start a new session and save it as current",
				Action: sessionStart,
			},
			{
				Name:  "progress",
				Usage: "Report a completed step",
				Flags: []cli.Flag{
					sessionFlag,
					tokenFlag,
					&cli.IntFlag{
						Name:  "step",
						Usage: "Step number (defaults to the next step)",
					},
					&cli.StringFlag{
						Name:  "data",
						Usage: "Step payload as JSON",
					},
				},
				Action: sessionProgress,
			},
			{
				Name:  "complete",
				Usage: "Finish the session",
				Flags: []cli.Flag{
					sessionFlag,
					tokenFlag,
					&cli.Float64Flag{Name: "score", Usage: "Game score"},
					&cli.Float64Flag{Name: "time", Usage: "Total time in seconds"},
				},
				Action: sessionComplete,
			},
			{
				Name:      "status",
				Usage:     "Show the stored state of a session",
				ArgsUsage: "[SESSION_ID]",
				Action:    sessionStatus,
			},
			{
				Name:  "play",
				Usage: "Run a whole session: start, every step, complete",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "steps", Value: 2, Usage: "Number of steps to report"},
					&cli.Float64Flag{Name: "score", Usage: "Game score"},
					&cli.Float64Flag{Name: "time", Usage: "Total time in seconds"},
				},
				Action: sessionPlay,
			},
		},
	}
}

var errNoSession = errors.New("no session: run 'session start' or pass --session and --token")

func sessionStart(c *cli.Context) error {
	e, err := newEnv(c)
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	res, err := e.client.Start(ctx)
	if err != nil {
		return err
	}

	st := &config.State{SessionID: res.SessionID, Token: res.Token}
	if err := config.SaveState(st, e.flags.StatePath); err != nil {
		return fmt.Errorf("save session state: %w", err)
	}
	return e.print(c, res)
}

// resolveState merges explicit flags over the saved state.
func resolveState(c *cli.Context, path string) (*config.State, error) {
	st, err := config.LoadState(path)
	if err != nil {
		return nil, err
	}
	if id := c.String("session"); id != "" && id != st.SessionID {
		st = &config.State{SessionID: id}
	}
	if tok := c.String("token"); tok != "" {
		st.Token = tok
	}
	if st.SessionID == "" || st.Token == "" {
		return nil, errNoSession
	}
	return st, nil
}

func sessionProgress(c *cli.Context) error {
	e, err := newEnv(c)
	if err != nil {
		return err
	}
	st, err := resolveState(c, e.flags.StatePath)
	if err != nil {
		return err
	}

	step := st.Step + 1
	if c.IsSet("step") {
		step = c.Int("step")
	}

	var data json.RawMessage
	if raw := c.String("data"); raw != "" {
		if !json.Valid([]byte(raw)) {
			return fmt.Errorf("--data is not valid JSON")
		}
		data = json.RawMessage(raw)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	res, err := e.client.Progress(ctx, st.SessionID, st.Token, step, data)
	if err != nil {
		return err
	}

	st.Token, st.Step = res.Token, step
	if err := config.SaveState(st, e.flags.StatePath); err != nil {
		return fmt.Errorf("save session state: %w", err)
	}
	return e.print(c, res)
}

func sessionComplete(c *cli.Context) error {
	e, err := newEnv(c)
	if err != nil {
		return err
	}
	st, err := resolveState(c, e.flags.StatePath)
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	res, err := e.client.Complete(ctx, st.SessionID, st.Token, optionalFloat(c, "score"), optionalFloat(c, "time"))
	if err != nil {
		return err
	}

	if err := config.ClearState(e.flags.StatePath); err != nil {
		return fmt.Errorf("clear session state: %w", err)
	}
	return e.print(c, res)
}

func sessionStatus(c *cli.Context) error {
	e, err := newEnv(c)
	if err != nil {
		return err
	}

	sessionID := c.Args().First()
	if sessionID == "" {
		st, err := config.LoadState(e.flags.StatePath)
		if err != nil {
			return err
		}
		sessionID = st.SessionID
	}
	if sessionID == "" {
		return fmt.Errorf("session ID required")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	res, err := e.client.Status(ctx, sessionID)
	if err != nil {
		return err
	}
	return e.print(c, res)
}

// playResult is printed by session play.
type playResult struct {
	SessionID string                     `json:"sessionId" yaml:"sessionId"`
	Steps     int                        `json:"steps" yaml:"steps"`
	Result    *connection.CompleteResult `json:"result" yaml:"result"`
}

func sessionPlay(c *cli.Context) error {
	e, err := newEnv(c)
	if err != nil {
		return err
	}
	steps := c.Int("steps")
	if steps < 0 {
		return fmt.Errorf("--steps must not be negative")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	started, err := e.client.Start(ctx)
	if err != nil {
		return err
	}
	e.printNote(c, "started session %s", started.SessionID)

	token := started.Token
	for step := 1; step <= steps; step++ {
		res, err := e.client.Progress(ctx, started.SessionID, token, step, nil)
		if err != nil {
			return fmt.Errorf("step %d: %w", step, err)
		}
		token = res.Token
		e.printNote(c, "%s", res.Message)
	}

	done, err := e.client.Complete(ctx, started.SessionID, token, optionalFloat(c, "score"), optionalFloat(c, "time"))
	if err != nil {
		return fmt.Errorf("complete: %w", err)
	}
	return e.print(c, playResult{SessionID: started.SessionID, Steps: steps, Result: done})
}

func optionalFloat(c *cli.Context, name string) *float64 {
	if !c.IsSet(name) {
		return nil
	}
	v := c.Float64(name)
	return &v
}
