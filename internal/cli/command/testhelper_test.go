package command

import (
	"bytes"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/syncron/awareness-go/internal/core/service"
	"github.com/syncron/awareness-go/internal/server/httpserver"
	"github.com/syncron/awareness-go/internal/server/httpserver/handler"
	"github.com/syncron/awareness-go/internal/storage/memory"
	"github.com/syncron/awareness-go/internal/telemetry/logger"
	"github.com/syncron/awareness-go/pkg/progresstoken"
)

// cliEnv runs the CLI against an in-process server.
type cliEnv struct {
	server    *httptest.Server
	statePath string
	dir       string
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()

	codec, err := progresstoken.New([]byte("command-test-secret-with-32-bytes!"))
	if err != nil {
		t.Fatalf("progresstoken.New failed: %v", err)
	}
	svc := service.NewProgressService(memory.New(), codec, service.WithLogger(logger.Discard()))
	srv := httptest.NewServer(httpserver.NewRouter(&httpserver.RouterConfig{
		Handler: handler.New(svc, handler.WithLogger(logger.Discard())),
		Logger:  logger.Discard(),
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	return &cliEnv{
		server:    srv,
		statePath: filepath.Join(dir, "session.yaml"),
		dir:       dir,
	}
}

// run executes the CLI with args and returns its stdout.
func (e *cliEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	app := App()
	app.Writer = &out
	app.ErrWriter = &out

	full := []string{
		"awareness-cli",
		"--server", e.server.URL,
		"--config", filepath.Join(e.dir, "cli.yaml"),
		"--state", e.statePath,
	}
	err := app.Run(append(full, args...))
	return out.String(), err
}

func (e *cliEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, args...)
	if err != nil {
		t.Fatalf("%v failed: %v\n%s", args, err, out)
	}
	return out
}
