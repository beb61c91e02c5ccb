// Package buildinfo exposes build-time version information and process
// uptime for the version command and the health endpoint.
//
//	go build -ldflags "-X github.com/syncron/awareness-go/internal/infra/buildinfo.Version=v1.2.0 \
//	  -X github.com/syncron/awareness-go/internal/infra/buildinfo.Commit=$(git rev-parse --short HEAD)"
package buildinfo
