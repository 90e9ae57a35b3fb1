// Package version reports which build of personjob is running.
//
// Version, commit and build time are set at link time:
//
//	go build -ldflags "-X github.com/kbukum/personjob/version.Version=1.2.0 \
//	    -X github.com/kbukum/personjob/version.BuildTime=2026-01-15T10:30:00Z" ./cmd/personjob
//
// Anything left unset falls back to the VCS stamps the Go toolchain embeds.
package version
