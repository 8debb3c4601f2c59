// Package version exposes build version information.
//
// Version, git commit, and build time are set at compile time via -ldflags:
//
//	go build -ldflags "-X github.com/tradeflowhq/tradeflow/version.Version=1.0.0"
//
// Fields not set at build time fall back to the module's embedded VCS info.
package version
