// Package version provides build and version information for the Minerva
// client.
package version

// Version is the current release version of the client.
// This can be overridden at build time using:
//
//	go build -ldflags "-X github.com/decode-detroit/minerva-sub000/internal/version.Version=x.y.z"
var Version = "0.1.0"
