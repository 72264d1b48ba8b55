// Package version holds build information set with -ldflags, e.g.
//
//	go build -ldflags "-X 'github.com/garyjia/invoice-bundler/internal/version.Version=1.2.0'"
package version

// Version is the application version
var Version = "1.0.0"

// BuildDate is the date the binary was built
var BuildDate = "unknown"
