package env

const AppName = "extractinator"

// Set at build time with -ldflags "-X github.com/ostafen/extractinator/internal/env.Version=...".
var (
	Version    = "0.0.1"
	CommitHash = "unknown"
	BuildTime  = "unknown"
)
