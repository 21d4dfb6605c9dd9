package version

// Set at build time with -ldflags "-X certifire/version.Version=...".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
	Arch    = "unknown"
	OS      = "unknown"
	Package = "source"
)
