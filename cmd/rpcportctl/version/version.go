package version

// GitVersion is set at build time via -ldflags.
var GitVersion = "dev"
