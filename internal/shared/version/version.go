package version

// Version is stamped into reports and the CLI banner.
const Version = "1.0.0"
