// Package cli turns command-line flags, an optional YAML file and QSPGO_*
// environment variables into an app.Config. Usage errors are reported as
// ExitError values carrying the process exit code.
package cli
