// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, rejected input, unknown id).
	UserError = 1

	// ConfigError indicates an auth/config error.
	ConfigError = 2

	// BackendError indicates a server, network or storage error.
	BackendError = 3
)
