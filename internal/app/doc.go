// Package app ties model loading, declaration and linting into a single
// run. It owns the process configuration and the logger, and stays
// independent of the entrypoint that builds the Config.
package app
