package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/specialistvlad/qspgo/internal/app"
)

// Environment variables that provide flag defaults. They may also be set in
// a .env file.
const (
	EnvFile        = "QSPGO_ENV_FILE"
	EnvConfig      = "QSPGO_CONFIG"
	EnvLogFormat   = "QSPGO_LOG_FORMAT"
	EnvLogLevel    = "QSPGO_LOG_LEVEL"
	EnvExtraChecks = "QSPGO_EXTRA_CHECKS"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// loadEnvFile loads variables from the .env file without overriding ones
// already set. A missing file is not an error.
func loadEnvFile() error {
	path := os.Getenv(EnvFile)
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return strings.ToLower(v)
	}
	return fallback
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
//
// Settings are taken from, in order of precedence: explicit flags, the YAML
// config file, QSPGO_* environment variables (including .env), defaults.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	if err := loadEnvFile(); err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	flagSet := flag.NewFlagSet("qspgo", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
qspgo - declare a quantitative systems pharmacology model and check it.

Usage:
  qspgo [options] MODEL_PATH...

Arguments:
  MODEL_PATH
    Path to a single .hcl file or a directory containing .hcl files.

Options:
`)
		flagSet.PrintDefaults()
	}

	extraDefault, _ := strconv.ParseBool(envOr(EnvExtraChecks, "false"))

	modelFlag := flagSet.String("model", "", "Path to the model file or directory.")
	mFlag := flagSet.String("m", "", "Path to the model file or directory (shorthand).")
	configFlag := flagSet.String("config", os.Getenv(EnvConfig), "Path to a YAML config file.")
	logFormatFlag := flagSet.String("log-format", envOr(EnvLogFormat, "text"), "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", envOr(EnvLogLevel, "info"), "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	extraFlag := flagSet.Bool("extra-checks", extraDefault, "Also run the unbound-site, overdefined-rule and unreferenced-formula checks.")
	verboseFlag := flagSet.Bool("verbose", false, "Print a notice for every declared entity.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	var cfg app.Config
	if *configFlag != "" {
		fileCfg, err := app.LoadConfigFile(*configFlag)
		if err != nil {
			return nil, false, &ExitError{Code: 2, Message: err.Error()}
		}
		cfg = fileCfg
		slog.Debug("Config file loaded.", "path", *configFlag)
	}

	set := make(map[string]bool)
	flagSet.Visit(func(f *flag.Flag) { set[f.Name] = true })

	var paths []string
	switch {
	case *modelFlag != "":
		paths = []string{*modelFlag}
	case *mFlag != "":
		paths = []string{*mFlag}
	}
	paths = append(paths, flagSet.Args()...)
	if len(paths) > 0 {
		cfg.ModelPaths = paths
	}
	slog.Debug("Model paths determined.", "paths", cfg.ModelPaths)

	if len(cfg.ModelPaths) == 0 {
		slog.Debug("No model path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	if set["log-format"] || cfg.LogFormat == "" {
		cfg.LogFormat = strings.ToLower(*logFormatFlag)
	}
	if set["log-level"] || cfg.LogLevel == "" {
		cfg.LogLevel = strings.ToLower(*logLevelFlag)
	}
	if set["extra-checks"] {
		cfg.ExtraChecks = *extraFlag
	} else {
		cfg.ExtraChecks = cfg.ExtraChecks || *extraFlag
	}
	if set["verbose"] {
		cfg.Verbose = *verboseFlag
	}

	config, err := app.NewConfig(cfg)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
