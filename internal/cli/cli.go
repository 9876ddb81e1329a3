package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/specialistvlad/voxview/internal/app"
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

// envDefaults are the flag defaults taken from the environment.
type envDefaults struct {
	LogLevel        string   `env:"VOXVIEW_LOG_LEVEL" envDefault:"info"`
	LogFormat       string   `env:"VOXVIEW_LOG_FORMAT" envDefault:"text"`
	Config          []string `env:"VOXVIEW_CONFIG" envSeparator:":"`
	HealthcheckPort int      `env:"VOXVIEW_HEALTHCHECK_PORT" envDefault:"0"`
}

// stringList is a repeatable string flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// Parse processes command-line arguments with defaults from the process
// environment. It returns a populated app.Config, a boolean indicating if
// the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	return ParseWithEnv(args, output, env.ToMap(os.Environ()))
}

// ParseWithEnv is Parse with an explicit environment.
func ParseWithEnv(args []string, output io.Writer, environ map[string]string) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")

	if environ == nil {
		environ = map[string]string{}
	}
	var defaults envDefaults
	if err := env.ParseWithOptions(&defaults, env.Options{Environment: environ}); err != nil {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("invalid environment: %v", err)}
	}

	flagSet := flag.NewFlagSet("voxview", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
voxview - A headless scene graph session for volumetric data.

Usage:
  voxview [options] [DATA_PATH...]

Arguments:
  DATA_PATH
    A data file or a directory scanned for supported files.

Environment:
  VOXVIEW_LOG_LEVEL, VOXVIEW_LOG_FORMAT, VOXVIEW_CONFIG (colon separated),
  VOXVIEW_HEALTHCHECK_PORT provide the defaults of the matching options.

Options:
`)
		flagSet.PrintDefaults()
	}

	configPaths := stringList(defaults.Config)
	flagSet.Var(&configPaths, "config", "Path to an .hcl config file or directory. Repeatable.")
	flagSet.Var(&configPaths, "c", "Path to an .hcl config file or directory (shorthand).")
	loadFlag := flagSet.String("load", "", "State key to restore before opening data, e.g. 'sessions/tomo.vxs'.")
	saveFlag := flagSet.String("save", "", "State key to write once everything is open. '.vxs'/'.hcl' or '.xml'.")
	healthPortFlag := flagSet.Int("healthcheck-port", defaults.HealthcheckPort, "Port for the /health and /metrics server. 0 is disabled; otherwise the session stays up until interrupted.")
	logFormatFlag := flagSet.String("log-format", defaults.LogFormat, "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", defaults.LogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	var dataPaths []string
	if flagSet.NArg() > 0 {
		dataPaths = flagSet.Args()
	}
	if len(dataPaths) == 0 && *loadFlag == "" && *healthPortFlag <= 0 {
		slog.Debug("Nothing to do, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		ConfigPaths:     configPaths,
		DataPaths:       dataPaths,
		LoadState:       *loadFlag,
		SaveState:       *saveFlag,
		HealthcheckPort: *healthPortFlag,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
