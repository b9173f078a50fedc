package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/nodegraph/internal/app"
	"github.com/specialistvlad/nodegraph/internal/catalog"
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

// Parse processes command-line arguments. It returns a populated Config, a
// boolean indicating if the program should exit cleanly, or an ExitError.
// Settings not given as flags come from NODEGRAPH_* environment variables,
// then from the config file.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("nodegraph", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
nodegraph - Inspect the node types, libraries and conversions available to a graph.

Usage:
  nodegraph [options] [MODULES_PATH]

Arguments:
  MODULES_PATH
    Path to a single .hcl manifest or a directory of manifests.

Options:
`)
		flagSet.PrintDefaults()
		fmt.Fprintf(output, "\nEvery option can also be set as %s_<OPTION> in the environment or in the config file.\n", app.EnvPrefix)
	}

	d := app.Defaults
	configFlag := flagSet.String(app.KeyConfig, "", "Path to a YAML, JSON or TOML config file.")
	modulesPathFlag := flagSet.String(app.KeyModulesPath, d.ModulesPath, "Path to the directory containing module manifests.")
	logFormatFlag := flagSet.String(app.KeyLogFormat, d.LogFormat, "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String(app.KeyLogLevel, d.LogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	formatFlag := flagSet.String(app.KeyFormat, d.OutputFormat, "Catalog output format. Options: "+strings.Join(catalog.Formats, ", ")+".")
	healthPortFlag := flagSet.Int(app.KeyHealthcheckPort, d.HealthcheckPort, "Port for the HTTP health check and catalog server. 0 is disabled.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	explicit := make(map[string]bool)
	flagSet.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	if flagSet.NArg() > 1 {
		return nil, false, &ExitError{Code: 2, Message: "at most one MODULES_PATH argument is accepted"}
	}
	modulesPath := *modulesPathFlag
	if flagSet.NArg() == 1 && !explicit[app.KeyModulesPath] {
		modulesPath = flagSet.Arg(0)
		explicit[app.KeyModulesPath] = true
	}
	slog.Debug("Modules path determined.", "path", modulesPath)

	resolved, err := app.ResolveSettings(app.Config{
		ConfigFile:      *configFlag,
		ModulesPath:     modulesPath,
		LogFormat:       *logFormatFlag,
		LogLevel:        *logLevelFlag,
		OutputFormat:    *formatFlag,
		HealthcheckPort: *healthPortFlag,
	}, explicit)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	config, err := app.NewConfig(resolved)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
