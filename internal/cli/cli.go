package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/echoplug/internal/app"
	"github.com/specialistvlad/echoplug/internal/compiler"
	"github.com/specialistvlad/echoplug/internal/config"
	"github.com/spf13/pflag"
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

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
//
// Values come from the defaults, then the optional HCL config file, then any
// flag that was set explicitly.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := pflag.NewFlagSet("echoplug", pflag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
echoplug - compiles each line you type into a Go plugin and loads it back.

Usage:
  echoplug [options]

Type a message to compile it, press Enter on an empty line to call the last
compiled plugin again, or type :list to show every resolvable identifier.

Options:
`)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.StringP("config", "c", "", "Path to an HCL config file.")
	dataDirFlag := flagSet.String("data-dir", "data", "Directory holding templates/, extensions/ and build/.")
	moduleDirFlag := flagSet.String("module-dir", ".", "Source tree of the echoplug module that plugins link against.")
	goFlag := flagSet.String("go", "go", "Go toolchain binary used to build plugins.")
	goVersionFlag := flagSet.String("go-version", compiler.DefaultGoVersion, "Go language version of generated modules.")
	keepFlag := flagSet.Bool("keep-sources", false, "Keep generated modules in the build directory.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "warn", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if flagSet.NArg() > 0 {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unexpected arguments: %s", strings.Join(flagSet.Args(), " "))}
	}
	slog.Debug("Arguments parsed successfully.")

	cfg := app.Config{
		DataDir:     *dataDirFlag,
		ModuleDir:   *moduleDirFlag,
		GoBinary:    *goFlag,
		GoVersion:   *goVersionFlag,
		KeepSources: *keepFlag,
		LogFormat:   *logFormatFlag,
		LogLevel:    *logLevelFlag,
	}

	if *configFlag != "" {
		file, err := config.Load(*configFlag)
		if err != nil {
			return nil, false, &ExitError{Code: 2, Message: err.Error()}
		}
		merge(&cfg, file, flagSet)
		slog.Debug("Config file applied.", "path", *configFlag)
	}

	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	result, err := app.NewConfig(cfg)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", result)
	return result, false, nil
}

// merge applies file values for every flag the user did not set.
func merge(cfg *app.Config, file *config.File, flags *pflag.FlagSet) {
	set := func(name, value string, dst *string) {
		if value != "" && !flags.Changed(name) {
			*dst = value
		}
	}
	set("data-dir", file.DataDir, &cfg.DataDir)
	set("module-dir", file.ModuleDir, &cfg.ModuleDir)
	set("go", file.GoBinary, &cfg.GoBinary)
	set("go-version", file.GoVersion, &cfg.GoVersion)
	if file.Log != nil {
		set("log-level", file.Log.Level, &cfg.LogLevel)
		set("log-format", file.Log.Format, &cfg.LogFormat)
	}
	if file.KeepSources && !flags.Changed("keep-sources") {
		cfg.KeepSources = true
	}
}
