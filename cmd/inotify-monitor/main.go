package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"inwatch/internal/ansible"
	"inwatch/internal/config"
	"inwatch/internal/logging"
	"inwatch/internal/monitor"
	"inwatch/internal/stream"
	"inwatch/internal/version"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out io.Writer, errOut io.Writer) int {
	cfg, err := parseArgs(args, errOut)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitCodeSuccess
		}
		return fail(out, errOut, err.Error(), exitCodeUsage)
	}
	if cfg.ShowVersion {
		return printVersion(cfg, out, errOut)
	}

	defaults, err := config.LoadFromEnv()
	if err != nil {
		return fail(out, errOut, err.Error(), exitCodeInvalidArgument)
	}
	logger := newLogger(cfg, defaults, errOut)

	moduleArgs := cfg.ModuleArgs
	if cfg.ArgsFile != "" {
		moduleArgs, err = ansible.ParseArgsFile(cfg.ArgsFile)
		if err != nil {
			return fail(out, errOut, err.Error(), exitCodeUsage)
		}
	}

	request, err := monitor.Resolve(moduleArgs, defaults)
	if err != nil {
		return fail(out, errOut, err.Error(), exitCodeInvalidArgument)
	}

	var sinks []monitor.Sink
	if request.StreamURL != "" {
		forwarder, err := stream.Dial(request.StreamURL, request.StreamDeadline)
		if err != nil {
			return fail(out, errOut, err.Error(), exitCodeReporting)
		}
		defer forwarder.Close()
		sinks = append(sinks, forwarder)
	}

	report, err := monitor.Run(request, logger, sinks...)
	if err != nil {
		return fail(out, errOut, err.Error(), codeForError(err))
	}

	result := monitor.NewResult(report)
	if request.LogFile != "" {
		if err := monitor.WriteCSVLog(request.LogFile, report.Records); err != nil {
			return fail(out, errOut, err.Error(), exitCodeReporting)
		}
		result.LogFile = request.LogFile
		result.Msg = fmt.Sprintf("%s; logs are written to '%s'", result.Msg, request.LogFile)
	}

	if err := ansible.WriteResult(out, result); err != nil {
		fmt.Fprintln(errOut, err.Error())
		return exitCodeReporting
	}
	return exitCodeSuccess
}

// printVersion writes the plain banner, or the full build metadata as
// JSON when --debug is set.
func printVersion(cfg Config, out io.Writer, errOut io.Writer) int {
	info := version.GetVersionInfo()
	if cfg.Debug {
		payload, err := json.Marshal(info)
		if err != nil {
			fmt.Fprintln(errOut, err.Error())
			return exitCodeUsage
		}
		fmt.Fprintln(out, string(payload))
		return exitCodeSuccess
	}
	if info.Version == "" || info.Version == "dev" {
		fmt.Fprintln(out, "inotify-monitor dev")
	} else {
		fmt.Fprintf(out, "inotify-monitor version %s\n", info.Version)
	}
	return exitCodeSuccess
}

func codeForError(err error) int {
	switch {
	case errors.Is(err, monitor.ErrInvalidArgument):
		return exitCodeInvalidArgument
	case errors.Is(err, monitor.ErrSubscription):
		return exitCodeSubscription
	case errors.Is(err, monitor.ErrReporting):
		return exitCodeReporting
	default:
		return exitCodeSubscription
	}
}

// fail reports one JSON failure body on stdout and the message on
// stderr, then yields the exit code.
func fail(out io.Writer, errOut io.Writer, msg string, code int) int {
	fmt.Fprintln(errOut, msg)
	if err := ansible.WriteResult(out, ansible.FailResult(msg)); err != nil {
		fmt.Fprintln(errOut, err.Error())
	}
	return code
}

func newLogger(cfg Config, defaults config.Defaults, errOut io.Writer) *logging.Logger {
	level := logging.LevelWarning
	if parsed, ok := logging.ParseLevel(defaults.LogLevel); ok {
		level = parsed
	}
	if cfg.Verbose {
		level = logging.LevelInfo
	}
	if cfg.Debug {
		level = logging.LevelDebug
	}
	return logging.NewLoggerWithOutput(logging.NewLogBuffer(logging.DefaultBufferSize), level, errOut)
}
