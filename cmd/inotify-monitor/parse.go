package main

import (
	"flag"
	"fmt"
	"io"

	"inwatch/internal/ansible"
	"inwatch/internal/cli"
)

// Config captures one invocation. Ansible passes a single positional
// argument (the args file); humans debugging the module use flags.
type Config struct {
	ArgsFile    string
	ModuleArgs  ansible.Args
	Verbose     bool
	Debug       bool
	ShowVersion bool
}

var moduleFlagNames = map[string]bool{
	"watch-paths": true,
	"stimeout":    true,
	"mtimeout":    true,
	"recursive":   true,
	"events":      true,
	"log-file":    true,
	"stream-url":  true,
}

func parseArgs(args []string, errOut io.Writer) (Config, error) {
	fs := flag.NewFlagSet("inotify-monitor", flag.ContinueOnError)
	fs.SetOutput(errOut)

	watchPaths := fs.String("watch-paths", "", "Comma-separated paths to watch (required)")
	stimeout := fs.Int("stimeout", 0, "Watch window in seconds (mutually exclusive with --mtimeout)")
	mtimeout := fs.Int("mtimeout", 0, "Watch window in minutes (mutually exclusive with --stimeout)")
	recursive := fs.Bool("recursive", false, "Watch directory trees recursively")
	events := fs.String("events", "", "Comma-separated event filter: create, write, remove, rename, chmod")
	logFile := fs.String("log-file", "", "Also write collected events to this file as CSV")
	streamURL := fs.String("stream-url", "", "Forward each event live to this ws:// or wss:// endpoint")
	verbosity := cli.AddVerbosityFlags(fs)
	helpVersion := cli.AddHelpVersionFlags(fs, "", "")
	fs.Usage = func() {
		printHelp(fs.Output())
	}

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if helpVersion.Help {
		fs.Usage()
		return Config{}, flag.ErrHelp
	}
	cfg := Config{}
	cfg.Verbose, cfg.Debug = verbosity.Effective()

	if helpVersion.Version {
		cfg.ShowVersion = true
		return cfg, nil
	}

	moduleFlagsSet := false
	fs.Visit(func(f *flag.Flag) {
		if moduleFlagNames[f.Name] {
			moduleFlagsSet = true
		}
	})

	switch fs.NArg() {
	case 0:
	case 1:
		if moduleFlagsSet {
			fs.Usage()
			return Config{}, fmt.Errorf("an args file cannot be combined with module flags")
		}
		cfg.ArgsFile = fs.Arg(0)
		return cfg, nil
	default:
		fs.Usage()
		return Config{}, fmt.Errorf("invalid arguments")
	}

	if !moduleFlagsSet {
		fs.Usage()
		return Config{}, fmt.Errorf("an args file or module flags are required")
	}

	moduleArgs := ansible.Args{
		WatchPaths: *watchPaths,
		Recursive:  *recursive,
		Events:     *events,
		LogFile:    *logFile,
		StreamURL:  *streamURL,
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "stimeout":
			moduleArgs.STimeout = stimeout
		case "mtimeout":
			moduleArgs.MTimeout = mtimeout
		}
	})
	cfg.ModuleArgs = moduleArgs
	return cfg, nil
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out, "Usage: inotify-monitor [options] [args-file]")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Watch filesystem paths for events for a bounded duration and report")
	fmt.Fprintln(out, "them as an Ansible module result on stdout")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Options:")
	writeOption(out, "--watch-paths PATHS", "Comma-separated paths to watch (required)")
	writeOption(out, "--stimeout N", "Watch window in seconds")
	writeOption(out, "--mtimeout N", "Watch window in minutes (exclusive with --stimeout)")
	writeOption(out, "--recursive", "Watch directory trees recursively")
	writeOption(out, "--events LIST", "Event filter: create, write, remove, rename, chmod")
	writeOption(out, "--log-file PATH", "Also write collected events to PATH as CSV")
	writeOption(out, "--stream-url URL", "Forward events live over a websocket connection")
	writeOption(out, "--verbose", "Verbose output on stderr")
	writeOption(out, "--debug", "Debug output on stderr (implies --verbose)")
	writeOption(out, "--help", "Show this help message")
	writeOption(out, "--version", "Print version and exit")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Modes:")
	fmt.Fprintln(out, "  Ansible: a single positional argument naming the module args file")
	fmt.Fprintln(out, "  Manual:  module flags, for debugging outside a playbook")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Examples:")
	fmt.Fprintln(out, "  inotify-monitor --watch-paths /tmp --stimeout 30")
	fmt.Fprintln(out, "  inotify-monitor --watch-paths /tmp,/etc/host.conf --mtimeout 5 --log-file ~/inotify_logs")
	fmt.Fprintln(out, "  inotify-monitor /var/tmp/ansible-args")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Exit codes:")
	fmt.Fprintln(out, "  0  Success (including a quiet window)")
	fmt.Fprintln(out, "  1  Usage error")
	fmt.Fprintln(out, "  2  Invalid argument")
	fmt.Fprintln(out, "  3  Subscription error")
	fmt.Fprintln(out, "  4  Reporting error (log file or stream)")
}

func writeOption(out io.Writer, name, desc string) {
	fmt.Fprintf(out, "  %-20s %s\n", name, desc)
}
