package cli

import "flag"

const (
	defaultHelpDesc    = "Show this help message"
	defaultVersionDesc = "Print version and exit"
)

type HelpVersionFlags struct {
	Help    bool
	Version bool
}

// AddHelpVersionFlags registers the shared --help/--version flags with
// their short aliases.
func AddHelpVersionFlags(fs *flag.FlagSet, helpDesc, versionDesc string) *HelpVersionFlags {
	if fs == nil {
		return &HelpVersionFlags{}
	}
	if helpDesc == "" {
		helpDesc = defaultHelpDesc
	}
	if versionDesc == "" {
		versionDesc = defaultVersionDesc
	}
	flags := &HelpVersionFlags{}
	fs.BoolVar(&flags.Help, "help", false, helpDesc)
	fs.BoolVar(&flags.Help, "h", false, helpDesc)
	fs.BoolVar(&flags.Version, "version", false, versionDesc)
	fs.BoolVar(&flags.Version, "v", false, versionDesc)
	return flags
}

type VerbosityFlags struct {
	Verbose bool
	Debug   bool
}

// AddVerbosityFlags registers --verbose and --debug. Debug implies
// verbose; Effective folds that rule in.
func AddVerbosityFlags(fs *flag.FlagSet) *VerbosityFlags {
	if fs == nil {
		return &VerbosityFlags{}
	}
	flags := &VerbosityFlags{}
	fs.BoolVar(&flags.Verbose, "verbose", false, "Verbose output on stderr")
	fs.BoolVar(&flags.Debug, "debug", false, "Debug output on stderr (implies --verbose)")
	return flags
}

func (f *VerbosityFlags) Effective() (verbose, debug bool) {
	if f == nil {
		return false, false
	}
	if f.Debug {
		return true, true
	}
	return f.Verbose, false
}
