package cli

import "github.com/integrii/flaggy"

type GlobalOptions struct {
	DevelopmentMode bool
	Verbose         bool
	DefaultsFile    string
}

func NewGlobalOptions(defaultsFile string) *GlobalOptions {
	opts := GlobalOptions{
		DefaultsFile: defaultsFile,
	}
	flaggy.Bool(&opts.DevelopmentMode, "d", "development", "Enable development mode for logging.")
	flaggy.Bool(&opts.Verbose, "v", "verbose", "Echo external tool invocations where applicable.")
	flaggy.String(&opts.DefaultsFile, "", "defaults-file", "Path to the tool defaults file.")
	return &opts
}
