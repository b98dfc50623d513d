package cli

import (
	"github.com/integrii/flaggy"
	"go.uber.org/zap"
)

// Command is one rpcportctl subcommand.
type Command interface {
	// Flaggy returns the flaggy subcommand used to parse the command's
	// arguments.
	Flaggy() *flaggy.Subcommand
	// Run executes the command.
	Run(log *zap.Logger, opts *GlobalOptions) error
}
