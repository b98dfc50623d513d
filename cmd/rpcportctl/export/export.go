package export

import (
	"context"
	"os"

	"github.com/integrii/flaggy"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/openSUSE/rpcportctl/internal/cli"
	"github.com/openSUSE/rpcportctl/internal/config"
	"github.com/openSUSE/rpcportctl/internal/firewalld"
	"github.com/openSUSE/rpcportctl/internal/logger"
	"github.com/openSUSE/rpcportctl/internal/pattern"
)

type command struct {
	flaggy  *flaggy.Subcommand
	pattern string
	name    string
}

func NewCommand() cli.Command {
	cmd := command{}

	fc := flaggy.NewSubcommand("firewalld-export")
	fc.Description = "Create a firewalld service from a pattern's static port configuration"
	fc.String(&cmd.pattern, "p", "pattern", "The pattern to export. (Required)")
	fc.String(&cmd.name, "n", "name", "Name for the new firewalld service. Defaults to the pattern label.")

	cmd.flaggy = fc

	return &cmd
}

func (c *command) Flaggy() *flaggy.Subcommand {
	return c.flaggy
}

func (c *command) Run(log *zap.Logger, opts *cli.GlobalOptions) error {
	root, err := cli.IsRunningAsRoot()
	if err != nil {
		return err
	}
	if !root {
		return cli.ErrMustRunAsRoot
	}

	if c.pattern == "" {
		return errors.New("missing pattern argument (-p)")
	}
	p, err := pattern.Find(c.pattern)
	if err != nil {
		return err
	}

	name := c.name
	if name == "" {
		defaults, err := config.Load(opts.DefaultsFile)
		if err != nil {
			return err
		}
		name = defaults.ServiceName
	}
	if name == "" {
		name = p.Label
	}

	ctx := logger.NewContext(context.Background(), log)
	client := firewalld.NewClient(opts.Verbose, os.Stdout, log)

	return firewalld.Export(ctx, client, p, name)
}
