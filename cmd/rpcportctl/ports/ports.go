package ports

import (
	"context"
	"fmt"
	"strings"

	"github.com/integrii/flaggy"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/openSUSE/rpcportctl/internal/cli"
	"github.com/openSUSE/rpcportctl/internal/logger"
	"github.com/openSUSE/rpcportctl/internal/pattern"
	"github.com/openSUSE/rpcportctl/internal/ports"
	"github.com/openSUSE/rpcportctl/internal/rpcinfo"
)

type command struct {
	flaggy   *flaggy.Subcommand
	pattern  string
	services string
}

func NewCommand() cli.Command {
	cmd := command{}

	fc := flaggy.NewSubcommand("ports")
	fc.Description = "Print currently assigned ports as PORT/PROTO tuples compatible with firewall-cmd syntax"
	fc.String(&cmd.pattern, "p", "pattern", "Print the ports of the rpcbind services belonging to this pattern.")
	fc.String(&cmd.services, "s", "services", "Space separated list of rpcbind service names to print, e.g. \"ypbind rquotad\".")

	cmd.flaggy = fc

	return &cmd
}

func (c *command) Flaggy() *flaggy.Subcommand {
	return c.flaggy
}

func (c *command) Run(log *zap.Logger, opts *cli.GlobalOptions) error {
	var services []string

	switch {
	case c.pattern != "":
		p, err := pattern.Find(c.pattern)
		if err != nil {
			return err
		}
		services = p.Services()
	case c.services != "":
		services = strings.Fields(c.services)
	default:
		return errors.New("either a pattern (-p) or a list of services (-s) is required")
	}

	ctx := logger.NewContext(context.Background(), log)
	snapshot, err := rpcinfo.Query(ctx)
	if err != nil {
		return err
	}

	fmt.Println(ports.FormatSpecs(snapshot.Specs(services...)))

	return nil
}
