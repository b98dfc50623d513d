package staticconfig

import (
	"context"
	"os"

	"github.com/integrii/flaggy"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/openSUSE/rpcportctl/internal/cli"
	"github.com/openSUSE/rpcportctl/internal/config"
	"github.com/openSUSE/rpcportctl/internal/daemon"
	"github.com/openSUSE/rpcportctl/internal/logger"
	"github.com/openSUSE/rpcportctl/internal/pattern"
	"github.com/openSUSE/rpcportctl/internal/ports"
	"github.com/openSUSE/rpcportctl/internal/rpcinfo"
	"github.com/openSUSE/rpcportctl/internal/staticconfig"
)

type command struct {
	flaggy          *flaggy.Subcommand
	pattern         string
	portConfig      string
	nonInteractive  bool
	restartServices bool
}

func NewCommand() cli.Command {
	cmd := command{}

	fc := flaggy.NewSubcommand("static-config")
	fc.Description = "Configure static ports for a pattern of related rpcbind services"
	fc.String(&cmd.pattern, "p", "pattern", "The pattern to configure. (Required)")
	fc.String(&cmd.portConfig, "", "port-config", "Space separated list of <rpcservice>=<port> defaults, e.g. \"mountd=4711 status=815\".")
	fc.Bool(&cmd.nonInteractive, "", "non-interactive", "Accept all determined port values without querying the terminal. Use with care.")
	fc.Bool(&cmd.restartServices, "", "restart-services", "Restart the affected systemd units after writing the configuration.")

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

	defaults, err := config.Load(opts.DefaultsFile)
	if err != nil {
		return err
	}
	if c.portConfig == "" {
		c.portConfig = defaults.PortConfig
	}
	if defaults.NonInteractive {
		c.nonInteractive = true
	}

	overrides, err := ports.ParseOverrides(c.portConfig, pattern.KnownServices())
	if err != nil {
		return err
	}

	ctx := logger.NewContext(context.Background(), log)
	snapshot, err := rpcinfo.Query(ctx)
	if err != nil {
		return err
	}

	session := &staticconfig.Session{
		Pattern:     p,
		Snapshot:    snapshot,
		Overrides:   overrides,
		Interactive: !c.nonInteractive,
		In:          os.Stdin,
		Out:         os.Stdout,
		Log:         log,
	}
	if err := session.Run(ctx); err != nil {
		return err
	}

	if c.restartServices {
		return restartUnits(ctx, log, p)
	}

	return nil
}

func restartUnits(ctx context.Context, log *zap.Logger, p pattern.Pattern) error {
	manager, err := daemon.NewManager(ctx)
	if err != nil {
		return err
	}
	defer manager.Close()

	for _, unit := range p.Units {
		log.Info("Restarting unit", zap.String("unit", unit))
		if err := manager.RestartUnit(ctx, unit); err != nil {
			return err
		}
	}

	return nil
}
