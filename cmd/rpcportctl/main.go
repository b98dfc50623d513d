package main

import (
	"os"

	"github.com/integrii/flaggy"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/openSUSE/rpcportctl/cmd/rpcportctl/export"
	"github.com/openSUSE/rpcportctl/cmd/rpcportctl/list"
	portscmd "github.com/openSUSE/rpcportctl/cmd/rpcportctl/ports"
	staticcmd "github.com/openSUSE/rpcportctl/cmd/rpcportctl/staticconfig"
	"github.com/openSUSE/rpcportctl/cmd/rpcportctl/version"
	"github.com/openSUSE/rpcportctl/internal/cli"
	"github.com/openSUSE/rpcportctl/internal/config"
	"github.com/openSUSE/rpcportctl/internal/staticconfig"
	"github.com/openSUSE/rpcportctl/internal/util"
)

func main() {
	util.SetUmask()

	flaggy.SetName("rpcportctl")
	flaggy.SetDescription("Configure static ports for rpcbind services like NFSv3 and ypbind/ypserv and expose them to firewalld")
	flaggy.SetVersion(version.GitVersion)
	flaggy.DefaultParser.AdditionalHelpPrepend = "\nhttps://github.com/openSUSE/rpcportctl"
	flaggy.DefaultParser.ShowHelpOnUnexpected = true
	if err := flaggy.DefaultParser.SetHelpTemplate(cli.HelpTemplate); err != nil {
		panic(err)
	}

	opts := cli.NewGlobalOptions(config.DefaultPath)

	cmds := []cli.Command{
		list.NewCommand(),
		portscmd.NewCommand(),
		staticcmd.NewCommand(),
		export.NewCommand(),
	}

	for _, cmd := range cmds {
		flaggy.AttachSubcommand(cmd.Flaggy(), 1)
	}
	flaggy.Parse()

	log := cli.NewLogger(opts)

	for _, cmd := range cmds {
		if cmd.Flaggy().Used {
			err := cmd.Run(log, opts)
			if errors.Is(err, staticconfig.ErrInputExhausted) {
				log.Error("EOF encountered while prompting")
				os.Exit(2)
			}
			if err != nil {
				log.Fatal("Command failed", zap.Error(err))
			}
			return
		}
	}
	flaggy.ShowHelpAndExit("No command specified")
}
