package list

import (
	"fmt"
	"os"
	"strings"

	"github.com/gosuri/uitable"
	"github.com/integrii/flaggy"
	"go.uber.org/zap"

	"github.com/openSUSE/rpcportctl/internal/cli"
	"github.com/openSUSE/rpcportctl/internal/pattern"
	"github.com/openSUSE/rpcportctl/internal/sysconfig"
)

type command struct {
	flaggy  *flaggy.Subcommand
	pattern string
}

func NewCommand() cli.Command {
	cmd := command{}

	fc := flaggy.NewSubcommand("list")
	fc.Description = "Print information about available service patterns"
	fc.String(&cmd.pattern, "p", "pattern", "Limit output to a single pattern.")

	cmd.flaggy = fc

	return &cmd
}

func (c *command) Flaggy() *flaggy.Subcommand {
	return c.flaggy
}

func (c *command) Run(log *zap.Logger, opts *cli.GlobalOptions) error {
	patterns := pattern.All()
	if c.pattern != "" {
		p, err := pattern.Find(c.pattern)
		if err != nil {
			return err
		}
		patterns = []pattern.Pattern{p}
	}

	for i, p := range patterns {
		if i > 0 {
			fmt.Println()
		}
		if err := printPattern(p); err != nil {
			return err
		}
	}

	return nil
}

func printPattern(p pattern.Pattern) error {
	static, err := sysconfig.StaticPorts(p.SysconfigFile, p.Vars)
	if err != nil {
		return err
	}

	fmt.Println(p.Label)
	fmt.Println(strings.Repeat("-", len(p.Label)))
	fmt.Println()
	fmt.Printf("Static port configuration file: %s", p.SysconfigFile)
	if !p.IsInstalled() {
		fmt.Print(" (package not installed)")
	}
	fmt.Print("\n\n")

	table := uitable.New()
	table.AddRow("Configuration Variable", "Port Syntax", "rpcbind Service", "Static Port")
	for _, v := range p.Vars {
		staticPort := "unconfigured"
		if port, ok := static[v]; ok {
			staticPort = fmt.Sprintf("%d", port)
		}
		table.AddRow(v, pattern.Syntax(v), pattern.ServiceFor(v), staticPort)
	}
	fmt.Fprintln(os.Stdout, table)

	return nil
}
