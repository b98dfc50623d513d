package firewalld

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/openSUSE/rpcportctl/internal/pattern"
	"github.com/openSUSE/rpcportctl/internal/ports"
	"github.com/openSUSE/rpcportctl/internal/sysconfig"
)

// IncompleteConfigError reports an export attempt while some of the
// pattern's variables still lack a static port.
type IncompleteConfigError struct {
	Pattern string
	Missing []string
}

func (e *IncompleteConfigError) Error() string {
	return fmt.Sprintf(
		"not all services belonging to the %s pattern have been assigned static ports, missing configuration items: %s",
		e.Pattern, strings.Join(e.Missing, " "))
}

// Export creates a firewalld service covering every static port of the
// pattern. Each static port is opened under both tcp and udp, on top of the
// pattern's implied ports. The service must not exist yet; nothing is created
// unless every owned variable has a static port.
func Export(ctx context.Context, client *Client, p pattern.Pattern, name string) error {
	static, err := sysconfig.StaticPorts(p.SysconfigFile, p.Vars)
	if err != nil {
		return err
	}

	var missing []string
	for _, v := range p.Vars {
		if _, ok := static[v]; !ok {
			missing = append(missing, v)
		}
	}
	if len(missing) > 0 {
		return &IncompleteConfigError{Pattern: p.Label, Missing: missing}
	}

	if !client.IsRunning(ctx) {
		return errors.New("firewalld is not running or firewall-cmd was not found")
	}

	if client.ServiceExists(ctx, name) {
		return errors.Errorf("a firewalld service named %q already exists", name)
	}

	if err := client.NewService(ctx, name); err != nil {
		return err
	}

	// for now assume every static port is needed under both tcp and udp
	var specs []ports.Spec
	for _, port := range static {
		specs = append(specs,
			ports.Spec{Port: port, Proto: "udp"},
			ports.Spec{Port: port, Proto: "tcp"},
		)
	}
	specs = append(specs, p.ImpliedPorts...)

	if err := client.AddPorts(ctx, name, ports.SortSpecs(specs)); err != nil {
		return err
	}

	fmt.Fprintf(client.Out, "Successfully created new firewalld service %q:\n", name)
	client.PrintService(ctx, name)

	return nil
}
