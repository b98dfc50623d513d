// Package firewalld wraps the firewall-cmd tool for creating firewalld
// services from static rpcbind port assignments.
package firewalld

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"github.com/openSUSE/rpcportctl/internal/ports"
)

const binaryName = "firewall-cmd"

// Runner executes one firewall-cmd invocation and reports whether it
// succeeded. When discard is false the tool's output goes to the client's
// output stream. Swappable for tests.
type Runner func(ctx context.Context, args []string, discard bool, out io.Writer) bool

func execRunner(ctx context.Context, args []string, discard bool, out io.Writer) bool {
	path, err := exec.LookPath(binaryName)
	if err != nil {
		return false
	}

	cmd := exec.CommandContext(ctx, path, args...)
	// avoid translations or special encodings
	cmd.Env = append(os.Environ(), "LC_ALL=C")
	if !discard {
		cmd.Stdout = out
		cmd.Stderr = out
	}

	return cmd.Run() == nil
}

// Client issues firewall-cmd calls. Mutations always target the permanent
// configuration layer; only the daemon state probe runs against the live
// layer.
type Client struct {
	Verbose bool
	Out     io.Writer
	Log     *zap.Logger

	Run Runner
}

func NewClient(verbose bool, out io.Writer, log *zap.Logger) *Client {
	return &Client{
		Verbose: verbose,
		Out:     out,
		Log:     log,
		Run:     execRunner,
	}
}

func (c *Client) call(ctx context.Context, args []string, permanent, discard bool) bool {
	cmdline := make([]string, 0, len(args)+1)
	if permanent {
		cmdline = append(cmdline, "--permanent")
	}
	cmdline = append(cmdline, args...)

	if c.Verbose {
		fmt.Fprintf(c.Out, "> %s %s\n", binaryName, strings.Join(cmdline, " "))
	}
	c.Log.Debug("Calling firewall-cmd", zap.Strings("args", cmdline))

	return c.Run(ctx, cmdline, discard, c.Out)
}

// IsRunning probes the live firewalld daemon state.
func (c *Client) IsRunning(ctx context.Context) bool {
	return c.call(ctx, []string{"--state"}, false, true)
}

// ServiceExists reports whether a service definition of the given name is
// already present in the permanent configuration.
func (c *Client) ServiceExists(ctx context.Context, name string) bool {
	return c.call(ctx, []string{"--info-service", name}, true, true)
}

// NewService creates a new empty service definition.
func (c *Client) NewService(ctx context.Context, name string) error {
	if !c.call(ctx, []string{"--new-service", name}, true, true) {
		return &ToolError{Args: []string{"--new-service", name}}
	}
	return nil
}

// AddPorts opens the given port specs in the named service.
func (c *Client) AddPorts(ctx context.Context, name string, specs []ports.Spec) error {
	args := []string{"--service", name}
	for _, spec := range specs {
		args = append(args, "--add-port", spec.String())
	}
	if !c.call(ctx, args, true, true) {
		return &ToolError{Args: args}
	}
	return nil
}

// PrintService echoes the service definition to the client's output stream.
func (c *Client) PrintService(ctx context.Context, name string) {
	c.call(ctx, []string{"--info-service", name}, true, false)
}

// ToolError reports a failed mutating firewall-cmd invocation.
type ToolError struct {
	Args []string
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("failed to call %s %s", binaryName, strings.Join(e.Args, " "))
}
