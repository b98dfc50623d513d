// Package staticconfig drives the assignment of static ports for one service
// pattern: it reads the pattern's sysconfig file, derives a port suggestion
// for every owned variable, optionally confirms it with the operator, and
// rewrites the file in one shot.
package staticconfig

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/juju/collections/set"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/openSUSE/rpcportctl/internal/pattern"
	"github.com/openSUSE/rpcportctl/internal/ports"
	"github.com/openSUSE/rpcportctl/internal/rpcinfo"
	"github.com/openSUSE/rpcportctl/internal/sysconfig"
)

// ErrInputExhausted reports end of input while the operator was being
// prompted. It aborts the run before anything is written.
var ErrInputExhausted = errors.New("end of input while prompting for a port")

// Session carries the state of one static configuration run. The used port
// set keeps the random fallback from handing the same port to two sibling
// variables within a run.
type Session struct {
	Pattern     pattern.Pattern
	Snapshot    rpcinfo.PortMap
	Overrides   ports.Overrides
	Interactive bool

	In  io.Reader
	Out io.Writer
	Log *zap.Logger

	used  set.Ints
	stdin *bufio.Reader
}

// Run performs the full read-suggest-rewrite cycle. The new file content is
// assembled completely in memory; nothing is written until every owned
// variable has been processed.
func (s *Session) Run(ctx context.Context) error {
	s.used = set.NewInts()
	s.stdin = bufio.NewReader(s.In)

	cfg := s.Pattern.SysconfigFile

	fmt.Fprintf(s.Out, "Performing configuration of static ports for %s pattern\n\n", s.Pattern.Label)
	if s.Interactive {
		fmt.Fprintf(s.Out, "WARNING: This process may overwrite custom configuration of service command line switches in %s\n\n", cfg)
	}

	fmt.Fprintf(s.Out, "Reading current configuration from %s.\n\n", cfg)
	content, err := sysconfig.ReadFile(cfg)
	if err != nil {
		return err
	}

	rewritten, err := sysconfig.Transform(content, s.handleLine)
	if err != nil {
		return err
	}

	fmt.Fprintf(s.Out, "Writing updated configuration to %s.\n", cfg)
	if err := os.WriteFile(cfg, []byte(rewritten), 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", cfg)
	}
	fmt.Fprintf(s.Out, "\nYou will need to restart affected services for the changes to take effect.\n")

	return nil
}

// handleLine replaces the assignment lines of owned variables with the
// accepted port, leaving every other line untouched.
func (s *Session) handleLine(key, value string) (string, bool, error) {
	if !s.Pattern.Owns(key) {
		return "", false, nil
	}

	previous, _ := sysconfig.ScanPort(value)
	port := ports.Suggest(key, pattern.ServiceFor(key), previous, s.Snapshot, s.Overrides, s.used)

	if s.Interactive {
		chosen, err := s.queryPort(key, port)
		if err != nil {
			return "", false, err
		}
		port = chosen
	} else {
		fmt.Fprintf(s.Out, "Using port %d for %s\n", port, key)
		s.Log.Debug("Accepted suggested port",
			zap.String("variable", key), zap.Int("port", port))
	}

	s.used.Add(port)

	return sysconfig.Assignment(key, pattern.Syntax(key), port), true, nil
}

// queryPort interactively asks for a port for the given variable, offering
// the suggestion as default. Blank input accepts the suggestion; invalid
// input re-prompts; end of input aborts.
func (s *Session) queryPort(key string, suggested int) (int, error) {
	fmt.Fprintf(s.Out, "Please enter the port number for %s or press ENTER for accepting the suggested port in [].\n\n", key)

	service := pattern.ServiceFor(key)
	port := suggested

	for {
		fmt.Fprintf(s.Out, "%s (%s) [%d] > ", key, service, port)

		reply, err := s.stdin.ReadString('\n')
		if err != nil && reply == "" {
			return 0, ErrInputExhausted
		}
		fmt.Fprintln(s.Out)

		reply = strings.TrimSpace(reply)
		if reply == "" {
			// blank accepts the suggestion, but never an invalid one
			if err := ports.CheckRange(port); err != nil {
				fmt.Fprintf(s.Out, "%v\n\n", err)
				continue
			}
			return port, nil
		}

		chosen, err := ports.ParsePort(reply)
		if err != nil {
			fmt.Fprintf(s.Out, "%v\n\n", err)
			continue
		}
		return chosen, nil
	}
}
