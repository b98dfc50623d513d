// Package rpcinfo queries the rpcbind port registry via the rpcinfo tool and
// parses its output into a snapshot of current port assignments.
package rpcinfo

import (
	"context"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/juju/collections/set"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/openSUSE/rpcportctl/internal/logger"
	"github.com/openSUSE/rpcportctl/internal/ports"
)

const (
	defaultBinary = "/sbin/rpcinfo"
	binaryName    = "rpcinfo"

	// rpcinfo prints this when no portmapper is reachable. That is not an
	// error for us, it just means no services are registered.
	noPortmapperMarker = "can't contact portmapper"
)

// PortMap is a snapshot of the rpcbind registry: service name -> protocol ->
// set of bound ports.
type PortMap map[string]map[string]set.Ints

// Query runs "rpcinfo -p" and parses the result. An unreachable portmapper
// yields an empty map; a missing rpcinfo binary or any other failure is an
// error.
func Query(ctx context.Context) (PortMap, error) {
	bin := defaultBinary
	if _, err := os.Stat(bin); err != nil {
		path, lookErr := exec.LookPath(binaryName)
		if lookErr != nil {
			return nil, errors.Errorf("no rpcinfo program found in %s", defaultBinary)
		}
		bin = path
	}

	cmd := exec.CommandContext(ctx, bin, "-p")
	// avoid translations or special encodings
	cmd.Env = append(os.Environ(), "LC_ALL=C")
	log := logger.FromContext(ctx)
	log.Debug("Querying rpcbind registrations", zap.String("binary", bin))

	out, err := cmd.CombinedOutput()
	if err != nil {
		if strings.Contains(string(out), noPortmapperMarker) {
			log.Debug("No portmapper reachable, treating registry as empty")
			return PortMap{}, nil
		}
		return nil, errors.Wrapf(err, "running %s -p: %s", bin, strings.TrimSpace(string(out)))
	}

	return Parse(string(out))
}

// Parse builds a PortMap from rpcinfo -p table output. The first line is the
// column header; every following line is "program version proto port service".
func Parse(output string) (PortMap, error) {
	portMap := PortMap{}

	lines := strings.Split(strings.TrimSpace(output), "\n")
	for i, line := range lines {
		if i == 0 || strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 5 {
			return nil, errors.Errorf("unexpected rpcinfo output line %q", line)
		}
		proto, rawPort, service := fields[2], fields[3], fields[4]
		port, err := strconv.Atoi(rawPort)
		if err != nil {
			return nil, errors.Errorf("unexpected port %q in rpcinfo output line %q", rawPort, line)
		}

		protos, ok := portMap[service]
		if !ok {
			protos = make(map[string]set.Ints)
			portMap[service] = protos
		}
		bound, ok := protos[proto]
		if !ok {
			bound = set.NewInts()
			protos[proto] = bound
		}
		bound.Add(port)
	}

	return portMap, nil
}

// ServicePorts returns the per protocol port sets for one rpcbind service.
func (m PortMap) ServicePorts(service string) map[string]set.Ints {
	return m[service]
}

// IsBound reports whether any service binds the port on any protocol.
func (m PortMap) IsBound(port int) bool {
	for _, protos := range m {
		for _, bound := range protos {
			if bound.Contains(port) {
				return true
			}
		}
	}
	return false
}

// Specs collects the port/protocol pairs bound by the named services, sorted
// ascending by port with duplicates removed.
func (m PortMap) Specs(services ...string) []ports.Spec {
	wanted := set.NewStrings(services...)

	var specs []ports.Spec
	for service, protos := range m {
		if !wanted.Contains(service) {
			continue
		}
		for proto, bound := range protos {
			for _, port := range bound.SortedValues() {
				specs = append(specs, ports.Spec{Port: port, Proto: proto})
			}
		}
	}

	return ports.SortSpecs(specs)
}
