package ports

import (
	"math/rand"
	"strings"

	"github.com/juju/collections/set"
)

const (
	// DynamicPortMin and DynamicPortMax delimit the private/dynamic port
	// range used for random fallback selection.
	DynamicPortMin = 49152
	DynamicPortMax = 65535
)

// Registry is the view of the live rpcbind port map the suggestion engine
// needs. Implemented by rpcinfo.PortMap.
type Registry interface {
	// ServicePorts returns the ports currently bound for the named rpcbind
	// service, keyed by protocol. Nil if the service is not registered.
	ServicePorts(service string) map[string]set.Ints
	// IsBound reports whether any registered service currently binds the
	// given port on any protocol.
	IsBound(port int) bool
}

// Suggest computes a port suggestion for one configuration variable. The
// first applicable source wins:
//
//  1. an explicit override for the variable's rpcbind service
//  2. the previously configured static port, if any
//  3. the port currently assigned by rpcbind, preferring the protocol
//     implied by the variable name (TCP/UDP substring)
//  4. a random port from the dynamic range that collides with neither a
//     sibling assignment from this run nor any live registration
//
// The random branch checks the whole registry across services and protocols.
// That is more conservative than strictly necessary, but per-protocol
// tracking (LOCKD_TCPPORT vs LOCKD_UDPPORT) is not worth the complexity.
func Suggest(configVar, service string, previous int, registry Registry, overrides Overrides, used set.Ints) int {
	if port, ok := overrides[service]; ok {
		return port
	}

	if previous != 0 {
		return previous
	}

	if current := registry.ServicePorts(service); len(current) > 0 {
		var bound set.Ints
		if strings.Contains(configVar, "TCP") && current["tcp"].Size() > 0 {
			bound = current["tcp"]
		} else if strings.Contains(configVar, "UDP") && current["udp"].Size() > 0 {
			bound = current["udp"]
		} else {
			// any protocol must do
			for _, protoPorts := range current {
				if protoPorts.Size() > 0 {
					bound = protoPorts
					break
				}
			}
		}
		if bound.Size() > 0 {
			// usually only one port is registered
			return bound.SortedValues()[0]
		}
	}

	for {
		port := DynamicPortMin + rand.Intn(DynamicPortMax-DynamicPortMin+1)
		if used.Contains(port) || registry.IsBound(port) {
			continue
		}
		return port
	}
}
