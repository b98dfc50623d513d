package ports

import (
	"strings"

	"github.com/juju/collections/set"
	"github.com/pkg/errors"
)

// Overrides maps rpcbind service names to operator requested ports. It is
// parsed from the compact "service=port" list accepted on the command line
// and in the defaults file.
type Overrides map[string]int

// ParseOverrides parses a space separated list of "service=port" items, e.g.
// "mountd=4711 status=815". Service names not contained in known and
// malformed port values are rejected; on any error no overrides are returned.
func ParseOverrides(raw string, known set.Strings) (Overrides, error) {
	overrides := make(Overrides)
	for _, item := range strings.Fields(raw) {
		parts := strings.Split(item, "=")
		if len(parts) != 2 {
			return nil, errors.Errorf("invalid port configuration %q, expected <rpcservice>=<port>", item)
		}
		service, rawPort := parts[0], parts[1]
		if !known.Contains(service) {
			return nil, errors.Errorf("unknown rpc service %q in port configuration", service)
		}
		port, err := ParsePort(rawPort)
		if err != nil {
			return nil, errors.Wrapf(err, "bad port in port configuration %q", item)
		}
		overrides[service] = port
	}
	return overrides, nil
}
