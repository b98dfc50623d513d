package ports

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Spec is a single port/protocol pair in firewall-cmd notation, e.g. "2049/tcp".
type Spec struct {
	Port  int
	Proto string
}

func (s Spec) String() string {
	return fmt.Sprintf("%d/%s", s.Port, s.Proto)
}

// ParseSpec parses firewall-cmd port notation like "2049/tcp".
func ParseSpec(raw string) (Spec, error) {
	parts := strings.Split(raw, "/")
	if len(parts) != 2 {
		return Spec{}, errors.Errorf("invalid port spec %q, expected PORT/PROTO", raw)
	}
	port, err := strconv.Atoi(parts[0])
	if err != nil {
		return Spec{}, errors.Wrapf(err, "invalid port in spec %q", raw)
	}
	if err := CheckRange(port); err != nil {
		return Spec{}, errors.Wrapf(err, "invalid port in spec %q", raw)
	}
	proto := parts[1]
	if proto != "tcp" && proto != "udp" {
		return Spec{}, errors.Errorf("invalid protocol in spec %q", raw)
	}
	return Spec{Port: port, Proto: proto}, nil
}

// SortSpecs orders specs by ascending port number, then protocol, and drops
// duplicates. Duplicate registrations happen in practice, e.g. nfs and
// nfs_acl sharing a port.
func SortSpecs(specs []Spec) []Spec {
	seen := make(map[Spec]struct{}, len(specs))
	out := make([]Spec, 0, len(specs))
	for _, s := range specs {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Port != out[j].Port {
			return out[i].Port < out[j].Port
		}
		return out[i].Proto < out[j].Proto
	})
	return out
}

// FormatSpecs renders specs as the space separated list understood by
// firewall-cmd, sorted ascending by port.
func FormatSpecs(specs []Spec) string {
	sorted := SortSpecs(specs)
	tokens := make([]string, 0, len(sorted))
	for _, s := range sorted {
		tokens = append(tokens, s.String())
	}
	return strings.Join(tokens, " ")
}
