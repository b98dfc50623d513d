// Package pattern holds the static catalog of service patterns: named groups
// of rpcbind services that are configured and opened in the firewall
// together, like nfs-server or yp-client.
package pattern

import (
	"fmt"
	"sort"
	"strings"

	"github.com/juju/collections/set"

	"github.com/openSUSE/rpcportctl/internal/ports"
	"github.com/openSUSE/rpcportctl/internal/util/file"
)

// syntaxes maps sysconfig variables that need special value syntax to their
// format string. Variables not listed here take the bare port number.
var syntaxes = map[string]string{
	"YPBIND_OPTIONS": "-p %d",
	"YPPASSWDD_ARGS": "--port %d",
	"YPSERV_ARGS":    "-p %d",
	"YPXFRD_ARGS":    "-p %d",
}

// serviceNames maps sysconfig variables to the rpcbind service they
// configure. This is how live registrations are matched to variables.
var serviceNames = map[string]string{
	"LOCKD_TCPPORT":  "nlockmgr",
	"LOCKD_UDPPORT":  "nlockmgr",
	"MOUNTD_PORT":    "mountd",
	"RQUOTAD_PORT":   "rquotad",
	"STATD_PORT":     "status",
	"YPBIND_OPTIONS": "ypbind",
	"YPPASSWDD_ARGS": "yppasswd",
	"YPSERV_ARGS":    "ypserv",
	"YPXFRD_ARGS":    "fypxfrd",
}

// Pattern describes one group of related rpcbind services: the sysconfig
// file holding their port settings, the variables owned there, ports that are
// always fixed (like 2049 for nfsd), and the systemd units to restart after a
// reconfiguration.
type Pattern struct {
	Label         string
	SysconfigFile string
	Vars          []string
	ImpliedPorts  []ports.Spec
	Units         []string
}

var catalog = map[string]Pattern{}

// mustSpecs parses firewall-cmd port notation for the catalog entries. The
// catalog is a compile-time table, a bad entry is a programming error.
func mustSpecs(raw ...string) []ports.Spec {
	specs := make([]ports.Spec, 0, len(raw))
	for _, r := range raw {
		spec, err := ports.ParseSpec(r)
		if err != nil {
			panic(err)
		}
		specs = append(specs, spec)
	}
	return specs
}

func init() {
	for _, p := range []Pattern{
		{
			Label: "nfs-server",
			Vars: []string{
				"MOUNTD_PORT", "STATD_PORT", "LOCKD_TCPPORT",
				"LOCKD_UDPPORT", "RQUOTAD_PORT",
			},
			ImpliedPorts:  mustSpecs("2049/tcp", "2049/udp"),
			SysconfigFile: "/etc/sysconfig/nfs",
			Units:         []string{"nfs-server.service", "rpc-statd.service"},
		},
		{
			Label: "nfs-client",
			Vars: []string{
				"STATD_PORT", "LOCKD_TCPPORT", "LOCKD_UDPPORT",
			},
			ImpliedPorts:  mustSpecs("2049/tcp", "2049/udp"),
			SysconfigFile: "/etc/sysconfig/nfs",
			Units:         []string{"rpc-statd.service"},
		},
		{
			Label: "yp-server",
			Vars: []string{
				"YPXFRD_ARGS", "YPPASSWDD_ARGS", "YPSERV_ARGS",
			},
			SysconfigFile: "/etc/sysconfig/ypserv",
			Units: []string{
				"ypserv.service", "yppasswdd.service", "ypxfrd.service",
			},
		},
		{
			Label:         "yp-client",
			Vars:          []string{"YPBIND_OPTIONS"},
			SysconfigFile: "/etc/sysconfig/ypbind",
			Units:         []string{"ypbind.service"},
		},
	} {
		catalog[p.Label] = p
	}
}

// UnknownPatternError is returned by Find for labels not in the catalog.
type UnknownPatternError struct {
	Label string
}

func (e *UnknownPatternError) Error() string {
	return fmt.Sprintf("unknown pattern %q, supported patterns: %s",
		e.Label, strings.Join(Supported(), " "))
}

// Find returns the pattern registered under label.
func Find(label string) (Pattern, error) {
	p, ok := catalog[label]
	if !ok {
		return Pattern{}, &UnknownPatternError{Label: label}
	}
	return p, nil
}

// Supported returns the sorted list of valid pattern labels.
func Supported() []string {
	labels := make([]string, 0, len(catalog))
	for label := range catalog {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// All returns the catalog patterns ordered by label.
func All() []Pattern {
	patterns := make([]Pattern, 0, len(catalog))
	for _, label := range Supported() {
		patterns = append(patterns, catalog[label])
	}
	return patterns
}

// IsInstalled reports whether the package providing this pattern is present,
// judged by the existence of its sysconfig file.
func (p Pattern) IsInstalled() bool {
	return file.Exists(p.SysconfigFile)
}

// Owns reports whether the sysconfig variable belongs to this pattern.
func (p Pattern) Owns(configVar string) bool {
	for _, v := range p.Vars {
		if v == configVar {
			return true
		}
	}
	return false
}

// Services returns the distinct rpcbind service names behind this pattern's
// variables, sorted. Multiple variables may share a service (nlockmgr).
func (p Pattern) Services() []string {
	services := set.NewStrings()
	for _, v := range p.Vars {
		services.Add(serviceNames[v])
	}
	return services.SortedValues()
}

// Syntax returns the value format string for a sysconfig variable.
func Syntax(configVar string) string {
	if syntax, ok := syntaxes[configVar]; ok {
		return syntax
	}
	return "%d"
}

// ServiceFor returns the rpcbind service name configured by a sysconfig
// variable.
func ServiceFor(configVar string) string {
	return serviceNames[configVar]
}

// KnownServices returns every rpcbind service name any catalog variable maps
// to. Used to validate operator supplied port overrides.
func KnownServices() set.Strings {
	services := set.NewStrings()
	for _, service := range serviceNames {
		services.Add(service)
	}
	return services
}
