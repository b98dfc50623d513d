// Package config loads the optional tool defaults file. The file lets
// automation bake in a port configuration so invocations need no flags.
package config

import (
	"os"

	"github.com/go-ini/ini"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// DefaultPath is where the defaults file is looked up unless overridden.
const DefaultPath = "/etc/rpcportctl.conf"

// Defaults are optional presets for the static-config and firewalld-export
// commands, read from the [static-config] and [firewalld] sections.
type Defaults struct {
	// PortConfig is a "service=port" list applied as overrides when the
	// command line supplies none.
	PortConfig string `ini:"port-config"`
	// NonInteractive accepts all suggestions without prompting.
	NonInteractive bool `ini:"non-interactive"`
	// ServiceName overrides the exported firewalld service name.
	ServiceName string `ini:"service-name" validate:"omitempty,hostname_rfc1123"`
}

// Load reads the defaults file. A missing file is not an error, it yields
// zero defaults.
func Load(path string) (Defaults, error) {
	var defaults Defaults

	file, err := ini.Load(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaults, nil
		}
		return defaults, errors.Wrapf(err, "loading defaults from %s", path)
	}

	if err := file.Section("static-config").MapTo(&defaults); err != nil {
		return defaults, errors.Wrapf(err, "parsing defaults from %s", path)
	}
	if key, err := file.Section("firewalld").GetKey("service-name"); err == nil {
		defaults.ServiceName = key.String()
	}

	if err := validator.New().Struct(&defaults); err != nil {
		return Defaults{}, errors.Wrapf(err, "invalid defaults in %s", path)
	}

	return defaults, nil
}
