// Package daemon restarts the systemd units affected by a static port
// reconfiguration.
package daemon

import "context"

// Manager restarts service units after their port configuration changed.
type Manager interface {
	// RestartUnit restarts the unit with the given name. A unit that is
	// not running is started.
	RestartUnit(ctx context.Context, name string) error
	// Close cleans up any underlying resources used by the manager.
	Close()
}
