//go:build linux

package daemon

import (
	"context"

	"github.com/coreos/go-systemd/v22/dbus"
	"github.com/pkg/errors"
)

type systemdManager struct {
	conn *dbus.Conn
}

// NewManager connects to the systemd manager over dbus.
func NewManager(ctx context.Context) (Manager, error) {
	conn, err := dbus.NewWithContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "connecting to systemd")
	}
	return &systemdManager{conn: conn}, nil
}

func (m *systemdManager) RestartUnit(ctx context.Context, name string) error {
	result := make(chan string, 1)
	if _, err := m.conn.RestartUnitContext(ctx, name, "replace", result); err != nil {
		return errors.Wrapf(err, "restarting unit %s", name)
	}
	select {
	case status := <-result:
		if status != "done" {
			return errors.Errorf("restarting unit %s finished with status %q", name, status)
		}
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

func (m *systemdManager) Close() {
	m.conn.Close()
}
