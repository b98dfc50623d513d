//go:build !linux

package daemon

import "context"

var _ Manager = &noopManager{}

type noopManager struct{}

// NewManager returns a no-op manager on platforms without systemd.
func NewManager(ctx context.Context) (Manager, error) {
	return &noopManager{}, nil
}

func (m *noopManager) RestartUnit(ctx context.Context, name string) error {
	return nil
}

func (m *noopManager) Close() {}
