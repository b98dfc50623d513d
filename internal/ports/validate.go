package ports

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	// MinPort and MaxPort bound every acceptable port value.
	MinPort = 1
	MaxPort = 65535
)

// CheckRange verifies that port is a valid TCP/UDP port number.
func CheckRange(port int) error {
	if port < MinPort || port > MaxPort {
		return errors.Errorf("port number %d is out of range", port)
	}
	return nil
}

// ParsePort converts a string port specification into a validated integer.
func ParsePort(raw string) (int, error) {
	port, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, errors.Errorf("invalid port number %q", raw)
	}
	if err := CheckRange(port); err != nil {
		return 0, err
	}
	return port, nil
}
