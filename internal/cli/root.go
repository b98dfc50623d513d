package cli

import (
	"os/user"

	"github.com/pkg/errors"
)

// ErrMustRunAsRoot is returned by commands that mutate system configuration
// when invoked by an unprivileged user.
var ErrMustRunAsRoot = errors.New("must run as root")

// IsRunningAsRoot reports whether the current process runs with uid 0.
func IsRunningAsRoot() (bool, error) {
	current, err := user.Current()
	if err != nil {
		return false, errors.Wrap(err, "determining current user")
	}
	return current.Uid == "0", nil
}
