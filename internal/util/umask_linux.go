//go:build linux

package util

import "syscall"

// SetUmask applies a sane default umask. Group/world read permissions on the
// files we write are fine, nothing here is sensitive.
func SetUmask() {
	syscall.Umask(0o022)
}
