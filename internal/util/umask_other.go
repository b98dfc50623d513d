//go:build !linux

package util

func SetUmask() {}
