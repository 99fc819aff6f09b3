//go:build !linux

package ioctl

import (
	"fmt"
	"runtime"
)

// SetInt does an ioctl call with an integer argument.
func SetInt(fd uintptr, command Command, arg int) error {
	return fmt.Errorf("ioctl %s is not supported on %s", command, runtime.GOOS)
}
