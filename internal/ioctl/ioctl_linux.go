package ioctl

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// SetInt does an ioctl call with an integer argument.
func SetInt(fd uintptr, command Command, arg int) error {
	if err := unix.IoctlSetInt(int(fd), uint(command), arg); err != nil {
		return fmt.Errorf("ioctl %s failed: %w", command, err)
	}
	return nil
}
