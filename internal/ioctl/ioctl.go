// Package ioctl issues the I²C character device control calls.
package ioctl

import "fmt"

// Command is an ioctl request number.
type Command uint

// I2CSlave binds the target address <uapi/linux/i2c-dev.h>.
const I2CSlave Command = 0x0703

func (c Command) String() string {
	switch c {
	case I2CSlave:
		return "I2C_SLAVE"
	default:
		return fmt.Sprintf("ioctl 0x%04x", uint(c))
	}
}

// SetSlave binds the target address of all further reads and writes on fd.
func SetSlave(fd uintptr, addr uint16) error {
	return SetInt(fd, I2CSlave, int(addr))
}
