// Package conn implements the I²C transports of the display driver.
//
// A transport is an io.WriteCloser: every Write is sent to the device as one
// bus transaction, without read back. Device talks to the kernel character
// device directly; Bus goes through periph.io.
package conn

import "errors"

// ErrClosed is returned when writing to a closed transport.
var ErrClosed = errors.New("conn: transport is closed")
