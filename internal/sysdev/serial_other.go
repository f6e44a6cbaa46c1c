//go:build !linux && !windows

package sysdev

import "github.com/allbin/go-mode"

// Without a termios mapping for this platform the portable driver is the
// native one.
func newNativeSerial(opts Options) mode.SerialPorts {
	return NewPortableSerial(opts.Ports, opts.Store, opts.logger())
}
