//go:build !linux && !windows

package sysdev

import (
	"fmt"
	"runtime"

	"github.com/allbin/go-mode"
)

// KeyboardRepeat is not available outside the Linux virtual console.
func (c *TTYConsole) KeyboardRepeat() (mode.KeyboardRepeat, error) {
	return mode.KeyboardRepeat{}, fmt.Errorf("%w: keyboard repeat on %s", mode.ErrUnsupported, runtime.GOOS)
}

// SetKeyboardRepeat is not available outside the Linux virtual console.
func (c *TTYConsole) SetKeyboardRepeat(mode.KeyboardRepeat) error {
	return fmt.Errorf("%w: keyboard repeat on %s", mode.ErrUnsupported, runtime.GOOS)
}
