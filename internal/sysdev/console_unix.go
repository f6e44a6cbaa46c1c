//go:build !windows

package sysdev

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/allbin/go-mode"
	"github.com/allbin/go-mode/internal/state"
)

// TTYConsole maps the console collaborator onto a terminal. The screen
// buffer is the terminal window itself, so the window rectangle can only
// shrink within it. The code page has no kernel equivalent and lives in
// the state store.
type TTYConsole struct {
	// FD is the terminal file descriptor, usually stdout.
	FD int
	// Out receives the xterm resize sequence. Nil disables it.
	Out            io.Writer
	KeyboardDevice string
	Store          *state.Store
	Logger         *zap.Logger
}

var _ mode.Console = (*TTYConsole)(nil)

func newNativeConsole(opts Options) mode.Console {
	c := &TTYConsole{
		FD:             int(os.Stdout.Fd()),
		KeyboardDevice: opts.KeyboardDevice,
		Store:          opts.Store,
		Logger:         opts.logger(),
	}
	if opts.XtermResize {
		c.Out = os.Stdout
	}
	return c
}

// BufferInfo reports the terminal size. Terminals do not expose the cursor
// position through an ioctl, so it is reported at the origin.
func (c *TTYConsole) BufferInfo() (mode.BufferInfo, error) {
	ws, err := unix.IoctlGetWinsize(c.FD, unix.TIOCGWINSZ)
	if err != nil {
		return mode.BufferInfo{}, fmt.Errorf("failed to get window size: %w", err)
	}
	size := mode.Coord{X: int16(ws.Col), Y: int16(ws.Row)}
	return mode.BufferInfo{
		Size:   size,
		Window: mode.Rect{Right: size.X - 1, Bottom: size.Y - 1},
	}, nil
}

// SetBufferSize resizes the terminal. The kernel size is updated first; the
// xterm sequence asks the emulator to follow.
func (c *TTYConsole) SetBufferSize(size mode.Coord) error {
	if size.X <= 0 || size.Y <= 0 {
		return fmt.Errorf("invalid buffer size %dx%d: %w", size.X, size.Y, unix.EINVAL)
	}
	ws, err := unix.IoctlGetWinsize(c.FD, unix.TIOCGWINSZ)
	if err != nil {
		return fmt.Errorf("failed to get window size: %w", err)
	}
	ws.Col = uint16(size.X)
	ws.Row = uint16(size.Y)
	if err := unix.IoctlSetWinsize(c.FD, unix.TIOCSWINSZ, ws); err != nil {
		return fmt.Errorf("failed to set window size: %w", err)
	}
	if c.Out != nil {
		fmt.Fprintf(c.Out, "\x1b[8;%d;%dt", size.Y, size.X)
	}
	c.Logger.Debug("resized terminal", zap.Int16("columns", size.X), zap.Int16("lines", size.Y))
	return nil
}

// SetWindow accepts any rectangle that fits in the terminal.
func (c *TTYConsole) SetWindow(window mode.Rect) error {
	info, err := c.BufferInfo()
	if err != nil {
		return err
	}
	if window.Left < 0 || window.Top < 0 || window.Right < window.Left || window.Bottom < window.Top ||
		window.Width() > info.Size.X || window.Height() > info.Size.Y {
		return fmt.Errorf("window %+v does not fit %dx%d: %w", window, info.Size.X, info.Size.Y, unix.EINVAL)
	}
	return nil
}

// CodePage returns the selected code page, or one derived from the locale.
func (c *TTYConsole) CodePage() (uint32, error) {
	f, err := c.Store.Load()
	if err != nil {
		return 0, err
	}
	if f.CodePage != 0 {
		return f.CodePage, nil
	}
	return DefaultCodePage(), nil
}

// SetCodePage records cp after checking that it names a known encoding.
func (c *TTYConsole) SetCodePage(cp uint32) error {
	if _, err := CodePageEncoding(cp); err != nil {
		return err
	}
	return c.Store.Update(func(f *state.File) error {
		f.CodePage = cp
		return nil
	})
}
