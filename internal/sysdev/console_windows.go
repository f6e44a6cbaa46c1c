package sysdev

import (
	"fmt"
	"unsafe"

	"go.uber.org/zap"
	"golang.org/x/sys/windows"

	"github.com/allbin/go-mode"
)

var (
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")
	user32   = windows.NewLazySystemDLL("user32.dll")

	procSetConsoleScreenBufferSize = kernel32.NewProc("SetConsoleScreenBufferSize")
	procSetConsoleWindowInfo       = kernel32.NewProc("SetConsoleWindowInfo")
	procGetConsoleOutputCP         = kernel32.NewProc("GetConsoleOutputCP")
	procSetConsoleOutputCP         = kernel32.NewProc("SetConsoleOutputCP")
	procSystemParametersInfoW      = user32.NewProc("SystemParametersInfoW")
)

const (
	spiGetKeyboardSpeed = 0x000A
	spiSetKeyboardSpeed = 0x000B
	spiGetKeyboardDelay = 0x0016
	spiSetKeyboardDelay = 0x0017

	spifUpdateIniFile = 0x01
	spifSendChange    = 0x02
)

// WinConsole drives the Win32 console of the current process.
type WinConsole struct {
	Handle windows.Handle
	Logger *zap.Logger
}

var _ mode.Console = (*WinConsole)(nil)

func newNativeConsole(opts Options) mode.Console {
	h, _ := windows.GetStdHandle(windows.STD_OUTPUT_HANDLE)
	return &WinConsole{Handle: h, Logger: opts.logger()}
}

// BufferInfo reads the screen buffer size, cursor and window.
func (c *WinConsole) BufferInfo() (mode.BufferInfo, error) {
	var info windows.ConsoleScreenBufferInfo
	if err := windows.GetConsoleScreenBufferInfo(c.Handle, &info); err != nil {
		return mode.BufferInfo{}, fmt.Errorf("GetConsoleScreenBufferInfo: %w", err)
	}
	return mode.BufferInfo{
		Size:   mode.Coord{X: info.Size.X, Y: info.Size.Y},
		Cursor: mode.Coord{X: info.CursorPosition.X, Y: info.CursorPosition.Y},
		Window: mode.Rect{
			Left:   info.Window.Left,
			Top:    info.Window.Top,
			Right:  info.Window.Right,
			Bottom: info.Window.Bottom,
		},
	}, nil
}

// SetBufferSize resizes the screen buffer.
func (c *WinConsole) SetBufferSize(size mode.Coord) error {
	// COORD is passed by value, packed into one register.
	packed := uintptr(uint16(size.X)) | uintptr(uint16(size.Y))<<16
	r, _, err := procSetConsoleScreenBufferSize.Call(uintptr(c.Handle), packed)
	if r == 0 {
		return fmt.Errorf("SetConsoleScreenBufferSize: %w", err)
	}
	return nil
}

// SetWindow moves and resizes the console window within the buffer.
func (c *WinConsole) SetWindow(window mode.Rect) error {
	rect := windows.SmallRect{Left: window.Left, Top: window.Top, Right: window.Right, Bottom: window.Bottom}
	r, _, err := procSetConsoleWindowInfo.Call(uintptr(c.Handle), 1, uintptr(unsafe.Pointer(&rect)))
	if r == 0 {
		return fmt.Errorf("SetConsoleWindowInfo: %w", err)
	}
	return nil
}

func systemParameter(action uint32) (uint32, error) {
	var v uint32
	r, _, err := procSystemParametersInfoW.Call(uintptr(action), 0, uintptr(unsafe.Pointer(&v)), 0)
	if r == 0 {
		return 0, err
	}
	return v, nil
}

// KeyboardRepeat reads the typematic delay and speed.
func (c *WinConsole) KeyboardRepeat() (mode.KeyboardRepeat, error) {
	delay, err := systemParameter(spiGetKeyboardDelay)
	if err != nil {
		return mode.KeyboardRepeat{}, fmt.Errorf("SPI_GETKEYBOARDDELAY: %w", err)
	}
	speed, err := systemParameter(spiGetKeyboardSpeed)
	if err != nil {
		return mode.KeyboardRepeat{}, fmt.Errorf("SPI_GETKEYBOARDSPEED: %w", err)
	}
	return mode.KeyboardRepeat{Delay: delay, Speed: speed}, nil
}

// SetKeyboardRepeat sets the typematic delay and speed. Windows clamps out
// of range values itself.
func (c *WinConsole) SetKeyboardRepeat(kbd mode.KeyboardRepeat) error {
	if r, _, err := procSystemParametersInfoW.Call(spiSetKeyboardDelay, uintptr(kbd.Delay), 0, 0); r == 0 {
		return fmt.Errorf("SPI_SETKEYBOARDDELAY: %w", err)
	}
	if r, _, err := procSystemParametersInfoW.Call(spiSetKeyboardSpeed, uintptr(kbd.Speed), 0, spifUpdateIniFile|spifSendChange); r == 0 {
		return fmt.Errorf("SPI_SETKEYBOARDSPEED: %w", err)
	}
	return nil
}

// CodePage returns the console output code page.
func (c *WinConsole) CodePage() (uint32, error) {
	r, _, err := procGetConsoleOutputCP.Call()
	if r == 0 {
		return 0, fmt.Errorf("GetConsoleOutputCP: %w", err)
	}
	return uint32(r), nil
}

// SetCodePage selects the console output code page.
func (c *WinConsole) SetCodePage(cp uint32) error {
	r, _, err := procSetConsoleOutputCP.Call(uintptr(cp))
	if r == 0 {
		return fmt.Errorf("SetConsoleOutputCP: %w", err)
	}
	c.Logger.Debug("selected code page", zap.Uint32("code_page", cp), zap.String("name", CodePageName(cp)))
	return nil
}
