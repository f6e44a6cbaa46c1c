package sysdev

import (
	"fmt"
	"unsafe"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/allbin/go-mode"
)

// kdkbdrep is the KDKBDREP console ioctl.
const kdkbdrep = 0x4B52

// kbdRepeat mirrors struct kbd_repeat from linux/kd.h.
type kbdRepeat struct {
	Delay  int32
	Period int32
}

// kbdRepeatIoctl sets rep when its fields are positive and returns the
// previous values in rep.
func kbdRepeatIoctl(device string, rep *kbdRepeat) error {
	fd, err := unix.Open(device, unix.O_RDONLY|unix.O_NOCTTY, 0)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", device, err)
	}
	defer unix.Close(fd)

	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), kdkbdrep, uintptr(unsafe.Pointer(rep)))
	if errno != 0 {
		return fmt.Errorf("KDKBDREP on %s: %w", device, errno)
	}
	return nil
}

// KeyboardRepeat reads the virtual console typematic settings. The kernel
// requires CAP_SYS_TTY_CONFIG even for reading, so failures are reported as
// unsupported and the status display skips them.
func (c *TTYConsole) KeyboardRepeat() (mode.KeyboardRepeat, error) {
	var rep kbdRepeat
	if err := kbdRepeatIoctl(c.KeyboardDevice, &rep); err != nil {
		return mode.KeyboardRepeat{}, fmt.Errorf("%w: %w", mode.ErrUnsupported, err)
	}
	return millisToRepeat(int(rep.Delay), int(rep.Period)), nil
}

// SetKeyboardRepeat changes the virtual console typematic settings. This
// needs CAP_SYS_TTY_CONFIG.
func (c *TTYConsole) SetKeyboardRepeat(kbd mode.KeyboardRepeat) error {
	delayMs, periodMs := repeatToMillis(kbd)
	rep := kbdRepeat{Delay: int32(delayMs), Period: int32(periodMs)}
	if err := kbdRepeatIoctl(c.KeyboardDevice, &rep); err != nil {
		return err
	}
	c.Logger.Debug("set keyboard repeat", zap.Int("delay_ms", delayMs), zap.Int("period_ms", periodMs))
	return nil
}
