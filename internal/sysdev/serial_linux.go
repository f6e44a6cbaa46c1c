package sysdev

import (
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/allbin/go-mode"
	"github.com/allbin/go-mode/internal/state"
)

// TermiosSerial configures serial ports through termios and the modem
// control ioctls. Settings termios cannot hold (DSR flow and sensitivity,
// timeouts, DTR handshaking, RTS toggling) are kept in the state store.
type TermiosSerial struct {
	Ports  PortMap
	Store  *state.Store
	Logger *zap.Logger
}

var _ mode.SerialPorts = (*TermiosSerial)(nil)

func newNativeSerial(opts Options) mode.SerialPorts {
	return &TermiosSerial{Ports: opts.Ports, Store: opts.Store, Logger: opts.logger()}
}

func (s *TermiosSerial) open(name string, flags int) (int, string, error) {
	path, err := s.Ports.Resolve(name)
	if err != nil {
		return -1, "", err
	}
	fd, err := unix.Open(path, flags|unix.O_NOCTTY|unix.O_NONBLOCK, 0)
	if err != nil {
		return -1, path, fmt.Errorf("%w - %s (%s): %w", mode.ErrIllegalDevice, name, path, err)
	}
	return fd, path, nil
}

// QuerySerial reads the current configuration of a port.
func (s *TermiosSerial) QuerySerial(name string) (mode.SerialState, error) {
	fd, path, err := s.open(name, unix.O_RDONLY)
	if err != nil {
		return mode.SerialState{}, err
	}
	defer unix.Close(fd)

	t, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return mode.SerialState{}, fmt.Errorf("failed to get termios: %w", err)
	}
	st := mode.SerialState{Config: configFromTermios(t)}

	// Pseudo terminals and some USB adapters have no modem lines.
	if lines, err := unix.IoctlGetInt(fd, unix.TIOCMGET); err == nil {
		if lines&unix.TIOCM_DTR == 0 {
			st.Config.DTR = mode.DTRDisable
		}
		if lines&unix.TIOCM_RTS == 0 && st.Config.RTS != mode.RTSHandshake {
			st.Config.RTS = mode.RTSDisable
		}
	}

	f, err := s.Store.Load()
	if err != nil {
		return mode.SerialState{}, err
	}
	if stored, ok := f.SerialState(name); ok {
		st = mergeStored(st, stored.Config, stored.Timeouts)
	}

	s.Logger.Debug("queried serial port",
		zap.String("device", name),
		zap.String("path", path),
		zap.Uint32("baud", st.Config.BaudRate))
	return st, nil
}

// mergeStored adds the fields termios cannot represent to a state read from
// the device.
func mergeStored(live mode.SerialState, stored mode.SerialConfig, timeouts mode.TimeoutConfig) mode.SerialState {
	live.Config.DSRFlow = stored.DSRFlow
	live.Config.DSRSensitivity = stored.DSRSensitivity
	live.Timeouts = timeouts
	if stored.DTR == mode.DTRHandshake && live.Config.DTR == mode.DTREnable {
		live.Config.DTR = mode.DTRHandshake
	}
	if stored.RTS == mode.RTSToggle && live.Config.RTS != mode.RTSHandshake {
		live.Config.RTS = mode.RTSToggle
	}
	return live
}

// ApplySerial writes a configuration to a port.
func (s *TermiosSerial) ApplySerial(name string, st mode.SerialState) error {
	fd, path, err := s.open(name, unix.O_RDWR)
	if err != nil {
		return err
	}
	defer unix.Close(fd)

	t, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return fmt.Errorf("failed to get termios: %w", err)
	}
	if err := applyConfigToTermios(t, st.Config); err != nil {
		return err
	}
	if err := unix.IoctlSetTermios(fd, unix.TCSETS, t); err != nil {
		return fmt.Errorf("failed to set termios: %w", err)
	}

	if err := setModemLine(fd, unix.TIOCM_DTR, st.Config.DTR != mode.DTRDisable); err != nil {
		s.Logger.Warn("failed to set DTR", zap.String("path", path), zap.Error(err))
	}
	// With RTS handshaking the kernel drives the line.
	if st.Config.RTS != mode.RTSHandshake {
		if err := setModemLine(fd, unix.TIOCM_RTS, st.Config.RTS != mode.RTSDisable); err != nil {
			s.Logger.Warn("failed to set RTS", zap.String("path", path), zap.Error(err))
		}
	}

	s.Logger.Debug("applied serial configuration", zap.String("device", name), zap.String("path", path))
	return s.Store.Update(func(f *state.File) error {
		f.SetSerialState(name, st)
		return nil
	})
}

// setModemLine raises or drops one modem control line.
func setModemLine(fd int, line int, on bool) error {
	if on {
		return unix.IoctlSetPointerInt(fd, unix.TIOCMBIS, line)
	}
	return unix.IoctlSetPointerInt(fd, unix.TIOCMBIC, line)
}
