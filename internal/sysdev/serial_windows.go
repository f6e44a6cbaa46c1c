package sysdev

import (
	"fmt"
	"unsafe"

	"go.uber.org/zap"
	"golang.org/x/sys/windows"

	"github.com/allbin/go-mode"
)

// CommSerial configures serial ports through the Win32 comm API.
type CommSerial struct {
	Ports  PortMap
	Logger *zap.Logger
}

var _ mode.SerialPorts = (*CommSerial)(nil)

func newNativeSerial(opts Options) mode.SerialPorts {
	return &CommSerial{Ports: opts.Ports, Logger: opts.logger()}
}

func (s *CommSerial) open(name string, access uint32) (windows.Handle, error) {
	path, err := s.Ports.Resolve(name)
	if err != nil {
		return windows.InvalidHandle, err
	}
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return windows.InvalidHandle, err
	}
	h, err := windows.CreateFile(p, access, 0, nil, windows.OPEN_EXISTING, 0, 0)
	if err != nil {
		return windows.InvalidHandle, fmt.Errorf("%w - %s: %w", mode.ErrIllegalDevice, name, err)
	}
	return h, nil
}

func getDCB(h windows.Handle) (windows.DCB, error) {
	var dcb windows.DCB
	dcb.DCBlength = uint32(unsafe.Sizeof(dcb))
	if err := windows.GetCommState(h, &dcb); err != nil {
		return dcb, fmt.Errorf("GetCommState: %w", err)
	}
	return dcb, nil
}

// QuerySerial reads the DCB and timeouts of a port.
func (s *CommSerial) QuerySerial(name string) (mode.SerialState, error) {
	h, err := s.open(name, windows.GENERIC_READ)
	if err != nil {
		return mode.SerialState{}, err
	}
	defer windows.CloseHandle(h)

	dcb, err := getDCB(h)
	if err != nil {
		return mode.SerialState{}, err
	}
	cfg, err := configFromDCB(dcbFields{
		BaudRate: dcb.BaudRate,
		Flags:    dcb.Flags,
		ByteSize: dcb.ByteSize,
		Parity:   dcb.Parity,
		StopBits: dcb.StopBits,
	})
	if err != nil {
		return mode.SerialState{}, err
	}

	var timeouts windows.CommTimeouts
	if err := windows.GetCommTimeouts(h, &timeouts); err != nil {
		return mode.SerialState{}, fmt.Errorf("GetCommTimeouts: %w", err)
	}

	return mode.SerialState{
		Config: cfg,
		Timeouts: mode.TimeoutConfig{
			ReadTotalMs:  timeouts.ReadTotalTimeoutConstant,
			WriteTotalMs: timeouts.WriteTotalTimeoutConstant,
		},
	}, nil
}

// ApplySerial writes the DCB and the total timeouts of a port. The interval
// and multiplier timeouts keep their current values.
func (s *CommSerial) ApplySerial(name string, st mode.SerialState) error {
	h, err := s.open(name, windows.GENERIC_READ|windows.GENERIC_WRITE)
	if err != nil {
		return err
	}
	defer windows.CloseHandle(h)

	dcb, err := getDCB(h)
	if err != nil {
		return err
	}
	fields := dcbFields{BaudRate: dcb.BaudRate, Flags: dcb.Flags}
	applyConfigToDCB(&fields, st.Config)
	dcb.BaudRate = fields.BaudRate
	dcb.Flags = fields.Flags
	dcb.ByteSize = fields.ByteSize
	dcb.Parity = fields.Parity
	dcb.StopBits = fields.StopBits
	if err := windows.SetCommState(h, &dcb); err != nil {
		return fmt.Errorf("SetCommState: %w", err)
	}

	var timeouts windows.CommTimeouts
	if err := windows.GetCommTimeouts(h, &timeouts); err != nil {
		return fmt.Errorf("GetCommTimeouts: %w", err)
	}
	timeouts.ReadTotalTimeoutConstant = st.Timeouts.ReadTotalMs
	timeouts.WriteTotalTimeoutConstant = st.Timeouts.WriteTotalMs
	if err := windows.SetCommTimeouts(h, &timeouts); err != nil {
		return fmt.Errorf("SetCommTimeouts: %w", err)
	}

	s.Logger.Debug("applied serial configuration", zap.String("device", name))
	return nil
}
