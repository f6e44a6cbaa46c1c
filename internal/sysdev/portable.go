package sysdev

import (
	"fmt"
	"time"

	"go.bug.st/serial"
	"go.uber.org/zap"

	"github.com/allbin/go-mode"
	"github.com/allbin/go-mode/internal/state"
)

// PortableSerial applies settings through go.bug.st/serial. The library
// cannot read a port's configuration back, so the last applied state is
// taken from the state store, falling back to 9600 8N1.
type PortableSerial struct {
	Ports  PortMap
	Store  *state.Store
	Logger *zap.Logger

	// open is replaced in tests.
	open func(path string, m *serial.Mode) (serial.Port, error)
}

var _ mode.SerialPorts = (*PortableSerial)(nil)

// NewPortableSerial returns a go.bug.st/serial backed driver.
func NewPortableSerial(ports PortMap, store *state.Store, logger *zap.Logger) *PortableSerial {
	return &PortableSerial{Ports: ports, Store: store, Logger: logger, open: serial.Open}
}

var portableParity = map[mode.Parity]serial.Parity{
	mode.ParityNone:  serial.NoParity,
	mode.ParityOdd:   serial.OddParity,
	mode.ParityEven:  serial.EvenParity,
	mode.ParityMark:  serial.MarkParity,
	mode.ParitySpace: serial.SpaceParity,
}

var portableStopBits = map[mode.StopBits]serial.StopBits{
	mode.StopBitsOne:          serial.OneStopBit,
	mode.StopBitsOnePointFive: serial.OnePointFiveStopBits,
	mode.StopBitsTwo:          serial.TwoStopBits,
}

// portableMode converts a configuration to a go.bug.st/serial mode.
func portableMode(cfg mode.SerialConfig) *serial.Mode {
	return &serial.Mode{
		BaudRate: int(cfg.BaudRate),
		DataBits: int(cfg.DataBits),
		Parity:   portableParity[cfg.Parity],
		StopBits: portableStopBits[cfg.StopBits],
	}
}

// QuerySerial checks that the port can be opened and returns its last known
// state.
func (s *PortableSerial) QuerySerial(name string) (mode.SerialState, error) {
	path, err := s.Ports.Resolve(name)
	if err != nil {
		return mode.SerialState{}, err
	}

	f, err := s.Store.Load()
	if err != nil {
		return mode.SerialState{}, err
	}
	st, ok := f.SerialState(name)
	if !ok {
		st = mode.SerialState{Config: mode.DefaultSerialConfig()}
	}

	port, err := s.open(path, portableMode(st.Config))
	if err != nil {
		return mode.SerialState{}, fmt.Errorf("%w - %s (%s): %w", mode.ErrIllegalDevice, name, path, err)
	}
	defer port.Close()

	return st, nil
}

// ApplySerial opens the port with the new line settings, drives DTR and RTS
// and records the state. Flow control is recorded but cannot be applied by
// this driver.
func (s *PortableSerial) ApplySerial(name string, st mode.SerialState) error {
	path, err := s.Ports.Resolve(name)
	if err != nil {
		return err
	}

	port, err := s.open(path, portableMode(st.Config))
	if err != nil {
		return fmt.Errorf("%w - %s (%s): %w", mode.ErrIllegalDevice, name, path, err)
	}
	defer port.Close()

	if err := port.SetDTR(st.Config.DTR != mode.DTRDisable); err != nil {
		return fmt.Errorf("failed to set DTR: %w", err)
	}
	if err := port.SetRTS(st.Config.RTS != mode.RTSDisable); err != nil {
		return fmt.Errorf("failed to set RTS: %w", err)
	}
	if st.Timeouts.ReadTotalMs != 0 {
		timeout := time.Duration(st.Timeouts.ReadTotalMs) * time.Millisecond
		if err := port.SetReadTimeout(timeout); err != nil {
			return fmt.Errorf("failed to set read timeout: %w", err)
		}
	}

	cfg := st.Config
	if cfg.XonXoff || cfg.CTSFlow || cfg.DSRFlow {
		s.Logger.Warn("flow control is recorded but not applied by the portable driver",
			zap.String("device", name),
			zap.Bool("xon_xoff", cfg.XonXoff),
			zap.Bool("cts", cfg.CTSFlow),
			zap.Bool("dsr", cfg.DSRFlow))
	}

	s.Logger.Debug("applied serial configuration", zap.String("device", name), zap.String("path", path))
	return s.Store.Update(func(f *state.File) error {
		f.SetSerialState(name, st)
		return nil
	})
}
