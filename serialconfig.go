package mode

import (
	"fmt"
	"strings"
)

// Parity represents the parity mode. Values match the Win32 DCB encoding.
type Parity uint8

const (
	ParityNone Parity = iota
	ParityOdd
	ParityEven
	ParityMark
	ParitySpace
)

var parityNames = [...]string{"None", "Odd", "Even", "Mark", "Space"}

func (p Parity) String() string {
	if int(p) < len(parityNames) {
		return parityNames[p]
	}
	return fmt.Sprintf("Parity(%d)", uint8(p))
}

func (p Parity) MarshalText() ([]byte, error) {
	if int(p) >= len(parityNames) {
		return nil, fmt.Errorf("%w: parity %d", ErrInvalidParameter, uint8(p))
	}
	return []byte(strings.ToLower(parityNames[p])), nil
}

func (p *Parity) UnmarshalText(text []byte) error {
	for i, name := range parityNames {
		if strings.EqualFold(name, string(text)) {
			*p = Parity(i)
			return nil
		}
	}
	return fmt.Errorf("%w: parity %q", ErrInvalidParameter, text)
}

// StopBits represents the number of stop bits. Values match the Win32 DCB
// encoding.
type StopBits uint8

const (
	StopBitsOne StopBits = iota
	StopBitsOnePointFive
	StopBitsTwo
)

var stopBitsNames = [...]string{"1", "1.5", "2"}

func (s StopBits) String() string {
	if int(s) < len(stopBitsNames) {
		return stopBitsNames[s]
	}
	return fmt.Sprintf("StopBits(%d)", uint8(s))
}

func (s StopBits) MarshalText() ([]byte, error) {
	if int(s) >= len(stopBitsNames) {
		return nil, fmt.Errorf("%w: stop bits %d", ErrInvalidParameter, uint8(s))
	}
	return []byte(stopBitsNames[s]), nil
}

func (s *StopBits) UnmarshalText(text []byte) error {
	for i, name := range stopBitsNames {
		if name == string(text) {
			*s = StopBits(i)
			return nil
		}
	}
	return fmt.Errorf("%w: stop bits %q", ErrInvalidParameter, text)
}

// controlNames is shared by DTRControl and RTSControl, which use the same
// numbering for the states they have in common.
var controlNames = [...]string{"OFF", "ON", "HANDSHAKE", "TOGGLE"}

// DTRControl represents how the DTR line is driven.
type DTRControl uint8

const (
	DTRDisable DTRControl = iota
	DTREnable
	DTRHandshake
)

func (d DTRControl) String() string {
	if d <= DTRHandshake {
		return controlNames[d]
	}
	return fmt.Sprintf("DTRControl(%d)", uint8(d))
}

func (d DTRControl) MarshalText() ([]byte, error) {
	if d > DTRHandshake {
		return nil, fmt.Errorf("%w: dtr control %d", ErrInvalidParameter, uint8(d))
	}
	return []byte(strings.ToLower(controlNames[d])), nil
}

func (d *DTRControl) UnmarshalText(text []byte) error {
	for i := DTRDisable; i <= DTRHandshake; i++ {
		if strings.EqualFold(controlNames[i], string(text)) {
			*d = i
			return nil
		}
	}
	return fmt.Errorf("%w: dtr control %q", ErrInvalidParameter, text)
}

// RTSControl represents how the RTS line is driven.
type RTSControl uint8

const (
	RTSDisable RTSControl = iota
	RTSEnable
	RTSHandshake
	RTSToggle
)

func (r RTSControl) String() string {
	if r <= RTSToggle {
		return controlNames[r]
	}
	return fmt.Sprintf("RTSControl(%d)", uint8(r))
}

func (r RTSControl) MarshalText() ([]byte, error) {
	if r > RTSToggle {
		return nil, fmt.Errorf("%w: rts control %d", ErrInvalidParameter, uint8(r))
	}
	return []byte(strings.ToLower(controlNames[r])), nil
}

func (r *RTSControl) UnmarshalText(text []byte) error {
	for i := RTSDisable; i <= RTSToggle; i++ {
		if strings.EqualFold(controlNames[i], string(text)) {
			*r = i
			return nil
		}
	}
	return fmt.Errorf("%w: rts control %q", ErrInvalidParameter, text)
}

// SerialConfig holds the line parameters of a serial port (the DCB
// equivalent).
type SerialConfig struct {
	BaudRate       uint32     `yaml:"baud"`
	Parity         Parity     `yaml:"parity"`
	DataBits       uint8      `yaml:"data_bits"`
	StopBits       StopBits   `yaml:"stop_bits"`
	XonXoff        bool       `yaml:"xon_xoff"`
	CTSFlow        bool       `yaml:"cts_flow"`
	DSRFlow        bool       `yaml:"dsr_flow"`
	DSRSensitivity bool       `yaml:"dsr_sensitivity"`
	DTR            DTRControl `yaml:"dtr"`
	RTS            RTSControl `yaml:"rts"`
}

// TimeoutConfig holds the total read and write timeouts in milliseconds.
// Per-byte interval timeouts are not modeled.
type TimeoutConfig struct {
	ReadTotalMs  uint32 `yaml:"read_total_ms"`
	WriteTotalMs uint32 `yaml:"write_total_ms"`
}

// Enabled reports whether any total timeout is set.
func (t TimeoutConfig) Enabled() bool {
	return t.ReadTotalMs != 0 || t.WriteTotalMs != 0
}

// SerialState is the snapshot exchanged with a serial collaborator.
type SerialState struct {
	Config   SerialConfig  `yaml:"config"`
	Timeouts TimeoutConfig `yaml:"timeouts"`
}

// DefaultSerialConfig returns the configuration assumed for a port that has
// never been configured: 9600 8N1, DTR and RTS enabled, no flow control.
func DefaultSerialConfig() SerialConfig {
	return SerialConfig{
		BaudRate: 9600,
		Parity:   ParityNone,
		DataBits: 8,
		StopBits: StopBitsOne,
		DTR:      DTREnable,
		RTS:      RTSEnable,
	}
}

// Validate reports whether every field holds a defined value. Only a valid
// configuration may be applied to a device.
func (c SerialConfig) Validate() error {
	switch {
	case c.BaudRate == 0:
		return fmt.Errorf("%w: baud rate 0", ErrInvalidParameter)
	case c.DataBits < 5 || c.DataBits > 8:
		return fmt.Errorf("%w: data bits %d", ErrInvalidParameter, c.DataBits)
	case c.Parity > ParitySpace:
		return fmt.Errorf("%w: parity %d", ErrInvalidParameter, uint8(c.Parity))
	case c.StopBits > StopBitsTwo:
		return fmt.Errorf("%w: stop bits %d", ErrInvalidParameter, uint8(c.StopBits))
	case c.DTR > DTRHandshake:
		return fmt.Errorf("%w: dtr control %d", ErrInvalidParameter, uint8(c.DTR))
	case c.RTS > RTSToggle:
		return fmt.Errorf("%w: rts control %d", ErrInvalidParameter, uint8(c.RTS))
	}
	return nil
}

// defaultStopBits is the stop bit count used when none was given: two at
// 110 baud, one otherwise.
func defaultStopBits(baud uint32) StopBits {
	if baud == 110 {
		return StopBitsTwo
	}
	return StopBitsOne
}
