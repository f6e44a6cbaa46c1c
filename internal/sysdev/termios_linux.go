package sysdev

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/allbin/go-mode"
)

// baudRates pairs line speeds with their termios constants.
var baudRates = []struct {
	rate  uint32
	speed uint32
}{
	{50, unix.B50},
	{75, unix.B75},
	{110, unix.B110},
	{134, unix.B134},
	{150, unix.B150},
	{200, unix.B200},
	{300, unix.B300},
	{600, unix.B600},
	{1200, unix.B1200},
	{1800, unix.B1800},
	{2400, unix.B2400},
	{4800, unix.B4800},
	{9600, unix.B9600},
	{19200, unix.B19200},
	{38400, unix.B38400},
	{57600, unix.B57600},
	{115200, unix.B115200},
	{230400, unix.B230400},
	{460800, unix.B460800},
	{500000, unix.B500000},
	{576000, unix.B576000},
	{921600, unix.B921600},
	{1000000, unix.B1000000},
	{1152000, unix.B1152000},
	{1500000, unix.B1500000},
	{2000000, unix.B2000000},
	{2500000, unix.B2500000},
	{3000000, unix.B3000000},
	{3500000, unix.B3500000},
	{4000000, unix.B4000000},
}

// speedForRate converts a baud rate to a termios speed constant.
func speedForRate(rate uint32) (uint32, error) {
	for _, b := range baudRates {
		if b.rate == rate {
			return b.speed, nil
		}
	}
	return 0, fmt.Errorf("%w: %d", mode.ErrInvalidBaudRate, rate)
}

// rateForSpeed converts a termios speed constant to a baud rate. Unknown
// speeds yield 0.
func rateForSpeed(speed uint32) uint32 {
	for _, b := range baudRates {
		if b.speed == speed {
			return b.rate
		}
	}
	return 0
}

var dataBitsFlags = map[uint8]uint32{
	5: unix.CS5,
	6: unix.CS6,
	7: unix.CS7,
	8: unix.CS8,
}

// configFromTermios decodes the line settings termios can express. DTR and
// RTS are reported as enabled; the caller refines them from the modem
// lines.
func configFromTermios(t *unix.Termios) mode.SerialConfig {
	cfg := mode.SerialConfig{
		BaudRate: rateForSpeed(t.Cflag & unix.CBAUD),
		DataBits: 8,
		StopBits: mode.StopBitsOne,
		XonXoff:  t.Iflag&unix.IXON != 0,
		CTSFlow:  t.Cflag&unix.CRTSCTS != 0,
		DTR:      mode.DTREnable,
		RTS:      mode.RTSEnable,
	}

	for bits, flag := range dataBitsFlags {
		if t.Cflag&unix.CSIZE == flag {
			cfg.DataBits = bits
		}
	}

	if t.Cflag&unix.CSTOPB != 0 {
		cfg.StopBits = mode.StopBitsTwo
		// With five data bits the UART sends one and a half stop bits.
		if cfg.DataBits == 5 {
			cfg.StopBits = mode.StopBitsOnePointFive
		}
	}

	switch {
	case t.Cflag&unix.PARENB == 0:
		cfg.Parity = mode.ParityNone
	case t.Cflag&unix.CMSPAR != 0 && t.Cflag&unix.PARODD != 0:
		cfg.Parity = mode.ParityMark
	case t.Cflag&unix.CMSPAR != 0:
		cfg.Parity = mode.ParitySpace
	case t.Cflag&unix.PARODD != 0:
		cfg.Parity = mode.ParityOdd
	default:
		cfg.Parity = mode.ParityEven
	}

	if cfg.CTSFlow {
		cfg.RTS = mode.RTSHandshake
	}
	return cfg
}

// applyConfigToTermios updates the line settings in t. Flags outside the
// line settings are left as they are.
func applyConfigToTermios(t *unix.Termios, cfg mode.SerialConfig) error {
	speed, err := speedForRate(cfg.BaudRate)
	if err != nil {
		return err
	}
	size, ok := dataBitsFlags[cfg.DataBits]
	if !ok {
		return fmt.Errorf("%w: data bits %d", mode.ErrInvalidParameter, cfg.DataBits)
	}

	cflag := t.Cflag &^ (unix.CBAUD | unix.CSIZE | unix.CSTOPB | unix.PARENB | unix.PARODD | unix.CMSPAR | unix.CRTSCTS)
	cflag |= speed | size | unix.CREAD | unix.CLOCAL

	switch cfg.StopBits {
	case mode.StopBitsOne:
	case mode.StopBitsOnePointFive:
		if cfg.DataBits != 5 {
			return fmt.Errorf("%w: 1.5 stop bits need 5 data bits", mode.ErrUnsupported)
		}
		cflag |= unix.CSTOPB
	case mode.StopBitsTwo:
		cflag |= unix.CSTOPB
	}

	switch cfg.Parity {
	case mode.ParityOdd:
		cflag |= unix.PARENB | unix.PARODD
	case mode.ParityEven:
		cflag |= unix.PARENB
	case mode.ParityMark:
		cflag |= unix.PARENB | unix.CMSPAR | unix.PARODD
	case mode.ParitySpace:
		cflag |= unix.PARENB | unix.CMSPAR
	}

	// CRTSCTS covers both directions, so CTS output flow and RTS
	// handshaking can only be switched together.
	if cfg.CTSFlow != (cfg.RTS == mode.RTSHandshake) {
		return fmt.Errorf("%w: CTS flow and RTS handshaking must match", mode.ErrUnsupported)
	}
	if cfg.CTSFlow {
		cflag |= unix.CRTSCTS
	}

	iflag := t.Iflag &^ (unix.IXON | unix.IXOFF)
	if cfg.XonXoff {
		iflag |= unix.IXON | unix.IXOFF
	}

	t.Cflag = cflag
	t.Iflag = iflag
	t.Ispeed = speed
	t.Ospeed = speed
	return nil
}
