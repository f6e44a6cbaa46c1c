package sysdev

import (
	"fmt"

	"github.com/allbin/go-mode"
)

// DCB bit fields, see the Win32 DCB structure.
const (
	dcbBinary               = 0x00000001
	dcbParity               = 0x00000002
	dcbOutXCTSFlow          = 0x00000004
	dcbOutXDSRFlow          = 0x00000008
	dcbDTRControlMask       = 0x00000030
	dcbDTRControlShift      = 4
	dcbDSRSensitivity       = 0x00000040
	dcbTXContinueOnXOFF     = 0x00000080
	dcbOutX                 = 0x00000100
	dcbInX                  = 0x00000200
	dcbErrorChar            = 0x00000400
	dcbNull                 = 0x00000800
	dcbRTSControlMask       = 0x00003000
	dcbRTSControlShift      = 12
	dcbAbortOnError         = 0x00004000
	dcbFlowControlFlagsMask = dcbOutXCTSFlow | dcbOutXDSRFlow | dcbDTRControlMask |
		dcbDSRSensitivity | dcbOutX | dcbInX | dcbRTSControlMask
)

// dcbFields is the part of a DCB that MODE reads and writes.
type dcbFields struct {
	BaudRate uint32
	Flags    uint32
	ByteSize uint8
	Parity   uint8
	StopBits uint8
}

// configFromDCB decodes a DCB. The parity, stop bit and line control
// encodings match the mode enums one to one.
func configFromDCB(d dcbFields) (mode.SerialConfig, error) {
	cfg := mode.SerialConfig{
		BaudRate:       d.BaudRate,
		Parity:         mode.Parity(d.Parity),
		DataBits:       d.ByteSize,
		StopBits:       mode.StopBits(d.StopBits),
		XonXoff:        d.Flags&dcbOutX != 0,
		CTSFlow:        d.Flags&dcbOutXCTSFlow != 0,
		DSRFlow:        d.Flags&dcbOutXDSRFlow != 0,
		DSRSensitivity: d.Flags&dcbDSRSensitivity != 0,
		DTR:            mode.DTRControl((d.Flags & dcbDTRControlMask) >> dcbDTRControlShift),
		RTS:            mode.RTSControl((d.Flags & dcbRTSControlMask) >> dcbRTSControlShift),
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("device returned an invalid DCB: %w", err)
	}
	return cfg, nil
}

// applyConfigToDCB writes cfg into d, leaving the DCB fields MODE does not
// manage untouched.
func applyConfigToDCB(d *dcbFields, cfg mode.SerialConfig) {
	d.BaudRate = cfg.BaudRate
	d.ByteSize = cfg.DataBits
	d.Parity = uint8(cfg.Parity)
	d.StopBits = uint8(cfg.StopBits)

	flags := d.Flags &^ (dcbFlowControlFlagsMask | dcbParity)
	flags |= dcbBinary
	if cfg.Parity != mode.ParityNone {
		flags |= dcbParity
	}
	if cfg.XonXoff {
		flags |= dcbOutX | dcbInX
	}
	if cfg.CTSFlow {
		flags |= dcbOutXCTSFlow
	}
	if cfg.DSRFlow {
		flags |= dcbOutXDSRFlow
	}
	if cfg.DSRSensitivity {
		flags |= dcbDSRSensitivity
	}
	flags |= uint32(cfg.DTR) << dcbDTRControlShift & dcbDTRControlMask
	flags |= uint32(cfg.RTS) << dcbRTSControlShift & dcbRTSControlMask
	d.Flags = flags
}
