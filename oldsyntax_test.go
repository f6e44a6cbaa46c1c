package mode

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func configuredState() SerialState {
	return SerialState{
		Config: SerialConfig{
			BaudRate:       115200,
			Parity:         ParityNone,
			DataBits:       8,
			StopBits:       StopBitsOne,
			XonXoff:        true,
			DSRSensitivity: true,
			DTR:            DTREnable,
			RTS:            RTSEnable,
		},
		Timeouts: TimeoutConfig{ReadTotalMs: 500, WriteTotalMs: 500},
	}
}

func TestBuildOldSerialConfig(t *testing.T) {
	tests := []struct {
		name string
		arg  string
		want func(c *SerialConfig)
	}{
		{"full", "96,n,8,1", func(c *SerialConfig) {
			c.BaudRate, c.Parity, c.DataBits, c.StopBits = 9600, ParityNone, 8, StopBitsOne
			c.XonXoff = false
		}},
		{"baud only", "9600", func(c *SerialConfig) {
			c.BaudRate, c.Parity, c.DataBits, c.StopBits = 9600, ParityEven, 7, StopBitsOne
			c.XonXoff = false
		}},
		{"110 defaults to two stop bits", "11", func(c *SerialConfig) {
			c.BaudRate, c.Parity, c.DataBits, c.StopBits = 110, ParityEven, 7, StopBitsTwo
			c.XonXoff = false
		}},
		{"explicit stop at 110", "110,n,8,1", func(c *SerialConfig) {
			c.BaudRate, c.Parity, c.DataBits, c.StopBits = 110, ParityNone, 8, StopBitsOne
			c.XonXoff = false
		}},
		{"empty fields", "19,,,", func(c *SerialConfig) {
			c.BaudRate, c.Parity, c.DataBits, c.StopBits = 19200, ParityEven, 7, StopBitsOne
			c.XonXoff = false
		}},
		{"skip parity", "48,,8", func(c *SerialConfig) {
			c.BaudRate, c.Parity, c.DataBits, c.StopBits = 4800, ParityEven, 8, StopBitsOne
			c.XonXoff = false
		}},
		{"spaces around commas", " 96 , o , 7 , 2 ", func(c *SerialConfig) {
			c.BaudRate, c.Parity, c.DataBits, c.StopBits = 9600, ParityOdd, 7, StopBitsTwo
			c.XonXoff = false
		}},
		{"xon retry", "96,n,8,1,x", func(c *SerialConfig) {
			c.BaudRate, c.Parity, c.DataBits, c.StopBits = 9600, ParityNone, 8, StopBitsOne
			c.XonXoff = true
		}},
		{"hardware retry", "96,n,8,1,P", func(c *SerialConfig) {
			c.BaudRate, c.Parity, c.DataBits, c.StopBits = 9600, ParityNone, 8, StopBitsOne
			c.XonXoff, c.CTSFlow, c.DSRFlow = false, true, true
			c.DTR, c.RTS = DTRHandshake, RTSHandshake
		}},
		{"one and a half stop bits", "96,n,5,1.5", func(c *SerialConfig) {
			c.BaudRate, c.Parity, c.DataBits, c.StopBits = 9600, ParityNone, 5, StopBitsOnePointFive
			c.XonXoff = false
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current := configuredState()
			got, err := BuildOldSerialConfig(current, tt.arg)
			require.NoError(t, err)

			want := current.Config
			tt.want(&want)
			assert.Equal(t, want, got.Config)
			assert.Equal(t, current.Timeouts, got.Timeouts)
		})
	}
}

func TestBuildOldSerialConfigRejects(t *testing.T) {
	tests := []string{
		"",
		"n,8,1",
		"96,x",
		"96,n,9",
		"96,n,8,3",
		"96,n,8,1,z",
		"96,n,8,1,x,",
		"96,n,8,1,xx",
		"96;n",
		"9 6,n",
	}

	for _, arg := range tests {
		t.Run(arg, func(t *testing.T) {
			current := configuredState()
			got, err := BuildOldSerialConfig(current, arg)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidParameter))

			var perr *ParameterError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, arg, perr.Arg)
			assert.Equal(t, current, got)
		})
	}
}
