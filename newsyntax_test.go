package mode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildNewSerialConfig(t *testing.T) {
	tests := []struct {
		name string
		arg  string
		want func(st *SerialState)
	}{
		{"nothing", "", func(st *SerialState) {}},
		{"baud resets stop bits", "baud=96", func(st *SerialState) {
			st.Config.BaudRate = 9600
			st.Config.StopBits = StopBitsOne
		}},
		{"baud 110 defaults to two stop bits", "BAUD=11", func(st *SerialState) {
			st.Config.BaudRate = 110
			st.Config.StopBits = StopBitsTwo
		}},
		{"explicit stop wins", "stop=1 baud=110", func(st *SerialState) {
			st.Config.BaudRate = 110
			st.Config.StopBits = StopBitsOne
		}},
		{"stop kept without baud", "data=7", func(st *SerialState) {
			st.Config.DataBits = 7
		}},
		{"full", "baud=1200 parity=n data=8 stop=1", func(st *SerialState) {
			st.Config.BaudRate = 1200
			st.Config.Parity = ParityNone
			st.Config.DataBits = 8
			st.Config.StopBits = StopBitsOne
		}},
		{"no separators", "baud=1200parity=odata=7", func(st *SerialState) {
			st.Config.BaudRate = 1200
			st.Config.Parity = ParityOdd
			st.Config.DataBits = 7
			st.Config.StopBits = StopBitsOne
		}},
		{"last key wins", "data=7 data=8", func(st *SerialState) {
			st.Config.DataBits = 8
		}},
		{"timeout on", "to=on", func(st *SerialState) {
			st.Timeouts = TimeoutConfig{ReadTotalMs: 60000, WriteTotalMs: 60000}
		}},
		{"timeout off", "TO=OFF", func(st *SerialState) {
			st.Timeouts = TimeoutConfig{}
		}},
		{"flow keys", "xon=off odsr=on octs=on idsr=off", func(st *SerialState) {
			st.Config.XonXoff = false
			st.Config.DSRFlow = true
			st.Config.CTSFlow = true
			st.Config.DSRSensitivity = false
		}},
		{"dtr handshake", "dtr=hs", func(st *SerialState) {
			st.Config.DTR = DTRHandshake
		}},
		{"rts toggle", "rts=tg", func(st *SerialState) {
			st.Config.RTS = RTSToggle
		}},
		{"mixed case", "Parity=E Stop=2", func(st *SerialState) {
			st.Config.Parity = ParityEven
			st.Config.StopBits = StopBitsTwo
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current := configuredState()
			want := configuredState()
			tt.want(&want)

			got, err := BuildNewSerialConfig(current, tt.arg)
			require.NoError(t, err)
			assert.Equal(t, want, got)
			assert.Equal(t, configuredState(), current, "current must not change")
		})
	}
}

func TestBuildNewSerialConfigRejects(t *testing.T) {
	tests := []string{
		"speed=9600",
		"baud=",
		"baud=fast",
		"data=9",
		"parity=x",
		"stop=3",
		"xon=hs",
		"to=tg",
		"dtr=tg",
		"rts=maybe",
		"baud=9600,n",
		"baud=9600 bogus",
	}

	for _, arg := range tests {
		t.Run(arg, func(t *testing.T) {
			current := configuredState()
			got, err := BuildNewSerialConfig(current, arg)
			require.ErrorIs(t, err, ErrInvalidParameter)
			assert.EqualError(t, err, "Invalid parameter - "+arg)
			assert.Equal(t, current, got)
		})
	}
}
