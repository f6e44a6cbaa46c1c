package sysdev

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allbin/go-mode"
)

func TestPortNumber(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		want   int
		ok     bool
	}{
		{"COM1", "COM", 1, true},
		{"com12", "COM", 12, true},
		{"LPT3", "LPT", 3, true},
		{"COM0", "COM", 0, false},
		{"COM", "COM", 0, false},
		{"COMX", "COM", 0, false},
		{"LPT1", "COM", 0, false},
		{"COM-1", "COM", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, ok := PortNumber(tt.name, tt.prefix)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, n)
		})
	}
}

func TestPortMapResolve(t *testing.T) {
	m := PortMap{
		Template: "/dev/ttyS{index}",
		Ports: map[string]string{
			"com3": "/dev/ttyUSB0",
		},
	}

	tests := []struct {
		name string
		want string
	}{
		{"COM1", "/dev/ttyS0"},
		{"com2", "/dev/ttyS1"},
		{"COM3", "/dev/ttyUSB0"},
		{"COM10", "/dev/ttyS9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Resolve(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPortMapResolveNumberPlaceholder(t *testing.T) {
	m := PortMap{Template: `\\.\COM{n}`}
	got, err := m.Resolve("COM4")
	require.NoError(t, err)
	assert.Equal(t, `\\.\COM4`, got)
}

func TestPortMapResolveDefaultTemplate(t *testing.T) {
	var m PortMap
	got, err := m.Resolve("COM1")
	require.NoError(t, err)
	want, err := PortMap{Template: DefaultPortTemplate()}.Resolve("COM1")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestPortMapResolveIllegal(t *testing.T) {
	m := PortMap{Template: "/dev/ttyS{index}"}
	for _, name := range []string{"LPT1", "CON", "COM0", ""} {
		_, err := m.Resolve(name)
		assert.ErrorIs(t, err, mode.ErrIllegalDevice, name)
	}
}
