package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allbin/go-mode/internal/sysdev"
)

func TestStatusLine(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"COM1", "COM1 /STATUS"},
		{"com12", "com12 /STATUS"},
		{"LPT2", "LPT2"},
		{"con", "CON"},
		{"ttyUSB0", ""},
		{"COM0", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusLine(tt.name))
			assert.Equal(t, tt.want != "", Addressable(tt.name))
		})
	}
}

func TestCommandLine(t *testing.T) {
	assert.Equal(t, "COM1 BAUD=9600 DATA=8", CommandLine("COM1", " BAUD=9600 DATA=8 "))
	assert.Equal(t, "CON COLS=100", CommandLine("con", "COLS=100"))
	assert.Equal(t, "COM3 /STATUS", CommandLine("COM3", ""))
	assert.Equal(t, "/?", CommandLine("ttyUSB0", "/?"))
}

func TestQueryStatusRunsStatusLine(t *testing.T) {
	var lines []string
	m := NewBrowserModel(func(line string) (string, bool) {
		lines = append(lines, line)
		return "Status for device COM1:\n", true
	}, nil)

	msg := m.QueryStatus("COM1")()
	assert.Equal(t, StatusMsg{Device: "COM1", Line: "COM1 /STATUS", Output: "Status for device COM1:\n", OK: true}, msg)
	assert.Equal(t, []string{"COM1 /STATUS"}, lines)
}

func TestQueryStatusDescribesUnaddressable(t *testing.T) {
	called := false
	m := NewBrowserModel(func(string) (string, bool) {
		called = true
		return "", false
	}, nil)
	m.SetDevices([]sysdev.DeviceInfo{{
		Name: "ttyACM0", Path: "/dev/ttyACM0", Description: "USB CDC/ACM Device",
		IsUSB: true, VendorID: "2341", ProductID: "0043",
	}})

	msg, ok := m.QueryStatus("ttyACM0")().(StatusMsg)
	require.True(t, ok)
	assert.False(t, called)
	assert.True(t, msg.OK)
	assert.Contains(t, msg.Output, "Path:         /dev/ttyACM0")
	assert.Contains(t, msg.Output, "USB ID:       2341:0043")
}

func TestExecuteAfterCancel(t *testing.T) {
	m := NewBrowserModel(func(string) (string, bool) {
		t.Fatal("command ran after cancel")
		return "", false
	}, nil)
	cmd := m.Execute("COM1", "COM1 BAUD=96")
	m.Cancel()
	assert.Nil(t, cmd())
}

func TestLoadDevices(t *testing.T) {
	scanErr := errors.New("scan failed")
	m := NewBrowserModel(nil, func() ([]sysdev.DeviceInfo, error) {
		return nil, scanErr
	})

	msg := m.LoadDevices()().(DevicesMsg)
	assert.ErrorIs(t, msg.Err, scanErr)
}

func TestSelect(t *testing.T) {
	m := NewBrowserModel(nil, nil)
	assert.True(t, m.Select("COM1"))
	assert.False(t, m.Select("COM1"))
	assert.Equal(t, "COM1", m.Selected())

	m.SetInputMode(InputModeInsert)
	assert.True(t, m.IsInInsertMode())
	assert.Equal(t, "INSERT", m.GetInputMode().String())
}
