package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/allbin/go-mode"
	"github.com/allbin/go-mode/internal/sysdev"
)

var testDevices = []sysdev.DeviceInfo{
	{Name: "COM1", Path: "/dev/ttyS0", Kind: mode.DeviceSerial, Description: "Standard Serial Port"},
	{Name: "ttyUSB0", Path: "/dev/ttyUSB0", Kind: mode.DeviceSerial, Description: "USB Serial Port",
		IsUSB: true, VendorID: "0403", ProductID: "6001", Product: "FT232R USB UART"},
	{Name: "usb/lp0", Path: "/dev/usb/lp0", Kind: mode.DevicePrinter, Description: "USB Printer"},
	{Name: "lp0", Path: "/dev/lp0", Kind: mode.DeviceParallel, Description: "Line Printer"},
}

func TestFilterDevices(t *testing.T) {
	tests := []struct {
		filter string
		want   []string
	}{
		{"", []string{"COM1", "ttyUSB0", "usb/lp0", "lp0"}},
		{"all", []string{"COM1", "ttyUSB0", "usb/lp0", "lp0"}},
		{"Serial", []string{"COM1", "ttyUSB0"}},
		{"usb", []string{"ttyUSB0"}},
		{"printer", []string{"usb/lp0"}},
		{"parallel", []string{"lp0"}},
		{"modem", nil},
	}

	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			var got []string
			for _, d := range filterDevices(testDevices, tt.filter) {
				got = append(got, d.Name)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderSimple(t *testing.T) {
	var buf bytes.Buffer
	renderSimple(&buf, testDevices)
	assert.Equal(t, "COM1\t/dev/ttyS0\nttyUSB0\t/dev/ttyUSB0\nusb/lp0\t/dev/usb/lp0\nlp0\t/dev/lp0\n", buf.String())
}

func TestDeviceSummary(t *testing.T) {
	assert.Equal(t, "Standard Serial Port", deviceSummary(testDevices[0]))
	assert.Equal(t, "FT232R USB UART [0403:6001]", deviceSummary(testDevices[1]))
}

func TestRenderTableListsEveryDevice(t *testing.T) {
	var buf bytes.Buffer
	renderTable(&buf, testDevices)
	out := buf.String()
	assert.Contains(t, out, "Found 4 device(s):")
	for _, d := range testDevices {
		assert.Contains(t, out, d.Path)
	}
}
