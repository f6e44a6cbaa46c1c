package mode

import "testing"

func TestClassifyDevice(t *testing.T) {
	tests := []struct {
		name string
		want DeviceKind
	}{
		{"COM1", DeviceSerial},
		{"com12", DeviceSerial},
		{"/dev/ttyUSB0", DeviceSerial},
		{"/dev/ttyACM1", DeviceSerial},
		{"/dev/ttyS0", DeviceSerial},
		{"/dev/cu.usbserial-1410", DeviceSerial},
		{"PRN", DevicePrinter},
		{"/dev/usb/lp0", DevicePrinter},
		{"LPT1", DeviceParallel},
		{"/dev/lp0", DeviceParallel},
		{"/dev/parport0", DeviceParallel},
		{"NUL", DeviceOther},
		{"/dev/tty1", DeviceOther},
		{"C:", DeviceOther},
	}

	for _, tt := range tests {
		if got := ClassifyDevice(tt.name); got != tt.want {
			t.Errorf("ClassifyDevice(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestLastPathElement(t *testing.T) {
	tests := map[string]string{
		`\Device\Serial0`: "Serial0",
		"/dev/ttyS1":      "ttyS1",
		"COM1":            "COM1",
		`\DosDevices\`:    "",
	}

	for in, want := range tests {
		if got := lastPathElement(in); got != want {
			t.Errorf("lastPathElement(%q) = %q, want %q", in, got, want)
		}
	}
}
