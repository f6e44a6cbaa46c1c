//go:build !windows

package sysdev

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial/enumerator"
	"go.uber.org/zap/zaptest"

	"github.com/allbin/go-mode"
	"github.com/allbin/go-mode/internal/state"
)

// newTestRegistry returns a registry over a temporary /dev holding plain
// files that stand in for device nodes.
func newTestRegistry(t *testing.T, nodes ...string) *DevRegistry {
	t.Helper()

	dir := t.TempDir()
	for _, node := range nodes {
		path := filepath.Join(dir, node)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, nil, 0o644))
	}

	r := NewDevRegistry(PortMap{Template: filepath.Join(dir, "ttyS{index}")}, state.NewStore(""), zaptest.NewLogger(t))
	r.DevDir = dir
	r.isDevice = func(string) bool { return true }
	r.enumerate = nil
	return r
}

func TestDevRegistryDescribe(t *testing.T) {
	r := newTestRegistry(t, "ttyUSB0", "ttyS1", "lp0", "null", "tty0", "usb/lp1")
	require.NoError(t, r.DefineAlias("LPT2", "com1"))

	devices, err := r.Describe()
	require.NoError(t, err)

	var names []string
	for _, d := range devices {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"COM2", "ttyUSB0", "usb/lp1", "lp0", "LPT2"}, names)

	assert.Equal(t, "Standard Serial Port", devices[0].Description)
	assert.Equal(t, "USB Serial Port", devices[1].Description)
	assert.Equal(t, mode.DevicePrinter, devices[2].Kind)
	assert.Equal(t, "Line Printer", devices[3].Description)
	assert.Equal(t, "Redirected to COM1", devices[4].Description)
}

func TestDevRegistryListDevices(t *testing.T) {
	r := newTestRegistry(t, "ttyUSB0", "ttyS0")

	names, err := r.ListDevices()
	require.NoError(t, err)
	assert.Equal(t, []string{"COM1", filepath.Join(r.DevDir, "ttyUSB0")}, names)
}

func TestDevRegistryDescribeSkipsNonDevices(t *testing.T) {
	r := newTestRegistry(t, "ttyUSB0", "ttyUSB1")
	r.isDevice = func(path string) bool { return filepath.Base(path) == "ttyUSB1" }

	devices, err := r.Describe()
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "ttyUSB1", devices[0].Name)
}

func TestDevRegistryDescribeMergesEnumerator(t *testing.T) {
	r := newTestRegistry(t, "ttyUSB0")
	usb0 := filepath.Join(r.DevDir, "ttyUSB0")
	r.enumerate = func() ([]*enumerator.PortDetails, error) {
		return []*enumerator.PortDetails{
			{Name: usb0, IsUSB: true, VID: "0403", PID: "6001", Product: "FT232R USB UART"},
			{Name: "/dev/ttyACM7", IsUSB: true, VID: "2341", PID: "0043"},
		}, nil
	}

	devices, err := r.Describe()
	require.NoError(t, err)
	require.Len(t, devices, 2)

	byName := map[string]DeviceInfo{}
	for _, d := range devices {
		byName[d.Name] = d
	}
	assert.Equal(t, "0403", byName["ttyUSB0"].VendorID)
	assert.Equal(t, "FT232R USB UART", byName["ttyUSB0"].Product)
	assert.True(t, byName["ttyACM7"].IsUSB)
	assert.Equal(t, "USB CDC/ACM Device", byName["ttyACM7"].Description)
}

func TestDevRegistryDescribeMissingDir(t *testing.T) {
	r := newTestRegistry(t)
	r.DevDir = filepath.Join(r.DevDir, "missing")

	_, err := r.Describe()
	assert.Error(t, err)
}

func TestDevRegistryResolveAlias(t *testing.T) {
	r := newTestRegistry(t)

	tests := []struct {
		name string
		want string
	}{
		{"LPT1", filepath.Join(r.DevDir, "lp0")},
		{"lpt3", filepath.Join(r.DevDir, "lp2")},
		{"PRN", filepath.Join(r.DevDir, "lp0")},
		{"COM3", filepath.Join(r.DevDir, "ttyS2")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.ResolveAlias(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := r.ResolveAlias("NUL")
	assert.ErrorIs(t, err, mode.ErrIllegalDevice)
}

func TestDevRegistryDefineAlias(t *testing.T) {
	r := newTestRegistry(t)

	require.NoError(t, r.DefineAlias("LPT1", "com2"))
	got, err := r.ResolveAlias("lpt1")
	require.NoError(t, err)
	assert.Equal(t, "COM2", got)

	// Redirecting a port to itself restores the device node.
	require.NoError(t, r.DefineAlias("LPT1", "LPT1"))
	got, err = r.ResolveAlias("LPT1")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(r.DevDir, "lp0"), got)

	assert.ErrorIs(t, r.DefineAlias("COM1", "LPT1"), mode.ErrIllegalDevice)
}

func TestDeviceNames(t *testing.T) {
	devices := []DeviceInfo{
		{Name: "COM1", Path: "/dev/ttyS0"},
		{Name: "ttyUSB0", Path: "/dev/ttyUSB0"},
		{Name: "LPT2", Path: "COM1"},
	}
	assert.Equal(t, []string{"COM1", "/dev/ttyUSB0", "LPT2"}, deviceNames(devices))
}
