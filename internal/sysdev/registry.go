package sysdev

import (
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"go.bug.st/serial/enumerator"

	"github.com/allbin/go-mode"
)

// maxPortNumber is the highest COMn or LPTn number MODE addresses.
const maxPortNumber = 99

// DeviceInfo describes one enumerated device.
type DeviceInfo struct {
	// Name is the DOS name (COM1, LPT2) when one maps to the device,
	// otherwise the device's base name.
	Name        string
	Path        string
	Kind        mode.DeviceKind
	Description string

	// USB metadata, when the enumerator found any.
	IsUSB        bool
	VendorID     string
	ProductID    string
	SerialNumber string
	Product      string
}

// DeviceDescriber is implemented by registries that can report more than
// device names.
type DeviceDescriber interface {
	Describe() ([]DeviceInfo, error)
}

// deviceDescription provides human-readable descriptions for device names.
func deviceDescription(name string) string {
	base := filepath.Base(name)
	switch {
	case strings.HasPrefix(base, "ttyUSB"):
		return "USB Serial Port"
	case strings.HasPrefix(base, "ttyACM"):
		return "USB CDC/ACM Device"
	case strings.HasPrefix(base, "ttyAMA"):
		return "ARM Serial Port"
	case strings.HasPrefix(base, "ttymxc"):
		return "i.MX Serial Port"
	case strings.HasPrefix(base, "ttySAC"):
		return "Samsung Serial Port"
	case strings.HasPrefix(base, "ttyTHS"):
		return "Tegra Serial Port"
	case strings.HasPrefix(base, "ttyO"):
		return "OMAP Serial Port"
	case strings.HasPrefix(base, "ttyS"):
		return "Standard Serial Port"
	case strings.HasPrefix(base, "parport"):
		return "Parallel Port"
	case strings.HasPrefix(base, "lp") && strings.Contains(name, "usb"):
		return "USB Printer"
	case strings.HasPrefix(base, "lp"):
		return "Line Printer"
	}
	switch mode.ClassifyDevice(name) {
	case mode.DeviceSerial:
		return "Serial Port"
	case mode.DevicePrinter:
		return "Printer"
	case mode.DeviceParallel:
		return "Parallel Port"
	}
	return "Device"
}

// mergeEnumerated adds USB metadata from the serial enumerator to devices,
// appending ports the directory scan missed.
func mergeEnumerated(devices []DeviceInfo, ports []*enumerator.PortDetails) []DeviceInfo {
	for _, p := range ports {
		found := false
		for i := range devices {
			if devices[i].Path != p.Name {
				continue
			}
			applyPortDetails(&devices[i], p)
			found = true
			break
		}
		if !found {
			d := DeviceInfo{
				Name:        filepath.Base(p.Name),
				Path:        p.Name,
				Kind:        mode.DeviceSerial,
				Description: deviceDescription(p.Name),
			}
			applyPortDetails(&d, p)
			devices = append(devices, d)
		}
	}
	return devices
}

func applyPortDetails(d *DeviceInfo, p *enumerator.PortDetails) {
	d.IsUSB = p.IsUSB
	d.VendorID = p.VID
	d.ProductID = p.PID
	d.SerialNumber = p.SerialNumber
	d.Product = p.Product
}

// nameDevices replaces base names with the COMn names the port map assigns
// to them.
func nameDevices(devices []DeviceInfo, ports PortMap) {
	byPath := make(map[string]string, maxPortNumber)
	for n := maxPortNumber; n >= 1; n-- {
		name := "COM" + strconv.Itoa(n)
		if path, err := ports.Resolve(name); err == nil {
			byPath[path] = name
		}
	}
	for i := range devices {
		if name, ok := byPath[devices[i].Path]; ok {
			devices[i].Name = name
		}
	}
}

func sortDevices(devices []DeviceInfo) {
	sort.Slice(devices, func(i, j int) bool {
		if devices[i].Kind != devices[j].Kind {
			return devices[i].Kind < devices[j].Kind
		}
		return devices[i].Path < devices[j].Path
	})
}

// deviceNames returns the names ListDevices reports: the DOS name when
// there is one, otherwise the path.
func deviceNames(devices []DeviceInfo) []string {
	names := make([]string, 0, len(devices))
	for _, d := range devices {
		if d.Path != "" && d.Name == filepath.Base(d.Path) {
			names = append(names, d.Path)
			continue
		}
		names = append(names, d.Name)
	}
	return names
}
