//go:build !windows

package sysdev

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"go.bug.st/serial/enumerator"
	"go.uber.org/zap"

	"github.com/allbin/go-mode"
	"github.com/allbin/go-mode/internal/state"
)

var (
	// Serial and parallel device nodes directly under /dev.
	devicePatterns = []struct {
		pattern *regexp.Regexp
		kind    mode.DeviceKind
	}{
		{regexp.MustCompile(`^ttyUSB\d+$`), mode.DeviceSerial}, // USB serial adapters
		{regexp.MustCompile(`^ttyACM\d+$`), mode.DeviceSerial}, // USB CDC/ACM devices
		{regexp.MustCompile(`^ttyS\d+$`), mode.DeviceSerial},   // Standard serial ports
		{regexp.MustCompile(`^ttyAMA\d+$`), mode.DeviceSerial}, // ARM/Raspberry Pi serial
		{regexp.MustCompile(`^ttymxc\d+$`), mode.DeviceSerial}, // i.MX serial ports
		{regexp.MustCompile(`^ttyO\d+$`), mode.DeviceSerial},   // OMAP serial ports
		{regexp.MustCompile(`^ttySAC\d+$`), mode.DeviceSerial}, // Samsung serial ports
		{regexp.MustCompile(`^ttyTHS\d+$`), mode.DeviceSerial}, // Tegra serial ports
		{regexp.MustCompile(`^cu\..+$`), mode.DeviceSerial},    // macOS call-out devices
		{regexp.MustCompile(`^cuau\d+$`), mode.DeviceSerial},   // BSD call-out devices
		{regexp.MustCompile(`^lp\d+$`), mode.DeviceParallel},   // Line printers
		{regexp.MustCompile(`^parport\d+$`), mode.DeviceParallel},
	}
	usbPrinterPattern = regexp.MustCompile(`^lp\d+$`)
)

// DevRegistry enumerates device nodes under /dev and keeps DOS-style
// aliases (LPT1=COM2) in the state store.
type DevRegistry struct {
	DevDir string
	Ports  PortMap
	Store  *state.Store
	Logger *zap.Logger

	// Replaced in tests.
	isDevice  func(path string) bool
	enumerate func() ([]*enumerator.PortDetails, error)
}

var (
	_ mode.DeviceRegistry = (*DevRegistry)(nil)
	_ DeviceDescriber     = (*DevRegistry)(nil)
)

// NewDevRegistry returns a registry scanning /dev.
func NewDevRegistry(ports PortMap, store *state.Store, logger *zap.Logger) *DevRegistry {
	return &DevRegistry{
		DevDir:    "/dev",
		Ports:     ports,
		Store:     store,
		Logger:    logger,
		isDevice:  isCharacterDevice,
		enumerate: enumerator.GetDetailedPortsList,
	}
}

func newNativeRegistry(opts Options) mode.DeviceRegistry {
	return NewDevRegistry(opts.Ports, opts.Store, opts.logger())
}

// isCharacterDevice checks if the given path is a character device
func isCharacterDevice(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// scan returns the serial, parallel and USB printer nodes in DevDir.
func (r *DevRegistry) scan() ([]DeviceInfo, error) {
	entries, err := os.ReadDir(r.DevDir)
	if err != nil {
		return nil, err
	}

	var devices []DeviceInfo
	for _, entry := range entries {
		name := entry.Name()
		for _, p := range devicePatterns {
			if !p.pattern.MatchString(name) {
				continue
			}
			path := filepath.Join(r.DevDir, name)
			if r.isDevice(path) {
				devices = append(devices, DeviceInfo{
					Name:        name,
					Path:        path,
					Kind:        p.kind,
					Description: deviceDescription(path),
				})
			}
			break
		}
	}

	// USB printers live in a subdirectory that may not exist.
	usbDir := filepath.Join(r.DevDir, "usb")
	if entries, err := os.ReadDir(usbDir); err == nil {
		for _, entry := range entries {
			path := filepath.Join(usbDir, entry.Name())
			if usbPrinterPattern.MatchString(entry.Name()) && r.isDevice(path) {
				devices = append(devices, DeviceInfo{
					Name:        "usb/" + entry.Name(),
					Path:        path,
					Kind:        mode.DevicePrinter,
					Description: deviceDescription(path),
				})
			}
		}
	}
	return devices, nil
}

// Describe lists device nodes, serial ports found by the enumerator and
// defined aliases.
func (r *DevRegistry) Describe() ([]DeviceInfo, error) {
	devices, err := r.scan()
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", r.DevDir, err)
	}

	if r.enumerate != nil {
		ports, err := r.enumerate()
		if err != nil {
			// Enumeration needs sysfs; the directory scan is enough without it.
			r.Logger.Debug("serial enumeration failed", zap.Error(err))
		} else {
			devices = mergeEnumerated(devices, ports)
		}
	}
	nameDevices(devices, r.Ports)

	f, err := r.Store.Load()
	if err != nil {
		return nil, err
	}
	for alias, target := range f.Aliases {
		devices = append(devices, DeviceInfo{
			Name:        alias,
			Path:        target,
			Kind:        mode.ClassifyDevice(alias),
			Description: "Redirected to " + target,
		})
	}

	sortDevices(devices)
	return devices, nil
}

// ListDevices returns the names of all known devices.
func (r *DevRegistry) ListDevices() ([]string, error) {
	devices, err := r.Describe()
	if err != nil {
		return nil, err
	}
	return deviceNames(devices), nil
}

// ResolveAlias returns the target of an alias, or the device node a DOS
// name maps to when no alias is defined.
func (r *DevRegistry) ResolveAlias(name string) (string, error) {
	f, err := r.Store.Load()
	if err != nil {
		return "", err
	}
	if target, ok := f.Alias(name); ok {
		return target, nil
	}

	if strings.EqualFold(name, "PRN") {
		name = "LPT1"
	}
	if n, ok := PortNumber(name, "LPT"); ok {
		return filepath.Join(r.DevDir, "lp"+strconv.Itoa(n-1)), nil
	}
	if _, ok := PortNumber(name, "COM"); ok {
		return r.Ports.Resolve(name)
	}
	return "", fmt.Errorf("%w - %s", mode.ErrIllegalDevice, name)
}

// DefineAlias redirects a parallel port. Pointing a port at itself removes
// the redirection.
func (r *DevRegistry) DefineAlias(name, target string) error {
	if _, ok := PortNumber(name, "LPT"); !ok {
		return fmt.Errorf("%w - %s", mode.ErrIllegalDevice, name)
	}
	if strings.EqualFold(name, target) {
		target = ""
	}
	r.Logger.Debug("defining device alias", zap.String("device", name), zap.String("target", target))
	return r.Store.Update(func(f *state.File) error {
		f.SetAlias(name, strings.ToUpper(target))
		return nil
	})
}
