package sysdev

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.bug.st/serial/enumerator"
	"go.uber.org/zap"
	"golang.org/x/sys/windows"

	"github.com/allbin/go-mode"
)

// DosDevices lists and defines MS-DOS device names.
type DosDevices struct {
	Ports  PortMap
	Logger *zap.Logger
}

var (
	_ mode.DeviceRegistry = (*DosDevices)(nil)
	_ DeviceDescriber     = (*DosDevices)(nil)
)

func newNativeRegistry(opts Options) mode.DeviceRegistry {
	return &DosDevices{Ports: opts.Ports, Logger: opts.logger()}
}

// queryDosDevice calls QueryDosDeviceW, growing the buffer until the
// result fits. A nil name lists every defined device.
func queryDosDevice(name *uint16) ([]string, error) {
	buf := make([]uint16, 4096)
	for {
		n, err := windows.QueryDosDevice(name, &buf[0], uint32(len(buf)))
		if err == nil {
			return splitMultiString(buf[:n]), nil
		}
		if !errors.Is(err, windows.ERROR_INSUFFICIENT_BUFFER) || len(buf) >= 1<<20 {
			return nil, fmt.Errorf("QueryDosDevice: %w", err)
		}
		buf = make([]uint16, len(buf)*2)
	}
}

// splitMultiString splits a double NUL terminated UTF-16 list.
func splitMultiString(buf []uint16) []string {
	var out []string
	start := 0
	for i, c := range buf {
		if c != 0 {
			continue
		}
		if i > start {
			out = append(out, windows.UTF16ToString(buf[start:i]))
		}
		start = i + 1
	}
	return out
}

// ListDevices returns every defined MS-DOS device name.
func (r *DosDevices) ListDevices() ([]string, error) {
	return queryDosDevice(nil)
}

// Describe lists serial and parallel devices with enumerator metadata.
func (r *DosDevices) Describe() ([]DeviceInfo, error) {
	names, err := r.ListDevices()
	if err != nil {
		return nil, err
	}

	var devices []DeviceInfo
	for _, name := range names {
		kind := mode.ClassifyDevice(name)
		if kind == mode.DeviceOther {
			continue
		}
		target, _ := r.ResolveAlias(name)
		path := name
		if kind == mode.DeviceSerial {
			path, _ = r.Ports.Resolve(name)
		}
		devices = append(devices, DeviceInfo{
			Name:        name,
			Path:        path,
			Kind:        kind,
			Description: target,
		})
	}

	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		r.Logger.Debug("serial enumeration failed", zap.Error(err))
	}
	// The enumerator reports bare COMn names.
	for _, p := range ports {
		for i := range devices {
			if strings.EqualFold(devices[i].Name, p.Name) {
				applyPortDetails(&devices[i], p)
			}
		}
	}

	sortDevices(devices)
	return devices, nil
}

// ResolveAlias returns the NT path an MS-DOS device name points at.
func (r *DosDevices) ResolveAlias(name string) (string, error) {
	p, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return "", err
	}
	targets, err := queryDosDevice(p)
	if err != nil {
		return "", err
	}
	if len(targets) == 0 {
		return "", fmt.Errorf("%w - %s", mode.ErrIllegalDevice, name)
	}
	return targets[0], nil
}

// DefineAlias points name at the device target, e.g. LPT1 at COM2.
// Pointing a device at itself removes the most recent redefinition.
func (r *DosDevices) DefineAlias(name, target string) error {
	if _, ok := PortNumber(name, "LPT"); !ok {
		return fmt.Errorf("%w - %s", mode.ErrIllegalDevice, name)
	}
	namePtr, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return err
	}

	if strings.EqualFold(name, target) {
		return windows.DefineDosDevice(windows.DDD_REMOVE_DEFINITION, namePtr, nil)
	}

	targetPtr, err := windows.UTF16PtrFromString(filepath.Join(`\DosDevices`, target))
	if err != nil {
		return err
	}
	return windows.DefineDosDevice(windows.DDD_RAW_TARGET_PATH, namePtr, targetPtr)
}
