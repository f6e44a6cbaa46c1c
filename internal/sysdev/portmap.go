package sysdev

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/allbin/go-mode"
)

// PortMap translates DOS port names to platform device paths.
type PortMap struct {
	// Template is expanded for ports without an explicit entry. {n} is the
	// port number and {index} is the port number minus one.
	Template string
	// Ports holds explicit COMn to path entries. Keys are case-insensitive.
	Ports map[string]string
}

// DefaultPortTemplate returns the template used when none is configured.
func DefaultPortTemplate() string {
	switch runtime.GOOS {
	case "windows":
		return `\\.\COM{n}`
	case "darwin":
		return "/dev/cu.serial{n}"
	case "freebsd", "openbsd", "netbsd", "dragonfly":
		return "/dev/cuau{index}"
	default:
		return "/dev/ttyS{index}"
	}
}

// PortNumber extracts n from a name of the form COMn. The prefix must match
// exactly, ignoring case.
func PortNumber(name, prefix string) (int, bool) {
	if len(name) <= len(prefix) || !strings.EqualFold(name[:len(prefix)], prefix) {
		return 0, false
	}
	n, err := strconv.Atoi(name[len(prefix):])
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// Resolve returns the device path for a COMn name.
func (m PortMap) Resolve(name string) (string, error) {
	for key, path := range m.Ports {
		if strings.EqualFold(key, name) {
			return path, nil
		}
	}

	n, ok := PortNumber(name, "COM")
	if !ok {
		return "", fmt.Errorf("%w - %s", mode.ErrIllegalDevice, name)
	}

	tmpl := m.Template
	if tmpl == "" {
		tmpl = DefaultPortTemplate()
	}
	return strings.NewReplacer(
		"{n}", strconv.Itoa(n),
		"{index}", strconv.Itoa(n-1),
	).Replace(tmpl), nil
}
