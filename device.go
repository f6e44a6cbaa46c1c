package mode

import (
	"regexp"
	"strings"
)

// SerialPorts is the serial collaborator. Names are DOS-style port names
// such as "COM1"; mapping them to platform devices is the collaborator's
// job.
type SerialPorts interface {
	QuerySerial(name string) (SerialState, error)
	ApplySerial(name string, state SerialState) error
}

// Console is the console collaborator.
type Console interface {
	ScreenBuffer
	KeyboardRepeat() (KeyboardRepeat, error)
	SetKeyboardRepeat(kbd KeyboardRepeat) error
	CodePage() (uint32, error)
	SetCodePage(cp uint32) error
}

// DeviceRegistry is the device alias collaborator.
type DeviceRegistry interface {
	// ListDevices returns the currently defined device names.
	ListDevices() ([]string, error)
	// ResolveAlias returns the target an alias currently points at. The
	// last path element of the target is the device that receives I/O.
	ResolveAlias(name string) (string, error)
	// DefineAlias points name at target.
	DefineAlias(name, target string) error
}

// DeviceKind classifies an enumerated device name.
type DeviceKind int

const (
	DeviceOther DeviceKind = iota
	DeviceSerial
	DevicePrinter
	DeviceParallel
)

func (k DeviceKind) String() string {
	switch k {
	case DeviceSerial:
		return "serial"
	case DevicePrinter:
		return "printer"
	case DeviceParallel:
		return "parallel"
	default:
		return "other"
	}
}

var (
	unixSerialPattern   = regexp.MustCompile(`tty(USB|ACM|S|AMA|mxc|O|SAC|THS)\d+$|cu\.`)
	unixPrinterPattern  = regexp.MustCompile(`usb/lp\d+$`)
	unixParallelPattern = regexp.MustCompile(`(^|/)(lp|parport)\d+$`)
)

// ClassifyDevice reports what kind of device a name refers to. It accepts
// DOS names (COM1, PRN, LPT1) as well as Unix device paths.
func ClassifyDevice(name string) DeviceKind {
	upper := strings.ToUpper(name)
	switch {
	case strings.Contains(upper, "COM"), unixSerialPattern.MatchString(name):
		return DeviceSerial
	case strings.Contains(upper, "PRN"), unixPrinterPattern.MatchString(name):
		return DevicePrinter
	case strings.Contains(upper, "LPT"), unixParallelPattern.MatchString(name):
		return DeviceParallel
	}
	return DeviceOther
}

// lastPathElement returns the part of a device target after the final path
// separator, accepting both '\' and '/'. A target without a separator is
// returned whole.
func lastPathElement(target string) string {
	return target[strings.LastIndexAny(target, `\/`)+1:]
}
