// Package sysdev provides the platform device collaborators used by the
// mode runner: serial ports, the console and the device alias registry.
package sysdev

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/allbin/go-mode"
	"github.com/allbin/go-mode/internal/state"
)

// Serial driver names.
const (
	DriverNative   = "native"
	DriverPortable = "portable"
)

// Options configures the collaborators.
type Options struct {
	Driver         string
	Ports          PortMap
	Store          *state.Store
	KeyboardDevice string
	XtermResize    bool
	Logger         *zap.Logger
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// Devices bundles the collaborators for one platform.
type Devices struct {
	Serial   mode.SerialPorts
	Console  mode.Console
	Registry mode.DeviceRegistry
}

// New builds the collaborators for the running platform.
func New(opts Options) (*Devices, error) {
	if opts.Store == nil {
		opts.Store = state.NewStore("")
	}

	var serialPorts mode.SerialPorts
	switch opts.Driver {
	case DriverNative, "":
		serialPorts = newNativeSerial(opts)
	case DriverPortable:
		serialPorts = NewPortableSerial(opts.Ports, opts.Store, opts.logger())
	default:
		return nil, fmt.Errorf("unknown serial driver %q", opts.Driver)
	}

	return &Devices{
		Serial:   serialPorts,
		Console:  newNativeConsole(opts),
		Registry: newNativeRegistry(opts),
	}, nil
}

// Runner returns a mode.Runner wired to the collaborators.
func (d *Devices) Runner(logger *zap.Logger) *mode.Runner {
	return &mode.Runner{
		Serial:  d.Serial,
		Console: d.Console,
		Devices: d.Registry,
		Logger:  logger,
	}
}
