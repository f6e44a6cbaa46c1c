package mode

import (
	"errors"
	"fmt"
)

// Predefined error types for robust error handling
var (
	ErrInvalidParameter  = errors.New("invalid parameter")
	ErrDeviceQueryFailed = errors.New("device query failed")
	ErrDeviceApplyFailed = errors.New("device apply failed")
	ErrIllegalDevice     = errors.New("illegal device name")
	ErrOutOfMemory       = errors.New("not enough memory")
	ErrUnsupported       = errors.New("not supported on this platform")
	ErrInvalidBaudRate   = errors.New("invalid baud rate")
)

// ParameterError reports argument text that failed to parse.
type ParameterError struct {
	Arg string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("Invalid parameter - %s", e.Arg)
}

func (e *ParameterError) Unwrap() error {
	return ErrInvalidParameter
}

func invalidParameter(arg string) error {
	return &ParameterError{Arg: arg}
}

// DeviceError reports a collaborator failure while querying or applying a
// device configuration.
type DeviceError struct {
	Op     string // "get" or "set"
	Device string
	Err    error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("failed to %s the status for device %s: %v", e.Op, e.Device, e.Err)
}

// Unwrap exposes both the failure category and the underlying platform error.
func (e *DeviceError) Unwrap() []error {
	category := ErrDeviceApplyFailed
	if e.Op == "get" {
		category = ErrDeviceQueryFailed
	}
	return []error{category, e.Err}
}

func queryFailed(device string, err error) error {
	return &DeviceError{Op: "get", Device: device, Err: err}
}

func applyFailed(device string, err error) error {
	return &DeviceError{Op: "set", Device: device, Err: err}
}
