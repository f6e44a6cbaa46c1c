package mode

import (
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"

	"go.uber.org/zap"
)

// Runner executes MODE commands against a set of device collaborators. A
// nil collaborator makes the commands that need it fail with
// ErrUnsupported.
type Runner struct {
	Serial  SerialPorts
	Console Console
	Devices DeviceRegistry

	// Out receives status reports and error messages. Defaults to stdout.
	Out io.Writer
	// Logger traces collaborator calls. Defaults to a no-op logger.
	Logger *zap.Logger
}

func (r *Runner) out() io.Writer {
	if r.Out == nil {
		return os.Stdout
	}
	return r.Out
}

func (r *Runner) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}

// Run executes argv and returns the process exit code: 0 on success, 1 if
// the command could not be parsed or applied. Failures are reported on Out.
func (r *Runner) Run(args []string) int {
	line, err := FlattenArgs(args)
	if err == nil {
		err = r.Execute(line)
	}
	if err != nil {
		r.logger().Debug("command failed", zap.Strings("args", args), zap.Error(err))
		r.Report(err)
		return 1
	}
	return 0
}

// Execute parses and executes one flattened command line.
func (r *Runner) Execute(line string) error {
	cmd, err := ParseCommand(line)
	if err != nil {
		return err
	}
	r.logger().Debug("dispatching command",
		zap.Int("kind", int(cmd.Kind)),
		zap.String("device", cmd.Device()),
		zap.String("args", cmd.Args))

	st := newStatusWriter(r.out())
	switch cmd.Kind {
	case CommandHelp:
		WriteUsage(r.out())
		return nil
	case CommandListDevices:
		return r.listDevices(st)
	case CommandParallelStatus:
		return r.showParallel(st, cmd.Device())
	case CommandParallelRedirect:
		return r.redirectParallel(st, cmd.Device(), fmt.Sprintf("COM%d", cmd.Target))
	case CommandSerialStatus:
		return r.showSerial(st, cmd.Device())
	case CommandSerialSet:
		return r.setSerial(st, cmd.Device(), cmd.Args)
	case CommandConsoleStatus:
		return r.showConsole(st)
	case CommandCodePageStatus:
		return r.showCodePage(st)
	case CommandCodePageSet:
		return r.setCodePage(st, cmd.Args)
	case CommandConsoleSet:
		return r.setConsole(cmd.Args)
	case CommandConsoleLegacy:
		return r.setLegacyConsole(cmd.Args)
	}
	return invalidParameter(line)
}

// Report writes the MODE-style message for err.
func (r *Runner) Report(err error) {
	w := r.out()

	var perr *ParameterError
	var derr *DeviceError
	switch {
	case errors.As(err, &perr):
		fmt.Fprintln(w, perr.Error())
		return
	case errors.Is(err, ErrOutOfMemory):
		fmt.Fprintln(w, "ERROR: Not enough memory")
		return
	case errors.Is(err, ErrIllegalDevice) && errors.As(err, &derr):
		fmt.Fprintf(w, "Illegal device name - %s\n", derr.Device)
	case errors.As(err, &derr):
		fmt.Fprintf(w, "Failed to %s the status for device %s:\n", derr.Op, derr.Device)
	default:
		fmt.Fprintf(w, "ERROR: %v\n", err)
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		fmt.Fprintf(w, "Last error = 0x%x\n", uint64(errno))
	}
}

func (r *Runner) listDevices(st *statusWriter) error {
	if r.Devices == nil {
		return ErrUnsupported
	}
	names, err := r.Devices.ListDevices()
	if err != nil {
		return queryFailed("devices", err)
	}
	st.devices(names)
	return nil
}

func (r *Runner) showParallel(st *statusWriter, name string) error {
	if r.Devices == nil {
		return ErrUnsupported
	}
	target, err := r.Devices.ResolveAlias(name)
	if err != nil {
		return queryFailed(name, err)
	}
	st.parallel(name, target)
	return nil
}

func (r *Runner) redirectParallel(st *statusWriter, name, target string) error {
	if r.Devices == nil {
		return ErrUnsupported
	}
	r.logger().Debug("redirecting parallel port", zap.String("device", name), zap.String("target", target))
	if err := r.Devices.DefineAlias(name, target); err != nil {
		return applyFailed(name, err)
	}
	return r.showParallel(st, name)
}

func (r *Runner) showSerial(st *statusWriter, name string) error {
	if r.Serial == nil {
		return ErrUnsupported
	}
	state, err := r.Serial.QuerySerial(name)
	if err != nil {
		return queryFailed(name, err)
	}
	st.serial(name, state)
	return nil
}

// setSerial queries the port, builds the new state from args and applies it
// only if the whole string parsed and the result validates.
func (r *Runner) setSerial(st *statusWriter, name, args string) error {
	if r.Serial == nil {
		return ErrUnsupported
	}
	current, err := r.Serial.QuerySerial(name)
	if err != nil {
		return queryFailed(name, err)
	}

	build := BuildNewSerialConfig
	if SelectSerialSyntax(args) == SyntaxPositional {
		build = BuildOldSerialConfig
	}
	next, err := build(current, args)
	if err != nil {
		return err
	}
	if err := next.Config.Validate(); err != nil {
		r.logger().Debug("built configuration is invalid", zap.Error(err))
		// Fields the command left alone came from the device.
		if qerr := current.Config.Validate(); qerr != nil {
			return queryFailed(name, qerr)
		}
		return invalidParameter(args)
	}

	r.logger().Debug("applying serial configuration",
		zap.String("device", name),
		zap.Uint32("baud", next.Config.BaudRate),
		zap.Stringer("parity", next.Config.Parity),
		zap.Uint8("data_bits", next.Config.DataBits),
		zap.Stringer("stop_bits", next.Config.StopBits))
	if err := r.Serial.ApplySerial(name, next); err != nil {
		return applyFailed(name, err)
	}
	return r.showSerial(st, name)
}

func (r *Runner) readConsole() (consoleStatus, error) {
	var status consoleStatus

	info, err := r.Console.BufferInfo()
	if err != nil && !errors.Is(err, ErrUnsupported) {
		return status, queryFailed("CON", err)
	}
	if err == nil {
		status.Geometry = &ConsoleGeometry{Columns: info.Size.X, Lines: info.Size.Y}
	}

	kbd, err := r.Console.KeyboardRepeat()
	if err != nil && !errors.Is(err, ErrUnsupported) {
		return status, queryFailed("CON", err)
	}
	if err == nil {
		status.Keyboard = &kbd
	}

	if status.CodePage, err = r.Console.CodePage(); err != nil {
		return status, queryFailed("CON", err)
	}
	return status, nil
}

func (r *Runner) showConsole(st *statusWriter) error {
	if r.Console == nil {
		return ErrUnsupported
	}
	status, err := r.readConsole()
	if err != nil {
		return err
	}
	st.console(status)
	return nil
}

func (r *Runner) showCodePage(st *statusWriter) error {
	if r.Console == nil {
		return ErrUnsupported
	}
	cp, err := r.Console.CodePage()
	if err != nil {
		return queryFailed("CON", err)
	}
	st.codePage(cp)
	return nil
}

func (r *Runner) setCodePage(st *statusWriter, args string) error {
	if r.Console == nil {
		return ErrUnsupported
	}
	cp, err := ParseCodePageSelect(args)
	if err != nil {
		return err
	}
	r.logger().Debug("selecting code page", zap.Uint32("code_page", cp))
	if err := r.Console.SetCodePage(cp); err != nil {
		return applyFailed("CON", err)
	}
	return r.showCodePage(st)
}

func (r *Runner) setConsole(args string) error {
	if r.Console == nil {
		return ErrUnsupported
	}
	info, err := r.Console.BufferInfo()
	if err != nil {
		return queryFailed("CON", err)
	}
	current := ConsoleState{Geometry: ConsoleGeometry{Columns: info.Size.X, Lines: info.Size.Y}}
	if kbd, err := r.Console.KeyboardRepeat(); err == nil {
		current.Keyboard = kbd
	} else if !errors.Is(err, ErrUnsupported) {
		return queryFailed("CON", err)
	}

	req, err := ParseConsoleSettings(current, args)
	if err != nil {
		return err
	}

	if req.Display != nil {
		r.logger().Debug("resizing console",
			zap.Int16("columns", req.Display.Columns),
			zap.Int16("lines", req.Display.Lines))
		return ResizeConsole(r.Console, *req.Display)
	}

	r.logger().Debug("setting keyboard repeat",
		zap.Uint32("delay", req.Keyboard.Delay),
		zap.Uint32("speed", req.Keyboard.Speed))
	if err := r.Console.SetKeyboardRepeat(*req.Keyboard); err != nil {
		return applyFailed("CON", err)
	}
	return nil
}

func (r *Runner) setLegacyConsole(args string) error {
	if r.Console == nil {
		return ErrUnsupported
	}
	info, err := r.Console.BufferInfo()
	if err != nil {
		return queryFailed("CON", err)
	}
	geom, err := ParseLegacyConsole(ConsoleGeometry{Columns: info.Size.X, Lines: info.Size.Y}, args)
	if err != nil {
		return err
	}
	return ResizeConsole(r.Console, geom)
}
