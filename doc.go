// Package mode implements the MODE.COM command grammar for querying and
// reconfiguring console, parallel-port redirection and serial-port devices.
//
// The package is split into a pure parsing engine and a small runner that
// drives platform collaborators. Parsing never touches a device: every
// builder produces a complete, validated record first, and only that record
// is handed to a collaborator.
//
// # Command Line
//
// All arguments are flattened into one string, so the historical
// no-space-required grammar keeps working:
//
//	mode COM1baud=9600parity=ndata=8stop=1xon=onto=on
//	mode COM1 baud=9600 parity=n data=8 stop=1 xon=on to=on
//
// Both lines above are equivalent.
//
// Recognized leading tokens:
//
//	MODE [device] [/STATUS]                 device status
//	MODE CON[:] CP SELECT=yyy               select code page
//	MODE CON[:] CP [/STATUS]                code page status
//	MODE CON[:] [COLS=c] [LINES=n]          display mode
//	MODE CON[:] [RATE=r DELAY=d]            typematic rate
//	MODE LPTn[:]=COMm[:]                    redirect printing
//	MODE COMm[:] [BAUD=b] [PARITY=p] ...    serial port
//	MODE cols[,lines]                       legacy display mode
//
// # Serial Syntax
//
// Serial settings come in two flavours. The old positional form
//
//	mode COM1 96,n,8,1,x
//
// starts from hard-coded defaults for every omitted trailing field. The
// keyword form
//
//	mode COM1 baud=96 parity=n
//
// starts from the port's current configuration and only changes the keys
// that were given.
//
// # Running
//
// A Runner wires the engine to collaborators:
//
//	r := &mode.Runner{
//	    Serial:  serialPorts,
//	    Console: console,
//	    Devices: registry,
//	    Out:     os.Stdout,
//	}
//	os.Exit(r.Run(os.Args[1:]))
//
// # Error Handling
//
// Parse failures wrap ErrInvalidParameter and carry the offending text in a
// *ParameterError. Collaborator failures wrap ErrDeviceQueryFailed or
// ErrDeviceApplyFailed in a *DeviceError:
//
//	if errors.Is(err, mode.ErrInvalidParameter) {
//	    // nothing was applied
//	}
package mode
