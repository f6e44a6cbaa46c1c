package mode

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var usageLines = []string{
	"Device Status:     MODE [device] [/STATUS]",
	"Select code page:  MODE CON[:] CP SELECT=yyy",
	"Code page status:  MODE CON[:] CP [/STATUS]",
	"Display mode:      MODE CON[:] [COLS=c] [LINES=n]",
	"Typematic rate:    MODE CON[:] [RATE=r DELAY=d]",
	"Redirect printing: MODE LPTn[:]=COMm[:]",
	"Serial port:       MODE COMm[:] [BAUD=b] [PARITY=p] [DATA=d] [STOP=s]\n" +
		"                            [to=on|off] [xon=on|off] [odsr=on|off]\n" +
		"                            [octs=on|off] [dtr=on|off|hs]\n" +
		"                            [rts=on|off|hs|tg] [idsr=on|off]",
	"Legacy display:    MODE cols[,lines]",
}

// WriteUsage prints the command summary shown for /?.
func WriteUsage(w io.Writer) {
	fmt.Fprint(w, "\nConfigures system devices.\n\n")
	for _, line := range usageLines {
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w)
}

// statusWriter renders MODE-style status blocks. Headers are bold when the
// output is a terminal and plain text otherwise.
type statusWriter struct {
	w      io.Writer
	header lipgloss.Style
}

func newStatusWriter(w io.Writer) *statusWriter {
	return &statusWriter{
		w:      w,
		header: lipgloss.NewRenderer(w).NewStyle().Bold(true),
	}
}

func (s *statusWriter) device(name string) {
	fmt.Fprintf(s.w, "\n%s\n%s\n", s.header.Render("Status for device "+name+":"), strings.Repeat("-", 23))
}

func (s *statusWriter) field(width int, label string, value any) {
	fmt.Fprintf(s.w, "    %-*s%v\n", width, label+":", value)
}

func (s *statusWriter) line(format string, args ...any) {
	fmt.Fprintf(s.w, "    "+format+"\n", args...)
}

func onOff(v bool) string {
	if v {
		return "ON"
	}
	return "OFF"
}

const serialLabelWidth = 17

func (s *statusWriter) serial(name string, st SerialState) {
	cfg := st.Config
	s.device(name)
	s.field(serialLabelWidth, "Baud", cfg.BaudRate)
	s.field(serialLabelWidth, "Parity", cfg.Parity)
	s.field(serialLabelWidth, "Data Bits", cfg.DataBits)
	s.field(serialLabelWidth, "Stop Bits", cfg.StopBits)
	s.field(serialLabelWidth, "Timeout", onOff(st.Timeouts.Enabled()))
	s.field(serialLabelWidth, "XON/XOFF", onOff(cfg.XonXoff))
	s.field(serialLabelWidth, "CTS handshaking", onOff(cfg.CTSFlow))
	s.field(serialLabelWidth, "DSR handshaking", onOff(cfg.DSRFlow))
	s.field(serialLabelWidth, "DSR sensitivity", onOff(cfg.DSRSensitivity))
	s.field(serialLabelWidth, "DTR circuit", cfg.DTR)
	s.field(serialLabelWidth, "RTS circuit", cfg.RTS)
}

const consoleLabelWidth = 16

// consoleStatus holds the console values that could be read. Nil fields are
// omitted from the report.
type consoleStatus struct {
	Geometry *ConsoleGeometry
	Keyboard *KeyboardRepeat
	CodePage uint32
}

func (s *statusWriter) console(st consoleStatus) {
	s.device("CON")
	if st.Geometry != nil {
		s.field(consoleLabelWidth, "Lines", st.Geometry.Lines)
		s.field(consoleLabelWidth, "Columns", st.Geometry.Columns)
	}
	if st.Keyboard != nil {
		s.field(consoleLabelWidth, "Keyboard delay", st.Keyboard.Delay)
		s.field(consoleLabelWidth, "Keyboard rate", st.Keyboard.Speed)
	}
	s.field(consoleLabelWidth, "Code page", st.CodePage)
}

func (s *statusWriter) codePage(cp uint32) {
	s.device("CON")
	s.field(consoleLabelWidth, "Code page", cp)
}

func (s *statusWriter) parallel(name, target string) {
	s.device(name)
	if routed, ok := reroutedTo(name, target); ok {
		s.line("Printer output is being rerouted to serial port %s", routed)
		return
	}
	s.line("Printer output is not being rerouted.")
}

// reroutedTo reports the serial port a parallel device alias points at, if
// any. The alias is considered rerouted only when its final target element
// names a serial device other than the alias itself.
func reroutedTo(name, target string) (string, bool) {
	last := lastPathElement(target)
	if last == "" || strings.EqualFold(last, name) || ClassifyDevice(last) != DeviceSerial {
		return "", false
	}
	return last, true
}

func (s *statusWriter) devices(names []string) {
	for _, name := range names {
		switch ClassifyDevice(name) {
		case DeviceSerial:
			s.line("Found serial device - %s", name)
		case DevicePrinter:
			s.line("Found printer device - %s", name)
		case DeviceParallel:
			s.line("Found parallel device - %s", name)
		}
	}
}
