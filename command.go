package mode

import (
	"fmt"
	"strings"
)

// MaxCommandLine is the longest flattened argument string accepted.
const MaxCommandLine = 32767

// CommandKind identifies what a command line asks for.
type CommandKind int

const (
	CommandListDevices CommandKind = iota
	CommandHelp
	CommandParallelStatus
	CommandParallelRedirect
	CommandSerialStatus
	CommandSerialSet
	CommandConsoleStatus
	CommandCodePageStatus
	CommandCodePageSet
	CommandConsoleSet
	CommandConsoleLegacy
)

// Command is a routed command line. Port and Target are port numbers
// (LPTn, COMm); Args is the unparsed tail for the device sub-grammar.
type Command struct {
	Kind   CommandKind
	Port   int
	Target int
	Args   string
}

// Device returns the DOS name of the device the command addresses.
func (c Command) Device() string {
	switch c.Kind {
	case CommandParallelStatus, CommandParallelRedirect:
		return fmt.Sprintf("LPT%d", c.Port)
	case CommandSerialStatus, CommandSerialSet:
		return fmt.Sprintf("COM%d", c.Port)
	case CommandListDevices, CommandHelp:
		return ""
	}
	return "CON"
}

// FlattenArgs joins argv with single spaces. MODE.COM does not require
// blanks between tokens, so the grammar works on the joined line rather
// than on individual arguments.
func FlattenArgs(args []string) (string, error) {
	line := strings.Join(args, " ")
	if len(line) > MaxCommandLine {
		return "", fmt.Errorf("%w: command line is %d bytes", ErrOutOfMemory, len(line))
	}
	return line, nil
}

// ParseCommand routes a flattened command line on its leading token.
func ParseCommand(line string) (Command, error) {
	c := NewCursor(line).SkipSpaces()

	if c.Empty() {
		return Command{Kind: CommandListDevices}, nil
	}
	if strings.Contains(line, "/?") || strings.Contains(line, "-?") {
		return Command{Kind: CommandHelp}, nil
	}
	if isStatusSwitch(c) {
		return Command{Kind: CommandListDevices}, nil
	}

	if next, ok := c.ConsumeFold("LPT"); ok {
		return parseParallel(line, next)
	}

	if next, ok := c.ConsumeFold("COM"); ok {
		port, tail, ok := scanPort(next)
		if !ok {
			return Command{}, invalidParameter(line)
		}
		if tail.Empty() || isStatusSwitch(tail) {
			return Command{Kind: CommandSerialStatus, Port: port}, nil
		}
		return Command{Kind: CommandSerialSet, Port: port, Args: tail.Rest()}, nil
	}

	if next, ok := c.ConsumeFold("CON"); ok {
		return parseConsole(next), nil
	}

	return Command{Kind: CommandConsoleLegacy, Args: c.Rest()}, nil
}

func parseParallel(line string, c Cursor) (Command, error) {
	port, tail, ok := scanPort(c)
	if !ok {
		return Command{}, invalidParameter(line)
	}
	if tail.Empty() || isStatusSwitch(tail) {
		return Command{Kind: CommandParallelStatus, Port: port}, nil
	}

	next, ok := tail.ConsumeByte('=')
	if !ok {
		return Command{}, invalidParameter(line)
	}
	if next, ok = next.SkipSpaces().ConsumeFold("COM"); !ok {
		return Command{}, invalidParameter(line)
	}
	target, rest, ok := scanPort(next)
	if !ok || !rest.Empty() {
		return Command{}, invalidParameter(line)
	}
	return Command{Kind: CommandParallelRedirect, Port: port, Target: target}, nil
}

func parseConsole(c Cursor) Command {
	c, _ = c.ConsumeByte(':')
	c = c.SkipSpaces()

	if c.Empty() || isStatusSwitch(c) {
		return Command{Kind: CommandConsoleStatus}
	}

	next, ok := c.ConsumeFold("CODEPAGE")
	if !ok {
		next, ok = c.ConsumeFold("CP")
	}
	if ok {
		next = next.SkipSpaces()
		if next.Empty() || isStatusSwitch(next) {
			return Command{Kind: CommandCodePageStatus}
		}
		return Command{Kind: CommandCodePageSet, Args: next.Rest()}
	}

	return Command{Kind: CommandConsoleSet, Args: c.Rest()}
}

// scanPort consumes a one or two digit port number in 1..99, an optional
// colon and any blanks after it.
func scanPort(c Cursor) (int, Cursor, bool) {
	port := 0
	n := 0
	for n < 2 {
		b, ok := c.Peek()
		if !ok || b < '0' || b > '9' {
			break
		}
		port = port*10 + int(b-'0')
		c = c.Advance(1)
		n++
	}
	if n == 0 || port == 0 {
		return 0, c, false
	}
	// COM123 is not COM12 followed by 3.
	if b, ok := c.Peek(); ok && b >= '0' && b <= '9' {
		return 0, c, false
	}
	c, _ = c.ConsumeByte(':')
	return port, c.SkipSpaces(), true
}

func isStatusSwitch(c Cursor) bool {
	return c.HasPrefixFold("/STA")
}

// SerialSyntax selects between the positional and keyword serial grammars.
type SerialSyntax int

const (
	SyntaxKeyword SerialSyntax = iota
	SyntaxPositional
)

// SelectSerialSyntax picks the grammar for a serial argument tail. The
// keyword form is used when a KEY= token appears before the first comma,
// or anywhere in a tail without commas. A keyword string that contains a
// comma is still handed to the keyword parser, which rejects it.
func SelectSerialSyntax(tail string) SerialSyntax {
	prefix := tail
	if comma := strings.IndexByte(tail, ','); comma >= 0 {
		prefix = tail[:comma]
	}
	if hasKeyAssignment(prefix) {
		return SyntaxKeyword
	}
	return SyntaxPositional
}

// hasKeyAssignment reports whether s contains a run of letters directly
// followed by '='.
func hasKeyAssignment(s string) bool {
	letters := 0
	for i := 0; i < len(s); i++ {
		b := s[i] | 0x20
		switch {
		case b >= 'a' && b <= 'z':
			letters++
		case s[i] == '=' && letters > 0:
			return true
		default:
			letters = 0
		}
	}
	return false
}
