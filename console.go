package mode

import "math"

// ConsoleGeometry is a screen buffer size in character cells.
type ConsoleGeometry struct {
	Columns int16 `yaml:"columns"`
	Lines   int16 `yaml:"lines"`
}

// KeyboardRepeat holds the typematic delay and speed. The OS clamps values
// that are out of range.
type KeyboardRepeat struct {
	Delay uint32 `yaml:"delay"`
	Speed uint32 `yaml:"speed"`
}

// ConsoleState is the console snapshot the settings parser starts from.
type ConsoleState struct {
	Geometry ConsoleGeometry
	Keyboard KeyboardRepeat
}

// ConsoleRequest is the outcome of parsing console settings. Exactly one of
// Display and Keyboard is set.
type ConsoleRequest struct {
	Display  *ConsoleGeometry
	Keyboard *KeyboardRepeat
}

type consoleGroup uint8

const (
	groupNone consoleGroup = iota
	groupDisplay
	groupKeyboard
)

// ParseConsoleSettings parses "COLS=c LINES=n" or "RATE=r DELAY=d". The
// display and keyboard groups cannot be mixed in one command. Unspecified
// values come from current.
func ParseConsoleSettings(current ConsoleState, arg string) (ConsoleRequest, error) {
	geom := current.Geometry
	kbd := current.Keyboard
	group := groupNone
	c := NewCursor(arg)

	for {
		c = c.SkipSpaces()
		if c.Empty() {
			break
		}

		var ok bool
		switch {
		case group != groupKeyboard && c.HasPrefixFold("COLS="):
			group = groupDisplay
			geom.Columns, c, ok = scanDimension(c.Advance(len("COLS=")))
		case group != groupKeyboard && c.HasPrefixFold("LINES="):
			group = groupDisplay
			geom.Lines, c, ok = scanDimension(c.Advance(len("LINES=")))
		case group != groupDisplay && c.HasPrefixFold("RATE="):
			group = groupKeyboard
			kbd.Speed, c, ok = ScanNumber(c.Advance(len("RATE=")))
		case group != groupDisplay && c.HasPrefixFold("DELAY="):
			group = groupKeyboard
			kbd.Delay, c, ok = ScanNumber(c.Advance(len("DELAY=")))
		}
		if !ok {
			return ConsoleRequest{}, invalidParameter(arg)
		}
	}

	switch group {
	case groupDisplay:
		return ConsoleRequest{Display: &geom}, nil
	case groupKeyboard:
		return ConsoleRequest{Keyboard: &kbd}, nil
	}
	return ConsoleRequest{}, invalidParameter(arg)
}

// ParseLegacyConsole parses the bare "cols[,lines]" form. Lines default to
// the current value.
func ParseLegacyConsole(current ConsoleGeometry, arg string) (ConsoleGeometry, error) {
	geom := current
	c := NewCursor(arg).SkipSpaces()

	var ok bool
	if geom.Columns, c, ok = scanDimension(c); !ok {
		return current, invalidParameter(arg)
	}

	c = c.SkipSpaces()
	if c.Empty() {
		return geom, nil
	}
	if c, ok = c.ConsumeByte(','); !ok {
		return current, invalidParameter(arg)
	}
	if geom.Lines, c, ok = scanDimension(c.SkipSpaces()); !ok {
		return current, invalidParameter(arg)
	}
	if !c.SkipSpaces().Empty() {
		return current, invalidParameter(arg)
	}
	return geom, nil
}

// ParseCodePageSelect parses "SELECT=n" or its short form "SEL=n".
func ParseCodePageSelect(arg string) (uint32, error) {
	c := NewCursor(arg).SkipSpaces()

	next, ok := c.ConsumeFold("SELECT=")
	if !ok {
		if next, ok = c.ConsumeFold("SEL="); !ok {
			return 0, invalidParameter(arg)
		}
	}

	cp, next, ok := ScanNumber(next)
	if !ok || !next.SkipSpaces().Empty() {
		return 0, invalidParameter(arg)
	}
	return cp, nil
}

func scanDimension(c Cursor) (int16, Cursor, bool) {
	v, next, ok := ScanNumber(c)
	if !ok || v > math.MaxInt16 {
		return 0, c, false
	}
	return int16(v), next, true
}
