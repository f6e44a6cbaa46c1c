package mode

import (
	"math"
	"strings"
)

// Cursor is an immutable view over the unconsumed suffix of an argument
// string. Scanners take a cursor and return a new one; the input cursor is
// never modified, so a failed scan leaves the caller where it was.
type Cursor struct {
	rest string
}

// NewCursor returns a cursor positioned at the start of s.
func NewCursor(s string) Cursor {
	return Cursor{rest: s}
}

// Rest returns the unconsumed text.
func (c Cursor) Rest() string { return c.rest }

// Empty reports whether all text has been consumed.
func (c Cursor) Empty() bool { return c.rest == "" }

// Peek returns the next byte without consuming it.
func (c Cursor) Peek() (byte, bool) {
	if c.rest == "" {
		return 0, false
	}
	return c.rest[0], true
}

// Advance consumes n bytes.
func (c Cursor) Advance(n int) Cursor {
	if n > len(c.rest) {
		n = len(c.rest)
	}
	return Cursor{rest: c.rest[n:]}
}

// SkipSpaces consumes any leading blanks.
func (c Cursor) SkipSpaces() Cursor {
	return Cursor{rest: strings.TrimLeft(c.rest, " ")}
}

// HasPrefixFold reports whether the text starts with prefix, ignoring ASCII
// case.
func (c Cursor) HasPrefixFold(prefix string) bool {
	return len(c.rest) >= len(prefix) && strings.EqualFold(c.rest[:len(prefix)], prefix)
}

// ConsumeFold consumes prefix if present, ignoring ASCII case.
func (c Cursor) ConsumeFold(prefix string) (Cursor, bool) {
	if !c.HasPrefixFold(prefix) {
		return c, false
	}
	return c.Advance(len(prefix)), true
}

// ConsumeByte consumes b if it is the next byte.
func (c Cursor) ConsumeByte(b byte) (Cursor, bool) {
	if next, ok := c.Peek(); ok && next == b {
		return c.Advance(1), true
	}
	return c, false
}

// ScanNumber consumes one or more ASCII decimal digits. It fails when the
// first byte is not a digit or the value does not fit in 32 bits.
func ScanNumber(c Cursor) (uint32, Cursor, bool) {
	var value uint64
	n := 0
	for n < len(c.rest) && c.rest[n] >= '0' && c.rest[n] <= '9' {
		value = value*10 + uint64(c.rest[n]-'0')
		if value > math.MaxUint32 {
			return 0, c, false
		}
		n++
	}
	if n == 0 {
		return 0, c, false
	}
	return uint32(value), c.Advance(n), true
}

// LineMode is the value of an ON|OFF|HS|TG flow-control token.
type LineMode uint8

const (
	ModeOff LineMode = iota
	ModeOn
	ModeHandshake
	ModeToggle
)

func (m LineMode) String() string {
	if int(m) < len(controlNames) {
		return controlNames[m]
	}
	return "UNKNOWN"
}

var modeTokens = []struct {
	token string
	mode  LineMode
}{
	{"OFF", ModeOff},
	{"ON", ModeOn},
	{"HS", ModeHandshake},
	{"TG", ModeToggle},
}

// ScanMode consumes one of OFF, ON, HS or TG, ignoring case.
func ScanMode(c Cursor) (LineMode, Cursor, bool) {
	for _, t := range modeTokens {
		if next, ok := c.ConsumeFold(t.token); ok {
			return t.mode, next, true
		}
	}
	return 0, c, false
}

// ScanBaud consumes a baud rate, expanding the MODE.COM abbreviations.
// Only the exact short forms expand: 110 typed in full stays 110.
func ScanBaud(c Cursor) (uint32, Cursor, bool) {
	baud, next, ok := ScanNumber(c)
	if !ok {
		return 0, c, false
	}
	switch baud {
	case 11, 15, 30, 60:
		baud *= 10
	case 12, 24, 48, 96:
		baud *= 100
	case 19:
		baud = 19200
	}
	return baud, next, true
}

// ScanParity consumes a single N, O, E, M or S, ignoring case.
func ScanParity(c Cursor) (Parity, Cursor, bool) {
	b, ok := c.Peek()
	if !ok {
		return 0, c, false
	}
	var p Parity
	switch b | 0x20 {
	case 'n':
		p = ParityNone
	case 'o':
		p = ParityOdd
	case 'e':
		p = ParityEven
	case 'm':
		p = ParityMark
	case 's':
		p = ParitySpace
	default:
		return 0, c, false
	}
	return p, c.Advance(1), true
}

// ScanDataBits consumes a data bit count in [5,8].
func ScanDataBits(c Cursor) (uint8, Cursor, bool) {
	bits, next, ok := ScanNumber(c)
	if !ok || bits < 5 || bits > 8 {
		return 0, c, false
	}
	return uint8(bits), next, true
}

// ScanStopBits consumes 1, 1.5 or 2.
func ScanStopBits(c Cursor) (StopBits, Cursor, bool) {
	if next, ok := c.ConsumeFold("1.5"); ok {
		return StopBitsOnePointFive, next, true
	}
	if next, ok := c.ConsumeByte('1'); ok {
		return StopBitsOne, next, true
	}
	if next, ok := c.ConsumeByte('2'); ok {
		return StopBitsTwo, next, true
	}
	return 0, c, false
}
