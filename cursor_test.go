package mode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScanBaud(t *testing.T) {
	tests := []struct {
		in   string
		want uint32
		rest string
		ok   bool
	}{
		{"11", 110, "", true},
		{"15", 150, "", true},
		{"30", 300, "", true},
		{"60", 600, "", true},
		{"12", 1200, "", true},
		{"24", 2400, "", true},
		{"48", 4800, "", true},
		{"96", 9600, "", true},
		{"19", 19200, "", true},
		{"110", 110, "", true},
		{"9600,n", 9600, ",n", true},
		{"115200", 115200, "", true},
		{"57600 ", 57600, " ", true},
		{"4294967295", 4294967295, "", true},
		{"4294967296", 0, "4294967296", false},
		{"n", 0, "n", false},
		{"", 0, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, next, ok := ScanBaud(NewCursor(tt.in))
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.rest, next.Rest())
		})
	}
}

func TestScanParity(t *testing.T) {
	tests := []struct {
		in   string
		want Parity
		ok   bool
	}{
		{"n", ParityNone, true},
		{"O", ParityOdd, true},
		{"e", ParityEven, true},
		{"M", ParityMark, true},
		{"s", ParitySpace, true},
		{"x", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, next, ok := ScanParity(NewCursor(tt.in))
		if ok != tt.ok || got != tt.want {
			t.Errorf("ScanParity(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
		if !ok && next.Rest() != tt.in {
			t.Errorf("ScanParity(%q) consumed input on failure", tt.in)
		}
	}
}

func TestScanDataBits(t *testing.T) {
	for bits := uint32(0); bits <= 10; bits++ {
		in := string(rune('0' + bits%10))
		if bits == 10 {
			in = "10"
		}
		got, _, ok := ScanDataBits(NewCursor(in))
		wantOK := bits >= 5 && bits <= 8
		if ok != wantOK {
			t.Errorf("ScanDataBits(%q) ok = %v, want %v", in, ok, wantOK)
		}
		if ok && uint32(got) != bits {
			t.Errorf("ScanDataBits(%q) = %d", in, got)
		}
	}
}

func TestScanStopBits(t *testing.T) {
	tests := []struct {
		in   string
		want StopBits
		rest string
		ok   bool
	}{
		{"1", StopBitsOne, "", true},
		{"1.5", StopBitsOnePointFive, "", true},
		{"2", StopBitsTwo, "", true},
		{"1,x", StopBitsOne, ",x", true},
		{"1.", StopBitsOne, ".", true},
		{"3", 0, "3", false},
	}

	for _, tt := range tests {
		got, next, ok := ScanStopBits(NewCursor(tt.in))
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.rest, next.Rest(), tt.in)
	}
}

func TestScanMode(t *testing.T) {
	tests := []struct {
		in   string
		want LineMode
		ok   bool
	}{
		{"on", ModeOn, true},
		{"ON", ModeOn, true},
		{"oN", ModeOn, true},
		{"OFF", ModeOff, true},
		{"hs", ModeHandshake, true},
		{"Tg", ModeToggle, true},
		{"yes", 0, false},
		{"xyz", 0, false},
	}

	for _, tt := range tests {
		got, _, ok := ScanMode(NewCursor(tt.in))
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestCursorIsImmutable(t *testing.T) {
	c := NewCursor("COM1: baud=96")
	next, ok := c.ConsumeFold("com")
	assert.True(t, ok)
	assert.Equal(t, "1: baud=96", next.Rest())
	assert.Equal(t, "COM1: baud=96", c.Rest())

	_, ok = c.ConsumeFold("LPT")
	assert.False(t, ok)
	assert.Equal(t, "baud=96", NewCursor("   baud=96").SkipSpaces().Rest())
	assert.True(t, c.Advance(100).Empty())
}
