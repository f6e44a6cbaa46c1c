package mode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line string
		want Command
	}{
		{"", Command{Kind: CommandListDevices}},
		{"   ", Command{Kind: CommandListDevices}},
		{"/STATUS", Command{Kind: CommandListDevices}},
		{"/sta", Command{Kind: CommandListDevices}},
		{"/?", Command{Kind: CommandHelp}},
		{"COM1 -?", Command{Kind: CommandHelp}},
		{"LPT1", Command{Kind: CommandParallelStatus, Port: 1}},
		{"lpt2: /status", Command{Kind: CommandParallelStatus, Port: 2}},
		{"LPT1=COM2", Command{Kind: CommandParallelRedirect, Port: 1, Target: 2}},
		{"LPT3:=com12:", Command{Kind: CommandParallelRedirect, Port: 3, Target: 12}},
		{"LPT1= COM2", Command{Kind: CommandParallelRedirect, Port: 1, Target: 2}},
		{"COM1", Command{Kind: CommandSerialStatus, Port: 1}},
		{"com42: /STA", Command{Kind: CommandSerialStatus, Port: 42}},
		{"COM1 baud=96", Command{Kind: CommandSerialSet, Port: 1, Args: "baud=96"}},
		{"COM3: 96,n,8,1", Command{Kind: CommandSerialSet, Port: 3, Args: "96,n,8,1"}},
		{"COM1baud=96", Command{Kind: CommandSerialSet, Port: 1, Args: "baud=96"}},
		{"CON", Command{Kind: CommandConsoleStatus}},
		{"con: /status", Command{Kind: CommandConsoleStatus}},
		{"CON CP", Command{Kind: CommandCodePageStatus}},
		{"CON: CODEPAGE /STATUS", Command{Kind: CommandCodePageStatus}},
		{"CON CP SELECT=850", Command{Kind: CommandCodePageSet, Args: "SELECT=850"}},
		{"CON COLS=80 LINES=25", Command{Kind: CommandConsoleSet, Args: "COLS=80 LINES=25"}},
		{"CON:rate=30", Command{Kind: CommandConsoleSet, Args: "rate=30"}},
		{"80,50", Command{Kind: CommandConsoleLegacy, Args: "80,50"}},
		{"  132", Command{Kind: CommandConsoleLegacy, Args: "132"}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := ParseCommand(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCommandRejects(t *testing.T) {
	tests := []string{
		"COM",
		"COM0",
		"COMx",
		"LPT",
		"LPT0",
		"LPT1=",
		"LPT1=LPT2",
		"LPT1=COM2 extra",
		"LPT1 COM2",
		"COM123",
		"COM100 96",
		"LPT123",
		"LPT1=COM123",
	}

	for _, line := range tests {
		t.Run(line, func(t *testing.T) {
			_, err := ParseCommand(line)
			assert.ErrorIs(t, err, ErrInvalidParameter)
		})
	}
}

func TestCommandDevice(t *testing.T) {
	tests := []struct {
		cmd  Command
		want string
	}{
		{Command{Kind: CommandSerialSet, Port: 4}, "COM4"},
		{Command{Kind: CommandParallelRedirect, Port: 1, Target: 2}, "LPT1"},
		{Command{Kind: CommandCodePageSet}, "CON"},
		{Command{Kind: CommandConsoleLegacy}, "CON"},
		{Command{Kind: CommandListDevices}, ""},
	}

	for _, tt := range tests {
		if got := tt.cmd.Device(); got != tt.want {
			t.Errorf("Device() = %q, want %q", got, tt.want)
		}
	}
}

func TestFlattenArgs(t *testing.T) {
	line, err := FlattenArgs([]string{"COM1:", "baud=96", "parity=n"})
	require.NoError(t, err)
	assert.Equal(t, "COM1: baud=96 parity=n", line)

	line, err = FlattenArgs(nil)
	require.NoError(t, err)
	assert.Empty(t, line)

	_, err = FlattenArgs([]string{strings.Repeat("x", MaxCommandLine+1)})
	assert.ErrorIs(t, err, ErrOutOfMemory)
}

func TestSelectSerialSyntax(t *testing.T) {
	tests := []struct {
		tail string
		want SerialSyntax
	}{
		{"96,n,8,1", SyntaxPositional},
		{"9600", SyntaxPositional},
		{" 96 , e", SyntaxPositional},
		{"baud=96", SyntaxKeyword},
		{"BAUD=9600 PARITY=N", SyntaxKeyword},
		{"baud=96,n", SyntaxKeyword},
		{"96,baud=12", SyntaxPositional},
		{"to=on", SyntaxKeyword},
		{"=9600", SyntaxPositional},
	}

	for _, tt := range tests {
		if got := SelectSerialSyntax(tt.tail); got != tt.want {
			t.Errorf("SelectSerialSyntax(%q) = %v, want %v", tt.tail, got, tt.want)
		}
	}
}
