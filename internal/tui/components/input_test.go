package components

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInputHistory(t *testing.T) {
	in := NewInput("")
	in.AddToHistory("BAUD=9600")
	in.AddToHistory("  ")
	in.AddToHistory("DATA=7")
	in.AddToHistory("DATA=7")

	in.SetValue("PAR")
	in.NavigateHistoryUp()
	assert.Equal(t, "DATA=7", in.Value())
	in.NavigateHistoryUp()
	assert.Equal(t, "BAUD=9600", in.Value())
	in.NavigateHistoryUp()
	assert.Equal(t, "BAUD=9600", in.Value(), "stops at the oldest entry")

	in.NavigateHistoryDown()
	assert.Equal(t, "DATA=7", in.Value())
	in.NavigateHistoryDown()
	assert.Equal(t, "PAR", in.Value(), "returns to the line being typed")
}

func TestInputHistoryLimit(t *testing.T) {
	in := NewInput("")
	for n := 0; n < maxHistory+5; n++ {
		in.AddToHistory(fmt.Sprintf("BAUD=%d", n))
	}
	assert.Len(t, in.history, maxHistory)
	assert.Equal(t, "BAUD=5", in.history[0])
}
