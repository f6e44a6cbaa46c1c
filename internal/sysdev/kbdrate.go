package sysdev

import (
	"math"

	"github.com/allbin/go-mode"
)

// Typematic ranges. Delay counts quarter seconds above 250 ms, speed runs
// from about 2.5 to 30 characters per second.
const (
	maxKeyboardDelay = 3
	maxKeyboardSpeed = 31
	minRepeatRate    = 2.5
	maxRepeatRate    = 30.0
)

// clampRepeat applies the same correction the OS applies to out of range
// typematic values.
func clampRepeat(kbd mode.KeyboardRepeat) mode.KeyboardRepeat {
	return mode.KeyboardRepeat{
		Delay: kbd.Delay % (maxKeyboardDelay + 1),
		Speed: min(kbd.Speed, maxKeyboardSpeed),
	}
}

// repeatToMillis converts typematic settings to a delay and repeat period
// in milliseconds.
func repeatToMillis(kbd mode.KeyboardRepeat) (delayMs, periodMs int) {
	kbd = clampRepeat(kbd)
	delayMs = int(kbd.Delay+1) * 250
	cps := minRepeatRate + float64(kbd.Speed)*(maxRepeatRate-minRepeatRate)/maxKeyboardSpeed
	periodMs = int(math.Round(1000 / cps))
	return delayMs, periodMs
}

// millisToRepeat converts a delay and repeat period in milliseconds back to
// the nearest typematic settings.
func millisToRepeat(delayMs, periodMs int) mode.KeyboardRepeat {
	delay := math.Round(float64(delayMs)/250) - 1
	delay = math.Max(0, math.Min(delay, maxKeyboardDelay))

	speed := 0.0
	if periodMs > 0 {
		cps := 1000 / float64(periodMs)
		speed = math.Round((cps - minRepeatRate) * maxKeyboardSpeed / (maxRepeatRate - minRepeatRate))
		speed = math.Max(0, math.Min(speed, maxKeyboardSpeed))
	}
	return mode.KeyboardRepeat{Delay: uint32(delay), Speed: uint32(speed)}
}
