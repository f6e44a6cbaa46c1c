package mode

import (
	"fmt"
	"strings"
)

type fakeSerial struct {
	ports    map[string]SerialState
	applied  []string
	queryErr error
	applyErr error
}

func newFakeSerial() *fakeSerial {
	return &fakeSerial{ports: map[string]SerialState{"COM1": configuredState()}}
}

func (f *fakeSerial) QuerySerial(name string) (SerialState, error) {
	if f.queryErr != nil {
		return SerialState{}, f.queryErr
	}
	st, ok := f.ports[name]
	if !ok {
		return SerialState{}, fmt.Errorf("%w - %s", ErrIllegalDevice, name)
	}
	return st, nil
}

func (f *fakeSerial) ApplySerial(name string, st SerialState) error {
	if f.applyErr != nil {
		return f.applyErr
	}
	f.ports[name] = st
	f.applied = append(f.applied, name)
	return nil
}

type fakeConsole struct {
	*fakeScreen
	keyboard    KeyboardRepeat
	keyboardErr error
	setKeyboard *KeyboardRepeat
	codePage    uint32
	codePageErr error
}

func newFakeConsole() *fakeConsole {
	return &fakeConsole{
		fakeScreen: newFakeScreen(80, 25, 80, 25, 0),
		keyboard:   KeyboardRepeat{Delay: 1, Speed: 31},
		codePage:   437,
	}
}

func (f *fakeConsole) KeyboardRepeat() (KeyboardRepeat, error) {
	return f.keyboard, f.keyboardErr
}

func (f *fakeConsole) SetKeyboardRepeat(kbd KeyboardRepeat) error {
	f.setKeyboard = &kbd
	f.keyboard = kbd
	return nil
}

func (f *fakeConsole) CodePage() (uint32, error) {
	return f.codePage, f.codePageErr
}

func (f *fakeConsole) SetCodePage(cp uint32) error {
	if f.codePageErr != nil {
		return f.codePageErr
	}
	f.codePage = cp
	return nil
}

type fakeRegistry struct {
	names     []string
	aliases   map[string]string
	defineErr error
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{
		names:   []string{"COM1", "LPT1", "PRN", "NUL", "C:"},
		aliases: map[string]string{"LPT1": `\Device\Parallel0`},
	}
}

func (f *fakeRegistry) ListDevices() ([]string, error) {
	return f.names, nil
}

func (f *fakeRegistry) ResolveAlias(name string) (string, error) {
	target, ok := f.aliases[strings.ToUpper(name)]
	if !ok {
		return "", fmt.Errorf("%w - %s", ErrIllegalDevice, name)
	}
	return target, nil
}

func (f *fakeRegistry) DefineAlias(name, target string) error {
	if f.defineErr != nil {
		return f.defineErr
	}
	f.aliases[strings.ToUpper(name)] = `\DosDevices\` + target
	return nil
}
