package models

import (
	"context"
	"fmt"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/allbin/go-mode/internal/sysdev"
)

// InputMode represents the current input mode (vim-like)
type InputMode int

const (
	InputModeNormal InputMode = iota
	InputModeInsert
)

func (m InputMode) String() string {
	switch m {
	case InputModeNormal:
		return "NORMAL"
	case InputModeInsert:
		return "INSERT"
	default:
		return "NORMAL"
	}
}

// CommandFunc runs one MODE command line and returns what it printed and
// whether it succeeded.
type CommandFunc func(line string) (output string, ok bool)

// ListFunc enumerates devices.
type ListFunc func() ([]sysdev.DeviceInfo, error)

// DevicesMsg carries a fresh device listing.
type DevicesMsg struct {
	Devices []sysdev.DeviceInfo
	Err     error
}

// StatusMsg carries the report printed by one MODE command.
type StatusMsg struct {
	Device string
	Line   string
	Output string
	OK     bool
}

// ConsoleDevice is the pseudo-row for the console.
const ConsoleDevice = "CON"

type BrowserModel struct {
	run  CommandFunc
	list ListFunc

	devices  []sysdev.DeviceInfo
	selected string
	err      error
	ready    bool

	inputMode InputMode

	cancel context.CancelFunc
	ctx    context.Context
	mu     sync.RWMutex
}

func NewBrowserModel(run CommandFunc, list ListFunc) *BrowserModel {
	ctx, cancel := context.WithCancel(context.Background())

	return &BrowserModel{
		run:       run,
		list:      list,
		inputMode: InputModeNormal,
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (m *BrowserModel) Devices() []sysdev.DeviceInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.devices
}

func (m *BrowserModel) SetDevices(devices []sysdev.DeviceInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.devices = devices
}

// Selected returns the name of the highlighted device.
func (m *BrowserModel) Selected() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.selected
}

// Select highlights name and reports whether the selection changed.
func (m *BrowserModel) Select(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.selected == name {
		return false
	}
	m.selected = name
	return true
}

// Device returns the listing entry for name, if any.
func (m *BrowserModel) Device(name string) (sysdev.DeviceInfo, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, d := range m.devices {
		if d.Name == name {
			return d, true
		}
	}
	return sysdev.DeviceInfo{}, false
}

func (m *BrowserModel) GetError() error {
	return m.err
}

func (m *BrowserModel) SetError(err error) {
	m.err = err
}

func (m *BrowserModel) IsReady() bool {
	return m.ready
}

func (m *BrowserModel) SetReady(ready bool) {
	m.ready = ready
}

func (m *BrowserModel) GetInputMode() InputMode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.inputMode
}

func (m *BrowserModel) SetInputMode(mode InputMode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inputMode = mode
}

func (m *BrowserModel) IsInInsertMode() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.inputMode == InputModeInsert
}

func (m *BrowserModel) GetContext() context.Context {
	return m.ctx
}

func (m *BrowserModel) Cancel() {
	if m.cancel != nil {
		m.cancel()
	}
}

// StatusLine returns the MODE command that reports on name, or "" when
// the device has no DOS name MODE can address.
func StatusLine(name string) string {
	if _, ok := sysdev.PortNumber(name, "COM"); ok {
		return name + " /STATUS"
	}
	if _, ok := sysdev.PortNumber(name, "LPT"); ok {
		return name
	}
	if strings.EqualFold(name, ConsoleDevice) {
		return ConsoleDevice
	}
	return ""
}

// Addressable reports whether MODE accepts name as a device.
func Addressable(name string) bool {
	return StatusLine(name) != ""
}

// CommandLine prefixes settings with the device they apply to.
func CommandLine(name, settings string) string {
	settings = strings.TrimSpace(settings)
	if settings == "" {
		return StatusLine(name)
	}
	if strings.EqualFold(name, ConsoleDevice) {
		return ConsoleDevice + " " + settings
	}
	if !Addressable(name) {
		return settings
	}
	return name + " " + settings
}

// LoadDevices enumerates devices in the background.
func (m *BrowserModel) LoadDevices() tea.Cmd {
	return func() tea.Msg {
		devices, err := m.list()
		return DevicesMsg{Devices: devices, Err: err}
	}
}

// QueryStatus reports on name in the background.
func (m *BrowserModel) QueryStatus(name string) tea.Cmd {
	line := StatusLine(name)
	if line == "" {
		d, _ := m.Device(name)
		return func() tea.Msg {
			return StatusMsg{Device: name, Output: describe(d), OK: true}
		}
	}
	return m.Execute(name, line)
}

// Execute runs a command line for name in the background.
func (m *BrowserModel) Execute(name, line string) tea.Cmd {
	ctx := m.GetContext()
	return func() tea.Msg {
		if ctx.Err() != nil {
			return nil
		}
		out, ok := m.run(line)
		return StatusMsg{Device: name, Line: line, Output: out, OK: ok}
	}
}

// describe renders what is known about a device MODE cannot address.
func describe(d sysdev.DeviceInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Device %s\n", d.Name)
	fmt.Fprintf(&b, "  Path:         %s\n", d.Path)
	fmt.Fprintf(&b, "  Description:  %s\n", d.Description)
	if d.IsUSB {
		fmt.Fprintf(&b, "  USB ID:       %s:%s\n", d.VendorID, d.ProductID)
		if d.Product != "" {
			fmt.Fprintf(&b, "  Product:      %s\n", d.Product)
		}
		if d.SerialNumber != "" {
			fmt.Fprintf(&b, "  Serial:       %s\n", d.SerialNumber)
		}
	}
	b.WriteString("\nMap it to a COM port in the go-mode config to configure it.\n")
	return b.String()
}
