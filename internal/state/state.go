// Package state persists device settings that the operating system has no
// place for: serial fields termios cannot represent, LPT aliases and the
// selected code page.
package state

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/allbin/go-mode"
)

// File is the on-disk document.
type File struct {
	Serial   map[string]mode.SerialState `yaml:"serial,omitempty"`
	Aliases  map[string]string           `yaml:"aliases,omitempty"`
	Keyboard *mode.KeyboardRepeat        `yaml:"keyboard,omitempty"`
	CodePage uint32                      `yaml:"code_page,omitempty"`
}

// SerialState returns the stored state of a port.
func (f *File) SerialState(name string) (mode.SerialState, bool) {
	st, ok := f.Serial[strings.ToUpper(name)]
	return st, ok
}

// SetSerialState records the state of a port.
func (f *File) SetSerialState(name string, st mode.SerialState) {
	if f.Serial == nil {
		f.Serial = make(map[string]mode.SerialState)
	}
	f.Serial[strings.ToUpper(name)] = st
}

// Alias returns the target a device alias points at.
func (f *File) Alias(name string) (string, bool) {
	target, ok := f.Aliases[strings.ToUpper(name)]
	return target, ok
}

// SetAlias points name at target. An empty target removes the alias.
func (f *File) SetAlias(name, target string) {
	name = strings.ToUpper(name)
	if target == "" {
		delete(f.Aliases, name)
		return
	}
	if f.Aliases == nil {
		f.Aliases = make(map[string]string)
	}
	f.Aliases[name] = target
}

// Store reads and writes a state File. A Store with an empty path keeps the
// document in memory only.
type Store struct {
	path string

	mu     sync.Mutex
	memory *File
}

// NewStore returns a store backed by path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the document. A missing file yields an empty document.
func (s *Store) Load() (*File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() (*File, error) {
	if s.path == "" {
		if s.memory == nil {
			s.memory = &File{}
		}
		copied := *s.memory
		copied.Serial = maps.Clone(s.memory.Serial)
		copied.Aliases = maps.Clone(s.memory.Aliases)
		return &copied, nil
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return &File{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse state file %s: %w", s.path, err)
	}
	return &f, nil
}

// Update loads the document, applies fn and saves the result. Nothing is
// written if fn fails.
func (s *Store) Update(fn func(f *File) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		return err
	}
	return s.save(f)
}

// save writes through a temporary file so a crash never leaves a truncated
// document behind.
func (s *Store) save(f *File) error {
	if s.path == "" {
		s.memory = f
		return nil
	}

	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".state-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create state file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}
