package state

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allbin/go-mode"
)

func sampleState() mode.SerialState {
	cfg := mode.DefaultSerialConfig()
	cfg.XonXoff = true
	cfg.Parity = mode.ParityMark
	cfg.RTS = mode.RTSToggle
	return mode.SerialState{
		Config:   cfg,
		Timeouts: mode.TimeoutConfig{ReadTotalMs: 60000, WriteTotalMs: 60000},
	}
}

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.yaml")
	store := NewStore(path)

	err := store.Update(func(f *File) error {
		f.SetSerialState("com1", sampleState())
		f.SetAlias("lpt1", "COM2")
		f.CodePage = 850
		f.Keyboard = &mode.KeyboardRepeat{Delay: 2, Speed: 20}
		return nil
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "parity: mark")
	assert.Contains(t, string(data), "rts: toggle")

	f, err := NewStore(path).Load()
	require.NoError(t, err)

	st, ok := f.SerialState("COM1")
	require.True(t, ok)
	assert.Equal(t, sampleState(), st)

	target, ok := f.Alias("LPT1")
	require.True(t, ok)
	assert.Equal(t, "COM2", target)
	assert.Equal(t, uint32(850), f.CodePage)
	assert.Equal(t, &mode.KeyboardRepeat{Delay: 2, Speed: 20}, f.Keyboard)
}

func TestStoreMissingFile(t *testing.T) {
	f, err := NewStore(filepath.Join(t.TempDir(), "none.yaml")).Load()
	require.NoError(t, err)
	assert.Empty(t, f.Serial)
	assert.Empty(t, f.Aliases)
}

func TestStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	require.NoError(t, os.WriteFile(path, []byte("serial: [unterminated"), 0o644))

	_, err := NewStore(path).Load()
	assert.Error(t, err)
}

func TestStoreUpdateFailureWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	store := NewStore(path)
	boom := errors.New("boom")

	err := store.Update(func(f *File) error {
		f.CodePage = 1252
		return boom
	})
	assert.ErrorIs(t, err, boom)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestMemoryStore(t *testing.T) {
	store := NewStore("")

	require.NoError(t, store.Update(func(f *File) error {
		f.SetAlias("LPT2", "COM1")
		return nil
	}))

	f, err := store.Load()
	require.NoError(t, err)
	target, _ := f.Alias("lpt2")
	assert.Equal(t, "COM1", target)

	// Loaded documents are copies.
	f.SetAlias("LPT2", "COM9")
	again, err := store.Load()
	require.NoError(t, err)
	target, _ = again.Alias("LPT2")
	assert.Equal(t, "COM1", target)
}

func TestSetAliasEmptyRemoves(t *testing.T) {
	var f File
	f.SetAlias("LPT1", "COM1")
	f.SetAlias("lpt1", "")

	_, ok := f.Alias("LPT1")
	assert.False(t, ok)
}
