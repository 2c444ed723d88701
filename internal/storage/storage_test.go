package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

func newMem(t *testing.T) *FSStore {
	t.Helper()
	s, err := NewMemStore("tileviz.")
	require.NoError(t, err)
	return s
}

func TestLoadMissingKey(t *testing.T) {
	s := newMem(t)
	var r record
	found, err := s.Load("room", &r)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newMem(t)
	require.NoError(t, s.Save("room", record{Name: "kitchen", Value: 2.5}))

	var r record
	found, err := s.Load("room", &r)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, record{Name: "kitchen", Value: 2.5}, r)
}

func TestSaveOverwrites(t *testing.T) {
	s := newMem(t)
	require.NoError(t, s.Save("room", record{Name: "a", Value: 1}))
	require.NoError(t, s.Save("room", record{Name: "b"}))

	var r record
	_, err := s.Load("room", &r)
	require.NoError(t, err)
	assert.Equal(t, "b", r.Name)
}

func TestKeysAndDelete(t *testing.T) {
	s := newMem(t)
	require.NoError(t, s.Save("walls", []int{1}))
	require.NoError(t, s.Save("room", 1))

	keys, err := s.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"room", "walls"}, keys)

	require.NoError(t, s.Delete("room"))
	require.NoError(t, s.Delete("room"))
	keys, err = s.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"walls"}, keys)
}

func TestDirStoreCorruptRecord(t *testing.T) {
	dir := t.TempDir()
	s, err := NewDirStore(dir, "tileviz.")
	require.NoError(t, err)

	require.NoError(t, s.Save("scene", record{Name: "x"}))
	_, err = os.Stat(filepath.Join(dir, "tileviz.scene.json"))
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "tileviz.scene.json"), []byte("{not json"), 0644))
	var r record
	found, err := s.Load("scene", &r)
	assert.True(t, found)
	assert.Error(t, err)
}
