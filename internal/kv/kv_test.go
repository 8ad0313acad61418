package kv

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	_, ok, err := s.Get("sceneData_MainMenu")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set("sceneData_MainMenu", `{"actors":[]}`))
	require.NoError(t, s.Set("sceneData_MainMenu", `{"actors":[1]}`))
	v, ok, err := s.Get("sceneData_MainMenu")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"actors":[1]}`, v)

	require.NoError(t, s.Remove("sceneData_MainMenu"))
	require.NoError(t, s.Remove("sceneData_MainMenu"))
	_, ok, err = s.Get("sceneData_MainMenu")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemStore(t *testing.T) {
	s, err := NewMemStore()
	require.NoError(t, err)
	exerciseStore(t, s)
}

func TestFSStore_AwkwardKeys(t *testing.T) {
	s, err := NewMemStore()
	require.NoError(t, err)
	for _, key := range []string{"a/b", "..", ".", "sceneData_Long Road", "ünï"} {
		require.NoError(t, s.Set(key, key))
		v, ok, err := s.Get(key)
		require.NoError(t, err, key)
		assert.True(t, ok, key)
		assert.Equal(t, key, v)
	}
	keys, err := s.Keys()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a/b", "..", ".", "sceneData_Long Road", "ünï"}, keys)
}

func TestFSStore_Closed(t *testing.T) {
	s, err := NewMemStore()
	require.NoError(t, err)
	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.Set("k", "v"), ErrClosed)
	_, _, err = s.Get("k")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestOpenDir_SurvivesReopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "store")
	s, err := OpenDir(dir)
	require.NoError(t, err)
	exerciseStore(t, s)
	require.NoError(t, s.Set("gameSettings", `{"version":1}`))

	again, err := OpenDir(dir)
	require.NoError(t, err)
	v, ok, err := again.Get("gameSettings")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"version":1}`, v)
}

func TestSQLStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sandbox.db")
	s, err := OpenSQLite(path)
	require.NoError(t, err)
	exerciseStore(t, s)
	require.NoError(t, s.Set("k", "v"))
	require.NoError(t, s.Close())

	again, err := OpenSQLite(path)
	require.NoError(t, err)
	defer again.Close()
	v, ok, err := again.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}
