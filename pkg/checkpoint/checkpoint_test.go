package checkpoint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rosterscraper/pkg/roster"
)

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, "instructors.csv")
	require.NoError(t, err)

	set := roster.NewSet()
	set.Add(roster.Name{First: "Jane", Last: "Doe"})
	set.Add(roster.Name{First: "Sam", Last: "Lee"})

	require.NoError(t, store.Save(set))
	require.True(t, store.Exists())

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Len())
	assert.True(t, loaded.Contains(roster.Name{First: "Jane", Last: "Doe"}))
	assert.True(t, loaded.Contains(roster.Name{First: "Sam", Last: "Lee"}))
}

func TestLoadMissingFileYieldsEmptySet(t *testing.T) {
	store, err := NewStore(t.TempDir(), "instructors.csv")
	require.NoError(t, err)

	set, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
}

func TestSaveQuotesDelimiters(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, "instructors.csv")
	require.NoError(t, err)

	set := roster.NewSet()
	set.Add(roster.Name{First: "Jane", Last: "Doe, Jr."})
	require.NoError(t, store.Save(set))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Doe, Jr."`)

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.True(t, loaded.Contains(roster.Name{First: "Jane", Last: "Doe, Jr."}))
}

func TestMonotonicGrowth(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, "instructors.csv")
	require.NoError(t, err)

	set := roster.NewSet()
	set.Add(roster.Name{First: "Jane", Last: "Doe"})
	require.NoError(t, store.Save(set))

	c1, err := store.Load()
	require.NoError(t, err)

	set.Add(roster.Name{First: "Sam", Last: "Lee"})
	require.NoError(t, store.Save(set))

	c2, err := store.Load()
	require.NoError(t, err)

	// Every checkpoint is a superset of the one before it.
	for _, n := range c1.Sorted() {
		assert.True(t, c2.Contains(n))
	}
	assert.Greater(t, c2.Len(), c1.Len())
}

func TestCrashBetweenTempWriteAndRename(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, "instructors.csv")
	require.NoError(t, err)

	set := roster.NewSet()
	set.Add(roster.Name{First: "Jane", Last: "Doe"})
	require.NoError(t, store.Save(set))

	// Simulate a crash that wrote the temp file but never renamed it.
	tempPath := store.Path() + ".tmp"
	require.NoError(t, os.WriteFile(tempPath, []byte("FirstName,LastName\ngarbage"), 0644))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Len())
	assert.True(t, loaded.Contains(roster.Name{First: "Jane", Last: "Doe"}))
}

func TestNextRunPath(t *testing.T) {
	dir := t.TempDir()

	assert.Equal(t, "instructors_run1.csv", NextRunPath(dir, "instructors.csv"))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "instructors_run1.csv"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "instructors_run2.csv"), []byte("x"), 0644))

	assert.Equal(t, "instructors_run3.csv", NextRunPath(dir, "instructors.csv"))
}
