package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadItems(t *testing.T) {
	items, err := loadItems("")
	require.NoError(t, err)
	assert.Len(t, items, 20)

	path := filepath.Join(t.TempDir(), "list.txt")
	require.NoError(t, os.WriteFile(path, []byte("# extra\nrumeli.jpg|Rumelihisarı\n"), 0o644))
	items, err = loadItems(path)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Rumelihisarı", items[0].Article)

	_, err = loadItems(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestOpenOutputTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, os.WriteFile(path, []byte("old content\n"), 0o644))

	w, closeOut, err := openOutput(path)
	require.NoError(t, err)
	_, err = w.Write([]byte("a.jpg|NO_IMAGE\n"))
	require.NoError(t, err)
	closeOut()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a.jpg|NO_IMAGE\n", string(b))
}
