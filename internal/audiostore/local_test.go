package audiostore

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_SaveAndPath(t *testing.T) {
	store := &LocalStore{dir: t.TempDir()}

	name, err := store.Save([]byte("clip-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".webm"))

	path, err := store.Path(name)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "clip-bytes", string(data))
}

func TestLocalStore_PathRejectsUnknownFile(t *testing.T) {
	store := &LocalStore{dir: t.TempDir()}

	_, err := store.Path("nope.webm")
	assert.Error(t, err)
}

func TestLocalStore_PathStripsDirectoryComponents(t *testing.T) {
	store := &LocalStore{dir: t.TempDir()}

	name, err := store.Save([]byte("x"))
	require.NoError(t, err)

	// traversal prefixes collapse onto the stored basename
	path, err := store.Path("../../" + name)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, store.dir))
}
