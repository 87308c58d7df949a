package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identity.json")

	store, err := Open(path)
	require.NoError(t, err)

	_, ok, err := store.Get("voter_session")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set("voter_session", "abc"))
	require.NoError(t, store.Set("voter_name", "alice"))

	// reopen: values must survive the process
	reopened, err := Open(path)
	require.NoError(t, err)
	v, ok, err := reopened.Get("voter_session")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "abc", v)

	require.NoError(t, reopened.Delete("voter_name"))
	again, err := Open(path)
	require.NoError(t, err)
	_, ok, err = again.Get("voter_name")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOpenRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identity.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := Open(path)
	assert.Error(t, err)
}
