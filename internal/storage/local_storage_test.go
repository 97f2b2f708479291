package storage

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, ls.Save("abcdef123", strings.NewReader("hello world")))

	reader, err := ls.Get("abcdef123")
	require.NoError(t, err)
	defer reader.Close()

	content, err := io.ReadAll(reader)
	require.NoError(t, err)
	require.Equal(t, "hello world", string(content))
}

func TestLocalStorageGetMissing(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = ls.Get("nope")
	require.ErrorIs(t, err, ErrBlobNotFound)
}

func TestLocalStorageDelete(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, ls.Save("abcdef123", strings.NewReader("data")))
	require.NoError(t, ls.Delete("abcdef123"))

	_, err = ls.Get("abcdef123")
	require.ErrorIs(t, err, ErrBlobNotFound)

	// Deleting an absent blob is fine.
	require.NoError(t, ls.Delete("abcdef123"))
}
