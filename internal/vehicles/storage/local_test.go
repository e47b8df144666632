package storage

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalImageStore_SaveAndRemove(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	store, err := NewLocalImageStore(dir)
	require.NoError(t, err)
	store.now = func() time.Time { return time.UnixMilli(1700000000123) }

	ref, err := store.Save("car.JPG", strings.NewReader("jpeg"))
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^uploads/1700000000123-[0-9a-f-]{36}\.jpg$`), ref)

	data, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(ref, RefPrefix)))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", string(data))

	require.NoError(t, store.Remove(ref))
	_, err = os.Stat(filepath.Join(dir, strings.TrimPrefix(ref, RefPrefix)))
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, store.Remove(ref), "removing twice is not an error")
}

func TestLocalImageStore_RemoveIgnoresForeignRefs(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalImageStore(dir)
	require.NoError(t, err)

	outside := filepath.Join(dir, "keep.txt")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o644))

	require.NoError(t, store.Remove("elsewhere/keep.txt"))
	require.NoError(t, store.Remove("uploads/../keep.txt"))
	_, err = os.Stat(outside)
	assert.NoError(t, err)
}
