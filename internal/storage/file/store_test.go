package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rina-ui/Front-TP-JEE/internal/storage"
)

func TestStorePersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "profile", "slots.json")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "token", "tok-1"))
	require.NoError(t, s.Set(ctx, "user", `{"id":"1"}`))
	require.NoError(t, s.Delete(ctx, "user"))

	reopened, err := Open(path)
	require.NoError(t, err)
	got, err := reopened.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", got)

	_, err = reopened.Get(ctx, "user")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestOpenRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slots.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := Open(path)
	assert.Error(t, err)
}
