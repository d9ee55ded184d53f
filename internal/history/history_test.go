package history

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestOpen_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "history.db")
	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()
}

func TestAddAndGet(t *testing.T) {
	store := openTestStore(t)

	id, err := store.Add(&Entry{
		InputName:   "chat.mhtml",
		Kind:        "qa-markdown",
		OutputName:  "chat.md",
		OutputPath:  "/tmp/out/chat.md",
		MIME:        "text/markdown; charset=utf-8",
		Turns:       4,
		Diagnostics: "unresolved image cid:x",
	})
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))

	got, err := store.Get(id)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "chat.mhtml", got.InputName)
	assert.Equal(t, "qa-markdown", got.Kind)
	assert.Equal(t, "chat.md", got.OutputName)
	assert.Equal(t, "/tmp/out/chat.md", got.OutputPath)
	assert.Equal(t, 4, got.Turns)
	assert.Equal(t, "unresolved image cid:x", got.Diagnostics)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestGet_Missing(t *testing.T) {
	store := openTestStore(t)

	got, err := store.Get(12345)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRecent_NewestFirst(t *testing.T) {
	store := openTestStore(t)

	for _, name := range []string{"a.mhtml", "b.mhtml", "c.mhtml"} {
		_, err := store.Add(&Entry{
			InputName:  name,
			Kind:       "qa-text",
			OutputName: name + ".qa.txt",
			OutputPath: "/tmp/" + name,
			MIME:       "text/plain; charset=utf-8",
		})
		require.NoError(t, err)
	}

	entries, err := store.Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "c.mhtml", entries[0].InputName)
	assert.Equal(t, "a.mhtml", entries[2].InputName)
}

func TestRecent_Limit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		_, err := store.Add(&Entry{
			InputName:  "x.mhtml",
			Kind:       "qa-text",
			OutputName: "x.qa.txt",
			OutputPath: "/tmp/x",
			MIME:       "text/plain; charset=utf-8",
		})
		require.NoError(t, err)
	}

	entries, err := store.Recent(2)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
