package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreLayout(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	backend, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, backend.Create(ctx, NewConversation("conv-1")))

	// One document per conversation at <dir>/<id>.json.
	bytes, err := os.ReadFile(filepath.Join(dir, "conv-1.json"))
	require.NoError(t, err)

	var document map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(bytes, &document))
	assert.Len(t, document, 4)
	for _, field := range []string{"id", "created_at", "title", "messages"} {
		assert.Contains(t, document, field)
	}
	assert.JSONEq(t, `[]`, string(document["messages"]))
}

func TestFileStoreCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "conversations")
	_, err := NewFileStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestFileStoreSaveWithoutCreate(t *testing.T) {
	// Save writes the file at the id's path regardless of prior existence.
	ctx := context.Background()
	backend, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, backend.Save(ctx, NewConversation("orphan")))

	got, err := backend.Get(ctx, "orphan")
	require.NoError(t, err)
	assert.Equal(t, "orphan", got.ID)
}

func TestFileStoreListSkipsForeignFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	backend, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, backend.Create(ctx, NewConversation("conv-1")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not a conversation"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive"), 0755))

	summaries, err := backend.List(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "conv-1", summaries[0].ID)
}

func TestFileStoreNormalizesNullMessages(t *testing.T) {
	// Hand-edited or legacy documents may carry "messages": null.
	ctx := context.Background()
	dir := t.TempDir()
	backend, err := NewFileStore(dir)
	require.NoError(t, err)

	document := `{"id":"legacy","created_at":"2024-01-01T00:00:00Z","title":"Old","messages":null}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "legacy.json"), []byte(document), 0644))

	got, err := backend.Get(ctx, "legacy")
	require.NoError(t, err)
	require.NotNil(t, got.Messages)
	assert.Empty(t, got.Messages)
}
