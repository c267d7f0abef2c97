package cache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"arrowstyle/internal/engine/lint"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "nested", "cache.db"), time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_PutLookup(t *testing.T) {
	store := openTestStore(t)

	key := Key{Path: "src/a.ts", ContentHash: HashContent([]byte("const a = 1")), ConfigHash: "cfg1"}
	entry := Entry{Diagnostics: []lint.Diagnostic{{
		Path:      "src/a.ts",
		Rule:      "arrow-return-style",
		MessageID: "use-implicit-return",
		Message:   "Use implicit return for single-line arrow function bodies.",
		Severity:  lint.SeverityError,
		Line:      1,
		Column:    11,
		EndLine:   1,
		EndColumn: 30,
		Fixable:   true,
	}}}

	_, ok, err := store.Lookup(key)
	require.NoError(t, err)
	assert.False(t, ok, "empty store must miss")

	require.NoError(t, store.Put(key, entry))
	got, ok, err := store.Lookup(key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, entry, got)

	for name, other := range map[string]Key{
		"content": {Path: key.Path, ContentHash: HashContent([]byte("const a = 2")), ConfigHash: key.ConfigHash},
		"config":  {Path: key.Path, ContentHash: key.ContentHash, ConfigHash: "cfg2"},
		"path":    {Path: "src/b.ts", ContentHash: key.ContentHash, ConfigHash: key.ConfigHash},
	} {
		_, ok, err := store.Lookup(other)
		require.NoError(t, err, name)
		assert.False(t, ok, "different %s must miss", name)
	}
}

func TestStore_PutReplacesPath(t *testing.T) {
	store := openTestStore(t)

	first := Key{Path: "a.js", ContentHash: "h1", ConfigHash: "c"}
	second := Key{Path: "a.js", ContentHash: "h2", ConfigHash: "c"}
	require.NoError(t, store.Put(first, Entry{ParseError: "boom"}))
	require.NoError(t, store.Put(second, Entry{}))

	_, ok, err := store.Lookup(first)
	require.NoError(t, err)
	assert.False(t, ok)

	got, ok, err := store.Lookup(second)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, got.ParseError)

	results, _, err := store.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, results)

	require.NoError(t, store.Invalidate("a.js"))
	_, ok, err = store.Lookup(second)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_PruneConfig(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Put(Key{Path: "a.ts", ContentHash: "x", ConfigHash: "old"}, Entry{}))
	require.NoError(t, store.Put(Key{Path: "b.ts", ContentHash: "x", ConfigHash: "new"}, Entry{}))

	n, err := store.PruneConfig("new")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, ok, err := store.Lookup(Key{Path: "b.ts", ContentHash: "x", ConfigHash: "new"})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStore_Runs(t *testing.T) {
	store := openTestStore(t)

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	id, err := store.RecordRun(Run{StartedAt: base, Duration: 1500 * time.Millisecond, Files: 10, Problems: 2})
	require.NoError(t, err)
	assert.Len(t, id, 36)

	_, err = store.RecordRun(Run{ID: "fixed-id", StartedAt: base.Add(500 * time.Millisecond), Files: 3, Fixed: 1, CacheHits: 2})
	require.NoError(t, err)

	runs, err := store.Runs(0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "fixed-id", runs[0].ID)
	assert.Equal(t, 1, runs[0].Fixed)
	assert.Equal(t, 2, runs[0].CacheHits)
	assert.Equal(t, id, runs[1].ID)
	assert.Equal(t, base, runs[1].StartedAt)
	assert.Equal(t, 1500*time.Millisecond, runs[1].Duration)
	assert.Equal(t, 2, runs[1].Problems)

	runs, err = store.Runs(1)
	require.NoError(t, err)
	assert.Len(t, runs, 1)

	_, count, err := store.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestStore_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	store, err := Open(path, 0)
	require.NoError(t, err)
	key := Key{Path: "a.ts", ContentHash: "x", ConfigHash: "c"}
	require.NoError(t, store.Put(key, Entry{ParseError: "unexpected token"}))
	require.NoError(t, store.Close())

	store, err = Open(path, 0)
	require.NoError(t, err)
	defer store.Close()
	assert.Equal(t, path, store.Path())

	got, ok, err := store.Lookup(key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "unexpected token", got.ParseError)
}

func TestOpen_Errors(t *testing.T) {
	_, err := Open("  ", 0)
	assert.Error(t, err)

	dir := t.TempDir()
	_, err = Open(dir, 0)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "is a directory"))

	notDB := filepath.Join(dir, "junk.db")
	require.NoError(t, os.WriteFile(notDB, []byte(strings.Repeat("garbage!", 512)), 0o644))
	_, err = Open(notDB, 0)
	require.Error(t, err)
	assert.True(t, IsCorruptError(err), "unexpected error %v", err)
}

func TestHashContent(t *testing.T) {
	assert.Equal(t, HashContent([]byte("a")), HashContent([]byte("a")))
	assert.NotEqual(t, HashContent([]byte("a")), HashContent([]byte("b")))
	assert.Len(t, HashContent(nil), 64)
	assert.False(t, IsCorruptError(nil))
}

func TestEnsureSchema_Idempotent(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, EnsureSchema(store.db))

	var version int
	require.NoError(t, store.db.QueryRow(`SELECT MAX(version) FROM schema_migrations`).Scan(&version))
	assert.Equal(t, SchemaVersion, version)
}
