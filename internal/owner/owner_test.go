package owner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate clears every ambient source so only the cascade steps a test
// sets up can produce an owner.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("OTK_DEFAULT_OWNER", "")
	t.Setenv("OTK_OWNER", "")
	t.Setenv("GITHUB_ACTOR", "")
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func TestResolveEnvPrecedence(t *testing.T) {
	isolate(t)
	t.Setenv("OTK_DEFAULT_OWNER", "alice")
	t.Setenv("OTK_OWNER", "bob")

	r := NewResolver(t.TempDir())
	assert.Equal(t, "alice", r.Resolve())
}

func TestResolveOwnerEnvAlias(t *testing.T) {
	isolate(t)
	t.Setenv("OTK_OWNER", "bob")

	r := NewResolver(t.TempDir())
	assert.Equal(t, "bob", r.Resolve())
}

func TestResolveCacheFile(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".otk"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".otk", ".owner"), []byte("carol\n"), 0o644))

	r := NewResolver(dir)
	assert.Equal(t, "carol", r.Resolve())
}

func TestResolveGithubActor(t *testing.T) {
	isolate(t)
	t.Setenv("GITHUB_ACTOR", "ci-bot")

	r := NewResolver(t.TempDir())
	assert.Equal(t, "ci-bot", r.Resolve())
}

func TestResolvePromptPersists(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	r := NewResolver(dir)
	r.Prompt = func() string { return "dave" }

	assert.Equal(t, "dave", r.Resolve())

	data, err := os.ReadFile(filepath.Join(dir, ".otk", ".owner"))
	require.NoError(t, err)
	assert.Equal(t, "dave\n", string(data))
}

func TestResolvePromptUnknownNotPersisted(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	r := NewResolver(dir)
	r.Prompt = func() string { return "" }

	assert.Equal(t, Unknown, r.Resolve())
	_, err := os.Stat(filepath.Join(dir, ".otk", ".owner"))
	assert.True(t, os.IsNotExist(err))
}

func TestResolveFallbackWithoutPrompt(t *testing.T) {
	isolate(t)
	r := NewResolver(t.TempDir())
	assert.Equal(t, Unknown, r.Resolve())
}

func TestSessionCache(t *testing.T) {
	isolate(t)
	t.Setenv("OTK_OWNER", "bob")

	r := NewResolver(t.TempDir())
	assert.Equal(t, "bob", r.Resolve())

	// Later env changes don't affect an already-resolved session.
	t.Setenv("OTK_OWNER", "eve")
	assert.Equal(t, "bob", r.Resolve())

	r.ClearCache()
	assert.Equal(t, "eve", r.Resolve())
}

func TestSet(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	r := NewResolver(dir)
	require.NoError(t, r.Set("frank"))
	assert.Equal(t, "frank", r.Resolve())

	data, err := os.ReadFile(filepath.Join(dir, ".otk", ".owner"))
	require.NoError(t, err)
	assert.Equal(t, "frank\n", string(data))

	assert.Error(t, r.Set("  "))
}

func TestSource(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	r := NewResolver(dir)

	assert.Equal(t, "fallback", r.Source())

	require.NoError(t, r.Set("grace"))
	assert.Equal(t, "file:"+CacheFile, r.Source())

	t.Setenv("OTK_DEFAULT_OWNER", "alice")
	assert.Equal(t, "env:OTK_DEFAULT_OWNER", r.Source())
}
