package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const foxArticle = "# Foxes\n\nThe quick brown fox jumps over the lazy fox.\n\n## Habitat\n\nFoxes live in dens.\n"

// setup writes one article and points the CLI at it. t.Setenv restores the
// variables the root command sets from its flags.
func setup(t *testing.T) []string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "products"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "products", "foxes.md"), []byte(foxArticle), 0644))

	t.Setenv("CONTENT_DIR", root)
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "reader.db"))
	t.Setenv("LOG_LEVEL", "error")
	return []string{"--content-dir", root}
}

func run(t *testing.T, flags []string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestList(t *testing.T) {
	flags := setup(t)

	out, err := run(t, flags, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "SLUG")
	assert.Regexp(t, `foxes\s+Foxes\s+products\s+no\s+0`, out)
}

func TestHighlightsLifecycle(t *testing.T) {
	flags := setup(t)

	out, err := run(t, flags, "highlights", "add", "foxes", "--text", "fox", "--before", "the lazy ")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "created "), out)
	id := strings.Fields(out)[1]
	assert.Contains(t, out, `"fox"`)

	out, err = run(t, flags, "highlights", "add", "foxes", "--text", "fox", "--before", "the lazy ")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "exists "+id), out)

	out, err = run(t, flags, "highlights", "list", "foxes")
	require.NoError(t, err)
	assert.Regexp(t, id+`\s+applied\s+"fox"`, out)

	out, err = run(t, flags, "render", "foxes")
	require.NoError(t, err)
	assert.Contains(t, out, `lazy <mark class="highlighted-text" data-annotation-id="`+id+`"`)

	out, err = run(t, flags, "render", "foxes", "--plain")
	require.NoError(t, err)
	assert.NotContains(t, out, "<mark")

	_, err = run(t, flags, "highlights", "remove", "foxes", id)
	require.NoError(t, err)

	_, err = run(t, flags, "highlights", "remove", "foxes", id)
	assert.Error(t, err)

	out, err = run(t, flags, "highlights", "clear", "foxes")
	require.NoError(t, err)
	assert.Equal(t, "cleared foxes\n", out)
}

func TestHighlightsAdd_Offsets(t *testing.T) {
	flags := setup(t)

	// "Foxes\n" precedes the paragraph in the flat text.
	start := strings.Index("Foxes\nThe quick brown fox", "quick")
	out, err := run(t, flags, "highlights", "add", "foxes", "--start", strconv.Itoa(start), "--end", strconv.Itoa(start + 5))
	require.NoError(t, err)
	assert.Contains(t, out, `"quick"`)
}

func TestResolve_Explain(t *testing.T) {
	flags := setup(t)

	out, err := run(t, flags, "resolve", "foxes", "fox", "--after", ".", "--explain")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4, out)
	assert.True(t, strings.HasPrefix(lines[0], "resolved ["), lines[0])
	assert.False(t, strings.HasPrefix(lines[2], "*"), "first occurrence should not win")
	assert.True(t, strings.HasPrefix(lines[3], "*"), "second occurrence should win")
	assert.Contains(t, lines[3], "[fox].")

	_, err = run(t, flags, "resolve", "foxes", "wolf")
	assert.Error(t, err)
}

func TestProgress(t *testing.T) {
	flags := setup(t)

	out, err := run(t, flags, "progress", "foxes", "--toggle")
	require.NoError(t, err)
	assert.Equal(t, "foxes read: yes\n", out)

	out, err = run(t, flags, "progress", "foxes")
	require.NoError(t, err)
	assert.Equal(t, "foxes read: yes\n", out)
}

func TestUnknownArticle(t *testing.T) {
	flags := setup(t)

	_, err := run(t, flags, "render", "wolves")
	assert.Error(t, err)
}
