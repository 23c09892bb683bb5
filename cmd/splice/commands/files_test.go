package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/splice/pkg/rewrite"
)

func testRules(t *testing.T) []*rewrite.Rule {
	t.Helper()

	rules, err := rewrite.ParseRules([]byte(`
rules:
  - name: rename
    language: python
    query: (identifier) @id
    target: id
    action: rewrite
    replacement: renamed
    where:
      - {capture: id, equals: old}
`))
	require.NoError(t, err)

	return rules
}

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()

	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}

	return dir
}

func TestCollectFiles(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, map[string]string{
		"a.py":              "old = 1\n",
		"pkg/b.py":          "old = 2\n",
		"pkg/c.go":          "package pkg\n",
		"node_modules/d.py": "old = 3\n",
		"testdata/e.py":     "old = 4\n",
		"docs/readme.md":    "old\n",
	})

	files, err := collectFiles([]string{dir}, []string{"node_modules", "testdata"}, testRules(t))
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "a.py"),
		filepath.Join(dir, "pkg", "b.py"),
	}, files)

	explicit := filepath.Join(dir, "pkg", "c.go")
	files, err = collectFiles([]string{explicit}, nil, testRules(t))
	require.NoError(t, err)
	assert.Equal(t, []string{explicit}, files)

	_, err = collectFiles([]string{filepath.Join(dir, "docs")}, nil, testRules(t))
	require.ErrorIs(t, err, ErrNoSourceFiles)

	_, err = collectFiles([]string{filepath.Join(dir, "missing")}, nil, testRules(t))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestApplyFiles_OrderAndSizeLimit(t *testing.T) {
	t.Parallel()

	files := map[string]string{"big.py": "old = 1\n# padding padding padding padding\n"}
	for i := range 20 {
		files[filepath.Join("src", string(rune('a'+i))+".py")] = "old = 1\n"
	}

	dir := writeTree(t, files)
	rules := testRules(t)

	paths, err := collectFiles([]string{dir}, nil, rules)
	require.NoError(t, err)

	results, err := applyFiles(context.Background(), rewrite.NewEngine(), paths, rules, 4, 16)
	require.NoError(t, err)
	require.Len(t, results, len(paths))

	for i, res := range results {
		if filepath.Base(paths[i]) == "big.py" {
			assert.Nil(t, res)

			continue
		}

		require.NotNil(t, res)
		assert.Equal(t, paths[i], res.Path)
		assert.Equal(t, "renamed = 1\n", res.Rewritten)
	}

	require.NoError(t, writeResults(results))
	assert.Equal(t, files["big.py"], readTreeFile(t, dir, "big.py"))
	assert.Equal(t, "renamed = 1\n", readTreeFile(t, dir, filepath.Join("src", "a.py")))
}

func TestApplyFiles_Canceled(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, map[string]string{"a.py": "old = 1\n"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := applyFiles(ctx, rewrite.NewEngine(), []string{filepath.Join(dir, "a.py")}, testRules(t), 1, 0)
	require.ErrorIs(t, err, context.Canceled)
}

func TestParseMaxSize(t *testing.T) {
	t.Parallel()

	size, err := parseMaxSize("1MiB")
	require.NoError(t, err)
	assert.Equal(t, uint64(1<<20), size)

	size, err = parseMaxSize("0")
	require.NoError(t, err)
	assert.Zero(t, size)

	_, err = parseMaxSize("lots")
	require.Error(t, err)
}

func TestByteDelta(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "+0 B", byteDelta(0))
	assert.Equal(t, "+2 B", byteDelta(2))
	assert.Equal(t, "-1.5 kB", byteDelta(-1500))
}

func readTreeFile(t *testing.T, dir, name string) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)

	return string(data)
}
