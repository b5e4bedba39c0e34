package preprocess_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reglet-dev/scripthost/application/preprocess"
)

const script = `// #require "median"
//#require   "imaging.wasm"
// #require "Shapes.WASM"
class Script {
  RunScript() {}
}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestProcess_ResolvesLocalBeforeAmbient(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "median.wasm", "\x00asm")
	path := writeFile(t, dir, "script.js", script)

	src, err := preprocess.New().ProcessFile(path)
	require.NoError(t, err)

	require.Len(t, src.Dependencies, 3)

	median := src.Dependencies[0]
	assert.Equal(t, "median", median.Name)
	assert.Equal(t, "median.wasm", median.File)
	assert.True(t, median.Local)
	assert.Equal(t, filepath.Join(dir, "median.wasm"), median.Path)
	assert.Equal(t, median.Path, median.Target())

	imaging := src.Dependencies[1]
	assert.Equal(t, "imaging.wasm", imaging.File, "extension is not appended twice")
	assert.False(t, imaging.Local)
	assert.Empty(t, imaging.Path)
	assert.Equal(t, "imaging.wasm", imaging.Target())

	shapes := src.Dependencies[2]
	assert.Equal(t, "Shapes.WASM", shapes.File, "extension match is case-insensitive")

	assert.Equal(t, dir, src.Dir)
	assert.Equal(t, path, src.Path)
}

func TestProcess_KeepsTextVerbatim(t *testing.T) {
	src, err := preprocess.New().Process("/scripts/s.js", strings.NewReader(script))
	require.NoError(t, err)
	assert.Equal(t, script, src.Text)
	assert.Equal(t, "/scripts", src.Dir)
}

func TestProcess_NoTrailingNewline(t *testing.T) {
	src, err := preprocess.New().Process("/s/s.js", strings.NewReader(`// #require "last"`))
	require.NoError(t, err)
	require.Len(t, src.Dependencies, 1)
	assert.Equal(t, "last.wasm", src.Dependencies[0].File)
	assert.Equal(t, `// #require "last"`, src.Text)
}

func TestProcess_MatchesInsideStringLiterals(t *testing.T) {
	text := "const hint = '// #require \"quoted\"';\n"
	src, err := preprocess.New().Process("/s/s.js", strings.NewReader(text))
	require.NoError(t, err)
	require.Len(t, src.Dependencies, 1)
	assert.Equal(t, "quoted", src.Dependencies[0].Name)
}

func TestProcess_KeepsDuplicatesInOrder(t *testing.T) {
	text := "// #require \"b\"\n// #require \"a\"\n// #require \"b\"\n"
	src, err := preprocess.New().Process("/s/s.js", strings.NewReader(text))
	require.NoError(t, err)

	var names []string
	for _, d := range src.Dependencies {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"b", "a", "b"}, names)
}

func TestProcess_IgnoresNonDirectives(t *testing.T) {
	text := strings.Join([]string{
		`# require "x"`,
		`// require "x"`,
		`// #require x`,
		`// #require "bad name"`,
	}, "\n")
	src, err := preprocess.New().Process("/s/s.js", strings.NewReader(text))
	require.NoError(t, err)
	assert.Empty(t, src.Dependencies)
}

func TestProcess_DirectoryIsNotALocalModule(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "lib.wasm"), 0o755))
	path := writeFile(t, dir, "s.js", `// #require "lib"`+"\n")

	src, err := preprocess.New().ProcessFile(path)
	require.NoError(t, err)
	require.Len(t, src.Dependencies, 1)
	assert.False(t, src.Dependencies[0].Local)
}

func TestWithExtension(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "helpers.so", "")
	path := writeFile(t, dir, "s.js", `// #require "helpers"`+"\n")

	src, err := preprocess.New(preprocess.WithExtension("so")).ProcessFile(path)
	require.NoError(t, err)
	require.Len(t, src.Dependencies, 1)
	assert.Equal(t, "helpers.so", src.Dependencies[0].File)
	assert.True(t, src.Dependencies[0].Local)
}

func TestProcessFile_Missing(t *testing.T) {
	_, err := preprocess.New().ProcessFile(filepath.Join(t.TempDir(), "nope.js"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open script")
}
