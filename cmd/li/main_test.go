package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prog.li")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestRunFileSuccess(t *testing.T) {
	path := writeScript(t, "let x = 1;\nassert x == 1;\n")
	assert.Equal(t, 0, run([]string{path}))
}

func TestRunFileExitStatus(t *testing.T) {
	path := writeScript(t, "exit(7);")
	assert.Equal(t, 7, run([]string{path}))
}

func TestRunFileRuntimeError(t *testing.T) {
	path := writeScript(t, "println(nope);")
	assert.Equal(t, 1, run([]string{path}))
}

func TestRunFileParseError(t *testing.T) {
	path := writeScript(t, "let x = ;")
	assert.Equal(t, 1, run([]string{path}))
}

func TestRunFileSemanticError(t *testing.T) {
	path := writeScript(t, "break;")
	assert.Equal(t, 1, run([]string{path}))
}

func TestFlagsBeforeFile(t *testing.T) {
	path := writeScript(t, "exit(2);")
	assert.Equal(t, 2, run([]string{"--report-all", "--no-color", path}))
}

func TestDumpASTDoesNotRun(t *testing.T) {
	path := writeScript(t, "exit(9);")
	assert.Equal(t, 0, run([]string{"--dump-ast", path}))
}

func TestIsFile(t *testing.T) {
	path := writeScript(t, "")
	assert.True(t, isFile(path))
	assert.False(t, isFile(filepath.Dir(path)))
	assert.False(t, isFile(filepath.Join(t.TempDir(), "missing.li")))
}
