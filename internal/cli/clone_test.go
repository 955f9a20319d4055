package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/graphclone/internal/document"
	"github.com/roach88/graphclone/internal/value"
)

const cyclicGraph = `root: &r
  a: 1
  b: {c: 2, d: [3, 4, {e: 5}]}
  when: !instant 2024-03-01T12:00:00Z
  self: *r
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestCloneCommandStdout(t *testing.T) {
	file := writeFile(t, t.TempDir(), "graph.yaml", cyclicGraph)

	buf := &bytes.Buffer{}
	cmd := NewCloneCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{file})

	require.NoError(t, cmd.Execute())

	original, err := document.Decode([]byte(cyclicGraph))
	require.NoError(t, err)
	copied, err := document.Decode(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, string(value.Canonical(original)), string(value.Canonical(copied)))
}

func TestCloneCommandOutputFile(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "graph.yaml", cyclicGraph)
	outFile := filepath.Join(dir, "copy.yaml")

	buf := &bytes.Buffer{}
	cmd := NewCloneCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{file, "-o", outFile})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "✓ Cloned 6 node(s) to "+outFile)

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "&n1")
	assert.Contains(t, string(data), "*n1")
}

func TestCloneCommandJSON(t *testing.T) {
	file := writeFile(t, t.TempDir(), "graph.yaml", cyclicGraph)

	buf := &bytes.Buffer{}
	cmd := NewCloneCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{file})

	require.NoError(t, cmd.Execute())

	var resp struct {
		Status string      `json:"status"`
		Data   CloneResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, file, resp.Data.File)
	assert.Equal(t, 6, resp.Data.Stats.Nodes)
	assert.Equal(t, 1, resp.Data.Stats.MemoHits)
	assert.NotEmpty(t, resp.Data.Document)

	original, err := document.Decode([]byte(cyclicGraph))
	require.NoError(t, err)
	assert.Equal(t, value.Fingerprint(original), resp.Data.Fingerprint)
}

func TestCloneCommandStrict(t *testing.T) {
	file := writeFile(t, t.TempDir(), "graph.yaml", "name: w\nhandler: !opaque onClick\n")

	t.Run("shared by default", func(t *testing.T) {
		buf := &bytes.Buffer{}
		cmd := NewCloneCommand(&RootOptions{Format: "text"})
		cmd.SetOut(buf)
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{file})

		require.NoError(t, cmd.Execute())
		assert.Contains(t, buf.String(), "!opaque onClick")
	})

	t.Run("rejected with --strict", func(t *testing.T) {
		buf := &bytes.Buffer{}
		cmd := NewCloneCommand(&RootOptions{Format: "json"})
		cmd.SetOut(buf)
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{file, "--strict"})

		err := cmd.Execute()
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))

		var resp CLIResponse
		require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
		assert.Equal(t, "error", resp.Status)
		assert.Equal(t, ErrCodeClone, resp.Error.Code)
		assert.Contains(t, resp.Error.Message, "$.handler")
		assert.Equal(t, "UNSUPPORTED_KIND", resp.Error.Details.(map[string]any)["clone_code"])
	})
}

func TestCloneCommandMaxDepth(t *testing.T) {
	file := writeFile(t, t.TempDir(), "graph.yaml", "a: {b: {c: {}}}\n")

	buf := &bytes.Buffer{}
	cmd := NewCloneCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{file, "--max-depth", "2"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, buf.String(), "DEPTH_EXCEEDED")
}

func TestCloneCommandInputErrors(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.yaml", "a: !set {x: 1}\n")

	tests := []struct {
		name string
		file string
		code string
	}{
		{"missing", filepath.Join(dir, "missing.yaml"), ErrCodeNotFound},
		{"undecodable", bad, ErrCodeDecode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			cmd := NewCloneCommand(&RootOptions{Format: "text"})
			cmd.SetOut(buf)
			cmd.SetErr(&bytes.Buffer{})
			cmd.SetArgs([]string{tt.file})

			err := cmd.Execute()
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, buf.String(), "Error ["+tt.code+"]")
		})
	}
}

func TestCloneCommandVerbose(t *testing.T) {
	file := writeFile(t, t.TempDir(), "graph.yaml", cyclicGraph)

	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd := NewCloneCommand(&RootOptions{Format: "text", Verbose: true})
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs([]string{file})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, errOut.String(), "Cloned 6 node(s), 1 memo hit(s)")
	assert.Contains(t, errOut.String(), "clone started")
	assert.NotContains(t, out.String(), "clone started")
}
