package recording

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStorageWriteAndRead(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStorage(dir)
	path := filepath.Join(dir, "session_20250101_120000.jsonl")

	require.NoError(t, s.OpenWriter(path))
	require.NoError(t, s.WriteLine(`{"type":"header","version":1,"w":800,"h":600}`))
	require.NoError(t, s.WriteLine(`{"type":"end","t":1.5}`))
	require.NoError(t, s.CloseWriter())

	// CloseWriter is idempotent.
	require.NoError(t, s.CloseWriter())

	lines, err := s.ReadLines(path)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, `{"type":"header","version":1,"w":800,"h":600}`, lines[0])
	assert.Equal(t, `{"type":"end","t":1.5}`, lines[1])
}

func TestFileStorageWriteLineWhenClosed(t *testing.T) {
	s := NewFileStorage(t.TempDir())
	assert.Error(t, s.WriteLine("x"))
}

func TestFileStorageReadSkipsBlankLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session_20250101_120000.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{\"type\":\"header\"}\n\n  \n{\"type\":\"end\",\"t\":1}\n"), 0o644))

	lines, err := NewFileStorage(dir).ReadLines(path)
	require.NoError(t, err)
	assert.Len(t, lines, 2)
}

func TestFileStorageCreatesParentDir(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStorage(dir)
	path := filepath.Join(dir, "nested", "deeper", "session_20250101_120000.jsonl")

	require.NoError(t, s.OpenWriter(path))
	require.NoError(t, s.WriteLine("{}"))
	require.NoError(t, s.CloseWriter())

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestListRecordingsNewestFirst(t *testing.T) {
	dir := t.TempDir()
	names := []string{
		"session_20250101_090000.jsonl",
		"session_20250301_120000.jsonl",
		"session_20250102_230000.jsonl",
	}
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("{}\n"), 0o644))
	}
	// Non-session files are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.jsonl"), []byte("{}"), 0o644))

	paths, err := NewFileStorage(dir).ListRecordings()
	require.NoError(t, err)
	require.Len(t, paths, 3)
	assert.Equal(t, filepath.Join(dir, "session_20250301_120000.jsonl"), paths[0])
	assert.Equal(t, filepath.Join(dir, "session_20250102_230000.jsonl"), paths[1])
	assert.Equal(t, filepath.Join(dir, "session_20250101_090000.jsonl"), paths[2])
}

func TestListRecordingsMissingDir(t *testing.T) {
	s := NewFileStorage(filepath.Join(t.TempDir(), "nope"))
	paths, err := s.ListRecordings()
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestFileStorageDir(t *testing.T) {
	assert.Equal(t, DefaultDir, NewFileStorage("").Dir())
	assert.Equal(t, "elsewhere", NewFileStorage("elsewhere").Dir())
}

func TestSessionFilename(t *testing.T) {
	now := time.Date(2025, 3, 1, 13, 45, 9, 0, time.UTC)
	assert.Equal(t, "session_20250301_134509.jsonl", SessionFilename(now))
}
