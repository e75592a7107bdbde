package recording

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// DefaultDir is the well-known recordings directory.
const DefaultDir = "recordings"

const sessionPrefix = "session_"
const sessionExt = ".jsonl"

// Storage persists a session log as an append-only sequence of lines.
type Storage interface {
	// OpenWriter creates or truncates the log file at path, creating parent
	// directories as needed.
	OpenWriter(path string) error

	// WriteLine appends one line plus a newline.
	WriteLine(line string) error

	// CloseWriter flushes and releases the file handle. Idempotent.
	CloseWriter() error

	// ReadLines reads an entire log into memory, in order.
	ReadLines(path string) ([]string, error)

	// ListRecordings returns session log paths, newest first. Filenames embed
	// the session start timestamp, so lexicographic order is chronological.
	ListRecordings() ([]string, error)
}

// FileStorage is the file-backed Storage used outside of tests.
type FileStorage struct {
	dir string

	file *os.File
	w    *bufio.Writer
}

// NewFileStorage creates a FileStorage rooted at dir. An empty dir uses
// DefaultDir.
func NewFileStorage(dir string) *FileStorage {
	if dir == "" {
		dir = DefaultDir
	}
	return &FileStorage{dir: dir}
}

// Dir returns the recordings directory.
func (s *FileStorage) Dir() string {
	return s.dir
}

// SessionFilename returns the log filename for a session starting at now.
func SessionFilename(now time.Time) string {
	return sessionPrefix + now.Format("20060102_150405") + sessionExt
}

// OpenWriter implements Storage.
func (s *FileStorage) OpenWriter(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create recordings dir: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to open session log: %w", err)
	}

	s.file = file
	s.w = bufio.NewWriter(file)
	return nil
}

// WriteLine implements Storage.
func (s *FileStorage) WriteLine(line string) error {
	if s.w == nil {
		return fmt.Errorf("session log is not open")
	}
	if _, err := s.w.WriteString(line); err != nil {
		return fmt.Errorf("failed to write session log: %w", err)
	}
	if err := s.w.WriteByte('\n'); err != nil {
		return fmt.Errorf("failed to write session log: %w", err)
	}
	return nil
}

// CloseWriter implements Storage.
func (s *FileStorage) CloseWriter() error {
	if s.file == nil {
		return nil
	}

	var flushErr error
	if s.w != nil {
		flushErr = s.w.Flush()
	}
	closeErr := s.file.Close()

	s.file = nil
	s.w = nil

	if flushErr != nil {
		return fmt.Errorf("failed to flush session log: %w", flushErr)
	}
	if closeErr != nil {
		return fmt.Errorf("failed to close session log: %w", closeErr)
	}
	return nil
}

// ReadLines implements Storage.
func (s *FileStorage) ReadLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open session log: %w", err)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read session log: %w", err)
	}

	return lines, nil
}

// ListRecordings implements Storage.
func (s *FileStorage) ListRecordings() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list recordings: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasPrefix(name, sessionPrefix) || !strings.HasSuffix(name, sessionExt) {
			continue
		}
		paths = append(paths, filepath.Join(s.dir, name))
	}

	// Newest first.
	sort.Sort(sort.Reverse(sort.StringSlice(paths)))
	return paths, nil
}
