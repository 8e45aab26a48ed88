package repository

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// FileStore owns the directory holding the flat-file stores. Every mutation is a full
// read-modify-rewrite; the mutex serialises them within the process. Only one process
// may use a data directory at a time.
type FileStore struct {
	fs     afero.Fs
	dir    string
	logger zerolog.Logger

	mu    sync.Mutex
	files []string
}

func NewFileStore(fs afero.Fs, dir string, logger zerolog.Logger) *FileStore {
	return &FileStore{
		fs:     fs,
		dir:    dir,
		logger: logger,
	}
}

func (s *FileStore) register(name string) flatFile {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range s.files {
		if f == name {
			return s.file(name)
		}
	}
	s.files = append(s.files, name)
	return s.file(name)
}

func (s *FileStore) file(name string) flatFile {
	return flatFile{fs: s.fs, path: filepath.Join(s.dir, name)}
}

// Snapshot returns the raw content of every registered store file. Missing files are
// returned empty.
func (s *FileStore) Snapshot() (map[string][]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string][]byte, len(s.files))
	for _, name := range s.files {
		data, err := afero.ReadFile(s.fs, filepath.Join(s.dir, name))
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		out[name] = data
	}
	return out, nil
}

// Ping checks that the data directory is usable. A directory that does not exist yet
// is fine: the first write creates it.
func (s *FileStore) Ping(_ context.Context) error {
	info, err := s.fs.Stat(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to stat data directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data path %s is not a directory", s.dir)
	}
	return nil
}

type flatFile struct {
	fs   afero.Fs
	path string
}

// readLines returns the non-blank lines of the file. A missing file is an empty store.
func (f flatFile) readLines() ([]string, error) {
	data, err := afero.ReadFile(f.fs, f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", f.path, err)
	}

	raw := strings.Split(string(data), "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimRight(l, "\r")
		if strings.TrimSpace(l) == "" {
			continue
		}
		lines = append(lines, l)
	}
	return lines, nil
}

func (f flatFile) ensureDir() error {
	if err := f.fs.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", f.path, err)
	}
	return nil
}

// stage writes lines to a temp file next to the target and returns its path.
func (f flatFile) stage(lines []string) (string, error) {
	if err := f.ensureDir(); err != nil {
		return "", err
	}

	tmp, err := afero.TempFile(f.fs, filepath.Dir(f.path), "."+filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file for %s: %w", f.path, err)
	}

	var buf bytes.Buffer
	for _, l := range lines {
		buf.WriteString(l)
		buf.WriteByte('\n')
	}

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		f.fs.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write %s: %w", f.path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		f.fs.Remove(tmp.Name())
		return "", fmt.Errorf("failed to sync %s: %w", f.path, err)
	}
	if err := tmp.Close(); err != nil {
		f.fs.Remove(tmp.Name())
		return "", fmt.Errorf("failed to close %s: %w", f.path, err)
	}

	return tmp.Name(), nil
}

func (f flatFile) commit(staged string) error {
	if err := f.fs.Rename(staged, f.path); err != nil {
		f.fs.Remove(staged)
		return fmt.Errorf("failed to replace %s: %w", f.path, err)
	}
	return nil
}

func (f flatFile) rewrite(lines []string) error {
	staged, err := f.stage(lines)
	if err != nil {
		return err
	}
	return f.commit(staged)
}

func (f flatFile) appendLine(line string) error {
	if err := f.ensureDir(); err != nil {
		return err
	}

	file, err := f.fs.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", f.path, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", f.path, err)
	}

	// keep records on their own line when the file was written without a final newline
	if info.Size() > 0 {
		last := make([]byte, 1)
		if _, err := file.ReadAt(last, info.Size()-1); err != nil {
			return fmt.Errorf("failed to read %s: %w", f.path, err)
		}
		if last[0] != '\n' {
			line = "\n" + line
		}
	}

	if _, err := file.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("failed to append to %s: %w", f.path, err)
	}
	return nil
}
