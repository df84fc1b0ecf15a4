package storage

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/afero"
)

// NoteStore appends notes to a text file, one per line.
type NoteStore struct {
	mu   sync.Mutex
	fs   afero.Fs
	path string
}

func NewNoteStore(fs afero.Fs, path string) (*NoteStore, error) {
	if fs == nil {
		return nil, fmt.Errorf("fileSys is nil")
	}

	if path == "" {
		return nil, fmt.Errorf("path is empty")
	}

	return &NoteStore{fs: fs, path: path}, nil
}

func (s *NoteStore) Append(note string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}

	f, err := s.fs.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}

	// a note spans exactly one line
	note = strings.ReplaceAll(note, "\n", " ")

	if _, err := f.WriteString(note + "\n"); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

// Load returns the stored notes in order, or none if the file is missing.
func (s *NoteStore) Load() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.fs.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	defer f.Close()

	var notes []string

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			notes = append(notes, line)
		}
	}

	return notes, scanner.Err()
}
