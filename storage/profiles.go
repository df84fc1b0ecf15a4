// Package storage persists profiles and notes as plain files.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"coco-assistant/profile"

	"github.com/spf13/afero"
)

type profileRecord struct {
	DOB string `json:"dob"`
}

// ProfileStore keeps profiles in a JSON document keyed by name:
//
//	{"sam": {"dob": "2015-01-01"}}
type ProfileStore struct {
	fs   afero.Fs
	path string
}

func NewProfileStore(fs afero.Fs, path string) (*ProfileStore, error) {
	if fs == nil {
		return nil, fmt.Errorf("fileSys is nil")
	}

	if path == "" {
		return nil, fmt.Errorf("path is empty")
	}

	return &ProfileStore{fs: fs, path: path}, nil
}

// Load returns no profiles when the file does not exist yet.
func (s *ProfileStore) Load() (map[string]profile.Profile, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]profile.Profile{}, nil
	} else if err != nil {
		return nil, err
	}

	var records map[string]profileRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}

	profiles := make(map[string]profile.Profile, len(records))
	for name, rec := range records {
		dob, err := profile.ParseDOB(rec.DOB)
		if err != nil {
			return nil, fmt.Errorf("profile %q: %w", name, err)
		}

		profiles[name] = profile.Profile{Name: name, DOB: dob}
	}

	return profiles, nil
}

// Save rewrites the whole document through a temporary file.
func (s *ProfileStore) Save(profiles map[string]profile.Profile) error {
	records := make(map[string]profileRecord, len(profiles))
	for name, p := range profiles {
		records[name] = profileRecord{DOB: p.DOB.Format(profile.DateLayout)}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}

	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0o644); err != nil {
		return err
	}

	return s.fs.Rename(tmp, s.path)
}
