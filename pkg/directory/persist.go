package directory

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Save writes every entry to path, replacing whatever was there. The
// format follows the file extension (see CodecFor).
func (s *Store) Save(path string) error {
	s.mu.RLock()
	entries := s.snapshot()
	s.mu.RUnlock()

	data, err := CodecFor(path).Marshal(entries)
	if err != nil {
		return fileError(KindIO, "save", path, fmt.Errorf("failed to encode entries: %w", err))
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fileError(KindIO, "save", path, fmt.Errorf("failed to create directory: %w", err))
		}
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		os.Remove(tempPath)
		return fileError(KindIO, "save", path, err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fileError(KindIO, "save", path, err)
	}

	return nil
}

// Load replaces the store's contents with the entries in path. If the
// file is missing, unreadable or malformed the store is left as it was.
// Entries without a national ID are skipped; other fields are taken as
// stored.
func (s *Store) Load(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fileError(KindFileNotExist, "load", path, nil)
		}
		return fileError(KindIO, "load", path, err)
	}
	if info.IsDir() {
		return fileError(KindIO, "load", path, fmt.Errorf("%s is a directory", path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fileError(KindIO, "load", path, err)
	}

	candidates, err := CodecFor(path).Unmarshal(data)
	if err != nil {
		return fileError(KindParse, "load", path, err)
	}

	seen := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		if c.NationalID == "" {
			continue
		}
		if seen[c.NationalID] {
			return fileError(KindParse, "load", path, fmt.Errorf("duplicate national ID %q", c.NationalID))
		}
		seen[c.NationalID] = true
	}

	s.replace(candidates)
	return nil
}
