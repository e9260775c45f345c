package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"time"
)

// keyPattern restricts keys to what Key produces so a key can never escape dir.
var keyPattern = regexp.MustCompile(`^[0-9a-f]{40}$`)

// FileStore keeps one file per entry in a directory. The file content is the
// body and the file modification time is FetchedAt.
type FileStore struct {
	dir string
}

// NewFileStore returns a store rooted at dir, creating it if needed.
// A directory that cannot be created is not an error here: reads will miss
// and writes will fail, which callers already treat as non-fatal.
func NewFileStore(dir string) *FileStore {
	_ = os.MkdirAll(dir, 0o700)
	return &FileStore{dir: dir}
}

// Dir returns the directory backing the store.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) path(key string) (string, error) {
	if !keyPattern.MatchString(key) {
		return "", fmt.Errorf("invalid cache key %q", key)
	}
	return filepath.Join(s.dir, key), nil
}

// Get reads the entry for key. ErrNotFound is returned when no file exists.
func (s *FileStore) Get(key string) (Entry, error) {
	path, err := s.path(key)
	if err != nil {
		return Entry{}, err
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Entry{}, ErrNotFound
		}
		return Entry{}, fmt.Errorf("stat cache file: %w", err)
	}
	body, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Entry{}, ErrNotFound
		}
		return Entry{}, fmt.Errorf("reading cache file: %w", err)
	}
	return Entry{Key: key, Body: body, FetchedAt: info.ModTime()}, nil
}

// Put writes the entry to a temporary file in the store directory and renames
// it over the final path, so readers see either the old or the new body.
func (s *FileStore) Put(entry Entry) error {
	path, err := s.path(entry.Key)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, entry.Key+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp cache file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		// No-op after a successful rename.
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(entry.Body); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing temp cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp cache file: %w", err)
	}
	fetchedAt := entry.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now()
	}
	if err := os.Chtimes(tmpName, fetchedAt, fetchedAt); err != nil {
		return fmt.Errorf("setting cache file time: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replacing cache file: %w", err)
	}
	return nil
}
