// Package kvstore is a small string key-value store persisted as one JSON
// object on disk. Every Set rewrites the file through a temp file and rename
// so readers never observe a half-written document.
package kvstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var ErrMalformed = errors.New("kv file is malformed")

type File struct {
	path string
}

func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Path() string { return f.path }

// Get returns the value stored under key. ok is false when the file or key
// does not exist.
func (f *File) Get(key string) (value string, ok bool, err error) {
	entries, err := f.readAll()
	if err != nil {
		return "", false, err
	}
	value, ok = entries[key]
	return value, ok, nil
}

func (f *File) Set(key, value string) error {
	entries, err := f.readAll()
	if err != nil {
		// an unreadable document is replaced rather than blocking every write
		entries = map[string]string{}
	}
	entries[key] = value
	return f.writeAll(entries)
}

func (f *File) Delete(key string) error {
	entries, err := f.readAll()
	if err != nil {
		return err
	}
	if _, ok := entries[key]; !ok {
		return nil
	}
	delete(entries, key)
	return f.writeAll(entries)
}

func (f *File) readAll() (map[string]string, error) {
	payload, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read kv file: %w", err)
	}
	entries := map[string]string{}
	if len(payload) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(payload, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return entries, nil
}

func (f *File) writeAll(entries map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("create kv dir: %w", err)
	}
	payload, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal kv file: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".kv-*.tmp")
	if err != nil {
		return fmt.Errorf("create kv temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write kv temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close kv temp file: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace kv file: %w", err)
	}
	return nil
}
