package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const storeFileName = "store.json"

var _ Repo = (*FileRepo)(nil)

// FileRepo persists keys as a single JSON object under the configured data
// folder. Every write rewrites the whole file; the store holds a handful of
// small strings, so this is not a throughput concern.
type FileRepo struct {
	path string
	lock sync.Mutex
}

// NewFileRepo creates the data folder if needed and returns a repo backed by
// <folder>/store.json.
func NewFileRepo(folder string) (*FileRepo, error) {
	if err := os.MkdirAll(folder, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data folder: %w", err)
	}
	return &FileRepo{path: filepath.Join(folder, storeFileName)}, nil
}

func (r *FileRepo) Get(key string) (string, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	values, err := r.read()
	if err != nil {
		return "", err
	}
	value, ok := values[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return value, nil
}

func (r *FileRepo) Set(key, value string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	values, err := r.read()
	if err != nil {
		return err
	}
	values[key] = value
	return r.write(values)
}

func (r *FileRepo) Delete(key string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	values, err := r.read()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return r.write(values)
}

func (r *FileRepo) read() (map[string]string, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read store file: %w", err)
	}
	values := map[string]string{}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse store file: %w", err)
	}
	return values, nil
}

func (r *FileRepo) write(values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode store file: %w", err)
	}
	if err := os.WriteFile(r.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write store file: %w", err)
	}
	return nil
}
