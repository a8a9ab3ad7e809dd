// Package cache keeps derived view state on disk so screens can render while
// offline. Nothing in it is a source of truth.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterbourgon/diskv/v3"
)

var ErrMiss = errors.New("cache miss")

type Store struct {
	d        *diskv.Diskv
	basePath string
}

// Open creates a diskv store rooted at basePath. Keys use '/' to group entries
// into directories, for example "<user>/chat-previews".
func Open(basePath string) (*Store, error) {
	if strings.TrimSpace(basePath) == "" {
		return nil, errors.New("cache path is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	return &Store{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      1024 * 1024,
	}), basePath: basePath}, nil
}

func (store *Store) SaveJSON(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return store.d.Write(key, data)
}

func (store *Store) LoadJSON(key string, target any) error {
	data, err := store.d.Read(key)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrMiss
		}
		return err
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func (store *Store) Has(key string) bool {
	return store.d.Has(key)
}

func (store *Store) Erase(key string) error {
	if !store.d.Has(key) {
		return nil
	}
	return store.d.Erase(key)
}

// EraseAll drops every cached view, for example on sign out.
func (store *Store) EraseAll() error {
	return store.d.EraseAll()
}

func keyToPathTransform(key string) *diskv.PathKey {
	parts := strings.Split(strings.Trim(key, "/"), "/")
	fileName := parts[len(parts)-1] + ".json"
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: fileName,
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	fileName := strings.TrimSuffix(pathKey.FileName, ".json")
	if len(pathKey.Path) == 0 {
		return fileName
	}
	return filepath.ToSlash(filepath.Join(append(append([]string{}, pathKey.Path...), fileName)...))
}
