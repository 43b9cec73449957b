// Package file implements storage.Store on top of a single JSON document on
// disk. It is the default driver and plays the role a browser's local storage
// plays for the web front end.
package file

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-faster/errors"

	"github.com/xenking/storefront/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store keeps every key in one JSON object. Each operation re-reads the file,
// so several CLI processes sharing a file observe each other's last write.
type Store struct {
	path string
	mu   sync.Mutex
}

// New returns a Store writing to path. Parent directories are created on the
// first write.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file location.
func (s *Store) Path() string { return s.path }

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return nil, err
	}
	v, ok := doc[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return v, nil
}

func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}
	doc[key] = append([]byte(nil), value...)
	return s.write(doc)
}

func (s *Store) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}
	for _, k := range keys {
		delete(doc, k)
	}
	return s.write(doc)
}

// Ping checks that the directory holding the file is usable.
func (s *Store) Ping(context.Context) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return errors.Wrapf(err, "create %s", dir)
	}
	return nil
}

func (s *Store) Close() error { return nil }

// read loads the document. A missing file is an empty document.
func (s *Store) read() (map[string][]byte, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return make(map[string][]byte), nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", s.path)
	}

	doc := make(map[string][]byte)
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, "decode %s", s.path)
	}
	return doc, nil
}

// write replaces the file atomically via a temp file and rename.
func (s *Store) write(doc map[string][]byte) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode document")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return errors.Wrapf(err, "create %s", dir)
	}

	tmp, err := os.CreateTemp(dir, ".storefront-*")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "write temp file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close temp file")
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return errors.Wrapf(err, "replace %s", s.path)
	}
	return nil
}
