package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/UmidYul/21-IDUM/model"
)

var ErrNotFound = errors.New("not found")

// ErrNoChange may be returned from an Update fn to report that the
// document was left untouched; the update then succeeds without a write.
var ErrNoChange = errors.New("no change")

// DocumentStore is a file-backed JSON document holding every site
// collection. The whole document is rewritten on each mutation, so a
// single mutex serializes read-modify-write cycles. The original
// deployment did whole-file rewrites without any lock; the mutex closes
// that race at the cost of cross-request write serialization.
type DocumentStore struct {
	path string

	mu  sync.Mutex
	doc *model.Document
}

// Open loads the document at path, seeding an empty document when the
// file does not exist yet. The seed is kept in memory only; the file is
// first written when a mutation happens.
func Open(path string) (*DocumentStore, error) {
	s := &DocumentStore{path: path, doc: &model.Document{}}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read data file: %w", err)
	}
	if err := json.Unmarshal(data, s.doc); err != nil {
		return nil, fmt.Errorf("could not parse data file %s: %w", path, err)
	}
	return s, nil
}

// Path returns the location of the backing file.
func (s *DocumentStore) Path() string {
	return s.path
}

// View runs fn with shared access to the document. fn must not retain or
// mutate the document; copy out whatever it needs.
func (s *DocumentStore) View(fn func(doc *model.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.doc)
}

// Update runs fn with exclusive access to the document and persists the
// whole document afterwards. If fn fails nothing is written. If the
// persist fails the error is returned and the next Update retries from
// the mutated in-memory state.
func (s *DocumentStore) Update(fn func(doc *model.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(s.doc); err != nil {
		if errors.Is(err, ErrNoChange) {
			return nil
		}
		return err
	}
	return s.persist()
}

// persist writes the document through a temp file and rename so readers
// of the file itself never observe a torn write.
func (s *DocumentStore) persist() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("could not encode document: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("could not create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("could not write document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("could not close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("could not replace data file: %w", err)
	}
	return nil
}
