// Package memstore is an in-process object store used by memory mode and tests.
package memstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
)

// ErrNotFound is returned when deleting a key that does not exist.
var ErrNotFound = errors.New("object not found")

// Object is a stored blob.
type Object struct {
	Data        []byte
	ContentType string
}

// Store keeps objects in a map.
type Store struct {
	mu        sync.RWMutex
	objects   map[string]Object
	putErr    error
	deleteErr error
}

// New creates an empty Store.
func New() *Store {
	return &Store{objects: make(map[string]Object)}
}

// Put stores the body under key.
func (s *Store) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	s.mu.RLock()
	putErr := s.putErr
	s.mu.RUnlock()
	if putErr != nil {
		return putErr
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("failed to read object body: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = Object{Data: data, ContentType: contentType}
	return nil
}

// Delete removes key.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.deleteErr != nil {
		return s.deleteErr
	}
	if _, ok := s.objects[key]; !ok {
		return ErrNotFound
	}
	delete(s.objects, key)
	return nil
}

// Get returns the object under key.
func (s *Store) Get(key string) (Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	return obj, ok
}

// Keys returns every stored key in sorted order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.objects))
	for k := range s.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FailPuts makes every following Put return err (nil restores normal behaviour).
func (s *Store) FailPuts(err error) {
	s.mu.Lock()
	s.putErr = err
	s.mu.Unlock()
}

// FailDeletes makes every following Delete return err (nil restores normal behaviour).
func (s *Store) FailDeletes(err error) {
	s.mu.Lock()
	s.deleteErr = err
	s.mu.Unlock()
}
