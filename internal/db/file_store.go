package db

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// FileStore keeps every key in one YAML mapping on disk.
type FileStore struct {
	mu   sync.RWMutex
	path string
	doc  map[string]yaml.Node
}

// OpenFileStore reads path. A missing file starts an empty store; the file
// is created on the first write.
func OpenFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path, doc: make(map[string]yaml.Node)}

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, &s.doc); err != nil {
			return nil, fmt.Errorf("parsing store file %s: %w", path, err)
		}
		if s.doc == nil {
			s.doc = make(map[string]yaml.Node)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("reading store file %s: %w", path, err)
	}
	return s, nil
}

// Path returns the backing file path.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	if err := checkKey(key); err != nil {
		return nil, false, err
	}
	s.mu.RLock()
	node, ok := s.doc[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	raw, err := yaml.Marshal(&node)
	if err != nil {
		return nil, false, fmt.Errorf("encoding %q: %w", key, err)
	}
	return raw, true, nil
}

func (s *FileStore) Set(_ context.Context, key string, value []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	var node yaml.Node
	if err := yaml.Unmarshal(value, &node); err != nil {
		return fmt.Errorf("decoding %q: %w", key, err)
	}
	// Unmarshal wraps the value in a document node; empty input has none.
	switch {
	case node.Kind == yaml.DocumentNode && len(node.Content) > 0:
		node = *node.Content[0]
	default:
		node = yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	prev, had := s.doc[key]
	s.doc[key] = node
	if err := s.flushLocked(); err != nil {
		if had {
			s.doc[key] = prev
		} else {
			delete(s.doc, key)
		}
		return err
	}
	return nil
}

func (s *FileStore) Delete(_ context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, had := s.doc[key]
	if !had {
		return nil
	}
	delete(s.doc, key)
	if err := s.flushLocked(); err != nil {
		s.doc[key] = prev
		return err
	}
	return nil
}

func (s *FileStore) Has(_ context.Context, key string) (bool, error) {
	if err := checkKey(key); err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.doc[key]
	return ok, nil
}

// Close is a no-op; every write is already on disk.
func (s *FileStore) Close() error { return nil }

// flushLocked writes the document to a temp file in the same directory and
// renames it over the store file.
func (s *FileStore) flushLocked() error {
	raw, err := yaml.Marshal(s.doc)
	if err != nil {
		return fmt.Errorf("encoding store file: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating store dir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp store file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp store file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing temp store file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp store file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replacing store file %s: %w", s.path, err)
	}
	return nil
}
