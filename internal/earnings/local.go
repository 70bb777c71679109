package earnings

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// localFile is the JSON document layout on disk.
type localFile struct {
	Users map[string]Stats `json:"users"`
}

// LocalStore keeps stats in a single JSON file, read-modify-write
// under a mutex. A missing or corrupt file counts as empty.
type LocalStore struct {
	mu   sync.Mutex
	path string
}

func NewLocalStore(path string) (*LocalStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("empty earnings file path")
	}
	if parent := filepath.Dir(path); parent != "" && parent != "." {
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return nil, err
		}
	}
	return &LocalStore{path: path}, nil
}

func (s *LocalStore) Get(_ context.Context, email string) (Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := s.load()
	return doc.Users[normalizeEmail(email)], nil
}

func (s *LocalStore) ApplyUpdates(_ context.Context, updates []Update) error {
	if len(updates) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := s.load()
	for _, u := range updates {
		email := normalizeEmail(u.Email)
		if email == "" {
			continue
		}
		st := doc.Users[email]
		st.add(u)
		doc.Users[email] = st
	}
	return s.save(doc)
}

func (s *LocalStore) Enabled() bool { return true }
func (s *LocalStore) Close() error  { return nil }

func (s *LocalStore) load() localFile {
	doc := localFile{Users: map[string]Stats{}}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return doc
	}
	if err := json.Unmarshal(data, &doc); err != nil || doc.Users == nil {
		doc.Users = map[string]Stats{}
	}
	return doc
}

func (s *LocalStore) save(doc localFile) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
