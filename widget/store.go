// Package widget is the client side of the assistant: the persisted session,
// the conversation controller that drives one turn at a time against the
// chat endpoint, follow-up suggestions and the lead-gated photo capture flow.
package widget

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	keySessionID      = "vernon_session_id"
	keySessionCreated = "vernon_session_created"
	keyProactiveShown = "vernon_proactive_shown"
)

// SessionTTL is how long a persisted session id is reused.
const SessionTTL = 24 * time.Hour

// Store is the client-persisted key/value state (browser localStorage on the website).
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

type MemoryStore struct {
	mu   sync.Mutex
	data map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (m *MemoryStore) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemoryStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// FileStore keeps the state as one JSON object on disk. Every Set rewrites the file.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &FileStore{path: path}, nil
}

func (f *FileStore) load() (map[string]string, error) {
	data := make(map[string]string)
	b, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return data, nil
	}
	if err != nil {
		return nil, err
	}
	if len(b) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(b, &data); err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.path, err)
	}
	return data, nil
}

func (f *FileStore) save(data map[string]string) error {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

func (f *FileStore) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := f.load()
	if err != nil {
		return "", false, err
	}
	v, ok := data[key]
	return v, ok, nil
}

func (f *FileStore) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := f.load()
	if err != nil {
		return err
	}
	data[key] = value
	return f.save(data)
}

func (f *FileStore) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := f.load()
	if err != nil {
		return err
	}
	if _, ok := data[key]; !ok {
		return nil
	}
	delete(data, key)
	return f.save(data)
}

type Session struct {
	ID        string
	CreatedAt time.Time
	// Fresh is true when the id was minted by this call.
	Fresh bool
}

// EnsureSession reuses the persisted session id while it is younger than
// SessionTTL and mints a new one otherwise. A missing or unparsable
// timestamp counts as expired.
func EnsureSession(s Store, now time.Time) (Session, error) {
	id, okID, err := s.Get(keySessionID)
	if err != nil {
		return Session{}, err
	}
	raw, okTS, err := s.Get(keySessionCreated)
	if err != nil {
		return Session{}, err
	}
	if okID && okTS && id != "" {
		if created, perr := time.Parse(time.RFC3339Nano, raw); perr == nil && now.Sub(created) < SessionTTL {
			return Session{ID: id, CreatedAt: created}, nil
		}
	}

	sess := Session{ID: uuid.NewString(), CreatedAt: now, Fresh: true}
	if err := s.Set(keySessionID, sess.ID); err != nil {
		return Session{}, err
	}
	if err := s.Set(keySessionCreated, now.UTC().Format(time.RFC3339Nano)); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// ClearSession forgets the session id so the next EnsureSession mints a new one.
func ClearSession(s Store) error {
	return errors.Join(s.Delete(keySessionID), s.Delete(keySessionCreated))
}

// ProactiveShown reports whether the proactive greeting was already shown on this device.
func ProactiveShown(s Store) bool {
	v, ok, err := s.Get(keyProactiveShown)
	return err == nil && ok && v == "true"
}

// MarkProactiveShown is permanent. Session resets do not clear it.
func MarkProactiveShown(s Store) error {
	return s.Set(keyProactiveShown, "true")
}
