package widget

import (
	"encoding/base64"
	"encoding/json"
	"os"
	"sync"
)

const markerPrefix = "pdw_subscribed_"

// markerKey derives the storage key for a product URL. The key shape is
// shared with the browser injector, which stores the same flag under the same
// prefix.
func markerKey(productURL string) string {
	encoded := base64.StdEncoding.EncodeToString([]byte(productURL))
	if len(encoded) > 32 {
		encoded = encoded[:32]
	}
	return markerPrefix + encoded
}

// MarkerStore keeps the advisory "already subscribed" flags on the device.
// It provides no real dedupe guarantee: the flag can be absent on another
// device or after the store is cleared. The server never reads it.
type MarkerStore interface {
	Set(key string) error
	Get(key string) bool
}

// MemoryMarkers is the default, process-local marker store.
type MemoryMarkers struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

// NewMemoryMarkers constructs an empty in-memory marker store.
func NewMemoryMarkers() *MemoryMarkers {
	return &MemoryMarkers{keys: make(map[string]struct{})}
}

func (m *MemoryMarkers) Set(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys[key] = struct{}{}
	return nil
}

func (m *MemoryMarkers) Get(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.keys[key]
	return ok
}

// FileMarkers persists markers as a small JSON file, the CLI's stand-in for
// browser local storage.
type FileMarkers struct {
	mu   sync.Mutex
	path string
}

// NewFileMarkers constructs a marker store backed by the file at path.
func NewFileMarkers(path string) *FileMarkers {
	return &FileMarkers{path: path}
}

func (f *FileMarkers) Set(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	keys := f.loadLocked()
	keys[key] = true
	data, err := json.Marshal(keys)
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, data, 0o600)
}

func (f *FileMarkers) Get(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.loadLocked()[key]
}

func (f *FileMarkers) loadLocked() map[string]bool {
	keys := make(map[string]bool)
	data, err := os.ReadFile(f.path)
	if err != nil {
		return keys
	}
	// A corrupt file reads as empty; markers are advisory.
	_ = json.Unmarshal(data, &keys)
	return keys
}
