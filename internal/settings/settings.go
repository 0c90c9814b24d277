// Package settings persists the two user preference scalars behind a small
// repository interface so the backing store stays swappable.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"
)

// Storage keys and defaults. Values are string-encoded on disk; absence or
// garbage degrades to the defaults, never to an error.
const (
	KeyThreshold = "arbitrage_threshold"
	KeyEnabled   = "arbitrage_enabled"

	DefaultThreshold     = 1.5
	DefaultAlertsEnabled = true
)

// Repository exposes the two preference scalars. Implementations coerce
// stored strings back into their types and fall back to defaults on any
// read problem.
type Repository interface {
	Threshold() float64
	AlertsEnabled() bool
	SetThreshold(v float64) error
	SetAlertsEnabled(v bool) error
}

// FileStore keeps the preferences in one small JSON file of string values.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Threshold() float64 {
	if s, ok := f.read()[KeyThreshold]; ok {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return v
		}
	}
	return DefaultThreshold
}

func (f *FileStore) AlertsEnabled() bool {
	if s, ok := f.read()[KeyEnabled]; ok {
		if v, err := strconv.ParseBool(s); err == nil {
			return v
		}
	}
	return DefaultAlertsEnabled
}

func (f *FileStore) SetThreshold(v float64) error {
	if v < 0 {
		return errors.New("threshold must be >= 0")
	}
	return f.write(KeyThreshold, strconv.FormatFloat(v, 'f', -1, 64))
}

func (f *FileStore) SetAlertsEnabled(v bool) error {
	return f.write(KeyEnabled, strconv.FormatBool(v))
}

func (f *FileStore) read() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.readLocked()
}

func (f *FileStore) readLocked() map[string]string {
	out := map[string]string{}
	b, err := os.ReadFile(f.path)
	if err != nil {
		return out
	}
	// A corrupt file reads as empty: defaults apply.
	_ = json.Unmarshal(b, &out)
	return out
}

func (f *FileStore) write(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kv := f.readLocked()
	kv[key] = value
	b, err := json.MarshalIndent(kv, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(f.path, b, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

// MemStore is the in-memory backing for tests and non-persistent targets.
type MemStore struct {
	mu sync.RWMutex
	kv map[string]string
}

func NewMemStore() *MemStore {
	return &MemStore{kv: map[string]string{}}
}

func (m *MemStore) Threshold() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, err := strconv.ParseFloat(m.kv[KeyThreshold], 64); err == nil {
		return v
	}
	return DefaultThreshold
}

func (m *MemStore) AlertsEnabled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, err := strconv.ParseBool(m.kv[KeyEnabled]); err == nil {
		return v
	}
	return DefaultAlertsEnabled
}

func (m *MemStore) SetThreshold(v float64) error {
	if v < 0 {
		return errors.New("threshold must be >= 0")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.kv[KeyThreshold] = strconv.FormatFloat(v, 'f', -1, 64)
	return nil
}

func (m *MemStore) SetAlertsEnabled(v bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.kv[KeyEnabled] = strconv.FormatBool(v)
	return nil
}
