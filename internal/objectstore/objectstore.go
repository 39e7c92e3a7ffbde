// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package objectstore provides versioned, identity-addressed object
// storage. An object's identity (its type plus identity key) determines its
// id hash; storing the same identity again appends a new version under the
// same hash, and lookups return the latest version.
package objectstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/pdiddy/feedforward/internal/apperrors"
)

// Object is anything the store can persist.
type Object interface {
	// ObjectType names the object kind, e.g. "Supply".
	ObjectType() string

	// IdentityKey is the value that identifies the object within its kind.
	IdentityKey() string
}

// ObjectStore persists versioned objects.
type ObjectStore interface {
	// StoreVersioned persists obj as a new version and returns its id hash.
	StoreVersioned(ctx context.Context, obj Object) (string, error)

	// GetByIDHash returns the latest version stored under idHash, or an
	// error wrapping apperrors.ErrNotFound.
	GetByIDHash(ctx context.Context, idHash string) (*Record, error)
}

// Lister is implemented by stores that can enumerate objects of one type.
type Lister interface {
	// ListByType returns the latest version of every object of typ, in the
	// order each identity was first stored.
	ListByType(ctx context.Context, typ string) ([]*Record, error)
}

// Record is one stored object version.
type Record struct {
	IDHash  string
	Type    string
	Version int
	Data    []byte
	Stored  time.Time
}

// Decode unmarshals the record payload into v.
func (r *Record) Decode(v any) error {
	if err := json.Unmarshal(r.Data, v); err != nil {
		return fmt.Errorf("decoding %s %s: %w", r.Type, r.IDHash, err)
	}
	return nil
}

// IDHash returns the id hash for an object identity.
func IDHash(typ, key string) string {
	sum := sha256.Sum256([]byte(typ + "\x1f" + key))
	return hex.EncodeToString(sum[:])
}

// HashOf returns the id hash of obj.
func HashOf(obj Object) string {
	return IDHash(obj.ObjectType(), obj.IdentityKey())
}

// Memory is an in-process ObjectStore. It is safe for concurrent use.
type Memory struct {
	mu       sync.RWMutex
	versions map[string][]Record
	order    []string
	now      func() time.Time
}

var (
	_ ObjectStore = (*Memory)(nil)
	_ Lister      = (*Memory)(nil)
)

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{versions: make(map[string][]Record), now: time.Now}
}

// StoreVersioned appends a new version of obj under its id hash.
func (m *Memory) StoreVersioned(ctx context.Context, obj Object) (string, error) {
	data, err := json.Marshal(obj)
	if err != nil {
		return "", fmt.Errorf("encoding %s: %w", obj.ObjectType(), err)
	}
	hash := HashOf(obj)

	m.mu.Lock()
	defer m.mu.Unlock()

	prior := m.versions[hash]
	if len(prior) == 0 {
		m.order = append(m.order, hash)
	}
	m.versions[hash] = append(prior, Record{
		IDHash:  hash,
		Type:    obj.ObjectType(),
		Version: len(prior) + 1,
		Data:    data,
		Stored:  m.now().UTC(),
	})
	return hash, nil
}

// GetByIDHash returns the latest version stored under idHash.
func (m *Memory) GetByIDHash(ctx context.Context, idHash string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	versions := m.versions[idHash]
	if len(versions) == 0 {
		return nil, apperrors.NotFound("object", idHash)
	}
	rec := versions[len(versions)-1]
	return &rec, nil
}

// ListByType returns the latest version of every object of typ, in first-stored order.
func (m *Memory) ListByType(ctx context.Context, typ string) ([]*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Record
	for _, hash := range m.order {
		versions := m.versions[hash]
		rec := versions[len(versions)-1]
		if rec.Type == typ {
			out = append(out, &rec)
		}
	}
	return out, nil
}

// Versions returns how many versions exist under idHash.
func (m *Memory) Versions(idHash string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.versions[idHash])
}
