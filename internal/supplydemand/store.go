// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package supplydemand caches Supply and Demand objects in front of a
// durable ObjectStore. It is the single owner of those caches.
package supplydemand

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/feedforward/internal/apperrors"
	"github.com/pdiddy/feedforward/internal/objectstore"
	"github.com/pdiddy/feedforward/pkg/types"
)

// SupplyEntry pairs a cached supply with the hash it is stored under.
type SupplyEntry struct {
	Hash   string
	Supply *types.Supply
}

// Store is a write-through cache of Supply and Demand objects. Cached
// objects are immutable and must not be modified by callers. The caches
// are unbounded.
type Store struct {
	objects objectstore.ObjectStore
	logger  *zap.Logger
	newID   func() string

	mu          sync.RWMutex
	supplies    map[string]*types.Supply
	supplyOrder []string
	demands     map[string]*types.Demand
}

// NewStore returns an empty cache in front of objects.
func NewStore(objects objectstore.ObjectStore, logger *zap.Logger) *Store {
	return &Store{
		objects:  objects,
		logger:   logger.Named("supplydemand"),
		newID:    uuid.NewString,
		supplies: make(map[string]*types.Supply),
		demands:  make(map[string]*types.Demand),
	}
}

// CreateSupply assigns sup an id if it has none, persists it, caches it
// under the returned hash, and returns the hash.
func (s *Store) CreateSupply(ctx context.Context, sup *types.Supply) (string, error) {
	if sup.ID == "" {
		sup.ID = s.newID()
	}
	hash, err := s.objects.StoreVersioned(ctx, sup)
	if err != nil {
		return "", apperrors.Store("store supply", err)
	}
	s.cacheSupply(hash, sup)
	return hash, nil
}

// CreateDemand assigns d an id if it has none, persists it, caches it, and
// returns its hash.
func (s *Store) CreateDemand(ctx context.Context, d *types.Demand) (string, error) {
	if d.ID == "" {
		d.ID = s.newID()
	}
	hash, err := s.objects.StoreVersioned(ctx, d)
	if err != nil {
		return "", apperrors.Store("store demand", err)
	}
	s.mu.Lock()
	s.demands[hash] = d
	s.mu.Unlock()
	return hash, nil
}

// CreateMatch persists an audit record. Match records are not cached.
func (s *Store) CreateMatch(ctx context.Context, m *types.SupplyDemandMatch) (string, error) {
	if m.ID == "" {
		m.ID = s.newID()
	}
	hash, err := s.objects.StoreVersioned(ctx, m)
	if err != nil {
		return "", apperrors.Store("store match", err)
	}
	return hash, nil
}

func (s *Store) cacheSupply(hash string, sup *types.Supply) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.supplies[hash]; !ok {
		s.supplyOrder = append(s.supplyOrder, hash)
	}
	s.supplies[hash] = sup
}

// LookupDemand returns the demand stored under hash, reading through to
// the object store on a cache miss.
func (s *Store) LookupDemand(ctx context.Context, hash string) (*types.Demand, error) {
	s.mu.RLock()
	d, ok := s.demands[hash]
	s.mu.RUnlock()
	if ok {
		return d, nil
	}

	var loaded types.Demand
	if err := s.load(ctx, hash, types.TypeDemand, &loaded); err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.demands[hash] = &loaded
	s.mu.Unlock()
	return &loaded, nil
}

// LookupSupply returns the supply stored under hash, reading through to
// the object store on a cache miss.
func (s *Store) LookupSupply(ctx context.Context, hash string) (*types.Supply, error) {
	s.mu.RLock()
	sup, ok := s.supplies[hash]
	s.mu.RUnlock()
	if ok {
		return sup, nil
	}

	var loaded types.Supply
	if err := s.load(ctx, hash, types.TypeSupply, &loaded); err != nil {
		return nil, err
	}
	s.cacheSupply(hash, &loaded)
	return &loaded, nil
}

func (s *Store) load(ctx context.Context, hash, typ string, v any) error {
	rec, err := s.objects.GetByIDHash(ctx, hash)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NotFound(typ, hash)
		}
		return apperrors.Store("get "+typ, err)
	}
	if rec.Type != typ {
		return apperrors.NotFound(typ, hash)
	}
	if err := rec.Decode(v); err != nil {
		return apperrors.Store("decode "+typ, err)
	}
	return nil
}

// Supplies returns a snapshot of every cached supply in insertion order.
func (s *Store) Supplies() []SupplyEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]SupplyEntry, len(s.supplyOrder))
	for i, h := range s.supplyOrder {
		out[i] = SupplyEntry{Hash: h, Supply: s.supplies[h]}
	}
	return out
}

// Len returns the number of cached supplies and demands.
func (s *Store) Len() (supplies, demands int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.supplies), len(s.demands)
}

// Warm loads every persisted supply and demand into the caches when the
// object store can enumerate them. It returns the number of objects
// loaded; stores without listing support load nothing.
func (s *Store) Warm(ctx context.Context) (int, error) {
	lister, ok := s.objects.(objectstore.Lister)
	if !ok {
		return 0, nil
	}

	supplies, err := lister.ListByType(ctx, types.TypeSupply)
	if err != nil {
		return 0, apperrors.Store("list supplies", err)
	}
	demands, err := lister.ListByType(ctx, types.TypeDemand)
	if err != nil {
		return 0, apperrors.Store("list demands", err)
	}

	loaded := 0
	for _, rec := range supplies {
		var sup types.Supply
		if err := rec.Decode(&sup); err != nil {
			s.logger.Warn("Skipping undecodable supply", zap.String("hash", rec.IDHash), zap.Error(err))
			continue
		}
		s.cacheSupply(rec.IDHash, &sup)
		loaded++
	}

	s.mu.Lock()
	for _, rec := range demands {
		var d types.Demand
		if err := rec.Decode(&d); err != nil {
			s.logger.Warn("Skipping undecodable demand", zap.String("hash", rec.IDHash), zap.Error(err))
			continue
		}
		s.demands[rec.IDHash] = &d
		loaded++
	}
	s.mu.Unlock()

	s.logger.Debug("Cache warmed", zap.Int("objects", loaded))
	return loaded, nil
}
