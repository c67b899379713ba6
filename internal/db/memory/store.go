// Package memory is an in-process db.Store for local runs and tests. Hashes
// and TTL'd values live in maps; FT indexes are inverted indexes whose
// posting lists are roaring bitmaps.
package memory

import (
	"context"
	"fmt"
	"maps"
	"strings"
	"sync"
	"time"

	"github.com/ovp-platform/ovpsearch/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

type kvEntry struct {
	value   []byte
	expires time.Time
}

// Store implements db.Store in memory. It is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	hashes  map[string]map[string]string
	kv      map[string]kvEntry
	indexes map[string]*index
	now     func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for key expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		hashes:  make(map[string]map[string]string),
		kv:      make(map[string]kvEntry),
		indexes: make(map[string]*index),
		now:     time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Ping always succeeds.
func (s *Store) Ping(_ context.Context) error { return nil }

// Close is a no-op.
func (s *Store) Close() {}

// WaitForReady returns immediately.
func (s *Store) WaitForReady(_ context.Context, _ time.Duration) error { return nil }

// HSet merges fields into the hash at key and reindexes it.
func (s *Store) HSet(_ context.Context, key string, fields map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hsetLocked(key, fields)
	return nil
}

// HSetMulti applies HSet to every item under one lock.
func (s *Store) HSetMulti(_ context.Context, items []db.HashSetItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range items {
		s.hsetLocked(item.Key, item.Fields)
	}
	return nil
}

func (s *Store) hsetLocked(key string, fields map[string]string) {
	delete(s.kv, key)
	h, ok := s.hashes[key]
	if !ok {
		h = make(map[string]string, len(fields))
		s.hashes[key] = h
	}
	maps.Copy(h, fields)
	for _, idx := range s.indexes {
		if idx.covers(key) {
			idx.put(key, h)
		}
	}
}

// HGetAll returns a copy of the hash. A missing key yields an empty map.
func (s *Store) HGetAll(_ context.Context, key string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.hashes[key]), nil
}

// Del removes key from hashes, values and every index.
func (s *Store) Del(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.hashes, key)
	delete(s.kv, key)
	for _, idx := range s.indexes {
		idx.remove(key)
	}
	return nil
}

// Exists reports whether key holds a hash or an unexpired value.
func (s *Store) Exists(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.hashes[key]; ok {
		return true, nil
	}
	_, ok := s.liveLocked(key)
	return ok, nil
}

// Get returns the value at key, or db.ErrKeyNotFound when absent or expired.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.liveLocked(key)
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return append([]byte(nil), e.value...), nil
}

// SetWithTTL stores value at key until ttl elapses.
func (s *Store) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return &db.Error{Op: db.OpSet, Err: fmt.Errorf("invalid expire time %s", ttl)}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kv[key] = kvEntry{value: append([]byte(nil), value...), expires: s.now().Add(ttl)}
	return nil
}

func (s *Store) liveLocked(key string) (kvEntry, bool) {
	e, ok := s.kv[key]
	if !ok || !s.now().Before(e.expires) {
		return kvEntry{}, false
	}
	return e, true
}

// CreateIndex registers def and indexes every existing hash under its prefixes.
func (s *Store) CreateIndex(_ context.Context, def *db.IndexDefinition) error {
	if err := def.Validate(); err != nil {
		return &db.Error{Op: db.OpCreateIndex, Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.indexes[def.Name]; ok {
		return db.ErrIndexExists
	}
	idx := newIndex(def)
	for key, h := range s.hashes {
		if idx.covers(key) {
			idx.put(key, h)
		}
	}
	s.indexes[def.Name] = idx
	return nil
}

// DropIndex removes the index. Documents are kept.
func (s *Store) DropIndex(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.indexes[name]; !ok {
		return db.ErrIndexNotFound
	}
	delete(s.indexes, name)
	return nil
}

// IndexExists reports whether name was created.
func (s *Store) IndexExists(_ context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.indexes[name]
	return ok, nil
}

// Search evaluates q against the named index. Hits come back in insertion order.
func (s *Store) Search(_ context.Context, q *db.SearchQuery) (*db.SearchResult, error) {
	if q.IndexName == "" {
		return nil, fmt.Errorf("index name is required")
	}
	if q.Limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}
	if err := q.Filter.Validate(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.indexes[q.IndexName]
	if !ok {
		return nil, &db.Error{Op: db.OpSearch, Err: fmt.Errorf("%s: no such index", q.IndexName)}
	}
	hits, err := idx.evaluate(q.Filter)
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	res := &db.SearchResult{Total: int(hits.GetCardinality())}
	skipped := 0
	it := hits.Iterator()
	for it.HasNext() && len(res.Entries) < q.Limit {
		docID := it.Next()
		if skipped < q.Offset {
			skipped++
			continue
		}
		key := idx.keys[docID]
		entry := db.SearchEntry{Key: key}
		if !q.NoContent {
			entry.Fields = project(s.hashes[key], q.ReturnFields)
		}
		res.Entries = append(res.Entries, entry)
	}
	return res, nil
}

func project(h map[string]string, fields []string) map[string]string {
	if len(fields) == 0 {
		return maps.Clone(h)
	}
	out := make(map[string]string, len(fields))
	for _, f := range fields {
		if v, ok := h[f]; ok {
			out[f] = v
		}
	}
	return out
}

func hasAnyPrefix(key string, prefixes []string) bool {
	if len(prefixes) == 0 {
		return true
	}
	for _, p := range prefixes {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}
