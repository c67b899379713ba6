// Package document persists search documents as hashes under the FT indexes.
package document

import (
	"context"
	"errors"
	"fmt"

	"github.com/ovp-platform/ovpsearch/internal/db"
	"github.com/ovp-platform/ovpsearch/internal/domain"
	domdoc "github.com/ovp-platform/ovpsearch/internal/domain/document"
)

// store is the consumer interface for documents (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Repo writes and reads search documents.
type Repo struct {
	store store
	keys  domain.Keyspace
}

// New creates a document repository.
func New(s store, keys domain.Keyspace) *Repo {
	return &Repo{store: s, keys: keys}
}

// Upsert writes the full document hash. Returns true if it was created.
func (r *Repo) Upsert(ctx context.Context, doc domdoc.Document) (bool, error) {
	key := r.keys.DocumentKey(doc.Kind(), doc.ID())
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("check exists %s: %w", key, err)
	}
	if err := r.store.HSet(ctx, key, buildHashFields(doc)); err != nil {
		return false, fmt.Errorf("hset %s: %w", key, err)
	}
	return !exists, nil
}

// UpsertMany writes full document hashes in one round trip. Unlike Upsert
// it does not report which documents are new.
func (r *Repo) UpsertMany(ctx context.Context, docs []domdoc.Document) error {
	if len(docs) == 0 {
		return nil
	}
	items := make([]db.HashSetItem, len(docs))
	for i, doc := range docs {
		items[i] = db.HashSetItem{Key: r.keys.DocumentKey(doc.Kind(), doc.ID()), Fields: buildHashFields(doc)}
	}
	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("hset %d documents: %w", len(docs), err)
	}
	return nil
}

// Get returns the stored document of an entity.
func (r *Repo) Get(ctx context.Context, kind domain.Kind, id int64) (domdoc.Document, error) {
	key := r.keys.DocumentKey(kind, id)
	m, err := r.store.HGetAll(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domdoc.Document{}, domain.ErrNotFound
		}
		return domdoc.Document{}, fmt.Errorf("hgetall %s: %w", key, err)
	}
	if len(m) == 0 {
		return domdoc.Document{}, domain.ErrNotFound
	}
	return parseHashFields(kind, id, m), nil
}

// Delete removes a document. Removing an absent document is not an error.
func (r *Repo) Delete(ctx context.Context, kind domain.Kind, id int64) error {
	key := r.keys.DocumentKey(kind, id)
	if err := r.store.Del(ctx, key); err != nil && !errors.Is(err, db.ErrKeyNotFound) {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

// EnsureIndexes creates the FT index of every kind that lacks one.
func (r *Repo) EnsureIndexes(ctx context.Context) error {
	for _, kind := range domain.Kinds() {
		name := r.keys.IndexName(kind)
		exists, err := r.store.IndexExists(ctx, name)
		if err != nil {
			return fmt.Errorf("index exists %s: %w", name, err)
		}
		if exists {
			continue
		}
		if err := r.createIndex(ctx, kind); err != nil {
			return err
		}
	}
	return nil
}

// RecreateIndexes drops and recreates every FT index, picking up schema
// changes. Stored documents are kept and rescanned.
func (r *Repo) RecreateIndexes(ctx context.Context) error {
	for _, kind := range domain.Kinds() {
		name := r.keys.IndexName(kind)
		if err := r.store.DropIndex(ctx, name); err != nil && !errors.Is(err, db.ErrIndexNotFound) {
			return fmt.Errorf("drop index %s: %w", name, err)
		}
		if err := r.createIndex(ctx, kind); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repo) createIndex(ctx context.Context, kind domain.Kind) error {
	def := IndexDefinition(r.keys, kind)
	if err := r.store.CreateIndex(ctx, def); err != nil && !errors.Is(err, db.ErrIndexExists) {
		return fmt.Errorf("create index %s: %w", def.Name, err)
	}
	return nil
}
