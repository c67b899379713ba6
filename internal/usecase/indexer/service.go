// Package indexer keeps the search index in step with the relational store.
package indexer

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ovp-platform/ovpsearch/internal/domain"
	domdoc "github.com/ovp-platform/ovpsearch/internal/domain/document"
	"github.com/ovp-platform/ovpsearch/internal/domain/entity"
	"github.com/ovp-platform/ovpsearch/internal/domain/search/query"
	"github.com/ovp-platform/ovpsearch/internal/events"
)

// Sync actions reported in metrics. A failed single write and the batched
// writes of a rebuild do not know whether the document existed, so they
// count as upserts.
const (
	actionCreate = "create"
	actionUpdate = "update"
	actionUpsert = "upsert"
	actionRemove = "remove"
)

// rebuildBatchSize bounds the documents written per round trip on rebuild.
const rebuildBatchSize = 500

type reader interface {
	get(ctx context.Context, id int64) (domdoc.Source, error)
	IDs(ctx context.Context) ([]int64, error)
	IDsByAddress(ctx context.Context, addressID int64) ([]int64, error)
}

type typedReader[T domdoc.Source] struct {
	EntityReader[T]
}

func (r typedReader[T]) get(ctx context.Context, id int64) (domdoc.Source, error) {
	return r.Get(ctx, id)
}

// Service reacts to relational change events by rewriting search documents.
type Service struct {
	docs      DocumentWriter
	matcher   Matcher
	readers   map[domain.Kind]reader
	syncTotal *prometheus.CounterVec
	logger    *zap.Logger
}

// New creates the synchronizer.
// syncTotal is a counter vec with labels "kind", "action", "status", passed explicitly (may be nil).
func New(
	docs DocumentWriter,
	matcher Matcher,
	projects EntityReader[*entity.Project],
	organizations EntityReader[*entity.Organization],
	users EntityReader[*entity.User],
	syncTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *Service {
	return &Service{
		docs:    docs,
		matcher: matcher,
		readers: map[domain.Kind]reader{
			domain.KindProject:      typedReader[*entity.Project]{projects},
			domain.KindOrganization: typedReader[*entity.Organization]{organizations},
			domain.KindUser:         typedReader[*entity.User]{users},
		},
		syncTotal: syncTotal,
		logger:    logger,
	}
}

// Subscribe registers the synchronizer for every event on the bus.
func (s *Service) Subscribe(bus *events.Bus) (events.Subscription, error) {
	return bus.Subscribe("", s)
}

// HandleEvent applies one change event to the index.
func (s *Service) HandleEvent(ctx context.Context, e events.Event) error {
	if e.Entity == events.EntityAddress {
		if e.Action == events.ActionDeleted {
			// dependents announce their own deletion
			return nil
		}
		return s.ReindexAddress(ctx, e.ID)
	}

	kind, ok := kindOf(e.Entity)
	if !ok {
		return nil
	}
	if e.Action == events.ActionDeleted {
		return s.Remove(ctx, kind, e.ID)
	}
	// saves and association changes both rebuild the owner only
	return s.Reindex(ctx, kind, e.ID)
}

// Reindex reloads one entity and writes its document, or removes the
// document when the entity is gone or no longer eligible.
func (s *Service) Reindex(ctx context.Context, kind domain.Kind, id int64) error {
	doc, ok, err := s.load(ctx, kind, id)
	if err != nil {
		return err
	}
	if !ok {
		return s.Remove(ctx, kind, id)
	}

	created, err := s.docs.Upsert(ctx, doc)
	if err != nil {
		s.inc(kind, actionUpsert, err)
		return fmt.Errorf("index %s %d: %w", kind, id, err)
	}
	action := actionUpdate
	if created {
		action = actionCreate
	}
	s.inc(kind, action, nil)
	s.logger.Debug("Indexed document",
		zap.String("kind", string(kind)), zap.Int64("id", id), zap.Bool("created", created))
	return nil
}

// load builds the document of an entity. ok is false when the entity is
// gone or not eligible for the index.
func (s *Service) load(ctx context.Context, kind domain.Kind, id int64) (domdoc.Document, bool, error) {
	r, ok := s.readers[kind]
	if !ok {
		return domdoc.Document{}, false, fmt.Errorf("%w: unknown kind %q", domain.ErrInvalidParameter, kind)
	}
	src, err := r.get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domdoc.Document{}, false, nil
	}
	if err != nil {
		return domdoc.Document{}, false, fmt.Errorf("load %s %d: %w", kind, id, err)
	}
	if !src.Indexable() {
		return domdoc.Document{}, false, nil
	}
	return domdoc.Build(kind, src), true, nil
}

// Remove deletes the document of an entity.
func (s *Service) Remove(ctx context.Context, kind domain.Kind, id int64) error {
	err := s.docs.Delete(ctx, kind, id)
	s.inc(kind, actionRemove, err)
	if err != nil {
		return fmt.Errorf("remove %s %d: %w", kind, id, err)
	}
	s.logger.Debug("Removed document", zap.String("kind", string(kind)), zap.Int64("id", id))
	return nil
}

// ReindexAddress reindexes every project, organization and profile located
// at an address.
func (s *Service) ReindexAddress(ctx context.Context, addressID int64) error {
	for _, kind := range domain.Kinds() {
		ids, err := s.readers[kind].IDsByAddress(ctx, addressID)
		if err != nil {
			return fmt.Errorf("%s at address %d: %w", kind, addressID, err)
		}
		for _, id := range ids {
			if err := s.Reindex(ctx, kind, id); err != nil {
				return err
			}
		}
	}
	return nil
}

// EnsureIndexes creates missing FT indexes.
func (s *Service) EnsureIndexes(ctx context.Context) error {
	return s.docs.EnsureIndexes(ctx)
}

// RebuildReport counts documents per kind after a rebuild.
type RebuildReport struct {
	Indexed map[domain.Kind]int
	Pruned  map[domain.Kind]int
}

// Rebuild recreates the FT indexes, rewrites every eligible entity in
// batches and prunes documents whose entity is gone or no longer eligible.
func (s *Service) Rebuild(ctx context.Context) (RebuildReport, error) {
	report := RebuildReport{Indexed: map[domain.Kind]int{}, Pruned: map[domain.Kind]int{}}
	if err := s.docs.RecreateIndexes(ctx); err != nil {
		return report, fmt.Errorf("recreate indexes: %w", err)
	}

	for _, kind := range domain.Kinds() {
		ids, err := s.readers[kind].IDs(ctx)
		if err != nil {
			return report, fmt.Errorf("list %s ids: %w", kind, err)
		}
		eligible, err := s.rewrite(ctx, kind, ids)
		if err != nil {
			return report, err
		}

		indexed, err := s.matcher.MatchAllIDs(ctx, query.New(kind))
		if err != nil {
			return report, fmt.Errorf("list indexed %s: %w", kind, err)
		}
		for _, id := range indexed {
			if eligible[id] {
				report.Indexed[kind]++
				continue
			}
			if err := s.Remove(ctx, kind, id); err != nil {
				return report, err
			}
			report.Pruned[kind]++
		}
		s.logger.Info("Rebuilt index",
			zap.String("kind", string(kind)),
			zap.Int("indexed", report.Indexed[kind]),
			zap.Int("pruned", report.Pruned[kind]),
		)
	}
	return report, nil
}

// rewrite writes the documents of the eligible entities among ids and
// returns their ids.
func (s *Service) rewrite(ctx context.Context, kind domain.Kind, ids []int64) (map[int64]bool, error) {
	eligible := make(map[int64]bool, len(ids))
	batch := make([]domdoc.Document, 0, rebuildBatchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		err := s.docs.UpsertMany(ctx, batch)
		s.add(kind, actionUpsert, err, len(batch))
		if err != nil {
			return fmt.Errorf("index %d %s documents: %w", len(batch), kind, err)
		}
		batch = batch[:0]
		return nil
	}

	for _, id := range ids {
		doc, ok, err := s.load(ctx, kind, id)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		eligible[id] = true
		batch = append(batch, doc)
		if len(batch) == rebuildBatchSize {
			if err := flush(); err != nil {
				return nil, err
			}
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return eligible, nil
}

func (s *Service) inc(kind domain.Kind, action string, err error) {
	s.add(kind, action, err, 1)
}

func (s *Service) add(kind domain.Kind, action string, err error, n int) {
	if s.syncTotal == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	s.syncTotal.WithLabelValues(string(kind), action, status).Add(float64(n))
}

func kindOf(e events.Entity) (domain.Kind, bool) {
	switch e {
	case events.EntityProject:
		return domain.KindProject, true
	case events.EntityOrganization:
		return domain.KindOrganization, true
	case events.EntityUser:
		return domain.KindUser, true
	}
	return "", false
}
