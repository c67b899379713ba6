package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

type (
	// Publisher is what repositories depend on.
	Publisher interface {
		Publish(ctx context.Context, event Event) error
	}

	// Subscriber reacts to published events.
	Subscriber interface {
		HandleEvent(ctx context.Context, event Event) error
	}

	// SubscriberFunc adapts a function to Subscriber.
	SubscriberFunc func(ctx context.Context, event Event) error

	// Subscription is an active registration. Close is idempotent.
	Subscription interface {
		Close() error
	}

	// Bus fans events out synchronously in the publisher's goroutine, in
	// registration order, and stops at the first subscriber error.
	Bus struct {
		mu     sync.RWMutex
		nextID uint64
		subs   []registration
	}

	registration struct {
		id     uint64
		entity Entity
		sub    Subscriber
	}

	subscription struct {
		bus  *Bus
		id   uint64
		once sync.Once
	}
)

// HandleEvent calls f.
func (f SubscriberFunc) HandleEvent(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers sub for events on entity. An empty entity subscribes
// to everything.
func (b *Bus) Subscribe(entity Entity, sub Subscriber) (Subscription, error) {
	if sub == nil {
		return nil, errors.New("subscriber is required")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.subs = append(b.subs, registration{id: b.nextID, entity: entity, sub: sub})
	return &subscription{bus: b, id: b.nextID}, nil
}

// Publish delivers event to matching subscribers. The subscriber list is
// snapshotted first so handlers may publish or subscribe without deadlock.
func (b *Bus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	subs := make([]registration, len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	for _, r := range subs {
		if r.entity != "" && r.entity != event.Entity {
			continue
		}
		if err := r.sub.HandleEvent(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

func (s *subscription) Close() error {
	s.once.Do(func() {
		s.bus.mu.Lock()
		defer s.bus.mu.Unlock()
		for i, r := range s.bus.subs {
			if r.id == s.id {
				s.bus.subs = append(s.bus.subs[:i], s.bus.subs[i+1:]...)
				return
			}
		}
	})
	return nil
}

// Discard drops every event. Useful for repositories used without a synchronizer.
var Discard Publisher = PublisherFunc(func(context.Context, Event) error { return nil })

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(ctx context.Context, event Event) error

// Publish calls f.
func (f PublisherFunc) Publish(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// PublishAll publishes every event, continuing past failures, and joins the errors.
func PublishAll(ctx context.Context, pub Publisher, evts []Event) error {
	var errs []error
	for _, e := range evts {
		if err := pub.Publish(ctx, e); err != nil {
			errs = append(errs, fmt.Errorf("publish %s: %w", e, err))
		}
	}
	return errors.Join(errs...)
}
