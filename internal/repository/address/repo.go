// Package address stores geocoded addresses and their components.
package address

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ovp-platform/ovpsearch/internal/db/sqlite"
	"github.com/ovp-platform/ovpsearch/internal/domain"
	"github.com/ovp-platform/ovpsearch/internal/domain/entity"
	"github.com/ovp-platform/ovpsearch/internal/events"
)

// Repo manages addresses.
type Repo struct {
	db  *sql.DB
	pub events.Publisher
}

// New creates an address repository.
func New(db *sql.DB, pub events.Publisher) *Repo {
	return &Repo{db: db, pub: pub}
}

// Save inserts or replaces an address with its components and publishes a
// save event, which reindexes every entity located there.
func (r *Repo) Save(ctx context.Context, a *entity.Address) (*entity.Address, error) {
	out := *a
	err := sqlite.InTx(ctx, r.db, func(tx *sql.Tx) error {
		if out.ID == 0 {
			res, err := tx.ExecContext(ctx, `INSERT INTO addresses (typed_address) VALUES (?)`, out.TypedAddress)
			if err != nil {
				return fmt.Errorf("insert address: %w", err)
			}
			if out.ID, err = res.LastInsertId(); err != nil {
				return err
			}
		} else {
			_, err := tx.ExecContext(ctx, `INSERT INTO addresses (id, typed_address) VALUES (?, ?)
				ON CONFLICT(id) DO UPDATE SET typed_address = excluded.typed_address`, out.ID, out.TypedAddress)
			if err != nil {
				return fmt.Errorf("upsert address %d: %w", out.ID, err)
			}
		}
		return replaceComponents(ctx, tx, out.ID, out.Components)
	})
	if err != nil {
		return nil, err
	}
	if err := r.pub.Publish(ctx, events.Saved(events.EntityAddress, out.ID)); err != nil {
		return nil, fmt.Errorf("publish address %d: %w", out.ID, err)
	}
	return &out, nil
}

func replaceComponents(ctx context.Context, tx *sql.Tx, addressID int64, components []entity.AddressComponent) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM address_components WHERE address_id = ?`, addressID); err != nil {
		return fmt.Errorf("clear components: %w", err)
	}
	for pos, c := range components {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO address_components (address_id, position, long_name, short_name) VALUES (?, ?, ?, ?)`,
			addressID, pos, c.LongName, c.ShortName)
		if err != nil {
			return fmt.Errorf("insert component: %w", err)
		}
		compID, err := res.LastInsertId()
		if err != nil {
			return err
		}
		for tpos, typ := range c.Types {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO address_component_types (component_id, position, name) VALUES (?, ?, ?)`,
				compID, tpos, typ); err != nil {
				return fmt.Errorf("insert component type: %w", err)
			}
		}
	}
	return nil
}

// Get returns one address with its components.
func (r *Repo) Get(ctx context.Context, id int64) (*entity.Address, error) {
	m, err := Load(ctx, r.db, []int64{id})
	if err != nil {
		return nil, err
	}
	a, ok := m[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return a, nil
}

// Delete removes an address. The relational cascade deletes the projects and
// organizations located there and clears profile addresses; each of those
// gets its own change event so the index follows.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	var changed []events.Event
	err := sqlite.InTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, ref := range []struct {
			query string
			event func(int64) events.Event
		}{
			{`SELECT id FROM projects WHERE address_id = ? ORDER BY id`, func(id int64) events.Event {
				return events.Deleted(events.EntityProject, id)
			}},
			{`SELECT id FROM organizations WHERE address_id = ? ORDER BY id`, func(id int64) events.Event {
				return events.Deleted(events.EntityOrganization, id)
			}},
			{`SELECT user_id FROM profiles WHERE address_id = ? ORDER BY user_id`, func(id int64) events.Event {
				return events.Saved(events.EntityUser, id)
			}},
		} {
			ids, err := sqlite.QueryIDs(ctx, tx, ref.query, id)
			if err != nil {
				return fmt.Errorf("address references: %w", err)
			}
			for _, refID := range ids {
				changed = append(changed, ref.event(refID))
			}
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM addresses WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete address %d: %w", id, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	changed = append(changed, events.Deleted(events.EntityAddress, id))
	return events.PublishAll(ctx, r.pub, changed)
}

// Load returns the addresses with the given ids, keyed by id. Components and
// their types keep their stored order.
func Load(ctx context.Context, q sqlite.Querier, ids []int64) (map[int64]*entity.Address, error) {
	out := make(map[int64]*entity.Address, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	arg := sqlite.IDArray(ids)

	rows, err := q.QueryContext(ctx, `SELECT id, typed_address FROM addresses WHERE id IN `+sqlite.IDSet, arg)
	if err != nil {
		return nil, fmt.Errorf("load addresses: %w", err)
	}
	for rows.Next() {
		a := &entity.Address{Components: []entity.AddressComponent{}}
		if err := rows.Scan(&a.ID, &a.TypedAddress); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan address: %w", err)
		}
		out[a.ID] = a
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = q.QueryContext(ctx, `
		SELECT c.address_id, c.id, c.long_name, c.short_name, COALESCE(t.name, '')
		FROM address_components c
		LEFT JOIN address_component_types t ON t.component_id = c.id
		WHERE c.address_id IN `+sqlite.IDSet+`
		ORDER BY c.address_id, c.position, t.position`, arg)
	if err != nil {
		return nil, fmt.Errorf("load components: %w", err)
	}
	defer rows.Close()

	var lastComp int64 = -1
	for rows.Next() {
		var addrID, compID int64
		var longName, shortName, typ string
		if err := rows.Scan(&addrID, &compID, &longName, &shortName, &typ); err != nil {
			return nil, fmt.Errorf("scan component: %w", err)
		}
		a, ok := out[addrID]
		if !ok {
			continue
		}
		if compID != lastComp {
			a.Components = append(a.Components, entity.AddressComponent{
				LongName: longName, ShortName: shortName, Types: []string{},
			})
			lastComp = compID
		}
		if typ != "" {
			c := &a.Components[len(a.Components)-1]
			c.Types = append(c.Types, typ)
		}
	}
	return out, rows.Err()
}
