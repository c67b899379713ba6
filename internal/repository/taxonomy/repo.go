// Package taxonomy stores causes and skills and the join tables that tag
// projects, organizations and profiles with them.
package taxonomy

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ovp-platform/ovpsearch/internal/db/sqlite"
	"github.com/ovp-platform/ovpsearch/internal/domain"
	"github.com/ovp-platform/ovpsearch/internal/domain/entity"
	"github.com/ovp-platform/ovpsearch/internal/events"
)

// Repo manages causes and skills.
type Repo struct {
	db  *sql.DB
	pub events.Publisher
}

// New creates a taxonomy repository.
func New(db *sql.DB, pub events.Publisher) *Repo {
	return &Repo{db: db, pub: pub}
}

// SaveCause inserts or renames a cause. Renames do not touch the index,
// which stores ids only.
func (r *Repo) SaveCause(ctx context.Context, c entity.Cause) (entity.Cause, error) {
	id, err := r.save(ctx, "causes", c.ID, c.Name)
	if err != nil {
		return entity.Cause{}, err
	}
	return entity.Cause{ID: id, Name: c.Name}, nil
}

// SaveSkill inserts or renames a skill.
func (r *Repo) SaveSkill(ctx context.Context, s entity.Skill) (entity.Skill, error) {
	id, err := r.save(ctx, "skills", s.ID, s.Name)
	if err != nil {
		return entity.Skill{}, err
	}
	return entity.Skill{ID: id, Name: s.Name}, nil
}

func (r *Repo) save(ctx context.Context, table string, id int64, name string) (int64, error) {
	if name == "" {
		return 0, fmt.Errorf("%w: name is required", domain.ErrInvalidParameter)
	}
	if id == 0 {
		res, err := r.db.ExecContext(ctx, fmt.Sprintf(`INSERT INTO %s (name) VALUES (?)`, table), name)
		if err != nil {
			return 0, fmt.Errorf("insert %s: %w", table, err)
		}
		return res.LastInsertId()
	}
	query := fmt.Sprintf(`INSERT INTO %s (id, name) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name`, table)
	if _, err := r.db.ExecContext(ctx, query, id, name); err != nil {
		return 0, fmt.Errorf("upsert %s %d: %w", table, id, err)
	}
	return id, nil
}

// ListCauses returns every cause ordered by id.
func (r *Repo) ListCauses(ctx context.Context) ([]entity.Cause, error) {
	terms, err := r.list(ctx, "causes")
	if err != nil {
		return nil, err
	}
	return causes(terms), nil
}

// ListSkills returns every skill ordered by id.
func (r *Repo) ListSkills(ctx context.Context) ([]entity.Skill, error) {
	terms, err := r.list(ctx, "skills")
	if err != nil {
		return nil, err
	}
	return skills(terms), nil
}

func (r *Repo) list(ctx context.Context, table string) ([]term, error) {
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`SELECT id, name FROM %s ORDER BY id`, table))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	defer rows.Close()
	out := []term{}
	for rows.Next() {
		var t term
		if err := rows.Scan(&t.id, &t.name); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// DeleteCause removes a cause. Every owner that lost the link gets an
// association change event.
func (r *Repo) DeleteCause(ctx context.Context, id int64) error {
	return r.delete(ctx, "causes", id)
}

// DeleteSkill removes a skill and notifies the owners that lost it.
func (r *Repo) DeleteSkill(ctx context.Context, id int64) error {
	return r.delete(ctx, "skills", id)
}

func (r *Repo) delete(ctx context.Context, table string, id int64) error {
	var changed []events.Event
	err := sqlite.InTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, l := range links {
			if l.TermTable != table {
				continue
			}
			owners, err := l.Owners(ctx, tx, id)
			if err != nil {
				return err
			}
			for _, o := range owners {
				changed = append(changed, events.AssociationChanged(l.Owner, o, l.Relation))
			}
		}
		res, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, table), id)
		if err != nil {
			return fmt.Errorf("delete %s %d: %w", table, id, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}
	return events.PublishAll(ctx, r.pub, changed)
}

// SetTerms replaces the causes or skills of one owner and publishes an
// association change for it. Unknown term ids are rejected.
func SetTerms(ctx context.Context, db *sql.DB, pub events.Publisher, l Link, owner int64, ids []int64) error {
	err := sqlite.InTx(ctx, db, func(tx *sql.Tx) error {
		return l.Replace(ctx, tx, owner, ids)
	})
	if sqlite.IsConstraint(err) {
		return fmt.Errorf("%w: unknown %s or owner: %v", domain.ErrInvalidParameter, l.TermTable, err)
	}
	if err != nil {
		return err
	}
	e := events.AssociationChanged(l.Owner, owner, l.Relation)
	if err := pub.Publish(ctx, e); err != nil {
		return fmt.Errorf("publish %s: %w", e, err)
	}
	return nil
}

// LoadCauses returns the causes linked to each owner through l.
func LoadCauses(ctx context.Context, q sqlite.Querier, l Link, ownerIDs []int64) (map[int64][]entity.Cause, error) {
	byOwner, err := l.load(ctx, q, ownerIDs)
	if err != nil {
		return nil, err
	}
	out := make(map[int64][]entity.Cause, len(byOwner))
	for owner, terms := range byOwner {
		out[owner] = causes(terms)
	}
	return out, nil
}

// LoadSkills returns the skills linked to each owner through l.
func LoadSkills(ctx context.Context, q sqlite.Querier, l Link, ownerIDs []int64) (map[int64][]entity.Skill, error) {
	byOwner, err := l.load(ctx, q, ownerIDs)
	if err != nil {
		return nil, err
	}
	out := make(map[int64][]entity.Skill, len(byOwner))
	for owner, terms := range byOwner {
		out[owner] = skills(terms)
	}
	return out, nil
}

func causes(terms []term) []entity.Cause {
	out := make([]entity.Cause, len(terms))
	for i, t := range terms {
		out[i] = entity.Cause{ID: t.id, Name: t.name}
	}
	return out
}

func skills(terms []term) []entity.Skill {
	out := make([]entity.Skill, len(terms))
	for i, t := range terms {
		out[i] = entity.Skill{ID: t.id, Name: t.name}
	}
	return out
}
