// Package user stores users and their volunteer profiles.
package user

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/ovp-platform/ovpsearch/internal/db/sqlite"
	"github.com/ovp-platform/ovpsearch/internal/domain"
	"github.com/ovp-platform/ovpsearch/internal/domain/entity"
	"github.com/ovp-platform/ovpsearch/internal/events"
	"github.com/ovp-platform/ovpsearch/internal/repository/address"
	"github.com/ovp-platform/ovpsearch/internal/repository/taxonomy"
)

const columns = `u.id, u.name, u.email, u.slug, u.created_at,
	pr.user_id, COALESCE(pr.public, 0), COALESCE(pr.about, ''), pr.address_id`

const from = ` FROM users u LEFT JOIN profiles pr ON pr.user_id = u.id`

// Excludable lists the fields operators may filter out of user results.
var Excludable = sqlite.Columns{
	"id":   {Expr: "u.id", Type: sqlite.ColumnInt},
	"slug": {Expr: "u.slug", Type: sqlite.ColumnText},
}

// Repo manages users and profiles.
type Repo struct {
	db  *sql.DB
	pub events.Publisher
}

// New creates a user repository.
func New(db *sql.DB, pub events.Publisher) *Repo {
	return &Repo{db: db, pub: pub}
}

// Get returns a user with the profile and its causes, skills and address.
func (r *Repo) Get(ctx context.Context, id int64) (*entity.User, error) {
	list, err := r.query(ctx, `SELECT `+columns+from+` WHERE u.id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, domain.ErrNotFound
	}
	return list[0], nil
}

// Find returns the users among f.IDs whose profile is public. Organization
// lists do not apply to users.
func (r *Repo) Find(ctx context.Context, f domain.RecordFilter) ([]*entity.User, error) {
	if len(f.IDs) == 0 {
		return []*entity.User{}, nil
	}
	where := []string{"u.id IN " + sqlite.IDSet, "pr.public = 1"}
	args := []any{sqlite.IDArray(f.IDs)}

	clause, exArgs, err := Excludable.Exclude(f.Exclude)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidParameter, err)
	}
	if clause != "" {
		where = append(where, clause)
		args = append(args, exArgs...)
	}
	return r.query(ctx, `SELECT `+columns+from+` WHERE `+strings.Join(where, " AND "), args...)
}

// IDs returns every user id.
func (r *Repo) IDs(ctx context.Context) ([]int64, error) {
	return sqlite.QueryIDs(ctx, r.db, `SELECT id FROM users ORDER BY id`)
}

// IDsByAddress returns the users whose profile is located at an address.
func (r *Repo) IDsByAddress(ctx context.Context, addressID int64) ([]int64, error) {
	return sqlite.QueryIDs(ctx, r.db, `SELECT user_id FROM profiles WHERE address_id = ? ORDER BY user_id`, addressID)
}

// Save upserts the user and its profile row. A nil profile removes the
// stored one together with its causes and skills.
func (r *Repo) Save(ctx context.Context, u *entity.User) (*entity.User, error) {
	if u.Name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidParameter)
	}
	id := u.ID
	err := sqlite.InTx(ctx, r.db, func(tx *sql.Tx) error {
		createdAt, err := sqlite.CreatedAt(ctx, tx, "users", id, u.CreatedAt)
		if err != nil {
			return err
		}
		if id == 0 {
			res, err := tx.ExecContext(ctx, `INSERT INTO users (name, email, slug, created_at) VALUES (?, ?, ?, ?)`,
				u.Name, u.Email, u.Slug, createdAt)
			if err != nil {
				return fmt.Errorf("insert user: %w", err)
			}
			if id, err = res.LastInsertId(); err != nil {
				return err
			}
		} else {
			_, err := tx.ExecContext(ctx, `INSERT INTO users (id, name, email, slug, created_at) VALUES (?, ?, ?, ?, ?)
				ON CONFLICT(id) DO UPDATE SET name = excluded.name, email = excluded.email,
					slug = excluded.slug, created_at = excluded.created_at`,
				id, u.Name, u.Email, u.Slug, createdAt)
			if err != nil {
				return fmt.Errorf("upsert user %d: %w", id, err)
			}
		}

		if u.Profile == nil {
			_, err := tx.ExecContext(ctx, `DELETE FROM profiles WHERE user_id = ?`, id)
			return err
		}
		_, err = tx.ExecContext(ctx, `INSERT INTO profiles (user_id, public, about, address_id) VALUES (?, ?, ?, ?)
			ON CONFLICT(user_id) DO UPDATE SET public = excluded.public, about = excluded.about,
				address_id = excluded.address_id`,
			id, u.Profile.Public, u.Profile.About, u.Profile.AddressID)
		if err != nil {
			return fmt.Errorf("upsert profile %d: %w", id, err)
		}
		return nil
	})
	if sqlite.IsConstraint(err) {
		return nil, fmt.Errorf("%w: unknown address: %v", domain.ErrInvalidParameter, err)
	}
	if err != nil {
		return nil, err
	}
	if err := r.pub.Publish(ctx, events.Saved(events.EntityUser, id)); err != nil {
		return nil, fmt.Errorf("publish user %d: %w", id, err)
	}
	return r.Get(ctx, id)
}

// Delete removes a user and the profile.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return r.pub.Publish(ctx, events.Deleted(events.EntityUser, id))
}

// SetCauses replaces the causes of a user's profile.
func (r *Repo) SetCauses(ctx context.Context, id int64, causeIDs []int64) error {
	if err := r.mustHaveProfile(ctx, id); err != nil {
		return err
	}
	return taxonomy.SetTerms(ctx, r.db, r.pub, taxonomy.ProfileCauses, id, causeIDs)
}

// SetSkills replaces the skills of a user's profile.
func (r *Repo) SetSkills(ctx context.Context, id int64, skillIDs []int64) error {
	if err := r.mustHaveProfile(ctx, id); err != nil {
		return err
	}
	return taxonomy.SetTerms(ctx, r.db, r.pub, taxonomy.ProfileSkills, id, skillIDs)
}

func (r *Repo) mustHaveProfile(ctx context.Context, id int64) error {
	rows, err := r.db.QueryContext(ctx, `SELECT u.id, pr.user_id`+from+` WHERE u.id = ?`, id)
	if err != nil {
		return fmt.Errorf("lookup user %d: %w", id, err)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err
		}
		return domain.ErrNotFound
	}
	var uid int64
	var profile sql.NullInt64
	if err := rows.Scan(&uid, &profile); err != nil {
		return err
	}
	if !profile.Valid {
		return fmt.Errorf("%w: user %d has no profile", domain.ErrInvalidParameter, id)
	}
	return nil
}

func (r *Repo) query(ctx context.Context, query string, args ...any) ([]*entity.User, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	list := []*entity.User{}
	for rows.Next() {
		var (
			u                 entity.User
			createdAt         int64
			profileID, addrID sql.NullInt64
			public            bool
			about             string
		)
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Slug, &createdAt,
			&profileID, &public, &about, &addrID); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan user: %w", err)
		}
		u.CreatedAt = time.Unix(createdAt, 0).UTC()
		if profileID.Valid {
			u.Profile = &entity.Profile{Public: public, About: about, Causes: []entity.Cause{}, Skills: []entity.Skill{}}
			if addrID.Valid {
				v := addrID.Int64
				u.Profile.AddressID = &v
			}
		}
		list = append(list, &u)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, r.prefetch(ctx, list)
}

func (r *Repo) prefetch(ctx context.Context, list []*entity.User) error {
	var ids, addrIDs []int64
	for _, u := range list {
		if u.Profile == nil {
			continue
		}
		ids = append(ids, u.ID)
		if u.Profile.AddressID != nil {
			addrIDs = append(addrIDs, *u.Profile.AddressID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	causes, err := taxonomy.LoadCauses(ctx, r.db, taxonomy.ProfileCauses, ids)
	if err != nil {
		return err
	}
	skills, err := taxonomy.LoadSkills(ctx, r.db, taxonomy.ProfileSkills, ids)
	if err != nil {
		return err
	}
	addrs, err := address.Load(ctx, r.db, addrIDs)
	if err != nil {
		return err
	}
	for _, u := range list {
		if u.Profile == nil {
			continue
		}
		if c, ok := causes[u.ID]; ok {
			u.Profile.Causes = c
		}
		if s, ok := skills[u.ID]; ok {
			u.Profile.Skills = s
		}
		if u.Profile.AddressID != nil {
			u.Profile.Address = addrs[*u.Profile.AddressID]
		}
	}
	return nil
}
