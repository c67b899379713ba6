// Package organization stores organizations.
package organization

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

const columns = `o.id, o.name, o.slug, o.description, o.details, o.highlighted, o.published,
	o.deleted, o.created_at, o.address_id`

// Excludable lists the fields operators may filter out of organization results.
var Excludable = sqlite.Columns{
	"id":          {Expr: "o.id", Type: sqlite.ColumnInt},
	"slug":        {Expr: "o.slug", Type: sqlite.ColumnText},
	"highlighted": {Expr: "o.highlighted", Type: sqlite.ColumnBool},
	"published":   {Expr: "o.published", Type: sqlite.ColumnBool},
}

// Repo manages organizations.
type Repo struct {
	db  *sql.DB
	pub events.Publisher
}

// New creates an organization repository.
func New(db *sql.DB, pub events.Publisher) *Repo {
	return &Repo{db: db, pub: pub}
}

// Get returns an organization with causes and address.
func (r *Repo) Get(ctx context.Context, id int64) (*entity.Organization, error) {
	list, err := r.query(ctx, `SELECT `+columns+` FROM organizations o WHERE o.id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, domain.ErrNotFound
	}
	return list[0], nil
}

// Find returns the not deleted organizations among f.IDs. Organizations
// restricts and NotOrganizations drops by the organization id itself.
func (r *Repo) Find(ctx context.Context, f domain.RecordFilter) ([]*entity.Organization, error) {
	if len(f.IDs) == 0 {
		return []*entity.Organization{}, nil
	}
	where := []string{"o.id IN " + sqlite.IDSet, "o.deleted = 0"}
	args := []any{sqlite.IDArray(f.IDs)}

	if len(f.Organizations) > 0 {
		where = append(where, "o.id IN "+sqlite.IDSet)
		args = append(args, sqlite.IDArray(f.Organizations))
	}
	if len(f.NotOrganizations) > 0 {
		where = append(where, "o.id NOT IN "+sqlite.IDSet)
		args = append(args, sqlite.IDArray(f.NotOrganizations))
	}
	clause, exArgs, err := Excludable.Exclude(f.Exclude)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidParameter, err)
	}
	if clause != "" {
		where = append(where, clause)
		args = append(args, exArgs...)
	}

	return r.query(ctx, `SELECT `+columns+` FROM organizations o WHERE `+strings.Join(where, " AND "), args...)
}

// IDs returns every organization id.
func (r *Repo) IDs(ctx context.Context) ([]int64, error) {
	return sqlite.QueryIDs(ctx, r.db, `SELECT id FROM organizations ORDER BY id`)
}

// IDsByAddress returns the organizations located at an address.
func (r *Repo) IDsByAddress(ctx context.Context, addressID int64) ([]int64, error) {
	return sqlite.QueryIDs(ctx, r.db, `SELECT id FROM organizations WHERE address_id = ? ORDER BY id`, addressID)
}

// Save inserts or updates the organization row and publishes a save event.
func (r *Repo) Save(ctx context.Context, o *entity.Organization) (*entity.Organization, error) {
	if o.Name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidParameter)
	}
	createdAt, err := sqlite.CreatedAt(ctx, r.db, "organizations", o.ID, o.CreatedAt)
	if err != nil {
		return nil, err
	}
	args := []any{o.Name, o.Slug, o.Description, o.Details, o.Highlighted, o.Published, o.Deleted,
		createdAt, o.AddressID}
	var id int64
	if o.ID == 0 {
		res, err := r.db.ExecContext(ctx, `INSERT INTO organizations (name, slug, description, details,
			highlighted, published, deleted, created_at, address_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...)
		if err != nil {
			return nil, saveErr(err)
		}
		if id, err = res.LastInsertId(); err != nil {
			return nil, err
		}
	} else {
		id = o.ID
		_, err := r.db.ExecContext(ctx, `INSERT INTO organizations (id, name, slug, description, details,
			highlighted, published, deleted, created_at, address_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET name = excluded.name, slug = excluded.slug,
				description = excluded.description, details = excluded.details,
				highlighted = excluded.highlighted, published = excluded.published,
				deleted = excluded.deleted, created_at = excluded.created_at,
				address_id = excluded.address_id`, append([]any{id}, args...)...)
		if err != nil {
			return nil, saveErr(err)
		}
	}
	if err := r.pub.Publish(ctx, events.Saved(events.EntityOrganization, id)); err != nil {
		return nil, fmt.Errorf("publish organization %d: %w", id, err)
	}
	return r.Get(ctx, id)
}

func saveErr(err error) error {
	if sqlite.IsConstraint(err) {
		return fmt.Errorf("%w: unknown address: %v", domain.ErrInvalidParameter, err)
	}
	return fmt.Errorf("save organization: %w", err)
}

// Delete removes an organization. Its projects keep existing with no
// organization, so each of them is announced as saved.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	var changed []events.Event
	err := sqlite.InTx(ctx, r.db, func(tx *sql.Tx) error {
		projects, err := sqlite.QueryIDs(ctx, tx, `SELECT id FROM projects WHERE organization_id = ? ORDER BY id`, id)
		if err != nil {
			return fmt.Errorf("organization projects: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM organizations WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete organization %d: %w", id, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return domain.ErrNotFound
		}
		for _, pid := range projects {
			changed = append(changed, events.Saved(events.EntityProject, pid))
		}
		return nil
	})
	if err != nil {
		return err
	}
	changed = append([]events.Event{events.Deleted(events.EntityOrganization, id)}, changed...)
	return events.PublishAll(ctx, r.pub, changed)
}

// SetCauses replaces the causes of an organization.
func (r *Repo) SetCauses(ctx context.Context, id int64, causeIDs []int64) error {
	ids, err := sqlite.QueryIDs(ctx, r.db, `SELECT id FROM organizations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("lookup organization %d: %w", id, err)
	}
	if len(ids) == 0 {
		return domain.ErrNotFound
	}
	return taxonomy.SetTerms(ctx, r.db, r.pub, taxonomy.OrganizationCauses, id, causeIDs)
}

func (r *Repo) query(ctx context.Context, query string, args ...any) ([]*entity.Organization, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query organizations: %w", err)
	}
	list := []*entity.Organization{}
	for rows.Next() {
		var (
			o         entity.Organization
			createdAt int64
			addrID    sql.NullInt64
		)
		if err := rows.Scan(&o.ID, &o.Name, &o.Slug, &o.Description, &o.Details, &o.Highlighted,
			&o.Published, &o.Deleted, &createdAt, &addrID); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan organization: %w", err)
		}
		o.CreatedAt = time.Unix(createdAt, 0).UTC()
		if addrID.Valid {
			v := addrID.Int64
			o.AddressID = &v
		}
		o.Causes = []entity.Cause{}
		list = append(list, &o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return list, nil
	}

	ids := make([]int64, len(list))
	var addrIDs []int64
	for i, o := range list {
		ids[i] = o.ID
		if o.AddressID != nil {
			addrIDs = append(addrIDs, *o.AddressID)
		}
	}
	causes, err := taxonomy.LoadCauses(ctx, r.db, taxonomy.OrganizationCauses, ids)
	if err != nil {
		return nil, err
	}
	addrs, err := address.Load(ctx, r.db, addrIDs)
	if err != nil {
		return nil, err
	}
	for _, o := range list {
		if c, ok := causes[o.ID]; ok {
			o.Causes = c
		}
		if o.AddressID != nil {
			o.Address = addrs[*o.AddressID]
		}
	}
	return list, nil
}
