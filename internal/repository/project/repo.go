// Package project stores projects and resolves search hits back to records.
package project

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

const columns = `p.id, p.name, p.slug, p.description, p.details, p.highlighted, p.published,
	p.deleted, p.closed, p.can_be_done_remotely, p.created_at, p.organization_id, p.owner_id, p.address_id`

// Excludable lists the fields operators may filter out of project results.
var Excludable = sqlite.Columns{
	"id":                   {Expr: "p.id", Type: sqlite.ColumnInt},
	"slug":                 {Expr: "p.slug", Type: sqlite.ColumnText},
	"highlighted":          {Expr: "p.highlighted", Type: sqlite.ColumnBool},
	"published":            {Expr: "p.published", Type: sqlite.ColumnBool},
	"can_be_done_remotely": {Expr: "p.can_be_done_remotely", Type: sqlite.ColumnBool},
	"organization":         {Expr: "p.organization_id", Type: sqlite.ColumnInt},
	"owner":                {Expr: "p.owner_id", Type: sqlite.ColumnInt},
}

// Repo manages projects.
type Repo struct {
	db  *sql.DB
	pub events.Publisher
}

// New creates a project repository.
func New(db *sql.DB, pub events.Publisher) *Repo {
	return &Repo{db: db, pub: pub}
}

// Get returns a project with causes, skills and address, whatever its state.
func (r *Repo) Get(ctx context.Context, id int64) (*entity.Project, error) {
	list, err := r.query(ctx, `SELECT `+columns+` FROM projects p WHERE p.id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, domain.ErrNotFound
	}
	return list[0], nil
}

// Find returns the open, not deleted projects among f.IDs, narrowed by the
// organization lists and the exclusion map. Order is unspecified.
func (r *Repo) Find(ctx context.Context, f domain.RecordFilter) ([]*entity.Project, error) {
	if len(f.IDs) == 0 {
		return []*entity.Project{}, nil
	}
	where := []string{"p.id IN " + sqlite.IDSet, "p.deleted = 0", "p.closed = 0"}
	args := []any{sqlite.IDArray(f.IDs)}

	if len(f.Organizations) > 0 {
		where = append(where, "p.organization_id IN "+sqlite.IDSet)
		args = append(args, sqlite.IDArray(f.Organizations))
	}
	if len(f.NotOrganizations) > 0 {
		where = append(where, "(p.organization_id IS NULL OR p.organization_id NOT IN "+sqlite.IDSet+")")
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

	return r.query(ctx, `SELECT `+columns+` FROM projects p WHERE `+strings.Join(where, " AND "), args...)
}

// IDs returns every project id, for full rebuilds.
func (r *Repo) IDs(ctx context.Context) ([]int64, error) {
	return sqlite.QueryIDs(ctx, r.db, `SELECT id FROM projects ORDER BY id`)
}

// IDsByAddress returns the projects located at an address.
func (r *Repo) IDsByAddress(ctx context.Context, addressID int64) ([]int64, error) {
	return sqlite.QueryIDs(ctx, r.db, `SELECT id FROM projects WHERE address_id = ? ORDER BY id`, addressID)
}

// Save inserts or updates the project row (not its causes or skills) and
// publishes a save event.
func (r *Repo) Save(ctx context.Context, p *entity.Project) (*entity.Project, error) {
	if p.Name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidParameter)
	}
	createdAt, err := sqlite.CreatedAt(ctx, r.db, "projects", p.ID, p.CreatedAt)
	if err != nil {
		return nil, err
	}
	args := []any{
		p.Name, p.Slug, p.Description, p.Details, p.Highlighted, p.Published, p.Deleted, p.Closed,
		p.CanBeDoneRemotely, createdAt, p.OrganizationID, p.OwnerID, p.AddressID,
	}
	var id int64
	if p.ID == 0 {
		res, err := r.db.ExecContext(ctx, `INSERT INTO projects (name, slug, description, details, highlighted,
			published, deleted, closed, can_be_done_remotely, created_at, organization_id, owner_id, address_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...)
		if err != nil {
			return nil, saveErr(err)
		}
		if id, err = res.LastInsertId(); err != nil {
			return nil, err
		}
	} else {
		id = p.ID
		_, err := r.db.ExecContext(ctx, `INSERT INTO projects (id, name, slug, description, details, highlighted,
			published, deleted, closed, can_be_done_remotely, created_at, organization_id, owner_id, address_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET name = excluded.name, slug = excluded.slug,
				description = excluded.description, details = excluded.details,
				highlighted = excluded.highlighted, published = excluded.published,
				deleted = excluded.deleted, closed = excluded.closed,
				can_be_done_remotely = excluded.can_be_done_remotely, created_at = excluded.created_at,
				organization_id = excluded.organization_id, owner_id = excluded.owner_id,
				address_id = excluded.address_id`, append([]any{id}, args...)...)
		if err != nil {
			return nil, saveErr(err)
		}
	}
	if err := r.pub.Publish(ctx, events.Saved(events.EntityProject, id)); err != nil {
		return nil, fmt.Errorf("publish project %d: %w", id, err)
	}
	return r.Get(ctx, id)
}

func saveErr(err error) error {
	if sqlite.IsConstraint(err) {
		return fmt.Errorf("%w: unknown organization, owner or address: %v", domain.ErrInvalidParameter, err)
	}
	return fmt.Errorf("save project: %w", err)
}

// Delete removes a project and publishes a delete event.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete project %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return r.pub.Publish(ctx, events.Deleted(events.EntityProject, id))
}

// SetCauses replaces the causes of a project.
func (r *Repo) SetCauses(ctx context.Context, id int64, causeIDs []int64) error {
	if err := r.mustExist(ctx, id); err != nil {
		return err
	}
	return taxonomy.SetTerms(ctx, r.db, r.pub, taxonomy.ProjectCauses, id, causeIDs)
}

// SetSkills replaces the skills of a project.
func (r *Repo) SetSkills(ctx context.Context, id int64, skillIDs []int64) error {
	if err := r.mustExist(ctx, id); err != nil {
		return err
	}
	return taxonomy.SetTerms(ctx, r.db, r.pub, taxonomy.ProjectSkills, id, skillIDs)
}

func (r *Repo) mustExist(ctx context.Context, id int64) error {
	ids, err := sqlite.QueryIDs(ctx, r.db, `SELECT id FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("lookup project %d: %w", id, err)
	}
	if len(ids) == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// query scans projects and then prefetches their relations. Rows are fully
// drained before the prefetch queries run.
func (r *Repo) query(ctx context.Context, query string, args ...any) ([]*entity.Project, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	list := []*entity.Project{}
	for rows.Next() {
		p, err := scan(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		list = append(list, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.prefetch(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func scan(rows *sql.Rows) (*entity.Project, error) {
	var (
		p                    entity.Project
		createdAt            int64
		orgID, owner, addrID sql.NullInt64
	)
	if err := rows.Scan(&p.ID, &p.Name, &p.Slug, &p.Description, &p.Details, &p.Highlighted,
		&p.Published, &p.Deleted, &p.Closed, &p.CanBeDoneRemotely, &createdAt,
		&orgID, &owner, &addrID); err != nil {
		return nil, fmt.Errorf("scan project: %w", err)
	}
	p.CreatedAt = time.Unix(createdAt, 0).UTC()
	p.OrganizationID = nullable(orgID)
	p.OwnerID = nullable(owner)
	p.AddressID = nullable(addrID)
	p.Causes = []entity.Cause{}
	p.Skills = []entity.Skill{}
	return &p, nil
}

func (r *Repo) prefetch(ctx context.Context, list []*entity.Project) error {
	if len(list) == 0 {
		return nil
	}
	ids := make([]int64, len(list))
	var addrIDs []int64
	for i, p := range list {
		ids[i] = p.ID
		if p.AddressID != nil {
			addrIDs = append(addrIDs, *p.AddressID)
		}
	}

	causes, err := taxonomy.LoadCauses(ctx, r.db, taxonomy.ProjectCauses, ids)
	if err != nil {
		return err
	}
	skills, err := taxonomy.LoadSkills(ctx, r.db, taxonomy.ProjectSkills, ids)
	if err != nil {
		return err
	}
	addrs, err := address.Load(ctx, r.db, addrIDs)
	if err != nil {
		return err
	}
	for _, p := range list {
		if c, ok := causes[p.ID]; ok {
			p.Causes = c
		}
		if s, ok := skills[p.ID]; ok {
			p.Skills = s
		}
		if p.AddressID != nil {
			p.Address = addrs[*p.AddressID]
		}
	}
	return nil
}

func nullable(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}
