package taxonomy

import (
	"context"
	"fmt"

	"github.com/ovp-platform/ovpsearch/internal/db/sqlite"
	"github.com/ovp-platform/ovpsearch/internal/events"
)

// Link describes a many-to-many join table between an owner and a cause or skill.
type Link struct {
	Table       string
	OwnerColumn string
	TermColumn  string
	TermTable   string
	Owner       events.Entity
	Relation    events.Relation
}

// Join tables.
var (
	ProjectCauses = Link{
		Table: "project_causes", OwnerColumn: "project_id", TermColumn: "cause_id", TermTable: "causes",
		Owner: events.EntityProject, Relation: events.RelationCauses,
	}
	ProjectSkills = Link{
		Table: "project_skills", OwnerColumn: "project_id", TermColumn: "skill_id", TermTable: "skills",
		Owner: events.EntityProject, Relation: events.RelationSkills,
	}
	OrganizationCauses = Link{
		Table: "organization_causes", OwnerColumn: "organization_id", TermColumn: "cause_id", TermTable: "causes",
		Owner: events.EntityOrganization, Relation: events.RelationCauses,
	}
	ProfileCauses = Link{
		Table: "profile_causes", OwnerColumn: "user_id", TermColumn: "cause_id", TermTable: "causes",
		Owner: events.EntityUser, Relation: events.RelationCauses,
	}
	ProfileSkills = Link{
		Table: "profile_skills", OwnerColumn: "user_id", TermColumn: "skill_id", TermTable: "skills",
		Owner: events.EntityUser, Relation: events.RelationSkills,
	}
)

var links = []Link{ProjectCauses, ProjectSkills, OrganizationCauses, ProfileCauses, ProfileSkills}

type term struct {
	id   int64
	name string
}

// load returns the terms linked to each owner, ordered by term id.
func (l Link) load(ctx context.Context, q sqlite.Querier, ownerIDs []int64) (map[int64][]term, error) {
	out := make(map[int64][]term, len(ownerIDs))
	if len(ownerIDs) == 0 {
		return out, nil
	}
	query := fmt.Sprintf(
		`SELECT l.%[1]s, t.id, t.name FROM %[2]s l JOIN %[3]s t ON t.id = l.%[4]s
		 WHERE l.%[1]s IN %[5]s ORDER BY l.%[1]s, t.id`,
		l.OwnerColumn, l.Table, l.TermTable, l.TermColumn, sqlite.IDSet)
	rows, err := q.QueryContext(ctx, query, sqlite.IDArray(ownerIDs))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", l.Table, err)
	}
	defer rows.Close()
	for rows.Next() {
		var owner int64
		var t term
		if err := rows.Scan(&owner, &t.id, &t.name); err != nil {
			return nil, fmt.Errorf("scan %s: %w", l.Table, err)
		}
		out[owner] = append(out[owner], t)
	}
	return out, rows.Err()
}

// Replace sets the linked terms of owner to exactly ids.
func (l Link) Replace(ctx context.Context, q sqlite.Querier, owner int64, ids []int64) error {
	del := fmt.Sprintf(`DELETE FROM %s WHERE %s = ?`, l.Table, l.OwnerColumn)
	if _, err := q.ExecContext(ctx, del, owner); err != nil {
		return fmt.Errorf("clear %s: %w", l.Table, err)
	}
	ins := fmt.Sprintf(`INSERT OR IGNORE INTO %s (%s, %s) VALUES (?, ?)`, l.Table, l.OwnerColumn, l.TermColumn)
	for _, id := range ids {
		if _, err := q.ExecContext(ctx, ins, owner, id); err != nil {
			return fmt.Errorf("link %s %d: %w", l.Table, id, err)
		}
	}
	return nil
}

// Owners returns the owners linked to a term.
func (l Link) Owners(ctx context.Context, q sqlite.Querier, termID int64) ([]int64, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = ? ORDER BY 1`, l.OwnerColumn, l.Table, l.TermColumn)
	ids, err := sqlite.QueryIDs(ctx, q, query, termID)
	if err != nil {
		return nil, fmt.Errorf("owners of %s: %w", l.Table, err)
	}
	return ids, nil
}
