// Package events carries relational change notifications from repositories to
// the index synchronizer.
package events

import "fmt"

// Entity names the model a change happened on.
type Entity string

const (
	EntityProject      Entity = "project"
	EntityOrganization Entity = "organization"
	EntityAddress      Entity = "address"
	// EntityUser covers both the user row and its profile.
	EntityUser Entity = "user"
)

// Action describes the change.
type Action string

const (
	ActionSaved   Action = "saved"
	ActionDeleted Action = "deleted"
	// ActionAssociationChanged signals an added, removed or cleared
	// many-to-many link on the entity.
	ActionAssociationChanged Action = "association_changed"
)

// Relation names the association of an ActionAssociationChanged event.
type Relation string

const (
	RelationCauses Relation = "causes"
	RelationSkills Relation = "skills"
)

// Event is one change notification.
type Event struct {
	Entity   Entity
	Action   Action
	ID       int64
	Relation Relation
}

// Saved builds a save event.
func Saved(entity Entity, id int64) Event {
	return Event{Entity: entity, Action: ActionSaved, ID: id}
}

// Deleted builds a delete event.
func Deleted(entity Entity, id int64) Event {
	return Event{Entity: entity, Action: ActionDeleted, ID: id}
}

// AssociationChanged builds an m2m change event for the owning entity.
func AssociationChanged(entity Entity, id int64, rel Relation) Event {
	return Event{Entity: entity, Action: ActionAssociationChanged, ID: id, Relation: rel}
}

func (e Event) String() string {
	if e.Relation != "" {
		return fmt.Sprintf("%s:%d %s(%s)", e.Entity, e.ID, e.Action, e.Relation)
	}
	return fmt.Sprintf("%s:%d %s", e.Entity, e.ID, e.Action)
}
