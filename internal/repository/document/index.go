package document

import (
	"github.com/ovp-platform/ovpsearch/internal/db"
	"github.com/ovp-platform/ovpsearch/internal/domain"
	domdoc "github.com/ovp-platform/ovpsearch/internal/domain/document"
)

// IndexDefinition returns the FT schema for one kind's documents.
//
// Layout (project):
//
//	name TEXT NOSTEM, text TEXT NOSTEM,
//	causes TAG, skills TAG, address_components TAG SEPARATOR | CASESENSITIVE,
//	published..can_be_done_remotely TAG, created_at NUMERIC
func IndexDefinition(keys domain.Keyspace, kind domain.Kind) *db.IndexDefinition {
	b := db.NewIndex(keys.IndexName(kind)).
		Prefix(keys.DocumentPrefix(kind)).
		NoStopwords().
		TextNoStem(domdoc.FieldName).
		TextNoStem(domdoc.FieldText).
		TagWithOpts(domdoc.FieldCauses, idSeparator, false)
	if hasSkills(kind) {
		b.TagWithOpts(domdoc.FieldSkills, idSeparator, false)
	}
	b.TagWithOpts(domdoc.FieldAddressComponents, AddressSeparator, true)
	for _, f := range domdoc.FlagFields(kind) {
		b.Tag(f)
	}
	return b.Numeric(domdoc.FieldCreatedAt).MustBuild()
}
