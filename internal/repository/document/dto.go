package document

import (
	"strconv"
	"strings"

	"github.com/ovp-platform/ovpsearch/internal/domain"
	domdoc "github.com/ovp-platform/ovpsearch/internal/domain/document"
)

const idSeparator = ","

// AddressSeparator joins address component tags in the stored hash; place
// names may contain commas.
const AddressSeparator = "|"

// buildHashFields converts a Document into a flat map for HSET. Every field
// is always written so a reindex fully replaces the previous projection.
func buildHashFields(doc domdoc.Document) map[string]string {
	m := map[string]string{
		domdoc.FieldName:              doc.Name(),
		domdoc.FieldText:              doc.Text(),
		domdoc.FieldAddressComponents: strings.Join(doc.AddressComponents(), AddressSeparator),
		domdoc.FieldCauses:            joinIDs(doc.Causes()),
		domdoc.FieldCreatedAt:         strconv.FormatInt(doc.CreatedAt(), 10),
	}
	if hasSkills(doc.Kind()) {
		m[domdoc.FieldSkills] = joinIDs(doc.Skills())
	}
	for _, f := range domdoc.FlagFields(doc.Kind()) {
		m[f] = strconv.FormatBool(doc.Flag(f))
	}
	return m
}

// parseHashFields converts a stored hash back into a Document.
func parseHashFields(kind domain.Kind, id int64, m map[string]string) domdoc.Document {
	var flags map[string]bool
	if names := domdoc.FlagFields(kind); len(names) > 0 {
		flags = make(map[string]bool, len(names))
		for _, f := range names {
			flags[f] = m[f] == "true"
		}
	}
	createdAt, _ := strconv.ParseInt(m[domdoc.FieldCreatedAt], 10, 64)
	return domdoc.Reconstruct(
		kind, id, m[domdoc.FieldName], m[domdoc.FieldText],
		splitIDs(m[domdoc.FieldCauses]), splitIDs(m[domdoc.FieldSkills]),
		splitNonEmpty(m[domdoc.FieldAddressComponents], AddressSeparator),
		flags, createdAt,
	)
}

// Organizations carry no skills.
func hasSkills(kind domain.Kind) bool { return kind != domain.KindOrganization }

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, idSeparator)
}

func splitIDs(s string) []int64 {
	var out []int64
	for _, p := range splitNonEmpty(s, idSeparator) {
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			continue
		}
		out = append(out, id)
	}
	return out
}

func splitNonEmpty(s, sep string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, sep) {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
