package domain

// RecordFilter restricts a relational lookup after the search index matched.
type RecordFilter struct {
	// IDs are the primary keys returned by the search index.
	IDs []int64
	// Organizations keeps only records tied to these organizations (empty = no restriction).
	Organizations []int64
	// NotOrganizations drops records tied to these organizations.
	NotOrganizations []int64
	// Exclude drops records matching every field=value pair (operator FILTER_OUT).
	Exclude map[string]string
}
