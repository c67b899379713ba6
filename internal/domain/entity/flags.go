package entity

// Boolean facets stored on search documents.
const (
	FlagPublished         = "published"
	FlagHighlighted       = "highlighted"
	FlagDeleted           = "deleted"
	FlagClosed            = "closed"
	FlagCanBeDoneRemotely = "can_be_done_remotely"
)
