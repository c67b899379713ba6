package health

import "context"

// DBPinger checks search index availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// RelationalPinger checks relational store availability (*sql.DB satisfies it).
type RelationalPinger interface {
	PingContext(ctx context.Context) error
}
