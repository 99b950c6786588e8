package repository

import (
	"context"
	"database/sql"
	"time"
)

// DBTX is satisfied by *sql.DB and *sql.Tx so repos can run inside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Item is one selectable catalog entry.
type Item struct {
	ID        string
	Label     string
	Section   string
	SortOrder int
}

func (i *Item) String() string {
	if i == nil {
		return "<nil>"
	}
	return i.Label
}

// Preset is a named, ordered selection.
type Preset struct {
	ID        string
	Name      string
	UpdatedAt time.Time
}
