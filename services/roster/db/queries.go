package db

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

const getRosterEntries = `
SELECT entries FROM roster WHERE scope = ?
`

// GetRosterEntries returns the serialized entries for a scope,
// sql.ErrNoRows when the scope has no roster yet.
func (q *Queries) GetRosterEntries(ctx context.Context, scope string) (string, error) {
	row := q.db.QueryRowContext(ctx, getRosterEntries, scope)
	var entries string
	err := row.Scan(&entries)
	return entries, err
}

const setRosterEntries = `
INSERT INTO roster (scope, entries) VALUES (?, ?)
ON CONFLICT (scope) DO UPDATE SET entries = excluded.entries
`

type SetRosterEntriesParams struct {
	Scope   string
	Entries string
}

func (q *Queries) SetRosterEntries(ctx context.Context, arg SetRosterEntriesParams) error {
	_, err := q.db.ExecContext(ctx, setRosterEntries, arg.Scope, arg.Entries)
	return err
}

const deleteRoster = `
DELETE FROM roster WHERE scope = ?
`

func (q *Queries) DeleteRoster(ctx context.Context, scope string) error {
	_, err := q.db.ExecContext(ctx, deleteRoster, scope)
	return err
}
