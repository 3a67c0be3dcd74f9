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

const upsertTarget = `
INSERT INTO scheduled_target (channel_id, display_label) VALUES (?, ?)
ON CONFLICT (channel_id) DO UPDATE SET display_label = excluded.display_label
`

type UpsertTargetParams struct {
	ChannelID    string
	DisplayLabel string
}

func (q *Queries) UpsertTarget(ctx context.Context, arg UpsertTargetParams) error {
	_, err := q.db.ExecContext(ctx, upsertTarget, arg.ChannelID, arg.DisplayLabel)
	return err
}

const deleteTarget = `
DELETE FROM scheduled_target WHERE channel_id = ?
`

// DeleteTarget reports whether a row was actually removed.
func (q *Queries) DeleteTarget(ctx context.Context, channelID string) (bool, error) {
	res, err := q.db.ExecContext(ctx, deleteTarget, channelID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

const listTargets = `
SELECT channel_id, display_label FROM scheduled_target ORDER BY channel_id
`

type Target struct {
	ChannelID    string
	DisplayLabel string
}

func (q *Queries) ListTargets(ctx context.Context) ([]Target, error) {
	rows, err := q.db.QueryContext(ctx, listTargets)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var targets []Target
	for rows.Next() {
		var t Target
		err = rows.Scan(&t.ChannelID, &t.DisplayLabel)
		if err != nil {
			return nil, err
		}
		targets = append(targets, t)
	}
	return targets, rows.Err()
}
