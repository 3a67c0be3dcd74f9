// Package schedule persists the set of channels that receive the
// automatic daily leaderboard post.
package schedule

import (
	"context"
	"database/sql"

	"hiddengems-bot/services/schedule/db"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/schedule")

type Target = db.Target

type Store struct {
	db  *sql.DB
	qry *db.Queries
}

func NewStore(database *sql.DB) *Store {
	return &Store{
		db:  database,
		qry: db.New(database),
	}
}

// Set registers a channel for daily posts. Re-registering an existing
// channel only refreshes its label.
func (s *Store) Set(ctx context.Context, channelID, displayLabel string) error {
	ctx, span := tracer.Start(ctx, "Set")
	defer span.End()
	span.SetAttributes(attribute.String("channel_id", channelID))

	err := s.qry.UpsertTarget(ctx, db.UpsertTargetParams{
		ChannelID:    channelID,
		DisplayLabel: displayLabel,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// Delete unregisters a channel and reports whether it was registered.
func (s *Store) Delete(ctx context.Context, channelID string) (bool, error) {
	ctx, span := tracer.Start(ctx, "Delete")
	defer span.End()
	span.SetAttributes(attribute.String("channel_id", channelID))

	existed, err := s.qry.DeleteTarget(ctx, channelID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}
	return existed, nil
}

func (s *Store) List(ctx context.Context) ([]Target, error) {
	ctx, span := tracer.Start(ctx, "List")
	defer span.End()

	targets, err := s.qry.ListTargets(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return targets, nil
}
