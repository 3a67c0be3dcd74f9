// Package leaderboard orchestrates the fetch, filter and render steps
// behind every leaderboard post, manual or scheduled.
package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"hiddengems-bot/lib/render"
	"hiddengems-bot/lib/scrapers/hiddengems"
	"hiddengems-bot/services/roster"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/leaderboard")

type Mode int

const (
	ModeText Mode = iota
	ModeImage
)

// Fetcher yields the current leaderboard snapshot.
// *hiddengems.Client satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context) (hiddengems.Snapshot, error)
}

// Destination is the delivery boundary for one post. Implementations
// must deliver in call order and must not merge or reorder blocks.
type Destination interface {
	SendText(ctx context.Context, body string) error
	SendImage(ctx context.Context, filename string, png []byte) error
}

type Service struct {
	fetcher Fetcher
	roster  *roster.Store
	images  *render.ImageRenderer
}

func NewService(fetcher Fetcher, rosterStore *roster.Store, images *render.ImageRenderer) *Service {
	return &Service{
		fetcher: fetcher,
		roster:  rosterStore,
		images:  images,
	}
}

// Post fetches the current snapshot and delivers it to dest. An empty
// scope skips the tracked-bots section, which is what the scheduled
// daily post uses. A fetch failure is delivered as a readable message
// instead of an error, only delivery and storage failures propagate.
func (s *Service) Post(ctx context.Context, scope string, dest Destination, topX int, mode Mode) error {
	ctx, span := tracer.Start(ctx, "Post")
	defer span.End()
	span.SetAttributes(
		attribute.String("scope", scope),
		attribute.Int("top_x", topX),
	)

	snapshot, err := s.fetcher.Fetch(ctx)
	var fetchErr hiddengems.FetchError
	if errors.As(err, &fetchErr) {
		span.RecordError(err)
		slog.WarnContext(ctx, "leaderboard fetch failed", "err", err)
		return dest.SendText(ctx, "Das Leaderboard konnte nicht abgerufen werden. Bitte versuch es später noch einmal.")
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	err = dest.SendText(ctx, title(snapshot, topX))
	if err != nil {
		return err
	}
	err = s.deliver(ctx, dest, snapshot.Records, topX, mode)
	if err != nil {
		return err
	}

	if scope == "" {
		return nil
	}
	entries, err := s.roster.List(ctx, scope)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	tracked := roster.FilterTracked(snapshot.Records, entries)
	if len(tracked) == 0 {
		return nil
	}

	err = dest.SendText(ctx, "**Tracked Bots**")
	if err != nil {
		return err
	}
	// the tracked subset honors the same row limit as the main board
	return s.deliver(ctx, dest, tracked, topX, mode)
}

func title(snapshot hiddengems.Snapshot, topX int) string {
	var out string
	if snapshot.FetchedAt != nil {
		out = fmt.Sprintf("**Leaderboard vom %s**", hiddengems.FormatGermanDate(*snapshot.FetchedAt))
	} else {
		out = "**Aktuelles Leaderboard**"
	}
	if topX > 0 {
		out += fmt.Sprintf(" (Top %d)", topX)
	}
	return out
}

func (s *Service) deliver(ctx context.Context, dest Destination, records []hiddengems.Record, topX int, mode Mode) error {
	var blocks []render.OutputBlock
	var err error
	switch mode {
	case ModeImage:
		blocks, err = s.images.Render(records, topX)
		if err != nil {
			return err
		}
	default:
		blocks = render.RenderText(records, topX)
	}

	for i, block := range blocks {
		switch block.Kind {
		case render.KindImage:
			err = dest.SendImage(ctx, fmt.Sprintf("leaderboard-%d.png", i+1), block.Bytes)
		default:
			err = dest.SendText(ctx, block.Body)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
