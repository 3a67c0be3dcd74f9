package leaderboard

import (
	"context"
	"log/slog"
	"time"

	"hiddengems-bot/lib/timezone"
	"hiddengems-bot/services/schedule"
)

// posting time of the automatic daily leaderboard
const (
	DailyHour   = 20
	DailyMinute = 2
)

// DestinationOpener binds a registered channel id to a concrete
// delivery boundary at post time.
type DestinationOpener func(channelID string) Destination

// Daemon posts the full leaderboard as images to every registered
// target once per day. One failing target never blocks the others.
type Daemon struct {
	service *Service
	targets *schedule.Store
	open    DestinationOpener
}

func NewDaemon(service *Service, targets *schedule.Store, open DestinationOpener) *Daemon {
	return &Daemon{
		service: service,
		targets: targets,
		open:    open,
	}
}

func (d *Daemon) Run(ctx context.Context) {
	for {
		next := timezone.NextOccurrence(timezone.Now(), DailyHour, DailyMinute, 0)
		slog.InfoContext(ctx, "next scheduled post", "at", next)

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		d.PostAll(ctx)
	}
}

// PostAll delivers the daily post to every registered target now.
func (d *Daemon) PostAll(ctx context.Context) {
	targets, err := d.targets.List(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "could not list scheduled targets", "err", err)
		return
	}

	for _, target := range targets {
		err := d.service.Post(ctx, "", d.open(target.ChannelID), 0, ModeImage)
		if err != nil {
			slog.ErrorContext(
				ctx, "scheduled post failed",
				"channel_id", target.ChannelID,
				"label", target.DisplayLabel,
				"err", err,
			)
		}
	}
}
