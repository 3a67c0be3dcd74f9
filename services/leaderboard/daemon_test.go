package leaderboard

import (
	"database/sql"
	"testing"

	"hiddengems-bot/services/schedule"
	scheduledb "hiddengems-bot/services/schedule/db"

	"github.com/stretchr/testify/require"
)

func TestDaemonPostAll(t *testing.T) {
	service, _ := setup(t, fakeFetcher{snapshot: testSnapshot()})
	ctx := testCtx(t)

	sqlite, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })
	_, err = sqlite.Exec(scheduledb.Schema)
	require.NoError(t, err)

	targets := schedule.NewStore(sqlite)
	require.NoError(t, targets.Set(ctx, "chan-1", "#eins"))
	require.NoError(t, targets.Set(ctx, "chan-2", "#zwei"))

	dests := map[string]*recordingDest{}
	daemon := NewDaemon(service, targets, func(channelID string) Destination {
		dest := &recordingDest{}
		dests[channelID] = dest
		return dest
	})

	daemon.PostAll(ctx)

	require.Len(t, dests, 2)
	for _, dest := range dests {
		// title plus one image page, no tracked section
		require.Len(t, dest.sent, 2)
		require.NotEmpty(t, dest.sent[1].filename)
	}
}
