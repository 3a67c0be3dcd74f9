package roster

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"hiddengems-bot/lib/scrapers/hiddengems"
	"hiddengems-bot/lib/telemetry"
	"hiddengems-bot/services/roster/db"

	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setup(t testing.TB) *Store {
	cleanup := telemetry.SetupForTesting(t, "test:services/roster")
	t.Cleanup(cleanup)

	sqlite, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { sqlite.Close() })
	_, err = sqlite.Exec(db.Schema)
	if err != nil {
		t.Fatal(err)
	}

	return NewStore(sqlite)
}

func testSnapshot() hiddengems.Snapshot {
	return hiddengems.Snapshot{
		Records: []hiddengems.Record{
			{Rank: "1", Name: "Alpha", Owner: "A1", Marker: "⭐"},
			{Rank: "2", Name: "Beta", Owner: "B1"},
			{Rank: "3", Name: "Alpha", Owner: "A2"},
			{Rank: "4", Name: "Gamma", Owner: "G1"},
		},
	}
}

func testCtx(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	t.Cleanup(cancel)
	return ctx
}

func TestAddDisambiguation(t *testing.T) {
	store := setup(t)
	ctx := testCtx(t)

	report, err := store.Add(ctx, "guild", "Alpha", testSnapshot())
	require.NoError(t, err)
	require.Empty(t, report.Added)
	require.Len(t, report.NeedsChoice, 1)
	require.Len(t, report.NeedsChoice[0].Candidates, 2)

	// nothing was persisted for the ambiguous spec
	entries, err := store.List(ctx, "guild")
	require.NoError(t, err)
	require.Empty(t, entries)

	report, err = store.Add(ctx, "guild", "Alpha 2", testSnapshot())
	require.NoError(t, err)
	require.Len(t, report.Added, 1)
	require.Equal(t, "A2", report.Added[0].Owner)
}

func TestAddIndexClamping(t *testing.T) {
	store := setup(t)
	ctx := testCtx(t)

	// out-of-range index clamps to the last candidate
	report, err := store.Add(ctx, "guild", "alpha 99", testSnapshot())
	require.NoError(t, err)
	require.Len(t, report.Added, 1)
	require.Equal(t, "A2", report.Added[0].Owner)

	// an index on a single match is ignored
	report, err = store.Add(ctx, "guild", "Beta 7", testSnapshot())
	require.NoError(t, err)
	require.Len(t, report.Added, 1)
	require.Equal(t, "B1", report.Added[0].Owner)
}

func TestAddDedupe(t *testing.T) {
	store := setup(t)
	ctx := testCtx(t)

	report, err := store.Add(ctx, "guild", "Beta", testSnapshot())
	require.NoError(t, err)
	require.Len(t, report.Added, 1)

	report, err = store.Add(ctx, "guild", "Beta", testSnapshot())
	require.NoError(t, err)
	require.Empty(t, report.Added)
	require.Len(t, report.AlreadyTracked, 1)

	entries, err := store.List(ctx, "guild")
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestAddNotFound(t *testing.T) {
	store := setup(t)
	ctx := testCtx(t)

	report, err := store.Add(ctx, "guild", "Betta", testSnapshot())
	require.NoError(t, err)
	require.Empty(t, report.Added)
	require.Len(t, report.NotFound, 1)
	require.Contains(t, report.NotFound[0].Suggestions, "Beta")
}

func TestAddPartialBatch(t *testing.T) {
	store := setup(t)
	ctx := testCtx(t)

	report, err := store.Add(ctx, "guild", "Beta, Nope, Alpha, Gamma", testSnapshot())
	require.NoError(t, err)
	require.Len(t, report.Added, 2)
	require.Len(t, report.NotFound, 1)
	require.Len(t, report.NeedsChoice, 1)

	entries, err := store.List(ctx, "guild")
	require.NoError(t, err)
	require.Len(t, entries, 2)
}

func TestAddCapacity(t *testing.T) {
	store := setup(t)
	ctx := testCtx(t)

	var records []hiddengems.Record
	for i := 0; i < Capacity+5; i++ {
		records = append(records, hiddengems.Record{
			Name:  fmt.Sprintf("Bot%d", i),
			Owner: "Team",
		})
	}
	snapshot := hiddengems.Snapshot{Records: records}

	for i := 0; i < Capacity; i++ {
		report, err := store.Add(ctx, "guild", fmt.Sprintf("Bot%d", i), snapshot)
		require.NoError(t, err)
		require.Len(t, report.Added, 1)
	}

	report, err := store.Add(ctx, "guild", "Bot25, Bot26", snapshot)
	require.NoError(t, err)
	require.Empty(t, report.Added)
	require.Equal(t, []string{"Bot25", "Bot26"}, report.LimitReached)

	entries, err := store.List(ctx, "guild")
	require.NoError(t, err)
	require.Len(t, entries, Capacity)
}

func TestScopeIsolation(t *testing.T) {
	store := setup(t)
	ctx := testCtx(t)

	_, err := store.Add(ctx, "guild-a", "Beta", testSnapshot())
	require.NoError(t, err)

	entries, err := store.List(ctx, "guild-b")
	require.NoError(t, err)
	require.Empty(t, entries)
}

func fillRoster(t *testing.T, store *Store, ctx context.Context, n int) {
	var records []hiddengems.Record
	specs := ""
	for i := 1; i <= n; i++ {
		records = append(records, hiddengems.Record{
			Name:  fmt.Sprintf("Bot%d", i),
			Owner: "Team",
		})
		if i > 1 {
			specs += ", "
		}
		specs += fmt.Sprintf("Bot%d", i)
	}
	report, err := store.Add(ctx, "guild", specs, hiddengems.Snapshot{Records: records})
	require.NoError(t, err)
	require.Len(t, report.Added, n)
}

func TestRemoveRange(t *testing.T) {
	store := setup(t)
	ctx := testCtx(t)
	fillRoster(t, store, ctx, 5)

	report, err := store.Remove(ctx, "guild", "2-4")
	require.NoError(t, err)
	require.Empty(t, report.Invalid)
	require.Len(t, report.Removed, 3)
	require.Equal(t, 2, report.Removed[0].Index)
	require.Equal(t, "Bot2", report.Removed[0].Entity.Name)
	require.Equal(t, 4, report.Removed[2].Index)

	entries, err := store.List(ctx, "guild")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "Bot1", entries[0].Name)
	require.Equal(t, "Bot5", entries[1].Name)
}

func TestRemoveInvalidTokens(t *testing.T) {
	store := setup(t)
	ctx := testCtx(t)
	fillRoster(t, store, ctx, 3)

	// "0" is out of the 1-based range and must remove nothing
	report, err := store.Remove(ctx, "guild", "0")
	require.NoError(t, err)
	require.Empty(t, report.Removed)
	require.Equal(t, []string{"0"}, report.Invalid)

	report, err = store.Remove(ctx, "guild", "x, 9, 2..9, 2")
	require.NoError(t, err)
	require.Equal(t, []string{"x", "9", "2..9"}, report.Invalid)
	require.Len(t, report.Removed, 1)
	require.Equal(t, "Bot2", report.Removed[0].Entity.Name)

	entries, err := store.List(ctx, "guild")
	require.NoError(t, err)
	require.Len(t, entries, 2)
}

func TestRemoveOverlappingTokens(t *testing.T) {
	store := setup(t)
	ctx := testCtx(t)
	fillRoster(t, store, ctx, 5)

	// overlapping selections are deduplicated
	report, err := store.Remove(ctx, "guild", "1-3, 2..4, 3")
	require.NoError(t, err)
	require.Len(t, report.Removed, 4)

	entries, err := store.List(ctx, "guild")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "Bot5", entries[0].Name)
}

func TestFilterTracked(t *testing.T) {
	snapshot := testSnapshot()

	// an empty roster filters to nothing, not everything
	require.Empty(t, FilterTracked(snapshot.Records, nil))

	entries := []TrackedEntity{
		{Name: "Alpha", Owner: "A2"},
		{Name: "Gamma", Owner: "G1"},
	}
	filtered := FilterTracked(snapshot.Records, entries)
	require.Len(t, filtered, 2)
	// snapshot order wins over roster order
	require.Equal(t, "A2", filtered[0].Owner)
	require.Equal(t, "Gamma", filtered[1].Name)

	// owner must match too, Alpha/A1 stays out
	require.NotContains(t, filtered, snapshot.Records[0])
}
